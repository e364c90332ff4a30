package util

import (
	"os"
	"strings"
	"time"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// GetEnvironmentDuration reads a Go duration string such as "10s", returning
// fallback when the variable is unset or unparsable.
func GetEnvironmentDuration(name string, fallback time.Duration) time.Duration {
	value := GetEnvironmentVariables()[name]
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return parsed
}
