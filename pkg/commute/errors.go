package commute

import "fmt"

type UnroutableKind string

const (
	LocationUnresolvable UnroutableKind = "LocationUnresolvable"
	RouteUnavailable     UnroutableKind = "RouteUnavailable"
	UpstreamFailure      UnroutableKind = "UpstreamFailure"
)

const (
	messageUnresolvableLocation = "Unable to calculate commute due to starting location"
	messageCommuteError         = "Error occurred working out commute"
)

// UnroutableError is returned when no journey could be put together. It is a
// normal outcome for callers and is shown to users in place of a route.
type UnroutableError struct {
	Kind   UnroutableKind
	Reason string

	Err error
}

func (e *UnroutableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *UnroutableError) Unwrap() error {
	return e.Err
}

func unresolvableLocation() error {
	return &UnroutableError{Kind: LocationUnresolvable, Reason: messageUnresolvableLocation}
}

func bothRoutesDisrupted(line string) error {
	return &UnroutableError{
		Kind:   RouteUnavailable,
		Reason: fmt.Sprintf("There are disruptions on both the trains and %s line", line),
	}
}

func commuteError(err error) error {
	return &UnroutableError{Kind: UpstreamFailure, Reason: messageCommuteError, Err: err}
}
