package elastic_client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/ctdf"
)

func CommuteStatusIndexName(record ctdf.CommuteStatusRecord) string {
	return fmt.Sprintf("commute-status-%d-%02d", record.Timestamp.Year(), record.Timestamp.Month())
}

// IndexCommuteStatus records a scheduled poll result. It does nothing when
// Elasticsearch has not been configured.
func IndexCommuteStatus(record ctdf.CommuteStatusRecord) {
	if Client == nil {
		return
	}

	document, err := json.Marshal(record)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode commute status")
		return
	}

	IndexRequest(CommuteStatusIndexName(record), bytes.NewReader(document))
}
