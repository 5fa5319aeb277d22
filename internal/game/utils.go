// internal/game/utils.go
package game

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// EncodeEvent marshals a RoomEvent into JSON bytes.
// Logs a warning and returns "{}" on marshalling error.
func EncodeEvent(ev RoomEvent) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).WithField("type", ev.Type).Warn("failed to marshal room event")
		return []byte("{}")
	}
	return data
}
