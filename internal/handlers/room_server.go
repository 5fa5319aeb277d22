// internal/handlers/room_server.go
package handlers

import (
	"context"
	"time"

	"github.com/president-online/president/internal/database"
	"github.com/president-online/president/internal/game"
	"github.com/president-online/president/internal/metrics"
	"github.com/sirupsen/logrus"
)

// RoomServer holds the room registry and wires every new room to the hub, metrics and
// round persistence.
type RoomServer struct {
	Registry *game.Registry
	Hub      *Hub
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger

	// Origins are the websocket origin patterns accepted; empty accepts any.
	Origins []string
}

func NewRoomServer(logger *logrus.Logger, m *metrics.Metrics) *RoomServer {
	s := &RoomServer{
		Registry: game.NewRegistry(nil),
		Hub:      NewHub(logger),
		Metrics:  m,
		Logger:   logger,
	}
	s.Registry.OnCreate = s.wireRoom
	if m != nil {
		s.Hub.OnCountChange = func(n int) { m.ConnectedPlayers.Set(float64(n)) }
	}
	return s
}

func (s *RoomServer) wireRoom(r *game.Room) {
	r.BroadcastFn = s.Hub.BroadcastFunc(r.ID)
	r.BroadcastToPlayerFn = s.Hub.SendFunc(r.ID)
	r.OnRoundEnd = func(result game.RoundResult) {
		// Called under the room lock, so the room's fields are stable here.
		info := database.RoomInfo{ID: r.ID, Name: r.Name, JoinCode: r.JoinCode, Size: r.NumberOfPlayers}
		if s.Metrics != nil {
			s.Metrics.RoundsCompleted.Inc()
		}
		if database.DB == nil {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.RecordRoundResults(ctx, info, result.RoundIndex, result.Standings); err != nil {
				s.Logger.WithError(err).WithField("room", info.ID).Error("failed to record round results")
			}
		}()
	}
}

// refreshRoomGauge publishes the current number of live rooms.
func (s *RoomServer) refreshRoomGauge() {
	if s.Metrics != nil {
		s.Metrics.ActiveRooms.Set(float64(s.Registry.Count()))
	}
}

func (s *RoomServer) observeRejection(err error) {
	if s.Metrics != nil {
		s.Metrics.ObserveRejection(string(game.CodeOf(err)))
	}
}
