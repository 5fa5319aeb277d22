// internal/handlers/room_http.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/president-online/president/internal/auth"
	"github.com/president-online/president/internal/game"
)

// CreateRoomRequest is the body of POST /room/create.
type CreateRoomRequest struct {
	NumberOfPlayers int    `json:"numberOfPlayers"`
	Room            string `json:"room"`
	Name            string `json:"name"`
}

// JoinRoomRequest is the body of POST /room/join.
type JoinRoomRequest struct {
	Code string `json:"shareableRoomCode"`
	Name string `json:"name"`
}

// SeatResponse answers a create or join with the caller's seat and session token.
type SeatResponse struct {
	Type   game.RoomEventType `json:"type"`
	Room   *game.ClientRoom   `json:"room"`
	Player *game.ClientPlayer `json:"player"`
	Token  string             `json:"token"`
}

// CreateRoomHandler creates a room, seats the caller as host and issues their session.
func (s *RoomServer) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad create room payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	room, ref, err := s.Registry.CreateRoom(req.NumberOfPlayers, req.Room, req.Name)
	if err != nil {
		s.observeRejection(err)
		writeError(w, err)
		return
	}
	s.refreshRoomGauge()
	s.Logger.WithField("room", room.ID).WithField("player", ref.ID).Info("room created over http")
	s.seat(w, game.EventCreatedRoom, room, ref.ID)
}

// JoinRoomHandler seats the caller in the room named by its join code.
func (s *RoomServer) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad join room payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Name == "" || req.Code == "" {
		http.Error(w, "name and shareableRoomCode are required", http.StatusBadRequest)
		return
	}

	room, ref, err := s.Registry.JoinRoom(req.Code, req.Name)
	if err != nil {
		s.observeRejection(err)
		writeError(w, err)
		return
	}
	s.seat(w, game.EventJoinedRoom, room, ref.ID)
}

// ListRoomsHandler returns the summary of every live room.
func (s *RoomServer) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.Registry.List())
}

func (s *RoomServer) seat(w http.ResponseWriter, evType game.RoomEventType, room *game.Room, playerID uuid.UUID) {
	token, err := auth.CreateSessionToken(playerID, room.ID)
	if err != nil {
		s.Logger.WithError(err).Error("failed to issue session token")
		http.Error(w, "could not create session", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	view, player := room.Snapshot(playerID)
	writeJSON(w, http.StatusOK, SeatResponse{Type: evType, Room: view, Player: player, Token: token})
}
