// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/president-online/president/internal/auth"
	"github.com/president-online/president/internal/game"
	"github.com/president-online/president/internal/middleware"
	"github.com/president-online/president/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	roomSubprotocol = "president"
	writeTimeout    = 5 * time.Second
	pingInterval    = 30 * time.Second
)

var pongMessage = []byte(`{"type":"pong"}`)

// RoomWSHandler upgrades GET /room/ws/{room_id}. The caller's session token must have been
// issued for that room; once attached, inbound messages are applied to the room until the
// socket closes.
func (s *RoomServer) RoomWSHandler(w http.ResponseWriter, r *http.Request) {
	roomIDStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/room/ws/"), "/")
	if roomIDStr == "" {
		http.Error(w, "Missing room_id in path (/room/ws/{room_id})", http.StatusBadRequest)
		return
	}
	roomID, err := uuid.Parse(roomIDStr)
	if err != nil {
		http.Error(w, "Invalid room_id format", http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{roomSubprotocol},
		OriginPatterns: originPatterns(s.Origins),
	})
	if err != nil {
		s.Logger.Warnf("WebSocket accept error for room %s: %v", roomID, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

	if c.Subprotocol() != roomSubprotocol {
		c.Close(BadSubprotocolError, "Client must use the 'president' subprotocol.")
		return
	}

	room, err := s.Registry.Find(roomID)
	if err != nil {
		c.Close(InvalidRoomIDError, "Room not found.")
		return
	}
	session, err := auth.AuthenticateSession(requestToken(r))
	if err != nil {
		s.Logger.WithError(err).WithField("room", roomID).Warn("rejected websocket session")
		c.Close(InvalidAuthTokenError, "Invalid or expired session.")
		return
	}
	if session.RoomID != roomID {
		c.Close(WrongRoomError, "Session was issued for another room.")
		return
	}
	middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path, roomID, session.PlayerID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := NewConnection(roomID, session.PlayerID, cancel)
	s.Hub.Register(conn)
	if err := room.Attach(session.PlayerID, conn.ID); err != nil {
		s.Hub.Unregister(conn)
		c.Close(InvalidAuthTokenError, "You are no longer seated in this room.")
		return
	}

	pumpDone := make(chan struct{})
	go func() {
		writePump(ctx, c, conn, s.Logger)
		close(pumpDone)
	}()

	readErr := s.readRoomMessages(ctx, c, room, conn)

	cancel()
	<-pumpDone
	if s.Hub.Unregister(conn) {
		s.Registry.Disconnect(session.PlayerID)
		s.refreshRoomGauge()
	}
	middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, roomID, session.PlayerID, readErr)
}

// readRoomMessages applies inbound messages until the socket or ctx closes.
func (s *RoomServer) readRoomMessages(ctx context.Context, c *websocket.Conn, room *game.Room, conn *Connection) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg models.RoomAction
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.Write(game.EncodeEvent(game.RoomEvent{Type: game.EventError, Message: "Malformed message."}))
			continue
		}

		started := time.Now()
		leave := s.handleRoomMessage(room, conn, msg)
		if s.Metrics != nil {
			s.Metrics.ObserveMessage(msg.ActionType, started)
		}
		if leave {
			return nil
		}
	}
}

// handleRoomMessage routes one message to the room. It reports true when the player has
// left and the socket should close.
func (s *RoomServer) handleRoomMessage(room *game.Room, conn *Connection, msg models.RoomAction) bool {
	playerID := conn.PlayerID
	var err error

	switch msg.ActionType {
	case "ping":
		conn.Write(pongMessage)
		return false
	case "ready_up":
		ready := true
		if msg.Ready != nil {
			ready = *msg.Ready
		}
		err = room.ReadyUp(playerID, ready)
	case "play_hand":
		err = room.PlayHand(playerID, msg.Cards)
	case "pass_turn":
		err = room.PassTurn(playerID)
	case "completed_it":
		err = room.CompletedIt(playerID, msg.Cards)
	case "enter_post_game_lobby":
		err = room.EnterPostGameLobby(playerID)
	case "select_hand":
		ix := -1
		if msg.HandIndex != nil {
			ix = *msg.HandIndex
		}
		err = room.SelectHand(playerID, ix)
	case "trade_hand":
		err = room.TradeHand(playerID, msg.Cards)
	case "leave_game_from_lobby":
		if err := s.Registry.LeaveRoom(playerID); err != nil {
			// Leave has no actor channel of its own, so report it here.
			s.observeRejection(err)
			s.sendError(conn, err)
			return false
		}
		s.refreshRoomGauge()
		return true
	default:
		conn.Write(game.EncodeEvent(game.RoomEvent{Type: game.EventError, Message: "Unknown message type: " + msg.ActionType}))
		return false
	}

	if err != nil {
		s.observeRejection(err)
		s.Logger.WithFields(logrus.Fields{
			"room":   room.ID,
			"player": playerID,
			"type":   msg.ActionType,
		}).Debugf("rejected: %v", err)
	}
	return false
}

func (s *RoomServer) sendError(conn *Connection, err error) {
	ev := game.RoomEvent{Type: game.EventError, Message: err.Error()}
	var rerr *game.RuleError
	if errors.As(err, &rerr) {
		ev.Error = rerr
		ev.Message = rerr.Message
	}
	conn.Write(game.EncodeEvent(ev))
}

// writePump drains conn's queue onto the socket and pings it periodically. It is the only
// writer on c.
func writePump(ctx context.Context, c *websocket.Conn, conn *Connection, logger *logrus.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer func() {
		if conn.Replaced() {
			c.Close(ReplacedError, "Connected from another session.")
			return
		}
		c.Close(websocket.StatusGoingAway, "Write pump stopping")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-conn.OutChan:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Write error for player %s in room %s: %v", conn.PlayerID, conn.RoomID, err)
				conn.Cancel()
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Ping(pctx)
			cancel()
			if err != nil {
				logger.Warnf("Ping failed for player %s in room %s: %v", conn.PlayerID, conn.RoomID, err)
				conn.Cancel()
				return
			}
		}
	}
}

// originPatterns converts configured CORS origins to the host patterns the websocket
// accept check expects.
func originPatterns(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}
