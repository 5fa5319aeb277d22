package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/president-online/president/internal/auth"
	"github.com/president-online/president/internal/game"
	"github.com/president-online/president/internal/metrics"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoomServer(t *testing.T) *RoomServer {
	t.Helper()
	require.NoError(t, auth.Init(time.Hour))
	logger, _ := test.NewNullLogger()
	return NewRoomServer(logger, metrics.New("test", nil))
}

func newTestMux(s *RoomServer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/room/create", s.CreateRoomHandler)
	mux.HandleFunc("/room/join", s.JoinRoomHandler)
	mux.HandleFunc("/room/list", s.ListRoomsHandler)
	mux.HandleFunc("/room/ws/", s.RoomWSHandler)
	return mux
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw)))
	return rec
}

func decodeSeat(t *testing.T, rec *httptest.ResponseRecorder) SeatResponse {
	t.Helper()
	var resp SeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateRoomHandler(t *testing.T) {
	s := newTestRoomServer(t)
	mux := newTestMux(s)

	rec := postJSON(t, mux, "/room/create", CreateRoomRequest{NumberOfPlayers: 4, Room: "Friday", Name: "alice"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeSeat(t, rec)
	assert.Equal(t, game.EventCreatedRoom, resp.Type)
	require.NotNil(t, resp.Room)
	require.NotNil(t, resp.Player)
	assert.Len(t, resp.Room.JoinCode, 6)
	assert.Equal(t, "Friday", resp.Room.Name)
	assert.Equal(t, "alice", resp.Player.Name)
	assert.True(t, resp.Player.IsHost)
	assert.NotEmpty(t, resp.Player.Hand)

	sess, err := auth.AuthenticateSession(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Player.ID, sess.PlayerID)
	assert.Equal(t, resp.Room.ID, sess.RoomID)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == authCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "auth cookie should be set")
	assert.Equal(t, resp.Token, cookie.Value)
	assert.Equal(t, 1, s.Registry.Count())
}

func TestCreateRoomHandlerRejectsBadSize(t *testing.T) {
	s := newTestRoomServer(t)
	mux := newTestMux(s)

	rec := postJSON(t, mux, "/room/create", CreateRoomRequest{NumberOfPlayers: 3, Name: "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(game.ErrInvalidRoomSize), body["code"])
	assert.Equal(t, 0, s.Registry.Count())

	rec = postJSON(t, mux, "/room/create", CreateRoomRequest{NumberOfPlayers: 4, Name: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/room/create", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestJoinRoomHandler(t *testing.T) {
	s := newTestRoomServer(t)
	mux := newTestMux(s)

	created := decodeSeat(t, postJSON(t, mux, "/room/create", CreateRoomRequest{NumberOfPlayers: 4, Name: "alice"}))
	code := created.Room.JoinCode

	// Codes are case-insensitive on the way in.
	rec := postJSON(t, mux, "/room/join", JoinRoomRequest{Code: strings.ToLower(code), Name: "bob"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	joined := decodeSeat(t, rec)
	assert.Equal(t, game.EventJoinedRoom, joined.Type)
	assert.Equal(t, created.Room.ID, joined.Room.ID)
	assert.Equal(t, "bob", joined.Player.Name)
	assert.False(t, joined.Player.IsHost)
	assert.Len(t, joined.Room.Players, 2)

	for _, name := range []string{"carol", "dave"} {
		rec = postJSON(t, mux, "/room/join", JoinRoomRequest{Code: code, Name: name})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = postJSON(t, mux, "/room/join", JoinRoomRequest{Code: code, Name: "erin"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), string(game.ErrRoomFull))

	unknown := "ZZZZZZ"
	if code == unknown {
		unknown = "YYYYYY"
	}
	rec = postJSON(t, mux, "/room/join", JoinRoomRequest{Code: unknown, Name: "frank"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), string(game.ErrRoomNotFound))
}

func TestListRoomsHandler(t *testing.T) {
	s := newTestRoomServer(t)
	mux := newTestMux(s)

	postJSON(t, mux, "/room/create", CreateRoomRequest{NumberOfPlayers: 4, Room: "one", Name: "alice"})
	postJSON(t, mux, "/room/create", CreateRoomRequest{NumberOfPlayers: 6, Room: "two", Name: "bob"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/room/list", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rooms []game.RoomSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 2)
	names := map[string]int{}
	for _, r := range rooms {
		names[r.Name] = r.NumberOfPlayers
		assert.Equal(t, 1, r.Seated)
		assert.Equal(t, game.PhaseLobby, r.Phase)
	}
	assert.Equal(t, map[string]int{"one": 4, "two": 6}, names)
}

func TestStatusForRule(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusForRule(game.ErrRoomNotFound))
	assert.Equal(t, http.StatusConflict, statusForRule(game.ErrRoundInProgress))
	assert.Equal(t, http.StatusBadRequest, statusForRule(game.ErrInvalidRoomSize))
	assert.Equal(t, http.StatusInternalServerError, statusForRule(""))
}

func TestRequestToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/room/ws/x?token=fromquery", nil)
	assert.Equal(t, "fromquery", requestToken(r))

	r.Header.Set("Cookie", "theme=dark; auth_token=fromcookie; other=1")
	assert.Equal(t, "fromcookie", requestToken(r))
}
