// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/president-online/president/internal/game"
)

const authCookieName = "auth_token"

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requestToken returns the session token from the auth cookie, falling back to the
// "token" query parameter for clients that cannot set cookies on a websocket.
func requestToken(r *http.Request) string {
	if token := extractCookieToken(r.Header.Get("Cookie"), authCookieName); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusForRule maps a rule rejection to an HTTP status.
func statusForRule(code game.ErrorCode) int {
	switch code {
	case game.ErrRoomNotFound, game.ErrPlayerNotFound:
		return http.StatusNotFound
	case game.ErrRoomFull, game.ErrRoundInProgress:
		return http.StatusConflict
	case "":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeError reports err as a JSON error body, using the rule code when there is one.
func writeError(w http.ResponseWriter, err error) {
	code := game.CodeOf(err)
	writeJSON(w, statusForRule(code), map[string]interface{}{
		"type":    game.EventError,
		"code":    code,
		"message": err.Error(),
	})
}
