// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the room handler.
// These provide more specific reasons for closure than standard codes.
const (
	BadSubprotocolError   websocket.StatusCode = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError websocket.StatusCode = 3001 // Provided session token was missing, invalid or expired.
	WrongRoomError        websocket.StatusCode = 3002 // Token was issued for a different room.
	InvalidRoomIDError    websocket.StatusCode = 3003 // Target room in the WS URL does not exist or is invalid.
	ReplacedError         websocket.StatusCode = 3004 // A newer connection for the same player took over.
)
