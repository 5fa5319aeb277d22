// internal/game/events.go
package game

// RoomEventType names an outbound event. Values are the wire "type" field.
type RoomEventType string

const (
	EventRoomUpdate       RoomEventType = "room_update"
	EventCreatedRoom      RoomEventType = "created_room"
	EventJoinedRoom       RoomEventType = "joined_room"
	EventReadyUp          RoomEventType = "ready_up"
	EventAllPlayersReady  RoomEventType = "all_players_ready"
	EventPlayedHand       RoomEventType = "played_hand"
	EventPassedTurn       RoomEventType = "passed_turn"
	EventCompletedIt      RoomEventType = "completed_it"
	EventPlayerUpdate     RoomEventType = "player_update"
	EventHandSelected     RoomEventType = "hand_selected"
	EventTradingCompleted RoomEventType = "trading_completed"
	EventRoundOver        RoomEventType = "round_over"
	EventBroadcastMessage RoomEventType = "broadcast_message"
	EventError            RoomEventType = "error"
)

// RoomEvent is the envelope handed to the broadcast collaborators. Room and Player are
// snapshots taken under the room lock, so an event is safe to serialize after the lock
// is released.
type RoomEvent struct {
	Type    RoomEventType `json:"type"`
	Room    *ClientRoom   `json:"room,omitempty"`
	Player  *ClientPlayer `json:"player,omitempty"`
	Message string        `json:"message,omitempty"`
	Error   *RuleError    `json:"error,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`
}
