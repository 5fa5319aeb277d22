// internal/game/registry.go
package game

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	joinCodeLength  = 6
	joinCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Registry owns every live room. Its own mutex guards only the indexes; it is never held
// while a room lock is taken.
type Registry struct {
	mu       sync.Mutex
	rooms    map[uuid.UUID]*Room
	codes    map[string]uuid.UUID
	byPlayer map[uuid.UUID]uuid.UUID
	rng      *rand.Rand

	// OnCreate wires collaborators into a new room before it becomes reachable.
	OnCreate func(r *Room)
}

// NewRegistry returns an empty registry. A nil rng uses a time-seeded source.
func NewRegistry(rng *rand.Rand) *Registry {
	if rng == nil {
		rng = newShuffleSource()
	}
	return &Registry{
		rooms:    make(map[uuid.UUID]*Room),
		codes:    make(map[string]uuid.UUID),
		byPlayer: make(map[uuid.UUID]uuid.UUID),
		rng:      rng,
	}
}

// CreateRoom builds a room for numberOfPlayers and seats hostName as its host.
func (s *Registry) CreateRoom(numberOfPlayers int, label, hostName string) (*Room, *PlayerRef, error) {
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()

	r, err := NewRoom(label, numberOfPlayers, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, nil, err
	}
	if s.OnCreate != nil {
		s.OnCreate(r)
	}
	// Not reachable through the registry until registered below.
	host, err := r.Join(hostName)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	r.JoinCode = s.newJoinCodeLocked()
	s.rooms[r.ID] = r
	s.codes[r.JoinCode] = r.ID
	s.byPlayer[host.ID] = r.ID
	s.mu.Unlock()

	log.WithFields(log.Fields{"room": r.ID, "code": r.JoinCode, "size": numberOfPlayers}).Info("room created")
	return r, &PlayerRef{ID: host.ID, Name: host.Name}, nil
}

// JoinRoom seats name in the room with the given join code.
func (s *Registry) JoinRoom(code, name string) (*Room, *PlayerRef, error) {
	r, err := s.FindByCode(code)
	if err != nil {
		return nil, nil, err
	}
	p, err := r.Join(name)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.byPlayer[p.ID] = r.ID
	s.mu.Unlock()
	return r, &PlayerRef{ID: p.ID, Name: p.Name}, nil
}

// Find looks a room up by id.
func (s *Registry) Find(roomID uuid.UUID) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		return r, nil
	}
	return nil, newRuleError(ErrRoomNotFound, "Room %s does not exist.", roomID)
}

// FindByCode looks a room up by its shareable join code.
func (s *Registry) FindByCode(code string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.codes[code]; ok {
		return s.rooms[id], nil
	}
	return nil, newRuleError(ErrRoomNotFound, "No room uses the code %s.", code)
}

// FindByPlayer returns the room playerID is seated in.
func (s *Registry) FindByPlayer(playerID uuid.UUID) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPlayer[playerID]
	if !ok {
		return nil, newRuleError(ErrPlayerNotFound, "Player %s is not in any room.", playerID)
	}
	return s.rooms[id], nil
}

// Remove drops a room and every index entry pointing at it.
func (s *Registry) Remove(roomID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return
	}
	delete(s.rooms, roomID)
	delete(s.codes, r.JoinCode)
	for pid, rid := range s.byPlayer {
		if rid == roomID {
			delete(s.byPlayer, pid)
		}
	}
	log.WithField("room", roomID).Info("room removed")
}

// List returns a summary of every live room.
func (s *Registry) List() []RoomSummary {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.Mu.Lock()
		out = append(out, RoomSummary{
			ID:              r.ID,
			Name:            r.Name,
			JoinCode:        r.JoinCode,
			Phase:           r.Phase,
			NumberOfPlayers: r.NumberOfPlayers,
			Seated:          len(r.Players),
		})
		r.Mu.Unlock()
	}
	return out
}

// Count returns the number of live rooms.
func (s *Registry) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// LeaveRoom removes playerID from their lobby and drops the room once it is empty.
func (s *Registry) LeaveRoom(playerID uuid.UUID) error {
	r, err := s.FindByPlayer(playerID)
	if err != nil {
		return err
	}
	remaining, err := r.Leave(playerID)
	if err != nil {
		return err
	}
	s.forgetPlayer(playerID)
	if remaining == 0 {
		s.Remove(r.ID)
	}
	return nil
}

// Disconnect records a dropped connection for playerID and drops abandoned rooms.
func (s *Registry) Disconnect(playerID uuid.UUID) {
	r, err := s.FindByPlayer(playerID)
	if err != nil {
		return
	}
	removed, abandoned := r.Disconnect(playerID)
	if removed {
		s.forgetPlayer(playerID)
	}
	if abandoned {
		s.Remove(r.ID)
	}
}

func (s *Registry) forgetPlayer(playerID uuid.UUID) {
	s.mu.Lock()
	delete(s.byPlayer, playerID)
	s.mu.Unlock()
}

func (s *Registry) newJoinCodeLocked() string {
	buf := make([]byte, joinCodeLength)
	for {
		for i := range buf {
			buf[i] = joinCodeLetters[s.rng.Intn(len(joinCodeLetters))]
		}
		code := string(buf)
		if _, taken := s.codes[code]; !taken {
			return code
		}
	}
}

// RoomSummary is the public listing entry for a room.
type RoomSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"room"`
	JoinCode        string    `json:"shareableRoomCode"`
	Phase           Phase     `json:"phase"`
	NumberOfPlayers int       `json:"numberOfPlayers"`
	Seated          int       `json:"seated"`
}

// PlayerRef identifies the player a create or join call seated.
type PlayerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
