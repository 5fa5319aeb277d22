package game

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var joinCodePattern = regexp.MustCompile(`^[A-Z]{6}$`)

func newTestRegistry() *Registry {
	return NewRegistry(rand.New(rand.NewSource(3)))
}

func TestRegistryCreateRoom(t *testing.T) {
	s := newTestRegistry()
	wired := 0
	s.OnCreate = func(r *Room) {
		wired++
		r.BroadcastFn = func(RoomEvent) {}
	}

	r, host, err := s.CreateRoom(5, "friday", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, wired)
	assert.NotNil(t, r.BroadcastFn)
	assert.Regexp(t, joinCodePattern, r.JoinCode)
	assert.Equal(t, "alice", host.Name)
	assert.True(t, r.Players[0].IsHost)

	found, err := s.FindByCode(r.JoinCode)
	require.NoError(t, err)
	assert.Same(t, r, found)
	found, err = s.Find(r.ID)
	require.NoError(t, err)
	assert.Same(t, r, found)
	found, err = s.FindByPlayer(host.ID)
	require.NoError(t, err)
	assert.Same(t, r, found)
}

func TestRegistryCreateRoomBadSize(t *testing.T) {
	s := newTestRegistry()
	_, _, err := s.CreateRoom(2, "", "alice")
	assert.Equal(t, ErrInvalidRoomSize, CodeOf(err))
	assert.Equal(t, 0, s.Count())
}

func TestRegistryJoinCodesAreUnique(t *testing.T) {
	s := newTestRegistry()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		r, _, err := s.CreateRoom(4, "", "host")
		require.NoError(t, err)
		assert.False(t, seen[r.JoinCode])
		seen[r.JoinCode] = true
	}
	assert.Equal(t, 50, s.Count())
	assert.Len(t, s.List(), 50)
}

func TestRegistryJoinRoom(t *testing.T) {
	s := newTestRegistry()
	r, _, err := s.CreateRoom(4, "", "alice")
	require.NoError(t, err)

	_, _, err = s.JoinRoom("NOPE00", "bob")
	assert.Equal(t, ErrRoomNotFound, CodeOf(err))

	for _, name := range []string{"bob", "carol", "dave"} {
		joined, ref, err := s.JoinRoom(r.JoinCode, name)
		require.NoError(t, err)
		assert.Same(t, r, joined)
		found, err := s.FindByPlayer(ref.ID)
		require.NoError(t, err)
		assert.Same(t, r, found)
	}

	_, _, err = s.JoinRoom(r.JoinCode, "erin")
	assert.Equal(t, ErrRoomFull, CodeOf(err))

	summary := s.List()
	require.Len(t, summary, 1)
	assert.Equal(t, 4, summary[0].Seated)
	assert.Equal(t, r.JoinCode, summary[0].JoinCode)
}

func TestRegistryLeaveRemovesEmptyRoom(t *testing.T) {
	s := newTestRegistry()
	r, host, err := s.CreateRoom(4, "", "alice")
	require.NoError(t, err)
	_, guest, err := s.JoinRoom(r.JoinCode, "bob")
	require.NoError(t, err)

	require.NoError(t, s.LeaveRoom(host.ID))
	_, err = s.FindByPlayer(host.ID)
	assert.Equal(t, ErrPlayerNotFound, CodeOf(err))
	assert.Equal(t, 1, s.Count())

	require.NoError(t, s.LeaveRoom(guest.ID))
	assert.Equal(t, 0, s.Count())
	_, err = s.FindByCode(r.JoinCode)
	assert.Equal(t, ErrRoomNotFound, CodeOf(err))

	assert.Equal(t, ErrPlayerNotFound, CodeOf(s.LeaveRoom(uuid.New())))
}

func TestRegistryDisconnectAbandonsRoom(t *testing.T) {
	s := newTestRegistry()
	r, host, err := s.CreateRoom(4, "", "alice")
	require.NoError(t, err)
	refs := []*PlayerRef{host}
	for _, name := range []string{"bob", "carol", "dave"} {
		_, ref, err := s.JoinRoom(r.JoinCode, name)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	for _, ref := range refs {
		require.NoError(t, r.Attach(ref.ID, "c"))
		require.NoError(t, r.ReadyUp(ref.ID, true))
	}
	require.Equal(t, PhaseInRound, r.Phase)

	for _, ref := range refs[:3] {
		s.Disconnect(ref.ID)
	}
	assert.Equal(t, 1, s.Count(), "a connected player keeps the room alive")
	found, err := s.FindByPlayer(refs[0].ID)
	require.NoError(t, err, "mid-round seats are kept")
	assert.Same(t, r, found)

	s.Disconnect(refs[3].ID)
	assert.Equal(t, 0, s.Count())
}

func TestRegistryDisconnectInLobbyForgetsPlayer(t *testing.T) {
	s := newTestRegistry()
	r, host, err := s.CreateRoom(4, "", "alice")
	require.NoError(t, err)
	_, bob, err := s.JoinRoom(r.JoinCode, "bob")
	require.NoError(t, err)

	s.Disconnect(bob.ID)
	_, err = s.FindByPlayer(bob.ID)
	assert.Equal(t, ErrPlayerNotFound, CodeOf(err))
	found, err := s.FindByPlayer(host.ID)
	require.NoError(t, err)
	assert.Same(t, r, found)
	assert.Len(t, r.Players, 1)

	// A second disconnect for the same player is a no-op.
	s.Disconnect(bob.ID)
	assert.Equal(t, 1, s.Count())

	s.Disconnect(host.ID)
	assert.Equal(t, 0, s.Count())
}

func TestRegistryRemove(t *testing.T) {
	s := newTestRegistry()
	r, host, err := s.CreateRoom(4, "", "alice")
	require.NoError(t, err)

	s.Remove(r.ID)
	s.Remove(r.ID)
	assert.Equal(t, 0, s.Count())
	_, err = s.Find(r.ID)
	assert.Equal(t, ErrRoomNotFound, CodeOf(err))
	_, err = s.FindByPlayer(host.ID)
	assert.Equal(t, ErrPlayerNotFound, CodeOf(err))
}
