package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Wyydra/callbridge/internal/core/domain"
	"github.com/Wyydra/callbridge/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	id string
}

func (s *stubSession) ID() string        { return s.id }
func (s *stubSession) Answer() string    { return "" }
func (s *stubSession) Disconnect() error { return nil }
func (s *stubSession) OnClosed(_ func()) {}

func TestRegisterAndLookup(t *testing.T) {
	r := NewCallRegistry()
	session := &stubSession{id: "s1"}

	require.NoError(t, r.Register("call-1", session))

	got, ok := r.Lookup("call-1")
	require.True(t, ok)
	assert.Same(t, port.MediaSession(session), got)
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := NewCallRegistry()
	require.NoError(t, r.Register("call-1", &stubSession{id: "s1"}))

	err := r.Register("call-1", &stubSession{id: "s2"})
	require.ErrorIs(t, err, domain.ErrDuplicateSession)

	// The original entry survives.
	got, ok := r.Lookup("call-1")
	require.True(t, ok)
	assert.Equal(t, "s1", got.ID())
}

func TestRemove(t *testing.T) {
	r := NewCallRegistry()
	require.NoError(t, r.Register("call-1", &stubSession{id: "s1"}))

	session, ok := r.Remove("call-1")
	require.True(t, ok)
	assert.Equal(t, "s1", session.ID())

	_, ok = r.Lookup("call-1")
	assert.False(t, ok)

	// Removing again is a no-op.
	_, ok = r.Remove("call-1")
	assert.False(t, ok)
}

func TestDrainAll(t *testing.T) {
	r := NewCallRegistry()
	require.NoError(t, r.Register("call-1", &stubSession{id: "s1"}))
	require.NoError(t, r.Register("call-2", &stubSession{id: "s2"}))

	drained := r.DrainAll()
	assert.Len(t, drained, 2)
	assert.Empty(t, r.DrainAll())

	_, ok := r.Lookup("call-1")
	assert.False(t, ok)
}

func TestConcurrentRegisterRemove(t *testing.T) {
	r := NewCallRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		callID := fmt.Sprintf("call-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Register(callID, &stubSession{id: callID}))
			_, ok := r.Remove(callID)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	assert.Empty(t, r.DrainAll())
}
