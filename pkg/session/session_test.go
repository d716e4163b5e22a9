package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"returnrisk/pkg/pipeline"
)

func TestStoreGet(t *testing.T) {
	s := NewStore()
	a := s.Get("")
	require.NotEmpty(t, a.ID)
	assert.Same(t, a, s.Get(a.ID))

	b := s.Get("unknown")
	assert.NotEqual(t, "unknown", b.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, s.Len())

	s.Delete(a.ID)
	assert.Equal(t, 1, s.Len())
}

func TestStateErrors(t *testing.T) {
	sess := NewStore().Get("")
	err := sess.Do(func(st *State) error {
		_, err := st.Analysis("predict")
		return err
	})
	assert.True(t, errors.Is(err, ErrNoAnalysis))
	var se *StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "predict", se.Op)

	err = sess.Do(func(st *State) error {
		_, err := st.Export("download")
		return err
	})
	assert.ErrorIs(t, err, ErrNoPredictions)
}

func TestSetAnalysisDropsResult(t *testing.T) {
	sess := NewStore().Get("")
	_ = sess.Do(func(st *State) error {
		st.SetAnalysis(&pipeline.Analysis{})
		st.SetResult(&pipeline.Result{}, []byte("xlsx"))
		return nil
	})
	_ = sess.Do(func(st *State) error {
		file, err := st.Export("download")
		require.NoError(t, err)
		assert.Equal(t, []byte("xlsx"), file)

		st.SetAnalysis(&pipeline.Analysis{})
		assert.Nil(t, st.Result())
		_, err = st.Export("download")
		assert.ErrorIs(t, err, ErrNoPredictions)
		return nil
	})
}

func TestLookupDoesNotCreate(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Lookup(""))
	assert.Nil(t, s.Lookup("missing"))
	assert.Equal(t, 0, s.Len())

	sess := s.Get("")
	assert.Same(t, sess, s.Lookup(sess.ID))
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore()
	s.now = func() time.Time { return now }

	idle := s.Get("")
	now = now.Add(20 * time.Minute)
	active := s.Get("")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, s.Sweep(30*time.Minute))
	assert.Nil(t, s.Lookup(idle.ID))
	assert.Same(t, active, s.Lookup(active.ID))

	// Lookup refreshed the active session.
	now = now.Add(20 * time.Minute)
	assert.Equal(t, 0, s.Sweep(30*time.Minute))
	assert.Equal(t, 1, s.Len())
}

func TestRunSweeperStopsWithContext(t *testing.T) {
	s := NewStore()
	s.Get("")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Millisecond, time.Nanosecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
