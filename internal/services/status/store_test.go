package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/voxlate/dubber-api/internal/models"
)

func TestStoreDefaults(t *testing.T) {
	store := NewStore()

	_, ok := store.GetSeparation(1)
	assert.False(t, ok, "unknown timeline should have no separation record")

	_, ok = store.GetDubbing(1)
	assert.False(t, ok, "unknown timeline should have no dubbing record")
}

func TestTryStartSeparation(t *testing.T) {
	store := NewStore()

	assert.True(t, store.TryStartSeparation(1))
	assert.False(t, store.TryStartSeparation(1), "second trigger while processing must be rejected")

	store.SetSeparation(1, models.SeparationStatus{Status: models.SeparationFailed, Error: "engine down"})
	assert.True(t, store.TryStartSeparation(1), "failed run can be re-triggered")

	st, ok := store.GetSeparation(1)
	assert.True(t, ok)
	assert.Equal(t, models.SeparationProcessing, st.Status)
	assert.Empty(t, st.Error, "re-trigger starts from a clean record")
}

func TestTryStartDubbing(t *testing.T) {
	store := NewStore()

	st, started := store.TryStartDubbing(1, 5)
	assert.True(t, started)
	assert.Equal(t, models.DubbingSeparating, st.Status)
	assert.Equal(t, 5, st.TotalSegmentCount)

	// Second trigger sees the running status untouched
	store.UpdateDubbing(1, func(st *models.DubbingStatus) {
		st.Status = models.DubbingSynthesizing
		st.Progress = 30
	})
	current, started := store.TryStartDubbing(1, 5)
	assert.False(t, started)
	assert.Equal(t, models.DubbingSynthesizing, current.Status)
	assert.Equal(t, 30, current.Progress)

	// Completed and failed runs can be re-triggered
	store.SetDubbing(1, models.DubbingStatus{Status: models.DubbingCompleted, Progress: 100})
	_, started = store.TryStartDubbing(1, 5)
	assert.True(t, started)

	store.SetDubbing(1, models.DubbingStatus{Status: models.DubbingFailed, Error: "boom"})
	st, started = store.TryStartDubbing(1, 5)
	assert.True(t, started)
	assert.Empty(t, st.Error)
}

func TestTryStartDubbingConcurrent(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	claims := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, started := store.TryStartDubbing(7, 3); started {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, claims, "exactly one concurrent trigger may claim the run")
}

func TestUpdateDubbingInitializesMissing(t *testing.T) {
	store := NewStore()

	store.UpdateDubbing(9, func(st *models.DubbingStatus) {
		st.Progress = 10
	})

	st, ok := store.GetDubbing(9)
	assert.True(t, ok)
	assert.Equal(t, models.DubbingPending, st.Status)
	assert.Equal(t, 10, st.Progress)
}

func TestStatusIndependentPerTimeline(t *testing.T) {
	store := NewStore()

	assert.True(t, store.TryStartSeparation(1))
	assert.True(t, store.TryStartSeparation(2), "timelines lock independently")

	_, started := store.TryStartDubbing(1, 1)
	assert.True(t, started, "separation does not block dubbing state for another record type")
}
