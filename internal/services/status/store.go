// Package status holds the ephemeral pipeline status records, keyed by
// timeline id. Records live for the process's uptime only: after a
// restart every timeline reads as pending again and an interrupted run
// must be re-triggered. All mutation goes through the store's lock, and
// pipeline triggers use the TryStart operations so that two
// near-simultaneous triggers cannot both pass the in-progress check.
package status

import (
	"sync"

	"github.com/voxlate/dubber-api/internal/models"
)

// Store is the shared status record for separation and dubbing runs
type Store interface {
	GetSeparation(timelineID uint) (models.SeparationStatus, bool)
	SetSeparation(timelineID uint, st models.SeparationStatus)
	// TryStartSeparation atomically moves a timeline to processing.
	// Returns false if a separation run is already in flight.
	TryStartSeparation(timelineID uint) bool

	GetDubbing(timelineID uint) (models.DubbingStatus, bool)
	SetDubbing(timelineID uint, st models.DubbingStatus)
	// TryStartDubbing atomically initializes a fresh run in the
	// separating stage. Returns the current status and false if a run
	// is already in flight, leaving it untouched.
	TryStartDubbing(timelineID uint, totalSegments int) (models.DubbingStatus, bool)
	// UpdateDubbing applies fn to the timeline's status under the lock.
	// A missing record is initialized to pending first.
	UpdateDubbing(timelineID uint, fn func(*models.DubbingStatus))
}

// store implements Store with a single mutex over both maps. Status
// reads and writes are tiny; one lock keeps the separation and dubbing
// records mutually consistent.
type store struct {
	mu          sync.Mutex
	separations map[uint]models.SeparationStatus
	dubbings    map[uint]models.DubbingStatus
}

// NewStore creates an empty status store
func NewStore() Store {
	return &store{
		separations: make(map[uint]models.SeparationStatus),
		dubbings:    make(map[uint]models.DubbingStatus),
	}
}

func (s *store) GetSeparation(timelineID uint) (models.SeparationStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.separations[timelineID]
	return st, ok
}

func (s *store) SetSeparation(timelineID uint, st models.SeparationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.separations[timelineID] = st
}

func (s *store) TryStartSeparation(timelineID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.separations[timelineID]; ok && st.Status == models.SeparationProcessing {
		return false
	}
	s.separations[timelineID] = models.SeparationStatus{Status: models.SeparationProcessing}
	return true
}

func (s *store) GetDubbing(timelineID uint) (models.DubbingStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.dubbings[timelineID]
	return st, ok
}

func (s *store) SetDubbing(timelineID uint, st models.DubbingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dubbings[timelineID] = st
}

func (s *store) TryStartDubbing(timelineID uint, totalSegments int) (models.DubbingStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.dubbings[timelineID]; ok && st.Status.InProgress() {
		return st, false
	}
	st := models.DubbingStatus{
		Status:            models.DubbingSeparating,
		CurrentStep:       "Separating audio tracks",
		TotalSegmentCount: totalSegments,
	}
	s.dubbings[timelineID] = st
	return st, true
}

func (s *store) UpdateDubbing(timelineID uint, fn func(*models.DubbingStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.dubbings[timelineID]
	if !ok {
		st = models.DubbingStatus{Status: models.DubbingPending}
	}
	fn(&st)
	s.dubbings[timelineID] = st
}
