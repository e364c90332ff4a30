package scheduler

import "sync"

// DisruptionState is the last known disruption status of the commute.
type DisruptionState struct {
	mutex     sync.Mutex
	disrupted bool
}

func (s *DisruptionState) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.disrupted = false
}

func (s *DisruptionState) Disrupted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.disrupted
}

// Transition records the new status and reports whether it differs from the
// previous one.
func (s *DisruptionState) Transition(disrupted bool) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	changed := s.disrupted != disrupted
	s.disrupted = disrupted

	return changed
}
