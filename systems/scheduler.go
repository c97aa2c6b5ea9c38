package systems

// DefaultMaxBatch caps how many delayed items one tick releases.
const DefaultMaxBatch = 16384 * 4

// Scheduler holds items due a number of ticks in the future.
// Items scheduled for the same tick are released together in
// scheduling order.
type Scheduler[T any] struct {
	batches  map[uint64][]T
	now      uint64
	maxBatch int
	pending  int
	dropped  int
}

// NewScheduler creates a scheduler. maxBatch <= 0 selects DefaultMaxBatch.
func NewScheduler[T any](maxBatch int) *Scheduler[T] {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	return &Scheduler[T]{
		batches:  make(map[uint64][]T),
		maxBatch: maxBatch,
	}
}

// Schedule queues item to be released ticksAfter ticks from now; 0 means
// the next Pop. Returns false and drops the item when that tick's batch
// is full.
func (s *Scheduler[T]) Schedule(item T, ticksAfter int) bool {
	if ticksAfter < 0 {
		ticksAfter = 0
	}
	due := s.now + uint64(ticksAfter)
	batch := s.batches[due]
	if len(batch) >= s.maxBatch {
		s.dropped++
		return false
	}
	s.batches[due] = append(batch, item)
	s.pending++
	return true
}

// Pop releases the batch due this tick and advances the clock.
func (s *Scheduler[T]) Pop() []T {
	batch := s.batches[s.now]
	delete(s.batches, s.now)
	s.now++
	s.pending -= len(batch)
	return batch
}

// Len returns the number of items waiting.
func (s *Scheduler[T]) Len() int {
	return s.pending
}

// Dropped returns how many items were refused because a batch was full.
func (s *Scheduler[T]) Dropped() int {
	return s.dropped
}

// Clear discards every waiting item. The clock is kept.
func (s *Scheduler[T]) Clear() {
	clear(s.batches)
	s.pending = 0
}
