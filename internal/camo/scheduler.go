package camo

import "sort"

// Scheduler runs callbacks after a delay measured in host-supplied elapsed
// time. It replaces frame-scheduler coroutines: nothing runs concurrently,
// callbacks fire from Advance on the caller's goroutine.
type Scheduler struct {
	now   float64
	seq   int
	tasks []scheduled
}

type scheduled struct {
	at  float64
	seq int
	fn  func()
}

// After schedules fn to run once delay seconds have elapsed.
func (s *Scheduler) After(delay float64, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	s.tasks = append(s.tasks, scheduled{at: s.now + delay, seq: s.seq, fn: fn})
}

// Advance moves the clock forward and runs every task now due, earliest
// first. Tasks scheduled by a running task wait for the next call even when
// already due, so a zero-delay chain runs once per Advance.
func (s *Scheduler) Advance(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	last := s.seq
	for {
		i := s.nextDue(last)
		if i < 0 {
			return
		}
		t := s.tasks[i]
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		t.fn()
	}
}

// nextDue returns the earliest due task scheduled at or before seq last.
func (s *Scheduler) nextDue(last int) int {
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].at != s.tasks[j].at {
			return s.tasks[i].at < s.tasks[j].at
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
	for i, t := range s.tasks {
		if t.at > s.now {
			return -1
		}
		if t.seq <= last {
			return i
		}
	}
	return -1
}

// Pending is the number of tasks not yet run.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Now is the scheduler's clock in seconds.
func (s *Scheduler) Now() float64 { return s.now }
