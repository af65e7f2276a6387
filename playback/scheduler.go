package playback

import "time"

// State is the playback state
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Scheduler is a cancellable repeating task. While running it re-arms on
// every frame and calls advance once per elapsed interval.
//
// Scheduler is not safe for concurrent use.
type Scheduler struct {
	frames  FrameSource
	now     func() time.Time
	gate    *Gate
	advance func()

	state   State
	pending FrameID
}

// NewScheduler returns a stopped scheduler. now defaults to time.Now.
func NewScheduler(frames FrameSource, now func() time.Time, speed time.Duration, advance func()) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		frames:  frames,
		now:     now,
		gate:    NewGate(speed),
		advance: advance,
	}
}

// Start begins continuous playback and reports whether the state changed
func (s *Scheduler) Start() bool {
	if s.state == Running {
		return false
	}
	s.state = Running
	s.gate.Reset(s.now())
	s.pending = s.frames.RequestFrame(s.onFrame)
	return true
}

// Stop halts playback and reports whether the state changed. No advance
// happens after Stop returns.
func (s *Scheduler) Stop() bool {
	wasRunning := s.state == Running
	s.state = Stopped
	if s.pending != 0 {
		s.frames.CancelFrame(s.pending)
		s.pending = 0
	}
	return wasRunning
}

// SetSpeed changes the minimum time between advances, effective next frame
func (s *Scheduler) SetSpeed(speed time.Duration) {
	s.gate.SetInterval(speed)
}

// Speed returns the minimum time between advances
func (s *Scheduler) Speed() time.Duration {
	return s.gate.Interval()
}

// State returns the current playback state
func (s *Scheduler) State() State {
	return s.state
}

func (s *Scheduler) onFrame(now time.Time) {
	// a frame delivered after Stop must not act
	if s.state != Running {
		return
	}
	s.pending = s.frames.RequestFrame(s.onFrame)

	if s.gate.Ready(now) {
		s.advance()
	}
}
