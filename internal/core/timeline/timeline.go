package timeline

import (
	"sync"
	"time"
)

// PlayMode decides what happens once the main segment has played
type PlayMode int

const (
	// PlayRepeat loops the main segment while the layer stays enabled
	PlayRepeat PlayMode = iota
	// PlayOnce plays every segment a single time
	PlayOnce
)

// StopMode decides how a layer leaves its timeline once disabled
type StopMode int

const (
	// StopFinish plays the remainder of the timeline
	StopFinish StopMode = iota
	// StopSkipToEnd jumps straight to the end segment
	StopSkipToEnd
)

// Timeline is a layer's clock split into start, main and end segments
type Timeline struct {
	mu sync.Mutex

	position  time.Duration
	lastDelta time.Duration

	StartSegmentLength time.Duration
	MainSegmentLength  time.Duration
	EndSegmentLength   time.Duration
	PlayMode           PlayMode
	StopMode           StopMode
}

// DefaultMainSegmentLength applies to timelines created without settings
const DefaultMainSegmentLength = 5 * time.Second

func NewTimeline() *Timeline {
	return &Timeline{MainSegmentLength: DefaultMainSegmentLength}
}

// FromSeconds converts a host clock delta into a duration
func FromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (t *Timeline) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// LastDelta is the signed change applied by the last update, override or jump
func (t *Timeline) LastDelta() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastDelta
}

func (t *Timeline) Length() time.Duration {
	return t.StartSegmentLength + t.MainSegmentLength + t.EndSegmentLength
}

func (t *Timeline) MainSegmentStart() time.Duration {
	return t.StartSegmentLength
}

func (t *Timeline) EndSegmentStart() time.Duration {
	return t.StartSegmentLength + t.MainSegmentLength
}

func (t *Timeline) IsFinished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position > t.Length()
}

// Update advances the position. When stickToMain is set the position wraps
// inside the main segment once it has been reached.
func (t *Timeline) Update(delta time.Duration, stickToMain bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastDelta = delta
	t.position += delta
	t.wrap(stickToMain)
}

// Override moves to an absolute position, used for scrubbing
func (t *Timeline) Override(position time.Duration, stickToMain bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastDelta = position - t.position
	t.position = position
	t.wrap(stickToMain)
}

func (t *Timeline) JumpToStart() {
	t.jump(0, false)
}

func (t *Timeline) JumpToEndSegment() {
	t.jump(t.EndSegmentStart(), true)
}

func (t *Timeline) JumpToEnd() {
	t.jump(t.Length(), true)
}

func (t *Timeline) jump(to time.Duration, forwardOnly bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.position == to || (forwardOnly && t.position >= to) {
		return
	}
	t.lastDelta = to - t.position
	t.position = to
}

// wrap must be called with mu held
func (t *Timeline) wrap(stickToMain bool) {
	start := t.MainSegmentStart()
	if !stickToMain || t.position < start || t.MainSegmentLength <= 0 {
		return
	}
	t.position = start + (t.position-start)%t.MainSegmentLength
}
