package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeline_Update(t *testing.T) {
	tl := &Timeline{
		StartSegmentLength: time.Second,
		MainSegmentLength:  2 * time.Second,
		EndSegmentLength:   time.Second,
	}
	assert.Equal(t, 4*time.Second, tl.Length())

	tl.Update(2500*time.Millisecond, false)
	assert.Equal(t, 2500*time.Millisecond, tl.Position())

	tl.Update(time.Second, true)
	assert.Equal(t, 1500*time.Millisecond, tl.Position())
	assert.Equal(t, time.Second, tl.LastDelta())
	assert.False(t, tl.IsFinished())
}

func TestTimeline_Jumps(t *testing.T) {
	tl := NewTimeline()
	tl.EndSegmentLength = time.Second

	tl.JumpToEndSegment()
	assert.Equal(t, DefaultMainSegmentLength, tl.Position())

	tl.JumpToEnd()
	assert.Equal(t, tl.Length(), tl.Position())
	assert.Equal(t, time.Second, tl.LastDelta())

	tl.Update(time.Millisecond, false)
	assert.True(t, tl.IsFinished())

	tl.JumpToStart()
	assert.Equal(t, time.Duration(0), tl.Position())
}

func TestTimeline_Override(t *testing.T) {
	tl := NewTimeline()
	tl.Update(time.Second, false)
	tl.Override(12*time.Second, true)
	assert.Equal(t, 2*time.Second, tl.Position())
	assert.Equal(t, 11*time.Second, tl.LastDelta())
}

func TestFromSeconds(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, FromSeconds(0.5))
}
