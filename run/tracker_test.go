package run

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_ReportsAtInterval(t *testing.T) {
	var buf strings.Builder
	tracker := NewTracker(&buf, 10, 5)
	tracker.Start()

	tracker.Increment(4)
	assert.Empty(t, buf.String())

	tracker.Increment(1)
	assert.Contains(t, buf.String(), "5/10")
	assert.Contains(t, buf.String(), "50.0%")
}

func TestTracker_FinishDoesNotForceCompletion(t *testing.T) {
	var buf strings.Builder
	tracker := NewTracker(&buf, 10, 100)
	tracker.Start()

	tracker.Increment(3)
	tracker.Finish()

	assert.Contains(t, buf.String(), "3/10")
	assert.NotContains(t, buf.String(), "10/10")
}

func TestTracker_IgnoredBeforeStart(t *testing.T) {
	var buf strings.Builder
	tracker := NewTracker(&buf, 10, 1)

	tracker.Increment(5)
	tracker.Finish()
	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}
