package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanTranscodeNoClamp(t *testing.T) {
	// 50MB over 150s leaves roughly 2796 kbps total.
	plan := PlanTranscode(150, 50*1024*1024)

	assert.Equal(t, 128, plan.AudioKbps)
	assert.InDelta(t, 2668, plan.VideoKbps, 2)
}

func TestPlanTranscodeClampsVideoFloor(t *testing.T) {
	// 50MB over an hour is ~117 kbps total; video would go negative.
	plan := PlanTranscode(3600, 50*1024*1024)

	assert.Equal(t, 100, plan.VideoKbps)
	assert.Equal(t, 64, plan.AudioKbps)
}

func TestPlanTranscodeZeroDuration(t *testing.T) {
	plan := PlanTranscode(0, 50*1024*1024)
	one := PlanTranscode(1, 50*1024*1024)

	assert.Equal(t, one, plan)
	assert.Positive(t, plan.VideoKbps)
}

func TestPlanTranscodeNegativeDuration(t *testing.T) {
	plan := PlanTranscode(-30, 48*1024*1024)
	one := PlanTranscode(1, 48*1024*1024)

	assert.Equal(t, one, plan)
}

func TestPlanTranscodeAudioNeverIncreases(t *testing.T) {
	for _, dur := range []int{1, 30, 150, 600, 3600, 7200} {
		plan := PlanTranscode(dur, 48*1024*1024)
		assert.LessOrEqual(t, plan.AudioKbps, 128, "duration %d", dur)
		assert.GreaterOrEqual(t, plan.VideoKbps, 100, "duration %d", dur)
	}
}
