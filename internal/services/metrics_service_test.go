package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

func TestRingPercentage(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		goal    float64
		want    float64
	}{
		{"zero goal", 250, 0, 0},
		{"negative goal", 250, -100, 0},
		{"halfway", 250, 500, 0.5},
		{"exactly met", 500, 500, 1},
		{"over goal clamps", 900, 500, 1},
		{"negative current clamps", -50, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RingPercentage(tt.current, tt.goal), 1e-9)
		})
	}
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	wednesday := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(wednesday))

	sunday := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(sunday))

	assert.Equal(t, monday, WeekStart(monday))
}

func TestWeekBuckets(t *testing.T) {
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	logs := []models.ActivityLog{
		{Date: weekStart, Steps: 4000, Calories: 300, DistanceKM: 2.5},
		{Date: weekStart.AddDate(0, 0, 3), Steps: 9000, Calories: 620, DistanceKM: 6.1},
		{Date: weekStart.AddDate(0, 0, 9), Steps: 1, Calories: 1},
	}

	buckets := WeekBuckets(weekStart, logs)
	require.Len(t, buckets, 7)

	assert.Equal(t, "Mon", buckets[0].Label)
	assert.Equal(t, 4000, buckets[0].Steps)
	assert.Equal(t, "Thu", buckets[3].Label)
	assert.Equal(t, 620, buckets[3].Calories)

	// Days without a log render as zeros, not gaps.
	for _, i := range []int{1, 2, 4, 5, 6} {
		assert.Zero(t, buckets[i].Steps, "bucket %d", i)
		assert.Zero(t, buckets[i].Calories, "bucket %d", i)
	}
}

func TestBuildHeartRateChart(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		chart := BuildHeartRateChart(nil)
		assert.True(t, chart.Empty)
		assert.False(t, chart.ShowLine)
		assert.Empty(t, chart.Points)
	})

	t.Run("single reading is a dot", func(t *testing.T) {
		chart := BuildHeartRateChart([]models.HeartRateLog{
			{Date: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), BPM: 72},
		})
		assert.False(t, chart.Empty)
		assert.False(t, chart.ShowLine)
		require.Len(t, chart.Points, 1)
		assert.Equal(t, 72, chart.Points[0].BPM)
	})

	t.Run("two readings draw a line", func(t *testing.T) {
		chart := BuildHeartRateChart([]models.HeartRateLog{
			{Date: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), BPM: 72},
			{Date: time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), BPM: 80},
		})
		assert.True(t, chart.ShowLine)
		assert.Equal(t, HeartRateAxisMin, chart.AxisMin)
		assert.Equal(t, HeartRateAxisMax, chart.AxisMax)
	})
}

func TestGoalCompletions(t *testing.T) {
	t.Run("nil goals", func(t *testing.T) {
		completed, total := GoalCompletions(nil)
		assert.Equal(t, 0, completed)
		assert.Equal(t, 4, total)
	})

	t.Run("counts met categories", func(t *testing.T) {
		completed, total := GoalCompletions(&models.DailyGoals{
			StepsCurrent: 10000, StepsTarget: 10000,
			SleepCurrent: 7, SleepTarget: 8,
			ExerciseCurrent: 75, ExerciseTarget: 60,
			WaterCurrent: 3, WaterTarget: 3,
		})
		assert.Equal(t, 3, completed)
		assert.Equal(t, 4, total)
	})

	t.Run("zero target is never completed", func(t *testing.T) {
		completed, _ := GoalCompletions(&models.DailyGoals{StepsCurrent: 500})
		assert.Equal(t, 0, completed)
	})
}
