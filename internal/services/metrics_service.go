package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/cache"
	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

// Fixed BPM axis for the heart rate chart. Readings outside the band still
// plot; only the axis is pinned.
const (
	HeartRateAxisMin = 40
	HeartRateAxisMax = 120
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type DayBucket struct {
	Label      string    `json:"label"`
	Date       time.Time `json:"date"`
	Steps      int       `json:"steps"`
	Calories   int       `json:"calories"`
	DistanceKM float64   `json:"distance"`
}

type HeartRatePoint struct {
	Label string `json:"label"`
	BPM   int    `json:"bpm"`
}

// HeartRateChart is ready to render: ShowLine is false when a single reading
// should appear as a dot, Empty is true when there is nothing to plot.
type HeartRateChart struct {
	Points   []HeartRatePoint `json:"points"`
	AxisMin  int              `json:"axis_min"`
	AxisMax  int              `json:"axis_max"`
	ShowLine bool             `json:"show_line"`
	Empty    bool             `json:"empty"`
}

type DashboardSnapshot struct {
	FullName           string         `json:"full_name"`
	AvatarURL          string         `json:"avatar_url"`
	CaloriesToday      int            `json:"calories_today"`
	CalorieGoal        int            `json:"calorie_goal"`
	CaloriePercentage  float64        `json:"calorie_percentage"`
	StepsToday         int            `json:"steps_today"`
	DistanceTodayKM    float64        `json:"distance_today"`
	Week               []DayBucket    `json:"week"`
	LatestBPM          *int           `json:"latest_bpm"`
	GoalsCompleted     int            `json:"goals_completed"`
	GoalsTotal         int            `json:"goals_total"`
	OnboardingComplete bool           `json:"onboarding_complete"`
	GeneratedAt        time.Time      `json:"generated_at"`
	HeartRate          HeartRateChart `json:"heart_rate"`
}

// RingPercentage maps progress against a goal onto [0, 1]. A zero or negative
// goal yields 0, never a division error or an over-full ring.
func RingPercentage(current, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := current / goal
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// WeekStart returns the Monday of the week containing t, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// WeekBuckets distributes logs into seven Monday-first buckets. Days without
// a log stay at zero so every chart renders a full week.
func WeekBuckets(weekStart time.Time, logs []models.ActivityLog) []DayBucket {
	buckets := make([]DayBucket, 7)
	for i := range buckets {
		date := weekStart.AddDate(0, 0, i)
		buckets[i] = DayBucket{Label: weekdayLabels[i], Date: date}
	}
	for _, l := range logs {
		i := int(l.Date.UTC().Sub(weekStart).Hours() / 24)
		if i < 0 || i > 6 {
			continue
		}
		buckets[i].Steps = l.Steps
		buckets[i].Calories = l.Calories
		buckets[i].DistanceKM = l.DistanceKM
	}
	return buckets
}

// BuildHeartRateChart shapes readings for the client chart. One reading means
// no connecting line; zero readings flags the empty state.
func BuildHeartRateChart(logs []models.HeartRateLog) HeartRateChart {
	chart := HeartRateChart{
		Points:  make([]HeartRatePoint, 0, len(logs)),
		AxisMin: HeartRateAxisMin,
		AxisMax: HeartRateAxisMax,
	}
	for _, l := range logs {
		chart.Points = append(chart.Points, HeartRatePoint{
			Label: l.Date.UTC().Format("Jan 2"),
			BPM:   l.BPM,
		})
	}
	chart.ShowLine = len(chart.Points) > 1
	chart.Empty = len(chart.Points) == 0
	return chart
}

// GoalCompletions counts categories whose progress has reached the target.
// A zero target counts as not completed rather than trivially done.
func GoalCompletions(g *models.DailyGoals) (completed, total int) {
	total = 4
	if g == nil {
		return 0, total
	}
	if g.StepsTarget > 0 && g.StepsCurrent >= g.StepsTarget {
		completed++
	}
	if g.SleepTarget > 0 && g.SleepCurrent >= g.SleepTarget {
		completed++
	}
	if g.ExerciseTarget > 0 && g.ExerciseCurrent >= g.ExerciseTarget {
		completed++
	}
	if g.WaterTarget > 0 && g.WaterCurrent >= g.WaterTarget {
		completed++
	}
	return completed, total
}

type activityReader interface {
	ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.ActivityLog, error)
	GetByDate(ctx context.Context, userID int64, date time.Time) (*models.ActivityLog, error)
}

type heartRateReader interface {
	ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.HeartRateLog, error)
	GetLatest(ctx context.Context, userID int64) (*models.HeartRateLog, error)
}

type goalsReader interface {
	GetByDate(ctx context.Context, userID int64, date time.Time) (*models.DailyGoals, error)
}

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

type avatarResolver interface {
	ResolveAvatar(ctx context.Context, ref *string) string
}

type MetricsService struct {
	activityRepo  activityReader
	heartRateRepo heartRateReader
	goalsRepo     goalsReader
	profileRepo   profileReader
	avatars       avatarResolver
	snapshots     *cache.SnapshotCache
	logger        *zap.Logger
}

func NewMetricsService(
	activityRepo activityReader,
	heartRateRepo heartRateReader,
	goalsRepo goalsReader,
	profileRepo profileReader,
	avatars avatarResolver,
	snapshots *cache.SnapshotCache,
	logger *zap.Logger,
) *MetricsService {
	return &MetricsService{
		activityRepo:  activityRepo,
		heartRateRepo: heartRateRepo,
		goalsRepo:     goalsRepo,
		profileRepo:   profileRepo,
		avatars:       avatars,
		snapshots:     snapshots,
		logger:        logger,
	}
}

// Dashboard assembles the home screen snapshot for one user. Each data source
// is independent: a missing log or goals row degrades to zeros instead of
// failing the whole screen.
func (s *MetricsService) Dashboard(ctx context.Context, userID int64, today time.Time) (*DashboardSnapshot, error) {
	today = today.UTC().Truncate(24 * time.Hour)

	if s.snapshots != nil {
		var cached DashboardSnapshot
		if s.snapshots.Read(ctx, cache.ScreenDashboard, userID, &cached) {
			return &cached, nil
		}
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	snapshot := &DashboardSnapshot{
		FullName:           profile.FullName(),
		CalorieGoal:        profile.CalorieGoal,
		GoalsTotal:         4,
		OnboardingComplete: profile.OnboardingComplete,
		GeneratedAt:        time.Now().UTC(),
	}
	if s.avatars != nil {
		snapshot.AvatarURL = s.avatars.ResolveAvatar(ctx, profile.AvatarRef)
	}

	weekStart := WeekStart(today)
	weekEnd := weekStart.AddDate(0, 0, 6)

	logs, err := s.activityRepo.ListRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	snapshot.Week = WeekBuckets(weekStart, logs)

	for _, b := range snapshot.Week {
		if b.Date.Equal(today) {
			snapshot.CaloriesToday = b.Calories
			snapshot.StepsToday = b.Steps
			snapshot.DistanceTodayKM = b.DistanceKM
		}
	}
	snapshot.CaloriePercentage = RingPercentage(float64(snapshot.CaloriesToday), float64(snapshot.CalorieGoal))

	latest, err := s.heartRateRepo.GetLatest(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if latest != nil {
		bpm := latest.BPM
		snapshot.LatestBPM = &bpm
	}

	hrLogs, err := s.heartRateRepo.ListRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	snapshot.HeartRate = BuildHeartRateChart(hrLogs)

	goals, err := s.goalsRepo.GetByDate(ctx, userID, today)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	snapshot.GoalsCompleted, snapshot.GoalsTotal = GoalCompletions(goals)

	if s.snapshots != nil {
		s.snapshots.Write(ctx, cache.ScreenDashboard, userID, snapshot)
	}
	return snapshot, nil
}
