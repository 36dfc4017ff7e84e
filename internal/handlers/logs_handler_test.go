package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
	"github.com/himesh-bhushan/catchup-backend/internal/repository"
	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

type stubActivityStore struct {
	listResult []models.ActivityLog
	listErr    error
	lastFrom   time.Time
	lastTo     time.Time
	upserted   *models.ActivityLog
}

func (s *stubActivityStore) ListRange(_ context.Context, _ int64, from, to time.Time) ([]models.ActivityLog, error) {
	s.lastFrom = from
	s.lastTo = to
	return s.listResult, s.listErr
}

func (s *stubActivityStore) Upsert(_ context.Context, log *models.ActivityLog) error {
	s.upserted = log
	return nil
}

type stubHeartRateStore struct {
	listResult []models.HeartRateLog
	upserted   *models.HeartRateLog
}

func (s *stubHeartRateStore) ListRange(_ context.Context, _ int64, _, _ time.Time) ([]models.HeartRateLog, error) {
	return s.listResult, nil
}

func (s *stubHeartRateStore) Upsert(_ context.Context, log *models.HeartRateLog) error {
	s.upserted = log
	return nil
}

type stubGoalsStore struct {
	existing *models.DailyGoals
	inserted *models.DailyGoals
	updated  *repository.UpdateDailyGoalsInput
}

func (s *stubGoalsStore) GetByDate(_ context.Context, userID int64, date time.Time) (*models.DailyGoals, error) {
	if s.existing == nil {
		return nil, pgx.ErrNoRows
	}
	return s.existing, nil
}

func (s *stubGoalsStore) InsertDefaults(_ context.Context, userID int64, date time.Time, goals *models.DailyGoals) (*models.DailyGoals, error) {
	created := &models.DailyGoals{
		UserID:         userID,
		Date:           date,
		StepsTarget:    goals.StepsTarget,
		SleepTarget:    goals.SleepTarget,
		ExerciseTarget: goals.ExerciseTarget,
		WaterTarget:    goals.WaterTarget,
	}
	s.inserted = created
	s.existing = created
	return created, nil
}

func (s *stubGoalsStore) Update(_ context.Context, userID int64, date time.Time, req repository.UpdateDailyGoalsInput) (*models.DailyGoals, error) {
	s.updated = &req
	out := *s.existing
	if req.StepsCurrent != nil {
		out.StepsCurrent = *req.StepsCurrent
	}
	return &out, nil
}

func newLogsApp(activity *stubActivityStore, heartRate *stubHeartRateStore, goals *stubGoalsStore) *fiber.App {
	handler := NewLogsHandler(
		services.NewLogsService(activity, heartRate, nil),
		services.NewGoalsService(goals, nil),
	)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/v1/logs/activity", handler.ListActivity)
	app.Put("/api/v1/logs/activity/:date", handler.UpsertActivity)
	app.Get("/api/v1/logs/heart-rate", handler.ListHeartRate)
	app.Put("/api/v1/logs/heart-rate/:date", handler.UpsertHeartRate)
	app.Get("/api/v1/goals/:date?", handler.GetGoals)
	app.Put("/api/v1/goals/:date", handler.UpdateGoals)
	return app
}

func TestListActivityUsesQueryRange(t *testing.T) {
	activity := &stubActivityStore{}
	app := newLogsApp(activity, &stubHeartRateStore{}, &stubGoalsStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/activity?from=2026-08-24&to=2026-08-30", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := activity.lastFrom.Format("2006-01-02"); got != "2026-08-24" {
		t.Fatalf("unexpected from: %s", got)
	}
	if got := activity.lastTo.Format("2006-01-02"); got != "2026-08-30" {
		t.Fatalf("unexpected to: %s", got)
	}
}

func TestListActivityRangeKeyword(t *testing.T) {
	activity := &stubActivityStore{}
	app := newLogsApp(activity, &stubHeartRateStore{}, &stubGoalsStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/activity?range=month", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if span := activity.lastTo.Sub(activity.lastFrom); span < 27*24*time.Hour {
		t.Fatalf("month range too short: %v", span)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/logs/activity?range=fortnight", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown keyword, got %d", resp.StatusCode)
	}
}

func TestListActivityRejectsInvertedRange(t *testing.T) {
	app := newLogsApp(&stubActivityStore{}, &stubHeartRateStore{}, &stubGoalsStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/activity?from=2026-08-30&to=2026-08-24", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpsertActivityRejectsNegativeValues(t *testing.T) {
	activity := &stubActivityStore{}
	app := newLogsApp(activity, &stubHeartRateStore{}, &stubGoalsStore{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/logs/activity/2026-08-28",
		strings.NewReader(`{"calories":-10,"steps":100}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if activity.upserted != nil {
		t.Fatal("nothing should be written on validation failure")
	}
}

func TestUpsertHeartRateBounds(t *testing.T) {
	heartRate := &stubHeartRateStore{}
	app := newLogsApp(&stubActivityStore{}, heartRate, &stubGoalsStore{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/logs/heart-rate/2026-08-28",
		strings.NewReader(`{"bpm":300}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/logs/heart-rate/2026-08-28",
		strings.NewReader(`{"bpm":72}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if heartRate.upserted == nil || heartRate.upserted.BPM != 72 {
		t.Fatalf("unexpected upsert: %+v", heartRate.upserted)
	}
}

func TestListHeartRateSinglePointRendersDot(t *testing.T) {
	heartRate := &stubHeartRateStore{
		listResult: []models.HeartRateLog{
			{UserID: 42, Date: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), BPM: 88},
		},
	}
	app := newLogsApp(&stubActivityStore{}, heartRate, &stubGoalsStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/heart-rate", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Chart services.HeartRateChart `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Chart.ShowLine {
		t.Fatal("single reading must not draw a line")
	}
	if body.Chart.Empty {
		t.Fatal("chart with one reading is not empty")
	}
	if body.Chart.AxisMin != 40 || body.Chart.AxisMax != 120 {
		t.Fatalf("unexpected axis: %d-%d", body.Chart.AxisMin, body.Chart.AxisMax)
	}
}

func TestGetGoalsCreatesDefaults(t *testing.T) {
	goals := &stubGoalsStore{}
	app := newLogsApp(&stubActivityStore{}, &stubHeartRateStore{}, goals)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if goals.inserted == nil {
		t.Fatal("first read should create the row")
	}
	if goals.inserted.StepsTarget != 10000 || goals.inserted.ExerciseTarget != 60 {
		t.Fatalf("unexpected defaults: %+v", goals.inserted)
	}

	var body struct {
		Completed int `json:"completed"`
		Total     int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Completed != 0 || body.Total != 4 {
		t.Fatalf("unexpected completions: %d/%d", body.Completed, body.Total)
	}
}

func TestUpdateGoalsPartial(t *testing.T) {
	goals := &stubGoalsStore{
		existing: &models.DailyGoals{
			UserID: 42, StepsTarget: 10000, SleepTarget: 8, ExerciseTarget: 60, WaterTarget: 3,
		},
	}
	app := newLogsApp(&stubActivityStore{}, &stubHeartRateStore{}, goals)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/goals/2026-08-28",
		strings.NewReader(`{"steps_current":12000}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if goals.updated == nil || goals.updated.StepsCurrent == nil || *goals.updated.StepsCurrent != 12000 {
		t.Fatalf("unexpected update input: %+v", goals.updated)
	}
	if goals.updated.SleepTarget != nil {
		t.Fatal("untouched fields must stay nil")
	}

	var body struct {
		Completed int `json:"completed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Completed != 1 {
		t.Fatalf("expected steps goal completed, got %d", body.Completed)
	}
}
