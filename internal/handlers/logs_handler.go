package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
	"github.com/himesh-bhushan/catchup-backend/internal/repository"
	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

const maxLogRangeDays = 366

type LogsHandler struct {
	logsService  *services.LogsService
	goalsService *services.GoalsService
}

func NewLogsHandler(logsService *services.LogsService, goalsService *services.GoalsService) *LogsHandler {
	return &LogsHandler{
		logsService:  logsService,
		goalsService: goalsService,
	}
}

// parseRange reads either a ?range= keyword or explicit from/to query
// params. Missing params default to the last seven days ending today.
func parseRange(c *fiber.Ctx) (time.Time, time.Time, string) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from := now.AddDate(0, 0, -6)
	to := now

	if keyword := c.Query("range"); keyword != "" {
		switch keyword {
		case "day":
			from = now
		case "week":
			from = now.AddDate(0, 0, -6)
		case "month":
			from = now.AddDate(0, -1, 0)
		case "6m":
			from = now.AddDate(0, -6, 0)
		case "year":
			from = now.AddDate(-1, 0, 0)
		default:
			return time.Time{}, time.Time{}, "range must be one of day, week, month, 6m, year"
		}
		return from, to, ""
	}

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, "from must be YYYY-MM-DD"
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, "to must be YYYY-MM-DD"
		}
		to = parsed
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, "to cannot be before from"
	}
	if to.Sub(from) > maxLogRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, "range cannot exceed one year"
	}
	return from, to, ""
}

func (h *LogsHandler) ListActivity(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	from, to, msg := parseRange(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	logs, err := h.logsService.ListActivity(c.Context(), userID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch activity logs"})
	}
	return c.JSON(fiber.Map{"logs": logs})
}

type upsertActivityRequest struct {
	Calories   int     `json:"calories"`
	Steps      int     `json:"steps"`
	DistanceKM float64 `json:"distance"`
}

func (h *LogsHandler) UpsertActivity(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	var req upsertActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Calories < 0 || req.Steps < 0 || req.DistanceKM < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "values cannot be negative"})
	}

	log := &models.ActivityLog{
		UserID:     userID,
		Date:       date,
		Calories:   req.Calories,
		Steps:      req.Steps,
		DistanceKM: req.DistanceKM,
	}
	if err := h.logsService.UpsertActivity(c.Context(), log); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save activity log"})
	}
	return c.JSON(fiber.Map{"log": log})
}

func (h *LogsHandler) ListHeartRate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	from, to, msg := parseRange(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	logs, err := h.logsService.ListHeartRate(c.Context(), userID, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch heart rate logs"})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"chart": services.BuildHeartRateChart(logs),
	})
}

type upsertHeartRateRequest struct {
	BPM int `json:"bpm"`
}

func (h *LogsHandler) UpsertHeartRate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	var req upsertHeartRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.BPM < 20 || req.BPM > 250 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bpm must be between 20 and 250"})
	}

	log := &models.HeartRateLog{UserID: userID, Date: date, BPM: req.BPM}
	if err := h.logsService.UpsertHeartRate(c.Context(), log); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save heart rate log"})
	}
	return c.JSON(fiber.Map{"log": log})
}

// GetGoals reads (and lazily creates) the goals for a date; no date param
// means today.
func (h *LogsHandler) GetGoals(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	date := time.Now().UTC()
	if raw := c.Params("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		date = parsed
	}

	goals, err := h.goalsService.GetOrCreate(c.Context(), userID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch goals"})
	}

	completed, total := services.GoalCompletions(goals)
	return c.JSON(fiber.Map{
		"goals":     goals,
		"completed": completed,
		"total":     total,
	})
}

type updateGoalsRequest struct {
	StepsCurrent    *int     `json:"steps_current"`
	StepsTarget     *int     `json:"steps_target"`
	SleepCurrent    *float64 `json:"sleep_current"`
	SleepTarget     *float64 `json:"sleep_target"`
	ExerciseCurrent *int     `json:"exercise_current"`
	ExerciseTarget  *int     `json:"exercise_target"`
	WaterCurrent    *float64 `json:"water_current"`
	WaterTarget     *float64 `json:"water_target"`
}

func (h *LogsHandler) UpdateGoals(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	var req updateGoalsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	goals, err := h.goalsService.Update(c.Context(), userID, date, repository.UpdateDailyGoalsInput{
		StepsCurrent:    req.StepsCurrent,
		StepsTarget:     req.StepsTarget,
		SleepCurrent:    req.SleepCurrent,
		SleepTarget:     req.SleepTarget,
		ExerciseCurrent: req.ExerciseCurrent,
		ExerciseTarget:  req.ExerciseTarget,
		WaterCurrent:    req.WaterCurrent,
		WaterTarget:     req.WaterTarget,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Goals not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update goals"})
	}

	completed, total := services.GoalCompletions(goals)
	return c.JSON(fiber.Map{
		"goals":     goals,
		"completed": completed,
		"total":     total,
	})
}
