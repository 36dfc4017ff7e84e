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

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

type stubSharingStore struct {
	entries    []models.LeaderboardEntry
	lastInvite *models.Invite
}

func (s *stubSharingStore) TopBySteps(_ context.Context, _, _ time.Time, _ int) ([]models.LeaderboardEntry, error) {
	return s.entries, nil
}

func (s *stubSharingStore) CreateInvite(_ context.Context, invite *models.Invite) error {
	invite.ID = 1
	s.lastInvite = invite
	return nil
}

func newSharingApp(store *stubSharingStore) *fiber.App {
	handler := NewSharingHandler(store)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/v1/leaderboard", handler.GetLeaderboard)
	app.Post("/api/v1/invites", handler.CreateInvite)
	return app
}

func TestGetLeaderboard(t *testing.T) {
	store := &stubSharingStore{
		entries: []models.LeaderboardEntry{
			{Rank: 1, UserID: 7, Handle: "Ada Ng", Score: 61000},
			{Rank: 2, UserID: 42, Handle: "sam@example.com", Score: 48000},
		},
	}
	app := newSharingApp(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Leaderboard) != 2 || body.Leaderboard[0].Rank != 1 {
		t.Fatalf("unexpected leaderboard: %+v", body.Leaderboard)
	}
}

func TestCreateInviteValidatesEmail(t *testing.T) {
	store := &stubSharingStore{}
	app := newSharingApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invites",
		strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if store.lastInvite != nil {
		t.Fatal("invalid email must not create an invite")
	}
}

func TestCreateInviteNormalizesEmail(t *testing.T) {
	store := &stubSharingStore{}
	app := newSharingApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invites",
		strings.NewReader(`{"email":"Friend@Example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if store.lastInvite == nil || store.lastInvite.Email != "friend@example.com" {
		t.Fatalf("unexpected invite: %+v", store.lastInvite)
	}
	if store.lastInvite.UserID != 42 {
		t.Fatalf("invite not attributed to caller: %+v", store.lastInvite)
	}
}
