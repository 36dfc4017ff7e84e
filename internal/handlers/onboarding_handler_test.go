package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
	"github.com/himesh-bhushan/catchup-backend/internal/repository"
	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

type fakeDraftStore struct {
	drafts map[int64][]byte
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[int64][]byte)}
}

func (s *fakeDraftStore) Get(_ context.Context, userID int64, dest any) error {
	payload, ok := s.drafts[userID]
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(payload, dest)
}

func (s *fakeDraftStore) Put(_ context.Context, userID int64, draft any) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.drafts[userID] = payload
	return nil
}

func (s *fakeDraftStore) Delete(_ context.Context, userID int64) error {
	delete(s.drafts, userID)
	return nil
}

type fakeProfileWriter struct {
	lastInput *repository.UpdateProfileInput
	completed bool
}

func (s *fakeProfileWriter) UpdatePartial(_ context.Context, userID int64, req repository.UpdateProfileInput) (*models.Profile, error) {
	s.lastInput = &req
	return &models.Profile{UserID: userID, Conditions: req.Conditions}, nil
}

func (s *fakeProfileWriter) CompleteOnboarding(_ context.Context, _ int64) error {
	s.completed = true
	return nil
}

func newOnboardingApp(writer *fakeProfileWriter) *fiber.App {
	service := services.NewOnboardingService(newFakeDraftStore(), writer, zap.NewNop())
	handler := NewOnboardingHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/v1/onboarding", handler.GetDraft)
	app.Put("/api/v1/onboarding/steps/:step", handler.SaveStep)
	app.Post("/api/v1/onboarding/submit", handler.Submit)
	return app
}

func putStep(t *testing.T, app *fiber.App, step, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/onboarding/steps/"+step, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestSaveStepRejectsUnknownStep(t *testing.T) {
	app := newOnboardingApp(&fakeProfileWriter{})

	resp := putStep(t, app, "shoe-size", `{}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSaveStepReturnsGateMessage(t *testing.T) {
	app := newOnboardingApp(&fakeProfileWriter{})

	resp := putStep(t, app, "biometrics", `{"height_cm":0,"weight_kg":70}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Error != "height must be positive" {
		t.Fatalf("unexpected message: %q", body.Error)
	}
}

func TestSubmitBeforeAllStepsFails(t *testing.T) {
	app := newOnboardingApp(&fakeProfileWriter{})

	resp := putStep(t, app, "identity",
		`{"first_name":"Ada","last_name":"Ng","dob":"1990-04-12","gender":"female","phone":"+15550199"}`)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFullWizardSubmit(t *testing.T) {
	writer := &fakeProfileWriter{}
	app := newOnboardingApp(writer)

	steps := map[string]string{
		"identity":    `{"first_name":"Ada","last_name":"Ng","dob":"1990-04-12","gender":"female","phone":"+15550199"}`,
		"biometrics":  `{"height_cm":168,"weight_kg":61,"blood_type":"O+"}`,
		"conditions":  `{"conditions":["Diabetes","Others..."],"other_text":" Migraine "}`,
		"medications": `{"medications":"None","allergies":"Peanuts"}`,
		"emergency":   `{"name":"Sam Ng","phone":"+15551234"}`,
	}
	for _, step := range []string{"identity", "biometrics", "conditions", "medications", "emergency"} {
		resp := putStep(t, app, step, steps[step])
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("step %s: expected 200, got %d", step, resp.StatusCode)
		}
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		OnboardingComplete bool `json:"onboarding_complete"`
		ProfileSaved       bool `json:"profile_saved"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !body.OnboardingComplete || !body.ProfileSaved {
		t.Fatalf("unexpected result: %+v", body)
	}

	if !writer.completed {
		t.Fatal("completion flag not written")
	}
	if writer.lastInput == nil || writer.lastInput.Conditions == nil {
		t.Fatal("conditions not written")
	}
	got := *writer.lastInput.Conditions
	if len(got) != 2 || got[0] != "Diabetes" || got[1] != "Migraine" {
		t.Fatalf("unexpected conditions: %v", got)
	}
}
