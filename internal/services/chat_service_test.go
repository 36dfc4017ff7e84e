package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

type memTranscript struct {
	messages []models.ChatMessage
}

func (m *memTranscript) Append(_ context.Context, msg *models.ChatMessage) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memTranscript) ListByUser(_ context.Context, userID int64) ([]models.ChatMessage, error) {
	out := make([]models.ChatMessage, 0)
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memTranscript) DeleteByUser(_ context.Context, userID int64) error {
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.UserID != userID {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

type failingProfileReader struct{}

func (failingProfileReader) GetByUserID(context.Context, int64) (*models.Profile, error) {
	return nil, errors.New("profile unavailable")
}

func newChatFixture(t *testing.T, handler http.HandlerFunc) (*ChatService, *memTranscript) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transcript := &memTranscript{}
	conditions := []string{"Diabetes", "Migraine"}
	reader := &stubProfileReader{profile: &models.Profile{
		FirstName:   strPtr("Ada"),
		Conditions:  &conditions,
		Medications: strPtr("Metformin"),
		Allergies:   strPtr("Peanuts"),
	}}
	return NewChatService(server.URL, transcript, reader, zap.NewNop()), transcript
}

func TestChatHistorySeedsGreeting(t *testing.T) {
	svc, transcript := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	messages, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.ChatSenderBot, messages[0].Sender)
	assert.Equal(t, chatGreeting, messages[0].Content)

	// A second read must not seed again.
	again, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, again, 1)
	assert.Len(t, transcript.messages, 1)
}

func TestChatSendRoundTrip(t *testing.T) {
	svc, transcript := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"You walked 4000 steps today."}`))
	})

	reply, err := svc.Send(context.Background(), 1, "How many steps?")
	require.NoError(t, err)
	assert.Equal(t, "You walked 4000 steps today.", reply.Content)
	assert.Equal(t, models.ChatSenderBot, reply.Sender)

	require.Len(t, transcript.messages, 2)
	assert.Equal(t, models.ChatSenderUser, transcript.messages[0].Sender)
	assert.Equal(t, "How many steps?", transcript.messages[0].Content)
}

func TestChatSendPostsMedicalContext(t *testing.T) {
	var gotPath string
	var got assistantRequest
	svc, _ := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"noted"}`))
	})

	_, err := svc.Send(context.Background(), 5, "Can I eat this?")
	require.NoError(t, err)

	assert.Equal(t, "/api/chat", gotPath)
	assert.Equal(t, int64(5), got.UserID)
	require.NotNil(t, got.Context)
	assert.Equal(t, "Ada", got.Context.Name)
	assert.Equal(t, []string{"Diabetes", "Migraine"}, got.Context.Conditions)
	assert.Equal(t, "Metformin", got.Context.Medications)
	assert.Equal(t, "Peanuts", got.Context.Allergies)
}

func TestChatSendNullContextWhenProfileUnavailable(t *testing.T) {
	var got assistantRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"ok"}`))
	}))
	t.Cleanup(server.Close)

	reader := &failingProfileReader{}
	svc := NewChatService(server.URL, &memTranscript{}, reader, zap.NewNop())

	_, err := svc.Send(context.Background(), 5, "hello")
	require.NoError(t, err)
	assert.Nil(t, got.Context)
}

func TestChatSendPassesErrorReplyVerbatim(t *testing.T) {
	svc, _ := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"reply":"I can only answer so fast. Give me a second."}`))
	})

	reply, err := svc.Send(context.Background(), 1, "hello")
	require.NoError(t, err)
	assert.Equal(t, "I can only answer so fast. Give me a second.", reply.Content)
}

func TestChatSendFallsBackOnEmptyError(t *testing.T) {
	svc, transcript := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	reply, err := svc.Send(context.Background(), 1, "hello")
	require.NoError(t, err)
	assert.Equal(t, chatFallbackReply, reply.Content)

	// The user message survives the failed exchange.
	require.Len(t, transcript.messages, 2)
	assert.Equal(t, "hello", transcript.messages[0].Content)
}

func TestChatSendRejectsBlankMessage(t *testing.T) {
	svc, transcript := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := svc.Send(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, transcript.messages)
}

func TestChatClearReseedsGreeting(t *testing.T) {
	svc, transcript := newChatFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"ok"}`))
	})

	_, err := svc.Send(context.Background(), 1, "hello")
	require.NoError(t, err)

	messages, err := svc.Clear(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, chatGreeting, messages[0].Content)
	assert.Len(t, transcript.messages, 1)
}
