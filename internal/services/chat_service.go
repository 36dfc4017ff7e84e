package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

// Greeting seeded into every fresh transcript.
const chatGreeting = "Hi! I'm your CatchUp assistant. Ask me anything about your activity, goals or health data."

// Shown when the assistant cannot be reached at all. The conversation keeps
// flowing; the user message is already saved and can be retried.
const chatFallbackReply = "Sorry, I'm having trouble answering right now. Please try again in a moment."

const assistantTimeout = 30 * time.Second

type chatTranscript interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	ListByUser(ctx context.Context, userID int64) ([]models.ChatMessage, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// assistantContext carries the medical picture of the user alongside each
// question. Absent profile data leaves the field empty; a failed profile read
// sends a null context rather than failing the exchange.
type assistantContext struct {
	Name        string   `json:"name,omitempty"`
	Conditions  []string `json:"conditions,omitempty"`
	Medications string   `json:"medications,omitempty"`
	Allergies   string   `json:"allergies,omitempty"`
}

type assistantRequest struct {
	Message string            `json:"message"`
	UserID  int64             `json:"userId"`
	Context *assistantContext `json:"context"`
}

type assistantResponse struct {
	Reply string `json:"reply"`
}

type ChatService struct {
	client      *resty.Client
	transcript  chatTranscript
	profileRepo profileReader
	logger      *zap.Logger
}

func NewChatService(baseURL string, transcript chatTranscript, profileRepo profileReader, logger *zap.Logger) *ChatService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(assistantTimeout).
		SetRetryCount(1)
	return &ChatService{
		client:      client,
		transcript:  transcript,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

func newBotMessage(userID int64, content string) *models.ChatMessage {
	return &models.ChatMessage{
		ID:      uuid.NewString(),
		UserID:  userID,
		Sender:  models.ChatSenderBot,
		Type:    models.ChatMessageTypeText,
		Content: content,
	}
}

// History returns the transcript, seeding the greeting for first-time users
// so the screen never opens empty.
func (s *ChatService) History(ctx context.Context, userID int64) ([]models.ChatMessage, error) {
	messages, err := s.transcript.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(messages) > 0 {
		return messages, nil
	}

	greeting := newBotMessage(userID, chatGreeting)
	if err := s.transcript.Append(ctx, greeting); err != nil {
		return nil, err
	}
	return []models.ChatMessage{*greeting}, nil
}

// Send persists the user message, asks the assistant, and persists whatever
// came back. An unreachable assistant degrades to the fallback reply instead
// of an error; the exchange still lands in the transcript.
func (s *ChatService) Send(ctx context.Context, userID int64, message string) (*models.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrInvalidInput
	}

	userMsg := &models.ChatMessage{
		ID:      uuid.NewString(),
		UserID:  userID,
		Sender:  models.ChatSenderUser,
		Type:    models.ChatMessageTypeText,
		Content: message,
	}
	if err := s.transcript.Append(ctx, userMsg); err != nil {
		return nil, err
	}

	reply := s.askAssistant(ctx, userID, message)

	botMsg := newBotMessage(userID, reply)
	if err := s.transcript.Append(ctx, botMsg); err != nil {
		return nil, err
	}
	return botMsg, nil
}

func (s *ChatService) askAssistant(ctx context.Context, userID int64, message string) string {
	var parsed assistantResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(assistantRequest{
			Message: message,
			UserID:  userID,
			Context: s.buildContext(ctx, userID),
		}).
		SetResult(&parsed).
		SetError(&parsed).
		Post("/api/chat")
	if err != nil {
		s.logger.Warn("assistant unreachable", zap.Int64("user_id", userID), zap.Error(err))
		return chatFallbackReply
	}

	// Error statuses that still carry a reply are passed through verbatim so
	// the assistant can word its own refusals.
	if parsed.Reply != "" {
		return parsed.Reply
	}
	if resp.IsError() {
		s.logger.Warn("assistant error without reply",
			zap.Int64("user_id", userID),
			zap.Int("status", resp.StatusCode()),
		)
	}
	return chatFallbackReply
}

func (s *ChatService) buildContext(ctx context.Context, userID int64) *assistantContext {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil
	}

	actx := &assistantContext{Name: profile.FullName()}
	if profile.Conditions != nil {
		actx.Conditions = *profile.Conditions
	}
	if profile.Medications != nil {
		actx.Medications = *profile.Medications
	}
	if profile.Allergies != nil {
		actx.Allergies = *profile.Allergies
	}
	return actx
}

// Clear wipes the transcript and reseeds the greeting.
func (s *ChatService) Clear(ctx context.Context, userID int64) ([]models.ChatMessage, error) {
	if err := s.transcript.DeleteByUser(ctx, userID); err != nil {
		return nil, err
	}
	greeting := newBotMessage(userID, chatGreeting)
	if err := s.transcript.Append(ctx, greeting); err != nil {
		return nil, err
	}
	return []models.ChatMessage{*greeting}, nil
}
