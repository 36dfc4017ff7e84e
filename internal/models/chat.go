package models

import "time"

type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"-"`
	Sender    string    `json:"sender"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	ChatSenderUser = "user"
	ChatSenderBot  = "bot"

	ChatMessageTypeText = "text"
)
