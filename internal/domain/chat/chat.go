package chat

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_messenger.go -package=mocks . Messenger

import (
	"context"
)

// MessageType is the platform message type.
type MessageType string

const (
	MessageTypeText      MessageType = "text"
	MessageTypeShareChat MessageType = "share_chat"
)

// Message is an outbound chat message.
type Message struct {
	Type   MessageType
	Text   string
	ChatID string
}

// Text builds a plain text message.
func Text(text string) Message {
	return Message{Type: MessageTypeText, Text: text}
}

// ShareChat builds a message carrying a shareable chat reference.
func ShareChat(chatID string) Message {
	return Message{Type: MessageTypeShareChat, ChatID: chatID}
}

// ChatInfo describes a chat group.
type ChatInfo struct {
	ChatID      string
	Name        string
	Description string
}

// Document is a platform document.
type Document struct {
	Token   string
	Title   string
	Content string
}

// DocumentPatch is an update applied to a document.
type DocumentPatch struct {
	AppendText string
}

// Messenger is the chat platform as seen by the bot.
type Messenger interface {
	SendMessage(ctx context.Context, chatID string, msg Message) error
	CreateChatGroup(ctx context.Context, name, description string) (*ChatInfo, error)
	GetChatInfo(ctx context.Context, chatID string) (*ChatInfo, error)
	GetUserDisplayName(ctx context.Context, userID string) (string, error)
	GetDocument(ctx context.Context, token string) (*Document, error)
	UpdateDocument(ctx context.Context, token string, patch DocumentPatch) error
}
