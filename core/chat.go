package core

import (
	"context"
	"time"
)

// DefaultSender is used when a message is sent without a sender label.
const DefaultSender = "User"

// Room represents a public chat room.
// Rooms are configured when the store is created and never change afterwards.
type Room struct {
	ID          string `json:"id" mapstructure:"id" validate:"required"`
	Name        string `json:"name" mapstructure:"name" validate:"required"`
	Description string `json:"description" mapstructure:"description"`
	// IsAdult classifies the room. Hiding adult rooms is up to the client.
	IsAdult bool `json:"isAdult" mapstructure:"isAdult"`
}

// DefaultRooms is the room list used when none is configured.
var DefaultRooms = []Room{
	{ID: "general", Name: "General", Description: "Friendly public chat"},
	{ID: "builders", Name: "Memes", Description: "Gamers posting meme chaos"},
	{ID: "deals", Name: "Alliance", Description: "Squad coordination room"},
}

// Message represents a message appended to a room or a DM thread.
// A message is never modified once it has been appended.
type Message struct {
	ID string `json:"id"`
	// ConversationID is the ID of the room or DM thread the message belongs to.
	ConversationID string `json:"roomId"`
	// Sender is a free-text display label, not an authenticated identity.
	Sender string    `json:"sender"`
	SentAt time.Time `json:"sentAt"`
	Text   string    `json:"text"`
	// ImageData is an opaque inline image payload, usually a data URL.
	ImageData string `json:"imageDataUrl"`
}

// DmThread represents a private conversation between two aliases.
type DmThread struct {
	ID string `json:"id"`
	// Participants are the two aliases in the order they were first supplied.
	Participants [2]string `json:"-"`
	// OtherAlias is the counterpart of the alias the thread was requested for.
	OtherAlias string    `json:"otherAlias"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var (
	// ErrRoomNotFound is returned when a room ID does not name a configured room.
	ErrRoomNotFound = NewNotFoundError("unknown room")
	// ErrThreadNotFound is returned when a DM thread ID has never been opened.
	ErrThreadNotFound = NewNotFoundError("unknown DM thread")
	// ErrEmptyMessage is returned when a message has neither text nor image data.
	ErrEmptyMessage = NewInvalidInputError("text or imageDataUrl is required")
	// ErrEmptyAlias is returned when an alias is empty after trimming.
	ErrEmptyAlias = NewInvalidInputError("selfAlias and otherAlias are required")
)

// MessageInput represents the input for appending a message.
type MessageInput struct {
	// ConversationID is the room ID or the DM thread ID.
	ConversationID string
	Sender         string
	Text           string
	ImageData      string
}

type ChatStore interface {
	// ListRooms returns every configured room in configuration order.
	ListRooms(ctx context.Context) []Room

	// GetRoomMessages returns the messages of the room in append order.
	// If the room does not exist, it returns ErrRoomNotFound.
	GetRoomMessages(ctx context.Context, roomID string) ([]Message, error)

	// AppendRoomMessage appends a message to the room and returns it.
	// If the room does not exist, it returns ErrRoomNotFound.
	// If both the text and the image data are empty, it returns ErrEmptyMessage.
	AppendRoomMessage(ctx context.Context, input MessageInput) (*Message, error)

	// OpenDmThread returns the DM thread between the two aliases, creating it on first use.
	// Opening is idempotent and does not depend on the order of the aliases.
	// The returned thread is annotated with otherAlias.
	// If either alias is empty, it returns ErrEmptyAlias.
	OpenDmThread(ctx context.Context, selfAlias, otherAlias string) (*DmThread, error)

	// ListDmThreads returns the threads selfAlias participates in, most recently updated first.
	// Each thread is annotated with the other participant's alias.
	// If the alias is empty, it returns ErrEmptyAlias.
	ListDmThreads(ctx context.Context, selfAlias string) ([]DmThread, error)

	// GetDmMessages returns the messages of the thread in append order.
	// If the thread does not exist, it returns ErrThreadNotFound.
	GetDmMessages(ctx context.Context, threadID string) ([]Message, error)

	// AppendDmMessage appends a message to the thread, moves the thread's
	// UpdatedAt to the message's SentAt and returns the message.
	// If the thread does not exist, it returns ErrThreadNotFound.
	// If both the text and the image data are empty, it returns ErrEmptyMessage.
	AppendDmMessage(ctx context.Context, input MessageInput) (*Message, error)
}
