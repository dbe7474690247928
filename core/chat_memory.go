package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// messageLog is an append-only list of messages guarded by its own lock,
// so that appends to different conversations never contend.
type messageLog struct {
	mu       sync.RWMutex
	messages []Message
}

// appendLocked stamps the message with id and now and appends it. The caller must hold l.mu.
// SentAt never goes backwards within a log, even if the clock does.
func (l *messageLog) appendLocked(msg Message, id string, now time.Time) Message {
	if n := len(l.messages); n > 0 && now.Before(l.messages[n-1].SentAt) {
		now = l.messages[n-1].SentAt
	}
	msg.ID = id
	msg.SentAt = now
	l.messages = append(l.messages, msg)
	return msg
}

func (l *messageLog) snapshot() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	messages := make([]Message, len(l.messages))
	copy(messages, l.messages)
	return messages
}

type dmThread struct {
	id           string
	participants [2]string
	messageLog
	// updatedAt is guarded by messageLog.mu.
	updatedAt time.Time
}

func (t *dmThread) view(otherAlias string) DmThread {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return DmThread{
		ID:           t.id,
		Participants: t.participants,
		OtherAlias:   otherAlias,
		UpdatedAt:    t.updatedAt,
	}
}

// MemoryChatStore is a ChatStore that keeps every conversation in memory.
// Nothing survives a restart of the process.
type MemoryChatStore struct {
	rooms []Room
	// roomLogs is populated once in NewMemoryChatStore and only read afterwards.
	roomLogs map[string]*messageLog
	threads  *SyncMap[string, *dmThread]

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

type ChatStoreOption func(*MemoryChatStore)

// WithClock replaces the clock used to stamp messages and threads.
func WithClock(now func() time.Time) ChatStoreOption {
	return func(s *MemoryChatStore) {
		s.now = now
	}
}

// WithIDGenerator replaces the message ID generator.
// newID is called with the conversation locked, so IDs follow append order within a conversation.
func WithIDGenerator(newID func() string) ChatStoreOption {
	return func(s *MemoryChatStore) {
		s.newID = newID
	}
}

func WithLogger(logger *slog.Logger) ChatStoreOption {
	return func(s *MemoryChatStore) {
		s.logger = logger
	}
}

func newMessageID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewMemoryChatStore creates a store serving the given rooms.
// Every room must have a non-empty, unique ID.
func NewMemoryChatStore(rooms []Room, opts ...ChatStoreOption) (*MemoryChatStore, error) {
	s := &MemoryChatStore{
		rooms:    slices.Clone(rooms),
		roomLogs: make(map[string]*messageLog, len(rooms)),
		threads:  NewSyncMap[string, *dmThread](),
		now:      time.Now,
		newID:    newMessageID,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, room := range s.rooms {
		if strings.TrimSpace(room.ID) == "" {
			return nil, fmt.Errorf("room %q: empty id", room.Name)
		}
		if _, ok := s.roomLogs[room.ID]; ok {
			return nil, fmt.Errorf("room %q: duplicate id", room.ID)
		}
		s.roomLogs[room.ID] = &messageLog{}
	}

	return s, nil
}

func (s *MemoryChatStore) clock() time.Time {
	return s.now().UTC()
}

// newMessage builds a message from the input without an ID or SentAt.
func (s *MemoryChatStore) newMessage(input MessageInput) (Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && input.ImageData == "" {
		return Message{}, ErrEmptyMessage
	}
	sender := strings.TrimSpace(input.Sender)
	if sender == "" {
		sender = DefaultSender
	}
	return Message{
		ConversationID: input.ConversationID,
		Sender:         sender,
		Text:           text,
		ImageData:      input.ImageData,
	}, nil
}

func (s *MemoryChatStore) ListRooms(ctx context.Context) []Room {
	return slices.Clone(s.rooms)
}

func (s *MemoryChatStore) GetRoomMessages(ctx context.Context, roomID string) ([]Message, error) {
	log, ok := s.roomLogs[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return log.snapshot(), nil
}

func (s *MemoryChatStore) AppendRoomMessage(ctx context.Context, input MessageInput) (*Message, error) {
	log, ok := s.roomLogs[input.ConversationID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	msg, err := s.newMessage(input)
	if err != nil {
		return nil, err
	}

	log.mu.Lock()
	msg = log.appendLocked(msg, s.newID(), s.clock())
	log.mu.Unlock()

	return &msg, nil
}

func (s *MemoryChatStore) OpenDmThread(ctx context.Context, selfAlias, otherAlias string) (*DmThread, error) {
	selfAlias, otherAlias = strings.TrimSpace(selfAlias), strings.TrimSpace(otherAlias)
	if selfAlias == "" || otherAlias == "" {
		return nil, ErrEmptyAlias
	}

	id := ThreadID(selfAlias, otherAlias)
	thread, loaded := s.threads.LoadOrStore(id, func() *dmThread {
		return &dmThread{
			id:           id,
			participants: [2]string{selfAlias, otherAlias},
			updatedAt:    s.clock(),
		}
	})
	if !loaded {
		s.logger.Debug("dm thread opened", slog.String("thread", id))
	}

	view := thread.view(otherAlias)
	return &view, nil
}

func (s *MemoryChatStore) ListDmThreads(ctx context.Context, selfAlias string) ([]DmThread, error) {
	self := NormalizeAlias(selfAlias)
	if self == "" {
		return nil, ErrEmptyAlias
	}

	threads := lo.FilterMap(s.threads.Values(), func(t *dmThread, _ int) (DmThread, bool) {
		if !isParticipant(t.participants, self) {
			return DmThread{}, false
		}
		return t.view(OtherAlias(t.participants, selfAlias)), true
	})

	slices.SortFunc(threads, func(a, b DmThread) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return threads, nil
}

func (s *MemoryChatStore) GetDmMessages(ctx context.Context, threadID string) ([]Message, error) {
	thread, ok := s.threads.Load(threadID)
	if !ok {
		return nil, ErrThreadNotFound
	}
	return thread.snapshot(), nil
}

func (s *MemoryChatStore) AppendDmMessage(ctx context.Context, input MessageInput) (*Message, error) {
	thread, ok := s.threads.Load(input.ConversationID)
	if !ok {
		return nil, ErrThreadNotFound
	}

	msg, err := s.newMessage(input)
	if err != nil {
		return nil, err
	}

	thread.mu.Lock()
	now := s.clock()
	if now.Before(thread.updatedAt) {
		now = thread.updatedAt
	}
	msg = thread.appendLocked(msg, s.newID(), now)
	thread.updatedAt = msg.SentAt
	thread.mu.Unlock()

	return &msg, nil
}
