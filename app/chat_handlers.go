package gatedchat

import (
	"net/http"

	"github.com/putto11262002/gatedchat/core"
)

type ChatHandler struct {
	chatStore core.ChatStore
}

func NewChatHandler(chatStore core.ChatStore) *ChatHandler {
	return &ChatHandler{chatStore: chatStore}
}

// SendMessagePayload is the body of a room or DM message post.
// Text and ImageDataURL are both optional but one of them must be set.
type SendMessagePayload struct {
	Sender       string `json:"sender"`
	Text         string `json:"text"`
	ImageDataURL string `json:"imageDataUrl"`
}

type OpenDmThreadPayload struct {
	SelfAlias  string `json:"selfAlias" validate:"required"`
	OtherAlias string `json:"otherAlias" validate:"required"`
}

type RoomsResponse struct {
	Rooms []core.Room `json:"rooms"`
}

type MessagesResponse struct {
	Messages []core.Message `json:"messages"`
}

type MessageResponse struct {
	Message core.Message `json:"message"`
}

type ThreadResponse struct {
	Thread core.DmThread `json:"thread"`
}

type ThreadsResponse struct {
	Threads []core.DmThread `json:"threads"`
}

func (h *ChatHandler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) error {
	rooms := h.chatStore.ListRooms(r.Context())
	if rooms == nil {
		rooms = []core.Room{}
	}
	return writeJSON(w, RoomsResponse{Rooms: rooms})
}

func (h *ChatHandler) GetRoomMessagesHandler(w http.ResponseWriter, r *http.Request) error {
	messages, err := h.chatStore.GetRoomMessages(r.Context(), r.PathValue("roomID"))
	if err != nil {
		return err
	}
	return writeJSON(w, MessagesResponse{Messages: messages})
}

func (h *ChatHandler) SendRoomMessageHandler(w http.ResponseWriter, r *http.Request) error {
	var payload SendMessagePayload
	if err := decodeJSON(r, &payload); err != nil {
		return err
	}

	message, err := h.chatStore.AppendRoomMessage(r.Context(), payload.input(r.PathValue("roomID")))
	if err != nil {
		return err
	}
	return writeJSONWithStatusCode(w, MessageResponse{Message: *message}, http.StatusCreated)
}

func (h *ChatHandler) OpenDmThreadHandler(w http.ResponseWriter, r *http.Request) error {
	var payload OpenDmThreadPayload
	if err := decodeJSON(r, &payload); err != nil {
		return err
	}

	thread, err := h.chatStore.OpenDmThread(r.Context(), payload.SelfAlias, payload.OtherAlias)
	if err != nil {
		return err
	}
	return writeJSON(w, ThreadResponse{Thread: *thread})
}

func (h *ChatHandler) ListDmThreadsHandler(w http.ResponseWriter, r *http.Request) error {
	threads, err := h.chatStore.ListDmThreads(r.Context(), r.URL.Query().Get("selfAlias"))
	if err != nil {
		return err
	}
	return writeJSON(w, ThreadsResponse{Threads: threads})
}

func (h *ChatHandler) GetDmMessagesHandler(w http.ResponseWriter, r *http.Request) error {
	messages, err := h.chatStore.GetDmMessages(r.Context(), r.PathValue("threadID"))
	if err != nil {
		return err
	}
	return writeJSON(w, MessagesResponse{Messages: messages})
}

func (h *ChatHandler) SendDmMessageHandler(w http.ResponseWriter, r *http.Request) error {
	var payload SendMessagePayload
	if err := decodeJSON(r, &payload); err != nil {
		return err
	}

	message, err := h.chatStore.AppendDmMessage(r.Context(), payload.input(r.PathValue("threadID")))
	if err != nil {
		return err
	}
	return writeJSONWithStatusCode(w, MessageResponse{Message: *message}, http.StatusCreated)
}

func (p SendMessagePayload) input(conversationID string) core.MessageInput {
	return core.MessageInput{
		ConversationID: conversationID,
		Sender:         p.Sender,
		Text:           p.Text,
		ImageData:      p.ImageDataURL,
	}
}
