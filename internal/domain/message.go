package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Message is one element of the JSON array kept in an item's contact_details
// column. All messages about an item form a single conversation.
type Message struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Edited    bool      `json:"edited,omitempty"`
}

type SendMessageInput struct {
	Message string `json:"message"`
}

func (in *SendMessageInput) Normalize() error {
	text, err := normalizeText("message", in.Message)
	in.Message = text
	return err
}

// Thread is the message conversation attached to one item.
type Thread struct {
	ItemID     uuid.UUID  `json:"item_id"`
	ItemTitle  string     `json:"item_title"`
	ItemStatus ItemStatus `json:"item_status"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	Messages   []Message  `json:"messages"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewMessage builds a message from sender. Messages the owner writes are
// born read.
func NewMessage(sender *User, ownerID uuid.UUID, text string, now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		UserID:    sender.ID,
		UserName:  sender.DisplayName(),
		Message:   text,
		Timestamp: now.UTC(),
		Read:      sender.ID == ownerID,
	}
}

// AddMessage returns a new list with m first.
func AddMessage(list []Message, m Message) []Message {
	out := make([]Message, 0, len(list)+1)
	out = append(out, m)
	return append(out, list...)
}

func EditMessage(list []Message, id string, actor uuid.UUID, text string) ([]Message, error) {
	idx := indexOfMessage(list, id)
	if idx < 0 {
		return list, ErrMessageNotFound
	}
	if list[idx].UserID != actor {
		return list, ErrNotMessageAuthor
	}
	out := append([]Message(nil), list...)
	out[idx].Message = text
	out[idx].Edited = true
	return out, nil
}

func RemoveMessage(list []Message, id string, actor uuid.UUID) ([]Message, error) {
	idx := indexOfMessage(list, id)
	if idx < 0 {
		return list, ErrMessageNotFound
	}
	if list[idx].UserID != actor {
		return list, ErrNotMessageAuthor
	}
	out := make([]Message, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...), nil
}

// MarkAllRead returns a copy with every message read and whether anything changed.
func MarkAllRead(list []Message) ([]Message, bool) {
	out := append([]Message(nil), list...)
	changed := false
	for i := range out {
		if !out[i].Read {
			out[i].Read = true
			changed = true
		}
	}
	return out, changed
}

func CountUnread(list []Message) int {
	n := 0
	for _, m := range list {
		if !m.Read {
			n++
		}
	}
	return n
}

func indexOfMessage(list []Message, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// DecodeMessages keeps the well-formed messages of a stored contact_details
// value: objects carrying userId, message, timestamp and read.
func DecodeMessages(raw []byte) []Message {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []Message{}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []Message{}
	}
	out := make([]Message, 0, len(elems))
	for i, e := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(e, &fields); err != nil {
			continue
		}
		if !hasKeys(fields, "userId", "message", "timestamp", "read") {
			continue
		}
		var m Message
		if err := json.Unmarshal(e, &m); err != nil {
			continue
		}
		if m.ID == "" {
			m.ID = legacyElementID("contact_details", i, e)
		}
		out = append(out, m)
	}
	return out
}

func hasKeys(m map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

func EncodeMessages(list []Message) ([]byte, error) {
	if list == nil {
		list = []Message{}
	}
	return json.Marshal(list)
}

// ConversationSummary is one row of the inbox.
type ConversationSummary struct {
	ItemID      uuid.UUID `json:"item_id"`
	ItemTitle   string    `json:"item_title"`
	LastMessage string    `json:"last_message"`
	Timestamp   time.Time `json:"timestamp"`
	Unread      bool      `json:"unread"`
}

const summaryPreviewLen = 50

func preview(text string) string {
	r := []rune(text)
	if len(r) <= summaryPreviewLen {
		return text
	}
	return string(r[:summaryPreviewLen]) + "..."
}

// SummarizeConversations builds userID's inbox. Threads on items the user
// owns come first in precedence and report unread messages; threads the user
// wrote in show the user's latest message; claim conversations without any
// message yet are listed last. Entries are unique per item and sorted newest first.
func SummarizeConversations(userID uuid.UUID, threads []Thread, convs []Conversation) []ConversationSummary {
	seen := make(map[uuid.UUID]bool)
	var out []ConversationSummary

	add := func(s ConversationSummary) {
		if seen[s.ItemID] {
			return
		}
		seen[s.ItemID] = true
		out = append(out, s)
	}

	for _, t := range threads {
		if t.OwnerID != userID || len(t.Messages) == 0 {
			continue
		}
		add(ConversationSummary{
			ItemID:      t.ItemID,
			ItemTitle:   t.ItemTitle,
			LastMessage: preview(t.Messages[0].Message),
			Timestamp:   t.UpdatedAt,
			Unread:      CountUnread(t.Messages) > 0,
		})
	}

	for _, t := range threads {
		if t.OwnerID == userID {
			continue
		}
		last := "No messages"
		for _, m := range t.Messages {
			if m.UserID == userID {
				last = m.Message
				break
			}
		}
		add(ConversationSummary{
			ItemID:      t.ItemID,
			ItemTitle:   t.ItemTitle,
			LastMessage: preview(last),
			Timestamp:   t.UpdatedAt,
		})
	}

	for _, c := range convs {
		add(ConversationSummary{
			ItemID:      c.ItemID,
			ItemTitle:   c.ItemTitle,
			LastMessage: "No messages",
			Timestamp:   c.UpdatedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if out == nil {
		out = []ConversationSummary{}
	}
	return out
}
