package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment is one element of the JSON array kept in an item's comments column.
type Comment struct {
	ID          string         `json:"id"`
	UserID      uuid.UUID      `json:"userId"`
	UserName    string         `json:"userName"`
	Message     string         `json:"message"`
	Timestamp   time.Time      `json:"timestamp"`
	UserDetails *CommentAuthor `json:"userDetails,omitempty"`
	Edited      bool           `json:"edited,omitempty"`
}

type CommentAuthor struct {
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	ProfileID uuid.UUID `json:"profileId"`
}

type CreateCommentInput struct {
	Message string `json:"message"`
}

type UpdateCommentInput struct {
	Message string `json:"message"`
}

func normalizeText(field, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", NewValidationError(field, "Message cannot be empty")
	}
	if len([]rune(text)) > 2000 {
		return "", NewValidationError(field, "Message must be at most 2000 characters")
	}
	return text, nil
}

func (in *CreateCommentInput) Normalize() error {
	text, err := normalizeText("message", in.Message)
	in.Message = text
	return err
}

func (in *UpdateCommentInput) Normalize() error {
	text, err := normalizeText("message", in.Message)
	in.Message = text
	return err
}

// NewComment builds a comment authored by user.
func NewComment(user *User, message string, now time.Time) Comment {
	return Comment{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.DisplayName(),
		Message:   message,
		Timestamp: now.UTC(),
		UserDetails: &CommentAuthor{
			Email:     user.Email,
			Name:      user.FullName,
			ProfileID: user.ID,
		},
	}
}

// AddComment returns a new list with c first. The input slice is not modified.
func AddComment(list []Comment, c Comment) []Comment {
	out := make([]Comment, 0, len(list)+1)
	out = append(out, c)
	return append(out, list...)
}

// EditComment replaces the message of the comment with the given id. Only the
// comment's author may edit it; on error the input is returned unchanged.
func EditComment(list []Comment, id string, actor uuid.UUID, message string) ([]Comment, error) {
	idx := indexOfComment(list, id)
	if idx < 0 {
		return list, ErrCommentNotFound
	}
	if list[idx].UserID != actor {
		return list, ErrNotCommentAuthor
	}
	out := append([]Comment(nil), list...)
	out[idx].Message = message
	out[idx].Edited = true
	return out, nil
}

// RemoveComment drops the comment with the given id, author only.
func RemoveComment(list []Comment, id string, actor uuid.UUID) ([]Comment, error) {
	idx := indexOfComment(list, id)
	if idx < 0 {
		return list, ErrCommentNotFound
	}
	if list[idx].UserID != actor {
		return list, ErrNotCommentAuthor
	}
	out := make([]Comment, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...), nil
}

func indexOfComment(list []Comment, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// SortCommentsNewestFirst orders comments by timestamp, most recent first.
func SortCommentsNewestFirst(list []Comment) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
}

var legacyIDSpace = uuid.MustParse("5b0f3c1e-8d2a-4e47-9a61-2f7c0d9b4e13")

// legacyElementID derives the id of an array element stored without one from
// its column, position and bytes. The same stored row always decodes to the
// same ids, and the next write persists them.
func legacyElementID(column string, index int, raw json.RawMessage) string {
	key := make([]byte, 0, len(column)+len(raw)+8)
	key = append(key, column...)
	key = append(key, ':')
	key = strconv.AppendInt(key, int64(index), 10)
	key = append(key, ':')
	key = append(key, raw...)
	return uuid.NewSHA1(legacyIDSpace, key).String()
}

// DecodeComments reads a stored comments value. Besides the canonical array it
// accepts a JSON string holding an array, an object with a "comments" array
// and a single comment object, which older rows contain. Elements that do not
// decode are skipped and comments without an id get a stable one.
func DecodeComments(raw []byte) []Comment {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Comment{}
	}

	switch raw[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return []Comment{}
		}
		return decodeCommentElems(elems)
	case '"':
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return []Comment{}
		}
		inner = strings.TrimSpace(inner)
		if !strings.HasPrefix(inner, "[") {
			return []Comment{}
		}
		return DecodeComments([]byte(inner))
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return []Comment{}
		}
		if nested, ok := obj["comments"]; ok {
			return DecodeComments(nested)
		}
		_, hasMessage := obj["message"]
		_, hasUser := obj["userId"]
		if hasMessage && hasUser {
			return decodeCommentElems([]json.RawMessage{raw})
		}
	}
	return []Comment{}
}

func decodeCommentElems(elems []json.RawMessage) []Comment {
	out := make([]Comment, 0, len(elems))
	for i, e := range elems {
		var c Comment
		if err := json.Unmarshal(e, &c); err != nil {
			continue
		}
		if c.ID == "" {
			c.ID = legacyElementID("comments", i, e)
		}
		out = append(out, c)
	}
	return out
}

// EncodeComments produces the canonical stored form.
func EncodeComments(list []Comment) ([]byte, error) {
	if list == nil {
		list = []Comment{}
	}
	return json.Marshal(list)
}
