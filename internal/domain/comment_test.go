package domain_test

import (
	"fmt"
	"testing"
	"time"

	"campus-lostfound/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentLifecycle(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Email: "alice@campus.edu", FullName: "Alice"}
	bob := &domain.User{ID: uuid.New(), Email: "bob@campus.edu"}
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	hello := domain.NewComment(alice, "hello", now)
	list := domain.AddComment(nil, hello)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice", list[0].UserName)
	assert.Equal(t, alice.ID, list[0].UserDetails.ProfileID)

	t.Run("Author edits", func(t *testing.T) {
		edited, err := domain.EditComment(list, hello.ID, alice.ID, "hi")
		require.NoError(t, err)
		assert.Equal(t, "hi", edited[0].Message)
		assert.True(t, edited[0].Edited)
		assert.Equal(t, "hello", list[0].Message, "input must not be modified")
	})

	t.Run("Other user cannot delete", func(t *testing.T) {
		out, err := domain.RemoveComment(list, hello.ID, bob.ID)
		assert.ErrorIs(t, err, domain.ErrNotCommentAuthor)
		assert.Equal(t, list, out)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := domain.EditComment(list, "missing", alice.ID, "x")
		assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	})

	t.Run("Author deletes", func(t *testing.T) {
		out, err := domain.RemoveComment(list, hello.ID, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("Email prefix is used without a full name", func(t *testing.T) {
		c := domain.NewComment(bob, "x", now)
		assert.Equal(t, "bob", c.UserName)
	})
}

func TestAddCommentKeepsNewestFirst(t *testing.T) {
	u := &domain.User{ID: uuid.New(), Email: "u@campus.edu"}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var list []domain.Comment
	for i := 0; i < 4; i++ {
		list = domain.AddComment(list, domain.NewComment(u, fmt.Sprintf("c%d", i), base.Add(time.Duration(i)*time.Minute)))
	}
	require.Len(t, list, 4)
	assert.Equal(t, "c3", list[0].Message)
	assert.Equal(t, "c0", list[3].Message)
}

func TestCommentInputNormalize(t *testing.T) {
	in := domain.CreateCommentInput{Message: "  spaced  "}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "spaced", in.Message)

	empty := domain.CreateCommentInput{Message: "   "}
	err := empty.Normalize()
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}

func TestDecodeComments(t *testing.T) {
	uid := uuid.New()

	t.Run("Array", func(t *testing.T) {
		raw := []byte(fmt.Sprintf(`[{"id":"a","userId":"%s","userName":"A","message":"m","timestamp":"2024-01-01T00:00:00Z"}]`, uid))
		list := domain.DecodeComments(raw)
		require.Len(t, list, 1)
		assert.Equal(t, "a", list[0].ID)
		assert.Equal(t, uid, list[0].UserID)
	})

	t.Run("Missing id gets one", func(t *testing.T) {
		raw := []byte(fmt.Sprintf(`[{"userId":"%s","message":"m","timestamp":"2024-01-01T00:00:00Z"}]`, uid))
		list := domain.DecodeComments(raw)
		require.Len(t, list, 1)
		assert.NotEmpty(t, list[0].ID)
	})

	t.Run("Missing id is stable across reads", func(t *testing.T) {
		raw := []byte(fmt.Sprintf(`[
			{"userId":"%[1]s","message":"same","timestamp":"2024-01-01T00:00:00Z"},
			{"userId":"%[1]s","message":"same","timestamp":"2024-01-01T00:00:00Z"}
		]`, uid))

		first := domain.DecodeComments(raw)
		second := domain.DecodeComments(raw)
		require.Len(t, first, 2)
		assert.Equal(t, first[0].ID, second[0].ID)
		assert.Equal(t, first[1].ID, second[1].ID)
		assert.NotEqual(t, first[0].ID, first[1].ID)

		edited, err := domain.EditComment(second, first[1].ID, uid, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", edited[1].Message)

		remaining, err := domain.RemoveComment(domain.DecodeComments(raw), first[0].ID, uid)
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})

	t.Run("Garbage yields empty list", func(t *testing.T) {
		assert.Empty(t, domain.DecodeComments([]byte(`not json`)))
		assert.Empty(t, domain.DecodeComments(nil))
		assert.Empty(t, domain.DecodeComments([]byte(`null`)))
	})

	t.Run("Round trip", func(t *testing.T) {
		u := &domain.User{ID: uid, Email: "x@y.z"}
		list := []domain.Comment{domain.NewComment(u, "hello", time.Now())}
		raw, err := domain.EncodeComments(list)
		require.NoError(t, err)
		decoded := domain.DecodeComments(raw)
		require.Len(t, decoded, 1)
		assert.Equal(t, list[0].ID, decoded[0].ID)
		assert.Equal(t, "hello", decoded[0].Message)
	})
}
