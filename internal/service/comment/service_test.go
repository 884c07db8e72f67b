package comment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/mocks"
	"campus-lostfound/internal/service/comment"
)

func setup() (*mocks.CommentRepository, *mocks.ItemRepository, *mocks.UserRepository, *mocks.Publisher, comment.Service) {
	commentRepo := new(mocks.CommentRepository)
	itemRepo := new(mocks.ItemRepository)
	userRepo := new(mocks.UserRepository)
	pub := new(mocks.Publisher)
	return commentRepo, itemRepo, userRepo, pub, comment.NewService(commentRepo, itemRepo, userRepo, pub)
}

func TestCommentService_Create(t *testing.T) {
	commentRepo, itemRepo, userRepo, pub, svc := setup()

	ctx := context.Background()
	author := &domain.User{ID: uuid.New(), Email: "dana@campus.edu"}
	item := &domain.Item{ID: uuid.New(), IsVisible: true, ReportedBy: uuid.New()}
	older := domain.Comment{ID: "c-1", UserID: uuid.New(), Message: "seen it near the library", Timestamp: time.Now().Add(-time.Hour)}

	t.Run("Success", func(t *testing.T) {
		itemRepo.On("GetByID", ctx, item.ID).Return(item, nil).Once()
		userRepo.On("GetByID", ctx, author.ID).Return(author, nil).Once()
		commentRepo.On("Mutate", ctx, item.ID).Return([]domain.Comment{older}, nil).Once()

		comments, err := svc.Create(ctx, author.ID, item.ID, domain.CreateCommentInput{Message: "  hello  "})

		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "hello", comments[0].Message)
		assert.Equal(t, "dana", comments[0].UserName)
		assert.Equal(t, "c-1", comments[1].ID)
		assert.Equal(t, item.ID, pub.Events()[0].RowID)
		commentRepo.AssertExpectations(t)
	})

	t.Run("Empty message", func(t *testing.T) {
		_, err := svc.Create(ctx, author.ID, item.ID, domain.CreateCommentInput{Message: "   "})

		assert.ErrorAs(t, err, new(*domain.ValidationError))
	})

	t.Run("Hidden item", func(t *testing.T) {
		hidden := &domain.Item{ID: uuid.New(), IsVisible: false, ReportedBy: uuid.New()}
		itemRepo.On("GetByID", ctx, hidden.ID).Return(hidden, nil).Once()

		_, err := svc.Create(ctx, author.ID, hidden.ID, domain.CreateCommentInput{Message: "hi"})

		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestCommentService_Update(t *testing.T) {
	commentRepo, _, _, _, svc := setup()

	ctx := context.Background()
	itemID := uuid.New()
	userID := uuid.New()
	otherUserID := uuid.New()
	existing := []domain.Comment{{ID: "c-1", UserID: userID, Message: "hello"}}

	t.Run("Success", func(t *testing.T) {
		commentRepo.On("Mutate", ctx, itemID).Return(existing, nil).Once()

		comments, err := svc.Update(ctx, userID, itemID, "c-1", domain.UpdateCommentInput{Message: "hi"})

		require.NoError(t, err)
		assert.Equal(t, "hi", comments[0].Message)
		assert.True(t, comments[0].Edited)
		assert.Equal(t, "hello", existing[0].Message)
	})

	t.Run("Permission Error", func(t *testing.T) {
		commentRepo.On("Mutate", ctx, itemID).Return(existing, nil).Once()

		comments, err := svc.Update(ctx, otherUserID, itemID, "c-1", domain.UpdateCommentInput{Message: "hijack"})

		assert.ErrorIs(t, err, domain.ErrNotCommentAuthor)
		assert.Nil(t, comments)
		assert.Contains(t, err.Error(), "insufficient permissions")
	})

	t.Run("Unknown comment", func(t *testing.T) {
		commentRepo.On("Mutate", ctx, itemID).Return(existing, nil).Once()

		_, err := svc.Update(ctx, userID, itemID, "c-404", domain.UpdateCommentInput{Message: "hi"})

		assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	})
}

func TestCommentService_Delete(t *testing.T) {
	commentRepo, _, _, pub, svc := setup()

	ctx := context.Background()
	itemID := uuid.New()
	userID := uuid.New()
	otherUserID := uuid.New()
	existing := []domain.Comment{
		{ID: "c-2", UserID: otherUserID, Message: "me too", Timestamp: time.Now()},
		{ID: "c-1", UserID: userID, Message: "hello", Timestamp: time.Now().Add(-time.Minute)},
	}

	t.Run("Permission Error", func(t *testing.T) {
		commentRepo.On("Mutate", ctx, itemID).Return(existing, nil).Once()

		_, err := svc.Delete(ctx, otherUserID, itemID, "c-1")

		assert.ErrorIs(t, err, domain.ErrNotCommentAuthor)
		assert.Empty(t, pub.Events())
	})

	t.Run("Success", func(t *testing.T) {
		commentRepo.On("Mutate", ctx, itemID).Return(existing, nil).Once()

		comments, err := svc.Delete(ctx, userID, itemID, "c-1")

		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "c-2", comments[0].ID)
		assert.Len(t, pub.Events(), 1)
	})

	t.Run("Item gone", func(t *testing.T) {
		commentRepo.On("Mutate", ctx, itemID).Return(nil, domain.ErrItemNotFound).Once()

		_, err := svc.Delete(ctx, userID, itemID, "c-1")

		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestCommentService_List(t *testing.T) {
	commentRepo, itemRepo, _, _, svc := setup()

	ctx := context.Background()
	owner := uuid.New()
	hidden := &domain.Item{ID: uuid.New(), IsVisible: false, ReportedBy: owner}
	itemRepo.On("GetByID", ctx, hidden.ID).Return(hidden, nil)
	commentRepo.On("ListByItem", ctx, hidden.ID).Return([]domain.Comment{}, nil).Once()

	comments, err := svc.List(ctx, owner, hidden.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = svc.List(ctx, uuid.Nil, hidden.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	commentRepo.AssertNumberOfCalls(t, "ListByItem", 1)
	mock.AssertExpectationsForObjects(t, commentRepo)
}
