package comment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/repository"
)

type Service interface {
	List(ctx context.Context, viewerID, itemID uuid.UUID) ([]domain.Comment, error)
	Create(ctx context.Context, userID, itemID uuid.UUID, input domain.CreateCommentInput) ([]domain.Comment, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, commentID string, input domain.UpdateCommentInput) ([]domain.Comment, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID, commentID string) ([]domain.Comment, error)
}

type service struct {
	commentRepo repository.CommentRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	publisher   realtime.Publisher
	now         func() time.Time
}

func NewService(commentRepo repository.CommentRepository, itemRepo repository.ItemRepository, userRepo repository.UserRepository, publisher realtime.Publisher) Service {
	return &service{
		commentRepo: commentRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *service) visibleItem(ctx context.Context, viewerID, itemID uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.VisibleTo(viewerID) {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *service) List(ctx context.Context, viewerID, itemID uuid.UUID) ([]domain.Comment, error) {
	if err := s.visibleItem(ctx, viewerID, itemID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByItem(ctx, itemID)
}

func (s *service) Create(ctx context.Context, userID, itemID uuid.UUID, input domain.CreateCommentInput) ([]domain.Comment, error) {
	if err := input.Normalize(); err != nil {
		return nil, err
	}
	if err := s.visibleItem(ctx, userID, itemID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	c := domain.NewComment(user, input.Message, s.now())
	return s.mutate(ctx, itemID, func(current []domain.Comment) ([]domain.Comment, error) {
		return domain.AddComment(current, c), nil
	})
}

func (s *service) Update(ctx context.Context, userID, itemID uuid.UUID, commentID string, input domain.UpdateCommentInput) ([]domain.Comment, error) {
	if err := input.Normalize(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, itemID, func(current []domain.Comment) ([]domain.Comment, error) {
		return domain.EditComment(current, commentID, userID, input.Message)
	})
}

func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID, commentID string) ([]domain.Comment, error) {
	return s.mutate(ctx, itemID, func(current []domain.Comment) ([]domain.Comment, error) {
		return domain.RemoveComment(current, commentID, userID)
	})
}

// mutate applies fn under the row lock and returns the stored list, newest
// first.
func (s *service) mutate(ctx context.Context, itemID uuid.UUID, fn repository.CommentMutation) ([]domain.Comment, error) {
	comments, err := s.commentRepo.Mutate(ctx, itemID, fn)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, domain.ItemContentChange(itemID, "comments"))

	out := append([]domain.Comment{}, comments...)
	domain.SortCommentsNewestFirst(out)
	return out, nil
}
