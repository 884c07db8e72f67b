package item

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/repository"
	"campus-lostfound/internal/service/audit"
)

const (
	statsCacheKey = "items:stats"
	similarLimit  = 5
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreateItemInput, meta *domain.RequestMeta) (*domain.Item, error)
	Get(ctx context.Context, viewerID, itemID uuid.UUID) (*domain.ItemDetail, error)
	List(ctx context.Context, q domain.ItemQuery, params domain.PaginationParams) (domain.PaginatedResponse[domain.Item], error)
	FindSimilar(ctx context.Context, status domain.ItemStatus, title string) ([]domain.Item, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, input domain.UpdateItemInput, meta *domain.RequestMeta) (*domain.Item, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID, meta *domain.RequestMeta) error
	SetVisibility(ctx context.Context, userID, itemID uuid.UUID, visible bool, meta *domain.RequestMeta) (*domain.Item, error)
	Stats(ctx context.Context) (*domain.ItemStats, error)
	Activity(ctx context.Context, ownerID, itemID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
	InvalidateStats(ctx context.Context)
}

type service struct {
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
	auditSvc  audit.Service
	publisher realtime.Publisher
	redis     *redis.Client
	log       *zap.SugaredLogger
}

func NewService(
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	auditSvc audit.Service,
	publisher realtime.Publisher,
	redis *redis.Client,
	log *zap.SugaredLogger,
) Service {
	return &service{
		itemRepo:  itemRepo,
		userRepo:  userRepo,
		auditSvc:  auditSvc,
		publisher: publisher,
		redis:     redis,
		log:       log,
	}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input domain.CreateItemInput, meta *domain.RequestMeta) (*domain.Item, error) {
	category, status, err := input.Validate()
	if err != nil {
		return nil, err
	}

	item := &domain.Item{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Status:      status,
		Location:    strings.TrimSpace(input.Location),
		RoomNumber:  input.RoomNumber,
		Coordinates: input.Coordinates,
		Date:        input.Date,
		Images:      append([]string{}, input.Images...),
		ReportedBy:  userID,
		IsVisible:   true,
	}
	if input.IsVisible != nil {
		item.IsVisible = *input.IsVisible
	}
	if item.Date.IsZero() {
		item.Date = time.Now().UTC()
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, domain.ItemChange(domain.ChangeInsert, item))
	s.InvalidateStats(ctx)
	s.auditSvc.Record(ctx, userID, domain.ActionItemCreated, item.ID, nil, item, meta)

	return item, nil
}

func (s *service) Get(ctx context.Context, viewerID, itemID uuid.UUID) (*domain.ItemDetail, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.VisibleTo(viewerID) {
		return nil, domain.ErrItemNotFound
	}

	reporter, err := s.userRepo.GetByID(ctx, item.ReportedBy)
	if err != nil {
		return nil, err
	}
	if reporter != nil {
		item.Reporter = reporter.Summary()
	}

	return &domain.ItemDetail{
		Item:      *item,
		IsOwner:   viewerID != uuid.Nil && item.IsOwnedBy(viewerID),
		IsClaimer: viewerID != uuid.Nil && item.ClaimedBy != nil && *item.ClaimedBy == viewerID,
	}, nil
}

func (s *service) List(ctx context.Context, q domain.ItemQuery, params domain.PaginationParams) (domain.PaginatedResponse[domain.Item], error) {
	params.Validate()

	items, total, err := s.itemRepo.List(ctx, q, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Item]{}, err
	}

	return domain.NewPaginatedResponse(items, params.Page, params.PageSize, total), nil
}

// FindSimilar looks for reports that might match a new one: a lost report is
// compared with found items and vice versa.
func (s *service) FindSimilar(ctx context.Context, status domain.ItemStatus, title string) ([]domain.Item, error) {
	if strings.TrimSpace(title) == "" {
		return []domain.Item{}, nil
	}
	return s.itemRepo.FindSimilar(ctx, status.Opposite(), title, similarLimit)
}

func (s *service) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(userID) {
		return nil, domain.ErrNotItemOwner
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, userID, itemID uuid.UUID, input domain.UpdateItemInput, meta *domain.RequestMeta) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	oldItem := *item

	if err := input.Apply(item); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, domain.ItemChange(domain.ChangeUpdate, item))
	s.auditSvc.Record(ctx, userID, domain.ActionItemUpdated, item.ID, &oldItem, item, meta)

	return item, nil
}

func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID, meta *domain.RequestMeta) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return err
	}

	s.publisher.Publish(ctx, domain.ItemChange(domain.ChangeDelete, item))
	s.InvalidateStats(ctx)
	s.auditSvc.Record(ctx, userID, domain.ActionItemDeleted, item.ID, item, nil, meta)

	return nil
}

func (s *service) SetVisibility(ctx context.Context, userID, itemID uuid.UUID, visible bool, meta *domain.RequestMeta) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.IsVisible == visible {
		return item, nil
	}

	if err := s.itemRepo.SetVisibility(ctx, itemID, visible); err != nil {
		return nil, err
	}
	item.IsVisible = visible

	s.publisher.Publish(ctx, domain.ItemChange(domain.ChangeUpdate, item))
	s.InvalidateStats(ctx)
	s.auditSvc.Record(ctx, userID, domain.ActionItemVisibility, item.ID, nil, map[string]bool{"is_visible": visible}, meta)

	return item, nil
}

func (s *service) Stats(ctx context.Context) (*domain.ItemStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats domain.ItemStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.itemRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, statsCacheKey, statsJSON, 5*time.Minute).Err()
		}
	}

	return &stats, nil
}

func (s *service) InvalidateStats(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, statsCacheKey).Err(); err != nil {
		s.log.Warnw("failed to drop stats cache", "error", err)
	}
}

func (s *service) Activity(ctx context.Context, ownerID, itemID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	if _, err := s.ownedItem(ctx, ownerID, itemID); err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	return s.auditSvc.ItemActivity(ctx, itemID, params)
}
