package claim

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/pkg/i18n"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/repository"
	"campus-lostfound/internal/service/audit"
	"campus-lostfound/internal/service/notification"
)

type Service interface {
	Submit(ctx context.Context, userID, itemID uuid.UUID, input domain.SubmitClaimInput, meta *domain.RequestMeta) (*domain.Claim, error)
	Approve(ctx context.Context, ownerID, claimID uuid.UUID, meta *domain.RequestMeta) (*domain.Claim, error)
	Reject(ctx context.Context, ownerID, claimID uuid.UUID, meta *domain.RequestMeta) (*domain.Claim, error)
	Delete(ctx context.Context, actorID, claimID uuid.UUID, meta *domain.RequestMeta) error

	RevertToLost(ctx context.Context, ownerID, itemID uuid.UUID, meta *domain.RequestMeta) (*domain.Item, error)
	MarkClaimed(ctx context.Context, ownerID, itemID uuid.UUID, meta *domain.RequestMeta) (*domain.Item, error)
	MarkReturned(ctx context.Context, ownerID, itemID uuid.UUID, meta *domain.RequestMeta) (*domain.Item, error)

	ListForItem(ctx context.Context, ownerID, itemID uuid.UUID) ([]domain.Claim, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Claim, error)

	SetNotificationService(notifSvc notification.Service)
}

type service struct {
	claimRepo repository.ClaimRepository
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
	auditSvc  audit.Service
	notifSvc  notification.Service
	publisher realtime.Publisher
	onChange  func(ctx context.Context)
	locale    string
	log       *zap.SugaredLogger
}

// NewService wires the claim workflow. onChange runs after every item status
// change; the item service uses it to drop cached stats.
func NewService(
	claimRepo repository.ClaimRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	auditSvc audit.Service,
	publisher realtime.Publisher,
	onChange func(ctx context.Context),
	locale string,
	log *zap.SugaredLogger,
) Service {
	if onChange == nil {
		onChange = func(context.Context) {}
	}
	return &service{
		claimRepo: claimRepo,
		itemRepo:  itemRepo,
		userRepo:  userRepo,
		auditSvc:  auditSvc,
		publisher: publisher,
		onChange:  onChange,
		locale:    locale,
		log:       log,
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) Submit(ctx context.Context, userID, itemID uuid.UUID, input domain.SubmitClaimInput, meta *domain.RequestMeta) (*domain.Claim, error) {
	if err := input.Normalize(); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.VisibleTo(userID) {
		return nil, domain.ErrItemNotFound
	}
	if item.IsOwnedBy(userID) {
		return nil, domain.ErrCannotClaimOwnItem
	}
	if !item.Status.IsOpen() {
		return nil, domain.ErrItemNotClaimable
	}

	claimant, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if claimant == nil {
		return nil, domain.ErrUserNotFound
	}
	owner, err := s.userRepo.GetByID(ctx, item.ReportedBy)
	if err != nil {
		return nil, err
	}

	claim := &domain.Claim{
		ID:          uuid.New(),
		ItemID:      item.ID,
		UserID:      userID,
		Description: input.Description,
		Contact:     input.Contact,
		Status:      domain.ClaimPending,
		Claimant:    claimant.Summary(),
	}

	sub := &domain.ClaimSubmission{
		Claim: claim,
		Conversation: &domain.Conversation{
			ID:            uuid.New(),
			ItemID:        item.ID,
			OwnerID:       item.ReportedBy,
			ParticipantID: userID,
		},
	}
	if owner != nil && owner.InAppNotifications {
		msg := i18n.Format(s.locale, "NOTIF_CLAIM", map[string]string{"email": claimant.Email})
		sub.Notification = domain.NewNotification(domain.NotifClaim, owner.ID, userID, item.ID, msg)
	}

	if err := s.claimRepo.Submit(ctx, sub); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, domain.ClaimChange(domain.ChangeInsert, claim))
	s.publisher.Publish(ctx, domain.ConversationChange(domain.ChangeInsert, sub.Conversation))
	if s.notifSvc != nil {
		if sub.Notification != nil {
			s.notifSvc.Delivered(ctx, sub.Notification)
		}
		s.notifSvc.NotifyNewClaim(owner, claimant, item)
	}

	s.auditSvc.Record(ctx, userID, domain.ActionClaimSubmitted, item.ID, nil, claim, meta)

	return claim, nil
}

// ownedItem loads the item and checks that ownerID reported it.
func (s *service) ownedItem(ctx context.Context, ownerID, itemID uuid.UUID) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(ownerID) {
		return nil, domain.ErrNotItemOwner
	}
	return item, nil
}

// claimForOwner loads a claim together with its item, owner only.
func (s *service) claimForOwner(ctx context.Context, ownerID, claimID uuid.UUID) (*domain.Claim, *domain.Item, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, nil, err
	}
	item, err := s.ownedItem(ctx, ownerID, claim.ItemID)
	if err != nil {
		return nil, nil, err
	}
	return claim, item, nil
}

func (s *service) Approve(ctx context.Context, ownerID, claimID uuid.UUID, meta *domain.RequestMeta) (*domain.Claim, error) {
	claim, item, err := s.claimForOwner(ctx, ownerID, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status != domain.ClaimPending {
		return nil, domain.ErrInvalidClaimTransition
	}
	if !item.Status.AcceptsApproval() {
		return nil, domain.ErrItemNotClaimable
	}
	oldItem := *item

	if err := s.claimRepo.Approve(ctx, claim, item); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, domain.ClaimChange(domain.ChangeUpdate, claim))
	s.publisher.Publish(ctx, domain.ItemChange(domain.ChangeUpdate, item))
	s.onChange(ctx)

	if s.notifSvc != nil {
		owner, _ := s.userRepo.GetByID(ctx, ownerID)
		claimant, err := s.userRepo.GetByID(ctx, claim.UserID)
		if err != nil {
			s.log.Warnw("failed to load claimant", "claim_id", claim.ID, "error", err)
		}
		if owner != nil {
			s.notifSvc.NotifyClaimApproved(ctx, owner, claimant, item)
		}
	}

	s.auditSvc.Record(ctx, ownerID, domain.ActionClaimApproved, item.ID, &oldItem, claim, meta)

	return claim, nil
}

func (s *service) Reject(ctx context.Context, ownerID, claimID uuid.UUID, meta *domain.RequestMeta) (*domain.Claim, error) {
	claim, item, err := s.claimForOwner(ctx, ownerID, claimID)
	if err != nil {
		return nil, err
	}
	if err := claim.Reject(); err != nil {
		return nil, err
	}

	if err := s.claimRepo.UpdateStatus(ctx, claim); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, domain.ClaimChange(domain.ChangeUpdate, claim))
	s.auditSvc.Record(ctx, ownerID, domain.ActionClaimRejected, item.ID, nil, claim, meta)

	return claim, nil
}

// Delete removes a claim. The item keeps its status either way.
func (s *service) Delete(ctx context.Context, actorID, claimID uuid.UUID, meta *domain.RequestMeta) error {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return err
	}

	item, err := s.itemRepo.GetByID(ctx, claim.ItemID)
	if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
		return err
	}
	if !claim.CanBeRemovedBy(actorID, item) {
		return domain.ErrNotClaimParticipant
	}

	if err := s.claimRepo.Delete(ctx, claimID); err != nil {
		return err
	}

	s.publisher.Publish(ctx, domain.ClaimChange(domain.ChangeDelete, claim))
	s.auditSvc.Record(ctx, actorID, domain.ActionClaimDeleted, claim.ItemID, claim, nil, meta)

	return nil
}

func (s *service) RevertToLost(ctx context.Context, ownerID, itemID uuid.UUID, meta *domain.RequestMeta) (*domain.Item, error) {
	return s.changeItemStatus(ctx, ownerID, itemID, domain.ActionItemReverted, meta, func(item *domain.Item) error {
		item.RevertToLost()
		return nil
	})
}

// MarkClaimed puts a reverted item back in the hands of its approved claimant.
func (s *service) MarkClaimed(ctx context.Context, ownerID, itemID uuid.UUID, meta *domain.RequestMeta) (*domain.Item, error) {
	approved, err := s.claimRepo.GetApprovedForItem(ctx, itemID)
	if err != nil && !errors.Is(err, domain.ErrNoApprovedClaim) {
		return nil, err
	}
	return s.changeItemStatus(ctx, ownerID, itemID, domain.ActionItemMarkClaimed, meta, func(item *domain.Item) error {
		if approved == nil {
			return domain.ErrNoApprovedClaim
		}
		return item.MarkClaimed(approved.UserID)
	})
}

func (s *service) MarkReturned(ctx context.Context, ownerID, itemID uuid.UUID, meta *domain.RequestMeta) (*domain.Item, error) {
	return s.changeItemStatus(ctx, ownerID, itemID, domain.ActionItemReturned, meta, func(item *domain.Item) error {
		return item.MarkReturned()
	})
}

func (s *service) changeItemStatus(ctx context.Context, ownerID, itemID uuid.UUID, action string, meta *domain.RequestMeta, apply func(*domain.Item) error) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	oldItem := *item

	if err := apply(item); err != nil {
		return nil, err
	}
	if err := s.itemRepo.UpdateStatus(ctx, item); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, domain.ItemChange(domain.ChangeUpdate, item))
	s.onChange(ctx)
	s.auditSvc.Record(ctx, ownerID, action, item.ID, &oldItem, item, meta)

	return item, nil
}

func (s *service) ListForItem(ctx context.Context, ownerID, itemID uuid.UUID) ([]domain.Claim, error) {
	if _, err := s.ownedItem(ctx, ownerID, itemID); err != nil {
		return nil, err
	}
	return s.claimRepo.ListByItem(ctx, itemID)
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Claim, error) {
	return s.claimRepo.ListByUser(ctx, userID)
}
