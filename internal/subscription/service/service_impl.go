package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/config"
	identitydomain "github.com/naturetrail/naturetrail/internal/identity/domain"
	"github.com/naturetrail/naturetrail/internal/providers/payment"
	"github.com/naturetrail/naturetrail/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log      *zap.Logger
	db       *gorm.DB
	repo     domain.Repository
	provider payment.Provider
	cfg      config.Config
	genID    *snowflake.Node
	clock    clock.Clock
}

func New(log *zap.Logger, db *gorm.DB, repo domain.Repository, provider payment.Provider, cfg config.Config, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:      log.Named("subscription.service"),
		db:       db,
		repo:     repo,
		provider: provider,
		cfg:      cfg,
		genID:    genID,
		clock:    clk,
	}
}

func (s *Service) Plans() []domain.Plan {
	return domain.Plans()
}

func (s *Service) CreatePaymentSession(ctx context.Context, userID snowflake.ID, planType domain.PlanType) (*payment.Session, error) {
	plan, ok := domain.PlanFor(planType)
	if !ok {
		return nil, domain.ErrUnknownPlan
	}

	session, err := s.provider.CreateCheckout(ctx, payment.CheckoutRequest{
		UserID:     userID.String(),
		PriceID:    plan.PriceID,
		PlanName:   plan.Name,
		AmountUSD:  plan.PriceUSD,
		SuccessURL: s.cfg.PaymentSuccessURL,
		CancelURL:  s.cfg.PaymentCancelURL,
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ConfirmPayment records a paid checkout. The subscription write and the
// tier write commit or roll back together; a same-plan renewal extends the
// existing active row instead of inserting a new one.
func (s *Service) ConfirmPayment(ctx context.Context, userID snowflake.ID, planType domain.PlanType, paymentMethod string) (*domain.Subscription, error) {
	plan, ok := domain.PlanFor(planType)
	if !ok {
		return nil, domain.ErrUnknownPlan
	}

	now := s.clock.Now()
	var confirmed *domain.Subscription

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		latest, err := s.repo.FindLatestByUser(ctx, tx, userID)
		if err != nil && !errors.Is(err, domain.ErrSubscriptionNotFound) {
			return err
		}

		if latest != nil && latest.Status == domain.SubscriptionStatusActive && latest.PlanType == planType {
			latest.EndAt = latest.EndAt.Add(plan.Duration())
			latest.UpdatedAt = now
			if err := s.repo.UpdateLifecycle(ctx, tx, latest); err != nil {
				return err
			}
			confirmed = latest
		} else {
			if err := s.repo.CancelActiveByUser(ctx, tx, userID, now); err != nil {
				return err
			}
			subscription := &domain.Subscription{
				ID:            s.genID.Generate(),
				UserID:        userID,
				PlanType:      planType,
				StartAt:       now,
				EndAt:         now.Add(plan.Duration()),
				Status:        domain.SubscriptionStatusActive,
				PaymentMethod: paymentMethod,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := s.repo.Insert(ctx, tx, subscription); err != nil {
				return err
			}
			confirmed = subscription
		}

		return s.setUserTier(ctx, tx, userID, identitydomain.TierPremium, now)
	})
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			return nil, err
		}
		return nil, storageFailure(err)
	}

	if err := s.verifyTierConsistency(ctx, userID); err != nil {
		return nil, err
	}

	s.log.Info("payment confirmed",
		zap.String("user_id", userID.String()),
		zap.String("plan_type", string(planType)),
		zap.String("subscription_id", confirmed.ID.String()),
	)
	return confirmed, nil
}

func (s *Service) Cancel(ctx context.Context, subscriptionID snowflake.ID) error {
	now := s.clock.Now()
	var userID snowflake.ID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subscription, err := s.repo.FindByID(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		userID = subscription.UserID

		if subscription.Status == domain.SubscriptionStatusCancelled {
			return nil
		}
		if !isTransitionAllowed(subscription.Status, domain.SubscriptionStatusCancelled) {
			return domain.ErrInvalidTransition
		}

		subscription.Status = domain.SubscriptionStatusCancelled
		subscription.UpdatedAt = now
		if err := s.repo.UpdateLifecycle(ctx, tx, subscription); err != nil {
			return err
		}

		return s.setUserTier(ctx, tx, userID, identitydomain.TierStandard, now)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) ||
			errors.Is(err, domain.ErrInvalidTransition) ||
			errors.Is(err, identitydomain.ErrUserNotFound) {
			return err
		}
		return storageFailure(err)
	}

	return s.verifyTierConsistency(ctx, userID)
}

func (s *Service) GetStatus(ctx context.Context, subscriptionID snowflake.ID) (*domain.StatusView, error) {
	view, err := s.repo.StatusView(ctx, s.db, subscriptionID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return nil, err
		}
		return nil, storageFailure(err)
	}
	return view, nil
}

func isTransitionAllowed(from, to domain.SubscriptionStatus) bool {
	switch from {
	case domain.SubscriptionStatusActive:
		return to == domain.SubscriptionStatusCancelled
	default:
		return false
	}
}

// setUserTier is the only tier write in the codebase.
func (s *Service) setUserTier(ctx context.Context, tx *gorm.DB, userID snowflake.ID, tier identitydomain.Tier, now time.Time) error {
	result := tx.WithContext(ctx).Exec(
		`UPDATE users SET tier = ?, updated_at = ? WHERE id = ?`,
		tier,
		now,
		userID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identitydomain.ErrUserNotFound
	}
	return nil
}

// verifyTierConsistency re-reads both sides after commit: the tier must be
// premium exactly when the latest subscription is active.
func (s *Service) verifyTierConsistency(ctx context.Context, userID snowflake.ID) error {
	var tier identitydomain.Tier
	if err := s.db.WithContext(ctx).Raw(
		`SELECT tier FROM users WHERE id = ?`, userID,
	).Scan(&tier).Error; err != nil {
		return storageFailure(err)
	}

	latest, err := s.repo.FindLatestByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			if tier == identitydomain.TierPremium {
				return domain.ErrInconsistentState
			}
			return nil
		}
		return storageFailure(err)
	}

	activeLatest := latest.Status == domain.SubscriptionStatusActive
	premium := tier == identitydomain.TierPremium
	if activeLatest != premium {
		return domain.ErrInconsistentState
	}
	return nil
}

func storageFailure(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}
