package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/config"
	identitydomain "github.com/naturetrail/naturetrail/internal/identity/domain"
	"github.com/naturetrail/naturetrail/internal/providers/payment"
	"github.com/naturetrail/naturetrail/internal/subscription/domain"
	"github.com/naturetrail/naturetrail/internal/subscription/repository"
	"github.com/naturetrail/naturetrail/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
	clk  *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&identitydomain.User{}, &domain.Subscription{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC))

	svc := New(
		zap.NewNop(),
		dbConn,
		repository.New(),
		payment.NewSimulated(zap.NewNop()),
		config.Config{},
		node,
		clk,
	)
	return &fixture{svc: svc, db: dbConn, node: node, clk: clk}
}

func (f *fixture) addUser(t *testing.T, username string) *identitydomain.User {
	t.Helper()
	user := &identitydomain.User{
		ID:           f.node.Generate(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		PasswordSalt: "salt",
		Tier:         identitydomain.TierStandard,
		CreatedAt:    f.clk.Now(),
		UpdatedAt:    f.clk.Now(),
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	return user
}

func (f *fixture) userTier(t *testing.T, userID snowflake.ID) identitydomain.Tier {
	t.Helper()
	var tier identitydomain.Tier
	if err := f.db.Raw(`SELECT tier FROM users WHERE id = ?`, userID).Scan(&tier).Error; err != nil {
		t.Fatalf("failed to read tier: %v", err)
	}
	return tier
}

func (f *fixture) subscriptionCount(t *testing.T, userID snowflake.ID) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&domain.Subscription{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count subscriptions: %v", err)
	}
	return count
}

func TestPlansCatalog(t *testing.T) {
	f := newFixture(t)

	plans := f.svc.Plans()
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	monthly, annual := plans[0], plans[1]
	if monthly.Name != "Monthly Premium" || monthly.PriceUSD != 4.99 || monthly.Days != 30 || monthly.PriceID != "price_monthly_premium" {
		t.Fatalf("unexpected monthly plan: %+v", monthly)
	}
	if annual.Name != "Annual Premium" || annual.PriceUSD != 49.99 || annual.Days != 365 || annual.PriceID != "price_annual_premium" {
		t.Fatalf("unexpected annual plan: %+v", annual)
	}
}

func TestCreatePaymentSessionUnknownPlan(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")

	_, err := f.svc.CreatePaymentSession(context.Background(), user.ID, "lifetime")
	if !errors.Is(err, domain.ErrUnknownPlan) {
		t.Fatalf("expected ErrUnknownPlan, got %v", err)
	}
}

func TestCreatePaymentSessionShape(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")

	session, err := f.svc.CreatePaymentSession(context.Background(), user.ID, domain.PlanMonthly)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if !strings.HasPrefix(session.ID, "cs_") {
		t.Fatalf("expected cs_ session id, got %s", session.ID)
	}
	if session.Status != "unpaid" {
		t.Fatalf("expected unpaid session, got %s", session.Status)
	}
	if f.subscriptionCount(t, user.ID) != 0 {
		t.Fatal("checkout must not persist a subscription")
	}
}

func TestConfirmPaymentActivatesPremium(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")

	subscription, err := f.svc.ConfirmPayment(context.Background(), user.ID, domain.PlanMonthly, "card")
	if err != nil {
		t.Fatalf("failed to confirm payment: %v", err)
	}

	if subscription.Status != domain.SubscriptionStatusActive {
		t.Fatalf("expected active subscription, got %s", subscription.Status)
	}
	wantEnd := f.clk.Now().Add(30 * 24 * time.Hour)
	if !subscription.EndAt.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, subscription.EndAt)
	}
	if tier := f.userTier(t, user.ID); tier != identitydomain.TierPremium {
		t.Fatalf("expected premium tier, got %s", tier)
	}
}

func TestConfirmPaymentRenewalExtendsSamePlan(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")

	first, err := f.svc.ConfirmPayment(context.Background(), user.ID, domain.PlanMonthly, "card")
	if err != nil {
		t.Fatalf("failed to confirm: %v", err)
	}

	f.clk.Advance(10 * 24 * time.Hour)
	second, err := f.svc.ConfirmPayment(context.Background(), user.ID, domain.PlanMonthly, "card")
	if err != nil {
		t.Fatalf("failed to renew: %v", err)
	}

	if second.ID != first.ID {
		t.Fatal("renewal must extend the existing row, not insert a new one")
	}
	if f.subscriptionCount(t, user.ID) != 1 {
		t.Fatalf("expected a single subscription row, got %d", f.subscriptionCount(t, user.ID))
	}
	wantEnd := first.StartAt.Add(60 * 24 * time.Hour)
	if !second.EndAt.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, second.EndAt)
	}
}

func TestConfirmPaymentPlanChangeSupersedes(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")

	first, err := f.svc.ConfirmPayment(context.Background(), user.ID, domain.PlanMonthly, "card")
	if err != nil {
		t.Fatalf("failed to confirm: %v", err)
	}

	second, err := f.svc.ConfirmPayment(context.Background(), user.ID, domain.PlanAnnual, "card")
	if err != nil {
		t.Fatalf("failed to change plan: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("plan change must insert a new row")
	}

	var old domain.Subscription
	if err := f.db.Where("id = ?", first.ID).First(&old).Error; err != nil {
		t.Fatalf("failed to load old subscription: %v", err)
	}
	if old.Status != domain.SubscriptionStatusCancelled {
		t.Fatalf("expected old subscription cancelled, got %s", old.Status)
	}
	if tier := f.userTier(t, user.ID); tier != identitydomain.TierPremium {
		t.Fatalf("expected premium tier, got %s", tier)
	}
}

func TestConfirmPaymentUnknownUserRollsBack(t *testing.T) {
	f := newFixture(t)

	ghost := f.node.Generate()
	_, err := f.svc.ConfirmPayment(context.Background(), ghost, domain.PlanMonthly, "card")
	if !errors.Is(err, identitydomain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if f.subscriptionCount(t, ghost) != 0 {
		t.Fatal("failed tier write must roll back the subscription insert")
	}
}

func TestCancelRevertsTier(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")

	subscription, err := f.svc.ConfirmPayment(context.Background(), user.ID, domain.PlanMonthly, "card")
	if err != nil {
		t.Fatalf("failed to confirm: %v", err)
	}

	if err := f.svc.Cancel(context.Background(), subscription.ID); err != nil {
		t.Fatalf("failed to cancel: %v", err)
	}
	if tier := f.userTier(t, user.ID); tier != identitydomain.TierStandard {
		t.Fatalf("expected standard tier, got %s", tier)
	}

	// Cancelling an already-cancelled subscription is a no-op.
	if err := f.svc.Cancel(context.Background(), subscription.ID); err != nil {
		t.Fatalf("expected idempotent cancel, got %v", err)
	}
}

func TestCancelUnknownSubscription(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), f.node.Generate())
	if !errors.Is(err, domain.ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestGetStatusJoinsUsername(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "alice")

	subscription, err := f.svc.ConfirmPayment(context.Background(), user.ID, domain.PlanAnnual, "card")
	if err != nil {
		t.Fatalf("failed to confirm: %v", err)
	}

	view, err := f.svc.GetStatus(context.Background(), subscription.ID)
	if err != nil {
		t.Fatalf("failed to get status: %v", err)
	}
	if view.Username != "alice" || view.PlanType != domain.PlanAnnual || view.Status != domain.SubscriptionStatusActive {
		t.Fatalf("unexpected status view: %+v", view)
	}

	_, err = f.svc.GetStatus(context.Background(), f.node.Generate())
	if !errors.Is(err, domain.ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}
