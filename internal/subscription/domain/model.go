// Package domain contains core types for the subscription lifecycle.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PlanType selects a billing interval.
type PlanType string

const (
	PlanMonthly PlanType = "monthly"
	PlanAnnual  PlanType = "annual"
)

// Plan is a purchasable premium plan. The catalog is fixed.
type Plan struct {
	Type     PlanType `json:"type"`
	Name     string   `json:"name"`
	PriceUSD float64  `json:"price_usd"`
	Days     int      `json:"duration_days"`
	PriceID  string   `json:"price_id"`
}

// Duration returns the entitlement period the plan grants.
func (p Plan) Duration() time.Duration {
	return time.Duration(p.Days) * 24 * time.Hour
}

var plans = map[PlanType]Plan{
	PlanMonthly: {Type: PlanMonthly, Name: "Monthly Premium", PriceUSD: 4.99, Days: 30, PriceID: "price_monthly_premium"},
	PlanAnnual:  {Type: PlanAnnual, Name: "Annual Premium", PriceUSD: 49.99, Days: 365, PriceID: "price_annual_premium"},
}

// Plans returns the catalog in a stable order.
func Plans() []Plan {
	return []Plan{plans[PlanMonthly], plans[PlanAnnual]}
}

// PlanFor looks up a plan by type.
func PlanFor(planType PlanType) (Plan, bool) {
	plan, ok := plans[planType]
	return plan, ok
}

// SubscriptionStatus is a persisted lifecycle state. The pending phase
// between checkout and confirmation is represented by the payment session,
// not by a row.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is one purchased entitlement period.
type Subscription struct {
	ID            snowflake.ID       `gorm:"primaryKey"`
	UserID        snowflake.ID       `gorm:"column:user_id;not null;index"`
	PlanType      PlanType           `gorm:"column:plan_type;type:text;not null"`
	StartAt       time.Time          `gorm:"column:start_at;not null"`
	EndAt         time.Time          `gorm:"column:end_at;not null"`
	Status        SubscriptionStatus `gorm:"type:text;not null"`
	PaymentMethod string             `gorm:"column:payment_method;type:text"`
	CreatedAt     time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// StatusView is the read model returned for status queries.
type StatusView struct {
	SubscriptionID snowflake.ID       `json:"subscription_id"`
	Username       string             `json:"username"`
	PlanType       PlanType           `json:"plan_type"`
	Status         SubscriptionStatus `json:"status"`
	StartAt        time.Time          `json:"start_at"`
	EndAt          time.Time          `json:"end_at"`
}
