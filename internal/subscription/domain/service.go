package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/providers/payment"
)

type Service interface {
	Plans() []Plan
	CreatePaymentSession(ctx context.Context, userID snowflake.ID, planType PlanType) (*payment.Session, error)
	ConfirmPayment(ctx context.Context, userID snowflake.ID, planType PlanType, paymentMethod string) (*Subscription, error)
	Cancel(ctx context.Context, subscriptionID snowflake.ID) error
	GetStatus(ctx context.Context, subscriptionID snowflake.ID) (*StatusView, error)
}
