package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionStatusUnpaid = "unpaid"

// SimulatedProvider issues fake checkout sessions for development and demo
// environments. Sessions start unpaid; confirmation happens out of band.
type SimulatedProvider struct {
	log *zap.Logger
}

func NewSimulated(log *zap.Logger) Provider {
	return &SimulatedProvider{log: log.Named("payment.simulated")}
}

func (p *SimulatedProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Session, error) {
	_ = ctx

	id := "cs_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	session := &Session{
		ID:     id,
		URL:    fmt.Sprintf("https://checkout.example.com/pay/%s", id),
		Status: sessionStatusUnpaid,
	}

	p.log.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("price_id", req.PriceID),
	)
	return session, nil
}
