package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
	"github.com/dmitrijs2005/restorder/internal/logging"
)

// PaymentWidget runs the payment provider's checkout for a created payment
// order and returns the provider's confirmation.
type PaymentWidget interface {
	Pay(ctx context.Context, order models.PaymentOrder, payer models.User) (*models.PaymentConfirmation, error)
}

type CheckoutService interface {
	// Checkout pays for the current cart and delivers it to addressID. The
	// cart is cleared only after the backend has verified the payment.
	Checkout(ctx context.Context, addressID string, widget PaymentWidget) (*models.Order, error)
}

var newReceipt = func() string { return "rcpt_" + uuid.NewString() }

type checkoutService struct {
	api      client.PaymentAPI
	guard    Guard
	cart     CartStore
	currency string
	logger   logging.Logger
}

func NewCheckoutService(api client.PaymentAPI, guard Guard, cart CartStore, currency string, logger logging.Logger) CheckoutService {
	if currency == "" {
		currency = "INR"
	}
	return &checkoutService{
		api:      api,
		guard:    guard,
		cart:     cart,
		currency: currency,
		logger:   logger.With("component", "checkout"),
	}
}

// MinorUnits converts an amount in currency units to the provider's
// integer minor units.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *checkoutService) Checkout(ctx context.Context, addressID string, widget PaymentWidget) (*models.Order, error) {
	user, err := s.guard.RequireUser()
	if err != nil {
		return nil, err
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, common.ErrEmptyCart
	}
	addressID = strings.TrimSpace(addressID)
	if addressID == "" {
		return nil, fmt.Errorf("%w: delivery address is required", common.ErrValidation)
	}

	amount := MinorUnits(models.CartTotal(lines))
	po, err := s.api.CreatePayment(ctx, amount, s.currency, newReceipt())
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	s.logger.Info(ctx, "payment order created", "payment_order", po.ID, "amount", po.Amount)

	conf, err := widget.Pay(ctx, *po, user)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPaymentFailed, err)
	}
	if conf == nil {
		return nil, fmt.Errorf("%w: payment was not confirmed", common.ErrPaymentFailed)
	}

	order, err := s.api.VerifyPayment(ctx, models.PaymentVerification{
		PaymentConfirmation: *conf,
		Items:               lines,
		AddressID:           addressID,
	})
	if err != nil {
		s.logger.Error(ctx, "payment verification failed", "payment_order", po.ID, "error", err)
		return nil, fmt.Errorf("%w: verification: %w", common.ErrPaymentFailed, err)
	}

	s.cart.Clear(ctx)
	return order, nil
}
