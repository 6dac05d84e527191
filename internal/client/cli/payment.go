package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/restorder/internal/client/models"
)

var errPaymentCancelled = errors.New("payment cancelled")

// terminalWidget stands in for the provider's hosted checkout: it shows the
// payment order and reads back the identifiers the provider issued.
type terminalWidget struct {
	reader *bufio.Reader
	out    *console
}

func (w *terminalWidget) Pay(ctx context.Context, order models.PaymentOrder, payer models.User) (*models.PaymentConfirmation, error) {
	w.out.Printf("Payment %s: %.2f %s for %s <%s>\n",
		order.ID, float64(order.Amount)/100, order.Currency, payer.Name, payer.Email)

	paymentID, err := getSimpleText(w.reader, "Enter payment id (empty to cancel)", w.out)
	if err != nil {
		return nil, fmt.Errorf("read payment id: %w", err)
	}
	if paymentID == "" {
		return nil, errPaymentCancelled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signature, err := getSimpleText(w.reader, "Enter payment signature", w.out)
	if err != nil {
		return nil, fmt.Errorf("read signature: %w", err)
	}

	return &models.PaymentConfirmation{
		OrderID:   order.ID,
		PaymentID: paymentID,
		Signature: signature,
	}, nil
}
