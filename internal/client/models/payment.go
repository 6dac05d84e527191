package models

// PaymentOrder is the provider-side payment session created before checkout.
// Amount is in minor currency units.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// PaymentConfirmation is what the provider's checkout widget hands back
// after a successful payment.
type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// PaymentVerification asks the backend to verify a payment and materialize
// the order from the cart snapshot.
type PaymentVerification struct {
	PaymentConfirmation
	Items     []CartLine `json:"items"`
	AddressID string     `json:"addressId"`
}

// Image is an uploaded picture reference.
type Image struct {
	ID  string `json:"public_id"`
	URL string `json:"secure_url"`
}
