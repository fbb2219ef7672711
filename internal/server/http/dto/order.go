package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParticipantResponse identifies a party to the order.
type ParticipantResponse struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// PaymentMethodResponse describes where the fiat leg is paid.
type PaymentMethodResponse struct {
	Type          string `json:"type"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
}

// OrderResponse is the order snapshot rendered by the screens.
type OrderResponse struct {
	ID             string                 `json:"id"`
	Status         string                 `json:"status"`
	Type           string                 `json:"type,omitempty"`
	AdID           string                 `json:"ad_id,omitempty"`
	Buyer          *ParticipantResponse   `json:"buyer,omitempty"`
	Seller         *ParticipantResponse   `json:"seller,omitempty"`
	Vendor         *ParticipantResponse   `json:"vendor,omitempty"`
	FiatAmount     decimal.Decimal        `json:"fiat_amount"`
	CryptoAmount   decimal.Decimal        `json:"crypto_amount"`
	Price          decimal.Decimal        `json:"price"`
	FiatCurrency   string                 `json:"fiat_currency,omitempty"`
	CryptoCurrency string                 `json:"crypto_currency,omitempty"`
	PaymentMethod  *PaymentMethodResponse `json:"payment_method,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// StepResponse positions the order on the progress bar.
type StepResponse struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	Label string `json:"label"`
}

// CapabilitiesResponse lists what the viewer is to this order.
type CapabilitiesResponse struct {
	Buyer  bool `json:"buyer"`
	Seller bool `json:"seller"`
	Vendor bool `json:"vendor"`
	OwnsAd bool `json:"owns_ad"`
}

// ProjectionResponse is everything a screen needs to render one order.
type ProjectionResponse struct {
	Order        OrderResponse        `json:"order"`
	Role         string               `json:"role"`
	Capabilities CapabilitiesResponse `json:"capabilities"`
	Step         StepResponse         `json:"step"`
	Actions      []string             `json:"actions"`
	Busy         string               `json:"busy,omitempty"`
	Reviewed     bool                 `json:"reviewed"`
	Terminal     bool                 `json:"terminal"`
}

// TransitionResponse is one journaled status change.
type TransitionResponse struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	ObservedAt time.Time `json:"observed_at"`
}
