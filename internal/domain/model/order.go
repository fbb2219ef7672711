package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an advertisement or of a viewer's participation.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// IsValid reports whether s is a known side.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Participant references a user taking part in an order.
type Participant struct {
	ID       string
	Username string
}

// PaymentMethod snapshots the instrument used for the fiat leg.
type PaymentMethod struct {
	Type          string
	AccountName   string
	AccountNumber string
	BankName      string
}

// Order is the per-order projection source fetched from the exchange.
type Order struct {
	ID             string
	Status         OrderStatus
	Type           Side
	UserAction     Side
	AdID           string
	Buyer          *Participant
	Seller         *Participant
	Vendor         *Participant
	FiatAmount     decimal.Decimal
	CryptoAmount   decimal.Decimal
	Price          decimal.Decimal
	FiatCurrency   string
	CryptoCurrency string
	PaymentMethod  *PaymentMethod
	CreatedAt      time.Time

	// Optional server-provided flags describing the requesting viewer.
	ViewerIsBuyer  *bool
	ViewerIsSeller *bool
}

// Viewer is the identity evaluating an order.
type Viewer struct {
	ID string
	// Credential is forwarded upstream on the viewer's behalf.
	Credential string
}

func participantID(p *Participant) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// BuyerID returns the buyer identifier or an empty string.
func (o *Order) BuyerID() string { return participantID(o.Buyer) }

// SellerID returns the seller identifier or an empty string.
func (o *Order) SellerID() string { return participantID(o.Seller) }

// VendorID returns the vendor identifier or an empty string.
func (o *Order) VendorID() string { return participantID(o.Vendor) }

// CancelParty selects which cancellation endpoint serves a viewer.
type CancelParty string

const (
	CancelAsBuyer  CancelParty = "buyer"
	CancelAsVendor CancelParty = "vendor"
)
