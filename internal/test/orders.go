package test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

// Participant identifiers used by NewOrder.
const (
	BuyerID  = "buyer-1"
	SellerID = "seller-1"
	VendorID = "vendor-1"
)

// NewOrder builds a sell-ad order between BuyerID and SellerID, with SellerID
// owning the ad unless the vendor is overridden by the caller.
func NewOrder(id string, status model.OrderStatus) *model.Order {
	return &model.Order{
		ID:             id,
		Status:         status,
		Type:           model.SideSell,
		UserAction:     model.SideBuy,
		AdID:           "ad-1",
		Buyer:          &model.Participant{ID: BuyerID, Username: "buyer"},
		Seller:         &model.Participant{ID: SellerID, Username: "seller"},
		Vendor:         &model.Participant{ID: SellerID, Username: "seller"},
		FiatAmount:     decimal.RequireFromString("150000"),
		CryptoAmount:   decimal.RequireFromString("100"),
		Price:          decimal.RequireFromString("1500"),
		FiatCurrency:   "NGN",
		CryptoCurrency: "USDT",
		PaymentMethod: &model.PaymentMethod{
			Type:          "bank_transfer",
			AccountName:   "Seller One",
			AccountNumber: "0123456789",
			BankName:      "First Bank",
		},
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// WithVendor returns a copy of order whose ad is owned by vendorID.
func WithVendor(order *model.Order, vendorID string) *model.Order {
	clone := *order
	clone.Vendor = &model.Participant{ID: vendorID, Username: vendorID}
	return &clone
}
