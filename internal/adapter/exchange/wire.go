package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

// flexibleID accepts identifiers encoded either as strings or as numbers.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}

type participantPayload struct {
	ID       flexibleID `json:"id"`
	Username string     `json:"username,omitempty"`
}

type paymentMethodPayload struct {
	Type          string `json:"type"`
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	BankName      string `json:"bankName,omitempty"`
}

// orderPayload mirrors the order JSON returned by the exchange.
type orderPayload struct {
	ID             flexibleID            `json:"id"`
	Status         string                `json:"status"`
	Type           string                `json:"type"`
	UserAction     string                `json:"userAction"`
	AdID           flexibleID            `json:"adId"`
	Buyer          *participantPayload   `json:"buyer"`
	Seller         *participantPayload   `json:"seller"`
	Vendor         *participantPayload   `json:"vendor"`
	FiatAmount     decimal.NullDecimal   `json:"fiatAmount"`
	CryptoAmount   decimal.NullDecimal   `json:"cryptoAmount"`
	Price          decimal.NullDecimal   `json:"price"`
	FiatCurrency   string                `json:"fiatCurrency"`
	CryptoCurrency string                `json:"cryptoCurrency"`
	PaymentMethod  *paymentMethodPayload `json:"paymentMethod"`
	CreatedAt      time.Time             `json:"createdAt"`
	IsBuyer        *bool                 `json:"isBuyer"`
	IsSeller       *bool                 `json:"isSeller"`
}

// envelope wraps most exchange responses.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type paymentMadeRequest struct {
	Proof string `json:"proof,omitempty"`
}

type paymentReceivedRequest struct {
	Confirmed bool `json:"confirmed"`
}

type reviewRequest struct {
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

func toParticipant(p *participantPayload) *model.Participant {
	if p == nil || p.ID == "" {
		return nil
	}
	return &model.Participant{ID: string(p.ID), Username: p.Username}
}

func (p orderPayload) toModel() (*model.Order, error) {
	status, err := model.ParseOrderStatus(p.Status)
	if err != nil {
		return nil, err
	}
	order := &model.Order{
		ID:             string(p.ID),
		Status:         status,
		Type:           model.Side(p.Type),
		UserAction:     model.Side(p.UserAction),
		AdID:           string(p.AdID),
		Buyer:          toParticipant(p.Buyer),
		Seller:         toParticipant(p.Seller),
		Vendor:         toParticipant(p.Vendor),
		FiatAmount:     p.FiatAmount.Decimal,
		CryptoAmount:   p.CryptoAmount.Decimal,
		Price:          p.Price.Decimal,
		FiatCurrency:   p.FiatCurrency,
		CryptoCurrency: p.CryptoCurrency,
		CreatedAt:      p.CreatedAt,
		ViewerIsBuyer:  p.IsBuyer,
		ViewerIsSeller: p.IsSeller,
	}
	if p.PaymentMethod != nil {
		order.PaymentMethod = &model.PaymentMethod{
			Type:          p.PaymentMethod.Type,
			AccountName:   p.PaymentMethod.AccountName,
			AccountNumber: p.PaymentMethod.AccountNumber,
			BankName:      p.PaymentMethod.BankName,
		}
	}
	return order, nil
}

// unwrap returns the payload inside an envelope, or body itself when the
// response is not enveloped.
func unwrap(body []byte) (json.RawMessage, string) {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		return env.Data, env.Message
	}
	return body, env.Message
}
