package handlers

import (
	"github.com/polkiloo/p2pdesk/internal/desk"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/lifecycle"
	"github.com/polkiloo/p2pdesk/internal/server/http/dto"
)

func toProjectionResponse(p lifecycle.Projection) dto.ProjectionResponse {
	actions := p.Actions.Strings()
	if p.Busy != "" {
		actions = []string{}
	}
	return dto.ProjectionResponse{
		Order: toOrderResponse(p.Order),
		Role:  string(p.Role),
		Capabilities: dto.CapabilitiesResponse{
			Buyer:  p.Capabilities.IsBuyer,
			Seller: p.Capabilities.IsSeller,
			Vendor: p.Capabilities.IsVendor,
			OwnsAd: p.Capabilities.OwnsAd,
		},
		Step: dto.StepResponse{
			Index: p.Step.Index,
			Total: lifecycle.StepCount(),
			Label: p.Step.Label,
		},
		Actions:  actions,
		Busy:     string(p.Busy),
		Reviewed: p.Reviewed,
		Terminal: p.Terminal(),
	}
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:             o.ID,
		Status:         string(o.Status),
		Type:           string(o.Type),
		AdID:           o.AdID,
		Buyer:          toParticipant(o.Buyer),
		Seller:         toParticipant(o.Seller),
		Vendor:         toParticipant(o.Vendor),
		FiatAmount:     o.FiatAmount,
		CryptoAmount:   o.CryptoAmount,
		Price:          o.Price,
		FiatCurrency:   o.FiatCurrency,
		CryptoCurrency: o.CryptoCurrency,
		CreatedAt:      o.CreatedAt,
	}
	if pm := o.PaymentMethod; pm != nil {
		resp.PaymentMethod = &dto.PaymentMethodResponse{
			Type:          pm.Type,
			AccountName:   pm.AccountName,
			AccountNumber: pm.AccountNumber,
			BankName:      pm.BankName,
		}
	}
	return resp
}

func toParticipant(p *model.Participant) *dto.ParticipantResponse {
	if p == nil {
		return nil
	}
	return &dto.ParticipantResponse{ID: p.ID, Username: p.Username}
}

func toEventResponse(ev desk.Event) dto.EventResponse {
	switch {
	case ev.Projection != nil:
		proj := toProjectionResponse(*ev.Projection)
		return dto.EventResponse{Type: "projection", Projection: &proj}
	case ev.Notice != nil:
		return dto.EventResponse{Type: "notice", Notice: &dto.NoticeResponse{
			ID:        ev.Notice.ID,
			Kind:      string(ev.Notice.Kind),
			Message:   ev.Notice.Message,
			CreatedAt: ev.Notice.CreatedAt,
		}}
	default:
		return dto.EventResponse{Type: "noop"}
	}
}
