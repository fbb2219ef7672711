package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

const (
	maxOrderIDLength      = 64
	maxProofLength        = 2048
	maxReviewCommentRunes = 500
)

// ValidateOrderID checks that id can be placed in an upstream path segment.
func ValidateOrderID(id string) error {
	if id == "" {
		return &domainErrors.ValidationError{Field: "order_id", Reason: "must not be empty"}
	}
	if len(id) > maxOrderIDLength {
		return &domainErrors.ValidationError{Field: "order_id", Reason: "too long"}
	}
	if id == "." || id == ".." {
		return &domainErrors.ValidationError{Field: "order_id", Reason: "must not be a dot segment"}
	}
	for _, r := range id {
		if r == '/' || r == '?' || r == '#' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return &domainErrors.ValidationError{Field: "order_id", Reason: "contains forbidden characters"}
		}
	}
	return nil
}

// ValidateActionRequest rejects malformed requests before any state is consulted.
func ValidateActionRequest(req ActionRequest) error {
	if !req.Action.IsValid() {
		return &domainErrors.ValidationError{Field: "action", Reason: "unknown action"}
	}
	if req.Action == model.ActionReview {
		return &domainErrors.ValidationError{Field: "action", Reason: "reviews are submitted separately"}
	}
	if len(req.Proof) > maxProofLength {
		return &domainErrors.ValidationError{Field: "proof", Reason: "too long"}
	}
	if req.Proof != "" && req.Action != model.ActionMarkPaymentMade {
		return &domainErrors.ValidationError{Field: "proof", Reason: "only accepted when marking payment made"}
	}
	if req.Confirmed != nil && req.Action != model.ActionMarkPaymentReceived {
		return &domainErrors.ValidationError{Field: "confirmed", Reason: "only accepted when marking payment received"}
	}
	return nil
}

// ValidatePaymentLeg checks the order carries what a buyer needs to pay.
func ValidatePaymentLeg(order model.Order) error {
	if order.PaymentMethod == nil || strings.TrimSpace(order.PaymentMethod.AccountNumber) == "" {
		return &domainErrors.ValidationError{Field: "payment_method", Reason: "order has no payment details"}
	}
	if !order.FiatAmount.IsPositive() {
		return &domainErrors.ValidationError{Field: "fiat_amount", Reason: "must be positive"}
	}
	return nil
}

// ValidateReview checks the review payload.
func ValidateReview(reviewType model.ReviewType, comment string) error {
	if !reviewType.IsValid() {
		return &domainErrors.ValidationError{Field: "type", Reason: "must be positive or negative"}
	}
	if !utf8.ValidString(comment) {
		return &domainErrors.ValidationError{Field: "comment", Reason: "must be valid UTF-8"}
	}
	if utf8.RuneCountInString(comment) > maxReviewCommentRunes {
		return &domainErrors.ValidationError{Field: "comment", Reason: "too long"}
	}
	return nil
}
