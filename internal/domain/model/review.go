package model

import "time"

// ReviewType is the sentiment of a post-trade review.
type ReviewType string

const (
	ReviewPositive ReviewType = "positive"
	ReviewNegative ReviewType = "negative"
)

// IsValid reports whether t is a known review type.
func (t ReviewType) IsValid() bool {
	return t == ReviewPositive || t == ReviewNegative
}

// Review records a submitted review so it is offered only once.
type Review struct {
	OrderID   string
	ViewerID  string
	Type      ReviewType
	Comment   string
	CreatedAt time.Time
}
