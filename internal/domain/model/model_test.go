package model

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
)

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"pending", OrderStatusPending, "pending"},
		{"awaiting payment", OrderStatusAwaitingPayment, "awaiting_payment"},
		{"payment made", OrderStatusPaymentMade, "payment_made"},
		{"awaiting coin release", OrderStatusAwaitingCoinRelease, "awaiting_coin_release"},
		{"completed", OrderStatusCompleted, "completed"},
		{"cancelled", OrderStatusCancelled, "cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want OrderStatus
	}{
		{"pending", OrderStatusPending},
		{" AWAITING_PAYMENT ", OrderStatusAwaitingPayment},
		{"payment-made", OrderStatusPaymentMade},
		{"canceled", OrderStatusCancelled},
	}
	for _, tc := range cases {
		got, err := ParseOrderStatus(tc.raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("expected %s for %q, got %s", tc.want, tc.raw, got)
		}
	}

	if _, err := ParseOrderStatus("disputed"); !errors.Is(err, domainErrors.ErrUnknownStatus) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range OrderStatuses {
		want := s == OrderStatusCompleted || s == OrderStatusCancelled
		if s.IsTerminal() != want {
			t.Fatalf("unexpected terminal flag for %s", s)
		}
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusAwaitingPayment, true},
		{OrderStatusAwaitingPayment, OrderStatusPaymentMade, true},
		{OrderStatusPaymentMade, OrderStatusAwaitingCoinRelease, true},
		{OrderStatusPaymentMade, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusAwaitingPayment, OrderStatusCancelled, true},
		{OrderStatusPaymentMade, OrderStatusCancelled, false},
		{OrderStatusAwaitingCoinRelease, OrderStatusCancelled, false},
		{OrderStatusPaymentMade, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestCapabilitiesEffective(t *testing.T) {
	cases := []struct {
		caps Capabilities
		want Role
	}{
		{Capabilities{IsVendor: true}, RoleVendor},
		{Capabilities{IsBuyer: true, OwnsAd: true}, RoleBuyer},
		{Capabilities{IsSeller: true}, RoleSeller},
	}
	for _, tc := range cases {
		if got := tc.caps.Effective(); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestActionSet(t *testing.T) {
	set := ActionSet{ActionCancel}
	extended := set.With(ActionReview).With(ActionReview)
	if len(set) != 1 {
		t.Fatalf("expected original set untouched, got %v", set)
	}
	if len(extended) != 2 || !extended.Contains(ActionReview) {
		t.Fatalf("unexpected extended set %v", extended)
	}
	if !ActionMarkPaymentReceived.IsMutating() || ActionAppeal.IsMutating() || ActionReview.IsMutating() {
		t.Fatal("unexpected mutating classification")
	}
	if Action("release").IsValid() {
		t.Fatal("release must not be a client action")
	}
}

func TestOrderParticipantIDs(t *testing.T) {
	o := &Order{Buyer: &Participant{ID: "b"}, Vendor: &Participant{ID: "v"}}
	if o.BuyerID() != "b" || o.SellerID() != "" || o.VendorID() != "v" {
		t.Fatalf("unexpected participant ids: %q %q %q", o.BuyerID(), o.SellerID(), o.VendorID())
	}
}
