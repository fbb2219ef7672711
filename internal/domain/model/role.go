package model

// Role names a viewer's part in an order.
type Role string

const (
	RoleVendor Role = "vendor"
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Capabilities is the derived role record for a viewer. A viewer holds one or
// two overlapping capabilities; OwnsAd marks the ad owner even when the trading
// role takes precedence.
type Capabilities struct {
	IsBuyer  bool
	IsSeller bool
	IsVendor bool
	OwnsAd   bool
}

// Trading reports whether a buyer or seller capability is present.
func (c Capabilities) Trading() bool {
	return c.IsBuyer || c.IsSeller
}

// Effective returns the role used for labels and gating: trading beats vendor.
func (c Capabilities) Effective() Role {
	switch {
	case c.IsBuyer:
		return RoleBuyer
	case c.IsSeller:
		return RoleSeller
	default:
		return RoleVendor
	}
}
