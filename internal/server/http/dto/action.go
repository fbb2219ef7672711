package dto

// ActionRequest carries optional parameters of an order action.
type ActionRequest struct {
	Proof     string `json:"proof,omitempty"`
	Confirmed *bool  `json:"confirmed,omitempty"`
}

// ReviewRequest describes a review payload.
type ReviewRequest struct {
	Type    string `json:"type"`
	Comment string `json:"comment"`
}
