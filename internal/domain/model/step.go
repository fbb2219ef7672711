package model

// Step is the position on the four-phase progress bar plus its label.
type Step struct {
	Index int
	Label string
}
