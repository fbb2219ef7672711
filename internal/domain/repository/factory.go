package repository

// Factory describes access to the desk repositories.
type Factory interface {
	Reviews() ReviewRepository
	Transitions() TransitionRepository
}
