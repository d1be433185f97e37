package interview

// Store is the process-wide mapping from conversation id to session. It
// exclusively owns all Session instances: Get hands out copies, and all
// writes go through Mutate.
type Store interface {
	// Create stores a new session under its id.
	// Returns ErrSessionExists if the id is already taken.
	Create(s *Session) error

	// Get returns a deep copy of the session, or false if absent.
	Get(id string) (*Session, bool)

	// Mutate runs fn against the stored session under per-session exclusion.
	// fn may block (the engine calls the dialogue backend inside it); Mutate
	// calls for the same id serialize in submission order, while calls for
	// different ids proceed independently. Mutations made by fn persist even
	// when fn returns an error. Returns ErrSessionNotFound for an unknown id,
	// otherwise fn's error.
	Mutate(id string, fn func(*Session) error) error

	// Delete removes the session if present.
	Delete(id string)
}
