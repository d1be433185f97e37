package interview

import "context"

// Generator is a strategy pattern interface for dialogue backends. Generate
// sends the conversation so far and returns the next interviewer turn. The
// backend is stateless per call: turns must carry the full context, seed
// instruction first.
//
// A safety refusal is reported as *BlockedError. Any other error is a
// transport or API failure and carries no session-state meaning.
type Generator interface {
	Generate(ctx context.Context, turns []Turn) (string, error)
}
