// Package gemini implements [interview.Generator] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating transcript turns into
// Gemini contents and surfacing safety refusals as [interview.BlockedError]
// with the block reason carried as data.
package gemini

const (
	defaultModel     = "gemini-3.1-pro-preview"
	defaultMaxTokens = 65536
)
