package interview

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input bounds, shared by the request boundary and the engine's own checks.
const (
	MaxJobTitleLen = 100
	MaxAnswerLen   = 2000
)

// ValidateJobTitle checks the role a candidate is interviewed for and returns
// it trimmed.
func ValidateJobTitle(jobTitle string) (string, error) {
	trimmed := strings.TrimSpace(jobTitle)
	if trimmed == "" {
		return "", fmt.Errorf("job title must be a non-empty string: %w", ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) > MaxJobTitleLen {
		return "", fmt.Errorf("job title is too long (max %d characters): %w", MaxJobTitleLen, ErrValidation)
	}
	return trimmed, nil
}

// ValidateAnswer checks a candidate answer and returns it trimmed.
func ValidateAnswer(answer string) (string, error) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return "", fmt.Errorf("answer must be a non-empty string: %w", ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) > MaxAnswerLen {
		return "", fmt.Errorf("answer is too long (max %d characters): %w", MaxAnswerLen, ErrValidation)
	}
	return trimmed, nil
}
