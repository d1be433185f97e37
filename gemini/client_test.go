package gemini_test

import (
	"testing"

	"github.com/hireloop/interview"
	"github.com/hireloop/interview/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTurns_Roles(t *testing.T) {
	t.Parallel()
	turns := []interview.Turn{
		{Role: interview.RoleCandidate, Text: "seed instruction"},
		{Role: interview.RoleInterviewer, Text: "Tell me about yourself."},
		{Role: interview.RoleCandidate, Text: "I build backend services."},
	}

	got := gemini.ConvertTurns(turns)
	require.Len(t, got, 3)

	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "user", got[2].Role)

	require.Len(t, got[0].Parts, 1)
	assert.Equal(t, "seed instruction", got[0].Parts[0].Text)
	assert.Equal(t, "Tell me about yourself.", got[1].Parts[0].Text)
	assert.Equal(t, "I build backend services.", got[2].Parts[0].Text)
}

func TestConvertTurns_Empty(t *testing.T) {
	t.Parallel()
	got := gemini.ConvertTurns(nil)
	assert.Empty(t, got)
}
