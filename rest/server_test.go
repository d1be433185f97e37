package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hireloop/interview"
	"github.com/hireloop/interview/engine"
	"github.com/hireloop/interview/memstore"
	"github.com/hireloop/interview/mock"
	"github.com/hireloop/interview/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interviewerGenerator mirrors the prompt contract: questions until the
// budget is spent, then feedback opening with the fixed preamble. The counter
// is atomic because handlers run on server goroutines.
func interviewerGenerator() *mock.Generator {
	var call atomic.Int64
	return &mock.Generator{
		GenerateFn: func(context.Context, []interview.Turn) (string, error) {
			n := call.Add(1)
			if n > interview.MaxQuestions {
				return interview.FeedbackPreamble + "Solid answers overall.", nil
			}
			return fmt.Sprintf("Question %d?", n), nil
		},
	}
}

func newTestServer(t *testing.T, gen interview.Generator, opts ...rest.Option) *httptest.Server {
	t.Helper()
	eng := engine.New(memstore.New(), gen)
	srv := httptest.NewServer(rest.NewServer(eng, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type apiResponse struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	InterviewState string `json:"interviewState"`
	Error          string `json:"error"`
	Detail         string `json:"detail"`
}

func TestStart(t *testing.T) {
	t.Parallel()

	t.Run("valid request", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		resp := postJSON(t, srv.URL+"/api/interview/start", map[string]string{"jobTitle": "Backend Engineer"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decode[apiResponse](t, resp)
		assert.NotEmpty(t, body.ConversationID)
		assert.Equal(t, "Question 1?", body.Message)
		assert.Equal(t, "ongoing", body.InterviewState)
	})

	t.Run("missing job title", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		resp := postJSON(t, srv.URL+"/api/interview/start", map[string]string{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "Job Title is required and must be a non-empty string.", body.Error)
	})

	t.Run("job title too long", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		resp := postJSON(t, srv.URL+"/api/interview/start", map[string]string{"jobTitle": strings.Repeat("x", 101)})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "Job Title is too long (max 100 characters).", body.Error)
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		resp, err := http.Post(srv.URL+"/api/interview/start", "application/json", strings.NewReader("{not json"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("safety block maps to 400 with reason", func(t *testing.T) {
		t.Parallel()
		gen := &mock.Generator{
			GenerateFn: func(context.Context, []interview.Turn) (string, error) {
				return "", &interview.BlockedError{Reason: "PROHIBITED_CONTENT."}
			},
		}
		srv := newTestServer(t, gen)

		resp := postJSON(t, srv.URL+"/api/interview/start", map[string]string{"jobTitle": "Contract Killer"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "Request blocked due to safety settings. PROHIBITED_CONTENT. Please revise the job title.", body.Error)
	})

	t.Run("backend failure maps to 500 without detail", func(t *testing.T) {
		t.Parallel()
		gen := &mock.Generator{
			GenerateFn: func(context.Context, []interview.Turn) (string, error) {
				return "", errors.New("quota exceeded: project 1234")
			},
		}
		srv := newTestServer(t, gen)

		resp := postJSON(t, srv.URL+"/api/interview/start", map[string]string{"jobTitle": "Backend Engineer"})
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "An unexpected error occurred while starting the interview.", body.Error)
		assert.Empty(t, body.Detail)
	})

	t.Run("debug mode includes detail in 500s", func(t *testing.T) {
		t.Parallel()
		gen := &mock.Generator{
			GenerateFn: func(context.Context, []interview.Turn) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}
		srv := newTestServer(t, gen, rest.WithDebug(true))

		resp := postJSON(t, srv.URL+"/api/interview/start", map[string]string{"jobTitle": "Backend Engineer"})
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Contains(t, body.Detail, "quota exceeded")
	})
}

func TestContinue(t *testing.T) {
	t.Parallel()

	start := func(t *testing.T, srv *httptest.Server) string {
		t.Helper()
		resp := postJSON(t, srv.URL+"/api/interview/start", map[string]string{"jobTitle": "Backend Engineer"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return decode[apiResponse](t, resp).ConversationID
	}

	t.Run("unknown conversation", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		resp := postJSON(t, srv.URL+"/api/interview/continue", map[string]string{
			"conversationId": "no-such-conversation",
			"message":        "my answer",
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "Conversation not found. Please start a new interview.", body.Error)
	})

	t.Run("missing conversation id", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		resp := postJSON(t, srv.URL+"/api/interview/continue", map[string]string{"message": "my answer"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "Conversation ID is required.", body.Error)
	})

	t.Run("missing message", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())
		id := start(t, srv)

		resp := postJSON(t, srv.URL+"/api/interview/continue", map[string]string{"conversationId": id})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "User message is required and must be a non-empty string.", body.Error)
	})

	t.Run("message too long", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())
		id := start(t, srv)

		resp := postJSON(t, srv.URL+"/api/interview/continue", map[string]string{
			"conversationId": id,
			"message":        strings.Repeat("a", 2001),
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "Message is too long (max 2000 characters).", body.Error)
	})

	t.Run("response safety block maps to 400", func(t *testing.T) {
		t.Parallel()
		var blockNext atomic.Bool
		gen := &mock.Generator{
			GenerateFn: func(context.Context, []interview.Turn) (string, error) {
				if blockNext.Load() {
					return "", &interview.BlockedError{Reason: "SAFETY"}
				}
				return "Tell me about yourself.", nil
			},
		}
		srv := newTestServer(t, gen)
		id := start(t, srv)

		blockNext.Store(true)
		resp := postJSON(t, srv.URL+"/api/interview/continue", map[string]string{
			"conversationId": id,
			"message":        "a spicy answer",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "AI response blocked due to safety settings (SAFETY). Please try phrasing your answer differently.", body.Error)
	})

	t.Run("full interview reaches finished and then conflicts", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())
		id := start(t, srv)

		for i := 1; i <= interview.MaxQuestions; i++ {
			resp := postJSON(t, srv.URL+"/api/interview/continue", map[string]string{
				"conversationId": id,
				"message":        fmt.Sprintf("answer %d", i),
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body := decode[apiResponse](t, resp)
			assert.Equal(t, id, body.ConversationID)

			if i < interview.MaxQuestions {
				assert.Equal(t, "ongoing", body.InterviewState, "answer %d", i)
			} else {
				assert.Equal(t, "finished", body.InterviewState)
				assert.True(t, strings.HasPrefix(body.Message, interview.FeedbackPreamble))
			}
		}

		resp := postJSON(t, srv.URL+"/api/interview/continue", map[string]string{
			"conversationId": id,
			"message":        "one more answer",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	t.Run("root welcome", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("preflight request allowed", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/interview/start", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown route returns JSON 404", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, interviewerGenerator())

		resp, err := http.Get(srv.URL + "/api/interview/unknown")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decode[apiResponse](t, resp)
		assert.Equal(t, "Not Found", body.Error)
	})
}
