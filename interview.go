// Package interview defines the domain for the mock-interview service:
// transcript turns, session state, the dialogue-backend and store seams, and
// the question-budget policy that decides when an interview concludes.
package interview

import (
	"fmt"
	"time"
)

// Role identifies the speaker of a transcript turn.
type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleInterviewer Role = "interviewer"
)

// Turn is a single transcript entry.
type Turn struct {
	Role Role
	Text string
}

// State is the lifecycle state of a session. Finished is terminal.
type State string

const (
	StateOngoing  State = "ongoing"
	StateFinished State = "finished"
)

// MaxQuestions is the fixed question budget: the opening question plus six
// follow-ups, for seven candidate answers in total. The answer submitted while
// the turn counter already reads MaxQuestions is the final one.
const MaxQuestions = 7

// FeedbackPreamble is the exact string the backend is instructed to open its
// closing feedback with. It is part of the prompt contract; the engine never
// parses generated text to detect it.
const FeedbackPreamble = "Okay, that concludes the main part of the interview. Here's some feedback on our conversation: "

// SeedTrigger is the message sent after the seed instruction to elicit the
// opening question. It is not retained in the transcript.
const SeedTrigger = "Start the interview"

// Session is one interview conversation. The store exclusively owns all
// instances; callers mutate them only through Store.Mutate.
type Session struct {
	ID         string
	JobTitle   string
	TurnCount  int
	Transcript []Turn
	State      State
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Transcript = make([]Turn, len(s.Transcript))
	copy(c.Transcript, s.Transcript)
	return &c
}

// SeedPrompt builds the seed instruction that parameterizes the dialogue
// backend: the role under evaluation, the question budget, one question at a
// time, never reveal a non-human nature, and feedback opening with
// [FeedbackPreamble] after the final answer.
func SeedPrompt(jobTitle string) string {
	return fmt.Sprintf(`You are an expert interviewer evaluating a candidate for the role of %[1]s. Your goal is to assess the candidate's suitability for this role. Start the interview by asking the candidate: "Tell me about yourself." After the candidate responds, ask at least 6 relevant follow-up questions, one at a time, based on their previous answers and the requirement of the %[1]s role. Do not ask all questions at once. Keep your questions concise and typical for a job interview. Do not reveal you are an AI. Maintain a professional and neutral tone. After the 6th follow-up question has been answered by the candidate (meaning the candidate has provided 7 answers in total, including the response to "Tell me about yourself."), provide a feedback on their overall performance. The feedback should summarize their strengths and suggest specific areas for improvement related to their answer and the %[1]s role. Start the feedback with %[2]q. Do not ask any more questions after giving feedback.`, jobTitle, FeedbackPreamble)
}
