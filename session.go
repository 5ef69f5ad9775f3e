package examgen

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownItem      = errors.New("unknown item")
	ErrAlreadyAnswered  = errors.New("item already answered")
	ErrNotAnswered      = errors.New("item not answered yet")
	ErrAlreadyEvaluated = errors.New("item already evaluated")
)

// SessionState owns everything one generation cycle produced: the items,
// the user's submissions and the computed results. A new generation
// request replaces the whole value; a failed generation leaves the
// previous one untouched because the caller only swaps on success. The
// value has a single owner and is never shared across sessions, so it
// carries no locking.
type SessionState struct {
	ID        string            `json:"id"`
	Request   GenerationRequest `json:"request"`
	Items     []Item            `json:"items"`
	Partial   bool              `json:"partial"`
	Truncated bool              `json:"truncated"`
	CreatedAt time.Time         `json:"created_at"`

	submissions map[string]Submission
	results     map[string]EvaluationResult
	states      map[string]ItemState
}

// NewSessionState creates the session for one generation cycle. Every item
// starts in the Generated state.
func NewSessionState(id string, req GenerationRequest, items []Item) *SessionState {
	states := make(map[string]ItemState, len(items))
	for _, item := range items {
		states[item.ItemID()] = StateGenerated
	}
	return &SessionState{
		ID:          id,
		Request:     req,
		Items:       items,
		CreatedAt:   time.Now(),
		submissions: make(map[string]Submission),
		results:     make(map[string]EvaluationResult),
		states:      states,
	}
}

// Item looks up an item by id
func (s *SessionState) Item(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ItemID() == id {
			return item, true
		}
	}
	return nil, false
}

// State reports the lifecycle state of an item
func (s *SessionState) State(id string) (ItemState, bool) {
	state, ok := s.states[id]
	return state, ok
}

// RecordSubmission moves an item from Generated to Answered. Submissions
// are immutable: answering the same item twice is rejected rather than
// overwritten.
func (s *SessionState) RecordSubmission(sub Submission) error {
	state, ok := s.states[sub.ItemID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, sub.ItemID)
	}
	if state != StateGenerated {
		return fmt.Errorf("%w: %s", ErrAlreadyAnswered, sub.ItemID)
	}
	s.submissions[sub.ItemID] = sub
	s.states[sub.ItemID] = StateAnswered
	return nil
}

// Submission returns the recorded submission for an item
func (s *SessionState) Submission(id string) (Submission, bool) {
	sub, ok := s.submissions[id]
	return sub, ok
}

// RecordResult moves an item from Answered to Evaluated. A failed
// evaluation simply never calls this, leaving the submission in place so
// the evaluation can be retried.
func (s *SessionState) RecordResult(res EvaluationResult) error {
	state, ok := s.states[res.ItemID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, res.ItemID)
	}
	switch state {
	case StateGenerated:
		return fmt.Errorf("%w: %s", ErrNotAnswered, res.ItemID)
	case StateEvaluated:
		return fmt.Errorf("%w: %s", ErrAlreadyEvaluated, res.ItemID)
	}
	s.results[res.ItemID] = res
	s.states[res.ItemID] = StateEvaluated
	return nil
}

// Result returns the evaluation result for an item
func (s *SessionState) Result(id string) (EvaluationResult, bool) {
	res, ok := s.results[id]
	return res, ok
}

// AllEvaluated reports whether every item has a result
func (s *SessionState) AllEvaluated() bool {
	return len(s.results) == len(s.Items)
}

// Questions returns the quiz items in generation order
func (s *SessionState) Questions() []*Question {
	var out []*Question
	for _, item := range s.Items {
		if q, ok := item.(*Question); ok {
			out = append(out, q)
		}
	}
	return out
}

// Assignments returns the coding items in generation order
func (s *SessionState) Assignments() []*CodingAssignment {
	var out []*CodingAssignment
	for _, item := range s.Items {
		if a, ok := item.(*CodingAssignment); ok {
			out = append(out, a)
		}
	}
	return out
}

// Score aggregates quiz correctness across evaluated questions. Coding
// items carry their own 0-100 scores and are not folded in here.
func (s *SessionState) Score() (correct, total int, pct float64) {
	for _, q := range s.Questions() {
		total++
		if res, ok := s.results[q.ID]; ok && res.Correct {
			correct++
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	return correct, total, float64(correct) / float64(total) * 100
}

// Missed returns the texts of quiz questions answered incorrectly, in
// generation order. Unevaluated questions are not counted as missed.
func (s *SessionState) Missed() []string {
	var out []string
	for _, q := range s.Questions() {
		if res, ok := s.results[q.ID]; ok && !res.Correct {
			out = append(out, q.Text)
		}
	}
	return out
}

// Summary renders the answered quiz as text for the analysis prompt
func (s *SessionState) Summary() string {
	var sb strings.Builder
	sb.WriteString("QUIZ QUESTIONS AND ANSWERS:\n\n")

	for i, q := range s.Questions() {
		sb.WriteString(fmt.Sprintf("Question %d: %s\n", i+1, q.Text))
		for j, opt := range q.Options {
			sb.WriteString(fmt.Sprintf("%c. %s\n", 'A'+j, opt))
		}
		sb.WriteString(fmt.Sprintf("Correct Answer: %c\n", 'A'+q.CorrectAnswer))

		if sub, ok := s.submissions[q.ID]; ok && sub.SelectedOption >= 0 && sub.SelectedOption < len(q.Options) {
			sb.WriteString(fmt.Sprintf("Student's Answer: %c\n", 'A'+sub.SelectedOption))
		} else {
			sb.WriteString("Student's Answer: None\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
