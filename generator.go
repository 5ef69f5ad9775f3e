package examgen

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// Generator turns a generation request into a fresh session: prompt
// construction, one completion call, response parsing. Each call produces
// a new SessionState with new item ids; nothing is ever reset in place.
type Generator struct {
	client Completer
	logger *TranscriptLogger
}

// NewGenerator creates a generator on top of a completion client
func NewGenerator(client Completer) *Generator {
	return &Generator{client: client}
}

// SetTranscriptLogger attaches a transcript logger for generation round trips
func (g *Generator) SetTranscriptLogger(logger *TranscriptLogger) {
	g.logger = logger
}

// Generate runs one generation cycle. On any failure the returned session
// is nil, so the caller's previous session stays in place untouched.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (*SessionState, error) {
	var (
		prompt string
		err    error
	)
	switch req.Mode {
	case ModeCoding:
		prompt, err = BuildCodingPrompt(req)
	default:
		prompt, err = BuildQuizPrompt(req)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Generating %s content for topic %q (%d requested, difficulty %s)",
		req.Mode, req.Topic, req.NumQuestions, req.Difficulty)
	g.logger.LogRequest("generator", prompt)

	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}
	g.logger.LogResponse("generator", raw)

	var (
		items              []Item
		partial, truncated bool
	)
	now := time.Now()

	switch req.Mode {
	case ModeCoding:
		assignment, err := ParseCoding(raw)
		if err != nil {
			return nil, err
		}
		assignment.ID = generateItemID()
		assignment.Topic = req.Topic
		assignment.CreatedAt = now
		items = append(items, assignment)
	default:
		result, err := ParseQuiz(raw, req.NumQuestions)
		if err != nil {
			return nil, err
		}
		for _, q := range result.Questions {
			q.ID = generateItemID()
			q.Topic = req.Topic
			q.CreatedAt = now
			items = append(items, q)
		}
		partial = result.Partial
		truncated = result.Truncated
	}

	session := NewSessionState(generateSessionID(), req, items)
	session.Partial = partial
	session.Truncated = truncated

	log.Printf("Generation complete: session %s with %d item(s)", session.ID, len(items))
	return session, nil
}

// GeneratePractice runs a generation cycle for a follow-up quiz targeting
// the weak areas of a completed quiz. Practice sessions are always quiz
// mode; the response format and parsing are the same as Generate's.
func (g *Generator) GeneratePractice(ctx context.Context, req GenerationRequest, weaknesses string) (*SessionState, error) {
	req.Mode = ModeQuiz

	prompt, err := BuildPracticePrompt(req, weaknesses)
	if err != nil {
		return nil, err
	}

	log.Printf("Generating practice quiz for topic %q (%d requested, difficulty %s)",
		req.Topic, req.NumQuestions, req.Difficulty)
	g.logger.LogRequest("practice", prompt)

	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("practice generation call failed: %w", err)
	}
	g.logger.LogResponse("practice", raw)

	result, err := ParseQuiz(raw, req.NumQuestions)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var items []Item
	for _, q := range result.Questions {
		q.ID = generateItemID()
		q.Topic = req.Topic
		q.CreatedAt = now
		items = append(items, q)
	}

	session := NewSessionState(generateSessionID(), req, items)
	session.Partial = result.Partial
	session.Truncated = result.Truncated

	log.Printf("Practice generation complete: session %s with %d item(s)", session.ID, len(items))
	return session, nil
}

const idCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idCharset[rand.Intn(len(idCharset))]
	}
	return string(b)
}

// NewSessionID returns a fresh session id; callers that need the id before
// generation (to name a transcript log) can assign it to the session.
func NewSessionID() string { return randomID(12) }

func generateSessionID() string { return randomID(12) }
func generateItemID() string    { return randomID(8) }
