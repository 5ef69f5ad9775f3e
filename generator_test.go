package examgen

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerate_QuizEndToEnd(t *testing.T) {
	fake := &fakeCompleter{response: sampleQuizResponse(3)}
	generator := NewGenerator(fake)

	req := GenerationRequest{
		Topic:        "gradient descent",
		Difficulty:   DifficultyMedium,
		NumQuestions: 3,
		Mode:         ModeQuiz,
	}

	session, err := generator.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.prompts) != 1 {
		t.Fatalf("expected one completion call, got %d", len(fake.prompts))
	}
	if !strings.Contains(fake.prompts[0], "gradient descent") {
		t.Fatalf("generation prompt missing topic")
	}

	questions := session.Questions()
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if session.Partial || session.Truncated {
		t.Fatalf("unexpected partial=%v truncated=%v", session.Partial, session.Truncated)
	}

	ids := make(map[string]bool)
	for _, q := range questions {
		if q.ID == "" {
			t.Fatalf("question without id")
		}
		if ids[q.ID] {
			t.Fatalf("duplicate item id %s", q.ID)
		}
		ids[q.ID] = true

		if q.Topic != req.Topic {
			t.Fatalf("question topic not set: %q", q.Topic)
		}
		if len(q.Options) != 4 {
			t.Fatalf("expected 4 options, got %d", len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			t.Fatalf("correct index %d out of range", q.CorrectAnswer)
		}
		state, _ := session.State(q.ID)
		if state != StateGenerated {
			t.Fatalf("expected generated state, got %s", state)
		}
	}
}

func TestGenerate_CodingEndToEnd(t *testing.T) {
	fake := &fakeCompleter{response: sampleAssignmentResponse}
	generator := NewGenerator(fake)

	req := GenerationRequest{
		Topic:        "mini-batch gradient descent",
		Difficulty:   DifficultyHard,
		NumQuestions: 1,
		Mode:         ModeCoding,
	}

	session, err := generator.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assignments := session.Assignments()
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(assignments))
	}
	a := assignments[0]
	if a.ID == "" {
		t.Fatalf("assignment without id")
	}
	if a.StarterCode == "" {
		t.Fatalf("starter code missing")
	}
	if a.Topic != req.Topic {
		t.Fatalf("assignment topic not set: %q", a.Topic)
	}
}

func TestGeneratePractice_TargetsWeaknesses(t *testing.T) {
	fake := &fakeCompleter{response: sampleQuizResponse(3)}
	generator := NewGenerator(fake)

	req := GenerationRequest{
		Topic:        "gradient descent",
		Difficulty:   DifficultyMedium,
		NumQuestions: 3,
		Mode:         ModeQuiz,
	}

	session, err := generator.GeneratePractice(context.Background(), req, "learning rate schedules; momentum")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.prompts) != 1 {
		t.Fatalf("expected one completion call, got %d", len(fake.prompts))
	}
	if !strings.Contains(fake.prompts[0], "learning rate schedules; momentum") {
		t.Fatalf("practice prompt missing weakness areas")
	}
	if !strings.Contains(fake.prompts[0], "gradient descent") {
		t.Fatalf("practice prompt missing topic")
	}

	if session.Request.Mode != ModeQuiz {
		t.Fatalf("practice session should be quiz mode, got %s", session.Request.Mode)
	}
	if len(session.Questions()) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(session.Questions()))
	}
	for _, q := range session.Questions() {
		if q.ID == "" {
			t.Fatalf("question without id")
		}
	}
}

func TestGeneratePractice_EmptyWeaknessesMakesNoCall(t *testing.T) {
	fake := &fakeCompleter{response: sampleQuizResponse(3)}
	generator := NewGenerator(fake)

	_, err := generator.GeneratePractice(context.Background(), validQuizRequest(), "  ")

	var invalidErr *InvalidRequestError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
	if len(fake.prompts) != 0 {
		t.Fatalf("no completion call should be made without weakness areas")
	}
}

func TestGenerate_InvalidRequestMakesNoCall(t *testing.T) {
	fake := &fakeCompleter{response: sampleQuizResponse(3)}
	generator := NewGenerator(fake)

	req := GenerationRequest{Topic: "", Difficulty: DifficultyEasy, NumQuestions: 3, Mode: ModeQuiz}
	_, err := generator.Generate(context.Background(), req)

	var invalidErr *InvalidRequestError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
	if len(fake.prompts) != 0 {
		t.Fatalf("no completion call should be made for an invalid request")
	}
}

func TestGenerate_ServiceFailurePropagates(t *testing.T) {
	fake := &fakeCompleter{err: &ServiceError{Kind: FailureTimeout, Err: context.DeadlineExceeded}}
	generator := NewGenerator(fake)

	_, err := generator.Generate(context.Background(), validQuizRequest())

	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if serviceErr.Kind != FailureTimeout {
		t.Fatalf("expected timeout kind, got %s", serviceErr.Kind)
	}
}

func TestGenerate_UnstructuredResponseIsParseFailure(t *testing.T) {
	fake := &fakeCompleter{response: "I am not able to produce questions right now."}
	generator := NewGenerator(fake)

	_, err := generator.Generate(context.Background(), validQuizRequest())

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestGenerate_PartialQuizFlagged(t *testing.T) {
	fake := &fakeCompleter{response: sampleQuizResponse(3)}
	generator := NewGenerator(fake)

	req := validQuizRequest()
	req.NumQuestions = 5

	session, err := generator.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(session.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(session.Items))
	}
	if !session.Partial {
		t.Fatalf("expected partial flag on the session")
	}
}
