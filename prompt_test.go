package examgen

import (
	"errors"
	"strings"
	"testing"
)

func validQuizRequest() GenerationRequest {
	return GenerationRequest{
		Topic:        "gradient descent",
		Difficulty:   DifficultyMedium,
		NumQuestions: 3,
		Mode:         ModeQuiz,
	}
}

func TestBuildQuizPrompt_ContainsTopicAndCount(t *testing.T) {
	prompt, err := BuildQuizPrompt(validQuizRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "gradient descent") {
		t.Fatalf("prompt does not contain the topic verbatim")
	}
	if !strings.Contains(prompt, "3") {
		t.Fatalf("prompt does not contain the question count")
	}
	if !strings.Contains(prompt, "medium") {
		t.Fatalf("prompt does not contain the difficulty")
	}
}

func TestBuildQuizPrompt_Deterministic(t *testing.T) {
	req := validQuizRequest()
	a, err := BuildQuizPrompt(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := BuildQuizPrompt(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("prompt builder is not deterministic")
	}
}

func TestBuildQuizPrompt_InvalidRequests(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GenerationRequest)
	}{
		{"empty topic", func(r *GenerationRequest) { r.Topic = "" }},
		{"whitespace topic", func(r *GenerationRequest) { r.Topic = "   " }},
		{"zero count", func(r *GenerationRequest) { r.NumQuestions = 0 }},
		{"negative count", func(r *GenerationRequest) { r.NumQuestions = -2 }},
		{"unknown mode", func(r *GenerationRequest) { r.Mode = "essay" }},
		{"unknown difficulty", func(r *GenerationRequest) { r.Difficulty = "impossible" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validQuizRequest()
			tc.mutate(&req)

			_, err := BuildQuizPrompt(req)
			var invalidErr *InvalidRequestError
			if !errors.As(err, &invalidErr) {
				t.Fatalf("expected InvalidRequestError, got %v", err)
			}
		})
	}
}

func TestBuildPracticePrompt_ContainsWeaknesses(t *testing.T) {
	prompt, err := BuildPracticePrompt(validQuizRequest(), "regularization; overfitting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "regularization; overfitting") {
		t.Fatalf("prompt does not contain the weakness areas verbatim")
	}
	if !strings.Contains(prompt, "gradient descent") {
		t.Fatalf("prompt does not contain the topic verbatim")
	}
	if !strings.Contains(prompt, "Correct Answer:") {
		t.Fatalf("prompt missing the answer format instruction")
	}
}

func TestBuildPracticePrompt_EmptyWeaknessesRejected(t *testing.T) {
	_, err := BuildPracticePrompt(validQuizRequest(), "   ")
	var invalidErr *InvalidRequestError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
}

func TestBuildCodingPrompt_ContainsTopicAndFormat(t *testing.T) {
	req := validQuizRequest()
	req.Mode = ModeCoding

	prompt, err := BuildCodingPrompt(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "gradient descent") {
		t.Fatalf("prompt does not contain the topic verbatim")
	}
	for _, section := range []string{"TITLE:", "REQUIREMENTS:", "EVALUATION_CRITERIA:", "CODE_TEMPLATE:"} {
		if !strings.Contains(prompt, section) {
			t.Fatalf("prompt missing %s section instruction", section)
		}
	}
}

func TestBuildGradingPrompt_EmbedsRubricAndCode(t *testing.T) {
	assignment := &CodingAssignment{
		ID:          "abc123",
		Text:        "Implement linear regression with mean squared error.",
		StarterCode: "def fit(X, y):\n    pass",
		Rubric:      "Correctness 60, style 40.",
	}
	sub := Submission{ItemID: "abc123", SelectedOption: -1, AnswerText: "def fit(X, y):\n    return None"}

	prompt := BuildGradingPrompt(assignment, sub)

	for _, want := range []string{assignment.Text, assignment.Rubric, assignment.StarterCode, sub.AnswerText, "SCORE:"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("grading prompt missing %q", want)
		}
	}
}

func TestBuildAnalysisPrompt_ContainsScoreAndSummary(t *testing.T) {
	prompt := BuildAnalysisPrompt("QUIZ QUESTIONS AND ANSWERS:\n", 2, 3, 66.7)
	if !strings.Contains(prompt, "2/3") {
		t.Fatalf("analysis prompt missing score")
	}
	if !strings.Contains(prompt, "UNDERSTANDING:") {
		t.Fatalf("analysis prompt missing format instructions")
	}
}
