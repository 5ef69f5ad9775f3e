package examgen

import (
	"context"
	"fmt"
	"time"
)

// EvaluateQuiz checks a multiple choice submission locally. It is pure and
// always succeeds; feedback comes from the question's stored explanation.
func EvaluateQuiz(q *Question, sub Submission) EvaluationResult {
	correct := sub.SelectedOption == q.CorrectAnswer

	feedback := q.Explanation
	if feedback == "" {
		if correct {
			feedback = "Correct."
		} else if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			feedback = fmt.Sprintf("The correct answer is %c. %s", 'A'+q.CorrectAnswer, q.Options[q.CorrectAnswer])
		}
	}

	return EvaluationResult{
		ItemID:      q.ID,
		Correct:     correct,
		Feedback:    feedback,
		EvaluatedAt: time.Now(),
	}
}

// Evaluator grades coding submissions and analyzes quiz results through a
// second completion round trip.
type Evaluator struct {
	client Completer
	logger *TranscriptLogger
}

// NewEvaluator creates an evaluator on top of a completion client
func NewEvaluator(client Completer) *Evaluator {
	return &Evaluator{client: client}
}

// SetTranscriptLogger attaches a transcript logger for grading round trips
func (e *Evaluator) SetTranscriptLogger(logger *TranscriptLogger) {
	e.logger = logger
}

// EvaluateCoding builds a grading prompt from the assignment and the
// submitted code, asks the model to grade it, and parses the score and
// feedback out of the response. When the response carries no parsable
// score the result keeps a nil score with ScoreExtracted false and the raw
// text as feedback; a score is never fabricated. The error return is a
// *ServiceError from the completion call, in which case no result exists
// and the submission stays retryable.
func (e *Evaluator) EvaluateCoding(ctx context.Context, assignment *CodingAssignment, sub Submission) (EvaluationResult, error) {
	prompt := BuildGradingPrompt(assignment, sub)
	e.logger.LogRequest("grader", prompt)

	raw, err := e.client.Complete(ctx, prompt)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("grading call failed: %w", err)
	}
	e.logger.LogResponse("grader", raw)

	grade := ParseGrading(raw)
	if !grade.ScoreExtracted {
		VerboseLog("Grading response for %s had no parsable score", assignment.ID)
	}

	return EvaluationResult{
		ItemID:         assignment.ID,
		Score:          grade.Score,
		ScoreExtracted: grade.ScoreExtracted,
		Feedback:       grade.Feedback,
		EvaluatedAt:    time.Now(),
	}, nil
}

// AnalyzeQuiz asks the model for a study analysis of a completed quiz.
// Callers treat failure as non-fatal; results render without the analysis.
func (e *Evaluator) AnalyzeQuiz(ctx context.Context, session *SessionState) (Analysis, error) {
	correct, total, pct := session.Score()
	prompt := BuildAnalysisPrompt(session.Summary(), correct, total, pct)
	e.logger.LogRequest("analysis", prompt)

	raw, err := e.client.Complete(ctx, prompt)
	if err != nil {
		return Analysis{}, fmt.Errorf("analysis call failed: %w", err)
	}
	e.logger.LogResponse("analysis", raw)

	return ParseAnalysis(raw), nil
}
