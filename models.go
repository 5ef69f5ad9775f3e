package examgen

import "time"

// Mode selects what kind of content a generation request produces
type Mode string

const (
	ModeQuiz   Mode = "quiz"
	ModeCoding Mode = "coding"
)

// Difficulty levels accepted by the prompt builder
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// GenerationRequest represents one user request to generate exam content
type GenerationRequest struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
	Mode         Mode   `json:"mode"`
}

// ItemState tracks an item through the answer lifecycle
type ItemState string

const (
	StateGenerated ItemState = "generated"
	StateAnswered  ItemState = "answered"
	StateEvaluated ItemState = "evaluated"
)

// Item is anything a session can hold and the user can answer
type Item interface {
	ItemID() string
	Prompt() string
}

// Question represents a single multiple choice question
type Question struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"` // 0-based index
	Explanation   string    `json:"explanation"`
	Topic         string    `json:"topic"`
	CreatedAt     time.Time `json:"created_at"`
}

func (q *Question) ItemID() string { return q.ID }
func (q *Question) Prompt() string { return q.Text }

// CodingAssignment represents a generated coding exercise
type CodingAssignment struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	StarterCode  string    `json:"starter_code"`
	LanguageHint string    `json:"language_hint"`
	Rubric       string    `json:"rubric"`
	Topic        string    `json:"topic"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *CodingAssignment) ItemID() string { return a.ID }
func (a *CodingAssignment) Prompt() string { return a.Text }

// Submission captures a user's answer to one item. SelectedOption is the
// 0-based option index for quiz items and -1 for coding items, where the
// answer lives in AnswerText instead.
type Submission struct {
	ItemID         string    `json:"item_id"`
	SelectedOption int       `json:"selected_option"`
	AnswerText     string    `json:"answer_text"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// EvaluationResult is produced once per submission and never mutated.
// Correct is meaningful for quiz items; Score for coding items. Score is
// nil whenever the grader's response did not contain an extractable score,
// in which case ScoreExtracted is false and Feedback carries the raw
// grading text verbatim.
type EvaluationResult struct {
	ItemID         string    `json:"item_id"`
	Correct        bool      `json:"correct"`
	Score          *int      `json:"score"`
	ScoreExtracted bool      `json:"score_extracted"`
	Feedback       string    `json:"feedback"`
	EvaluatedAt    time.Time `json:"evaluated_at"`
}

// GradeResult is the parsed form of a grading response
type GradeResult struct {
	Score          *int   `json:"score"`
	ScoreExtracted bool   `json:"score_extracted"`
	Feedback       string `json:"feedback"`
}

// Analysis is the parsed form of a quiz performance analysis response
type Analysis struct {
	Understanding   string `json:"understanding"`
	Strengths       string `json:"strengths"`
	KnowledgeGaps   string `json:"knowledge_gaps"`
	Recommendations string `json:"recommendations"`
}
