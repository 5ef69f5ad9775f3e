package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	examgen "github.com/oelwan/AI-EXAME-GENERATOR"
)

func main() {
	var (
		topic      = flag.String("topic", "", "Exam topic (required)")
		count      = flag.Int("questions", 5, "Number of questions to generate")
		difficulty = flag.String("difficulty", "medium", "Difficulty level (easy, medium, hard)")
		mode       = flag.String("mode", "quiz", "Content mode (quiz or coding)")
		outputFile = flag.String("output", "", "Output file for session JSON (default: stdout)")
		apiKey     = flag.String("api-key", "", "Groq API key (or set GROQ_API_KEY env var)")
		playMode   = flag.Bool("play", false, "Answer the quiz interactively")
		verbose    = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	examgen.SetVerbose(*verbose)

	if *topic == "" {
		log.Fatal("Topic is required. Use -topic flag.")
	}

	if *apiKey == "" {
		*apiKey = os.Getenv("GROQ_API_KEY")
		if *apiKey == "" {
			log.Fatal("Groq API key is required. Use -api-key flag or set GROQ_API_KEY environment variable.")
		}
	}

	client := examgen.NewClient(*apiKey)
	generator := examgen.NewGenerator(client)

	req := examgen.GenerationRequest{
		Topic:        *topic,
		Difficulty:   *difficulty,
		NumQuestions: *count,
		Mode:         examgen.Mode(*mode),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	session, err := generator.Generate(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate: %v", err)
	}

	if session.Partial {
		log.Printf("Note: only %d of %d requested questions were generated", len(session.Items), req.NumQuestions)
	}
	if session.Truncated {
		log.Printf("Note: the model returned extra questions; trimmed to %d", req.NumQuestions)
	}

	if *playMode && req.Mode == examgen.ModeQuiz {
		playQuiz(ctx, client, session)
		return
	}

	output, err := json.MarshalIndent(sessionExport(session), "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal session: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Session saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}
}

// export shape for -output; Item is an interface so the session doesn't
// marshal directly
type exportedSession struct {
	ID          string                      `json:"id"`
	Request     examgen.GenerationRequest   `json:"request"`
	Partial     bool                        `json:"partial"`
	Truncated   bool                        `json:"truncated"`
	Questions   []*examgen.Question         `json:"questions,omitempty"`
	Assignments []*examgen.CodingAssignment `json:"assignments,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
}

func sessionExport(session *examgen.SessionState) exportedSession {
	return exportedSession{
		ID:          session.ID,
		Request:     session.Request,
		Partial:     session.Partial,
		Truncated:   session.Truncated,
		Questions:   session.Questions(),
		Assignments: session.Assignments(),
		CreatedAt:   session.CreatedAt,
	}
}

func playQuiz(ctx context.Context, client examgen.Completer, session *examgen.SessionState) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Quiz on: %s (%s)\n", session.Request.Topic, session.Request.Difficulty)
	fmt.Printf("Questions: %d\n\n", len(session.Items))

	for i, q := range session.Questions() {
		fmt.Printf("Question %d: %s\n", i+1, q.Text)
		for j, opt := range q.Options {
			fmt.Printf("  %c. %s\n", 'A'+j, opt)
		}

		answer := -1
		for answer < 0 {
			fmt.Print("Your answer: ")
			if !scanner.Scan() {
				return
			}
			input := strings.ToUpper(strings.TrimSpace(scanner.Text()))
			if len(input) == 1 && input[0] >= 'A' && input[0] < byte('A'+len(q.Options)) {
				answer = int(input[0] - 'A')
			} else {
				fmt.Println("Enter a letter between A and", string(rune('A'+len(q.Options)-1)))
			}
		}

		sub := examgen.Submission{ItemID: q.ID, SelectedOption: answer, SubmittedAt: time.Now()}
		if err := session.RecordSubmission(sub); err != nil {
			log.Fatalf("Failed to record answer: %v", err)
		}

		result := examgen.EvaluateQuiz(q, sub)
		if err := session.RecordResult(result); err != nil {
			log.Fatalf("Failed to record result: %v", err)
		}

		if result.Correct {
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Incorrect. The answer was %c.\n", 'A'+q.CorrectAnswer)
		}
		if result.Feedback != "" {
			fmt.Printf("  %s\n", result.Feedback)
		}
		fmt.Println()
	}

	correct, total, pct := session.Score()
	fmt.Printf("Final score: %d/%d (%.1f%%)\n\n", correct, total, pct)

	evaluator := examgen.NewEvaluator(client)
	analysis, err := evaluator.AnalyzeQuiz(ctx, session)
	if err != nil {
		log.Printf("Analysis unavailable: %v", err)
		return
	}
	if analysis.Understanding != "" {
		fmt.Printf("Overall understanding: %s\n", analysis.Understanding)
	}
	if analysis.Strengths != "" {
		fmt.Printf("Strengths: %s\n", analysis.Strengths)
	}
	if analysis.KnowledgeGaps != "" {
		fmt.Printf("Knowledge gaps: %s\n", analysis.KnowledgeGaps)
	}
	if analysis.Recommendations != "" {
		fmt.Printf("Recommendations: %s\n", analysis.Recommendations)
	}
}
