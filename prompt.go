package examgen

import (
	"fmt"
	"strings"
)

func validateRequest(req GenerationRequest) error {
	if strings.TrimSpace(req.Topic) == "" {
		return &InvalidRequestError{Field: "topic", Reason: "must not be empty"}
	}
	if req.NumQuestions <= 0 {
		return &InvalidRequestError{Field: "num_questions", Reason: "must be positive"}
	}
	switch req.Mode {
	case ModeQuiz, ModeCoding:
	default:
		return &InvalidRequestError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", req.Mode)}
	}
	switch req.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return &InvalidRequestError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %q", req.Difficulty)}
	}
	return nil
}

// BuildQuizPrompt renders the generation prompt for multiple choice
// questions. The format instructions here are what ParseQuiz expects back.
func BuildQuizPrompt(req GenerationRequest) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are an expert Machine Learning educator. Create %d %s-level multiple choice quiz questions on the following topic: %s\n\n",
		req.NumQuestions, req.Difficulty, req.Topic))

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Each question must have exactly 4 options labeled A, B, C, and D\n")
	sb.WriteString("- Include only one correct answer per question\n")
	sb.WriteString("- Incorrect options should be plausible but clearly wrong\n")
	sb.WriteString("- Questions should test understanding, not just memorization\n")
	sb.WriteString("- Avoid questions where the answer is given away in the question text\n")
	sb.WriteString("- Provide a brief explanation for why the correct answer is right\n\n")

	sb.WriteString("IMPORTANT: Use the following EXACT format for every question:\n\n")
	sb.WriteString("Question: [Question text]\n")
	sb.WriteString("A. [Option A]\n")
	sb.WriteString("B. [Option B]\n")
	sb.WriteString("C. [Option C]\n")
	sb.WriteString("D. [Option D]\n")
	sb.WriteString("Correct Answer: [Letter of the correct option]\n")
	sb.WriteString("Explanation: [Why the correct answer is right]\n\n")

	sb.WriteString(fmt.Sprintf("Provide exactly %d questions, formatted precisely as specified above.\n", req.NumQuestions))

	return sb.String(), nil
}

// BuildPracticePrompt renders a follow-up quiz prompt focused on the areas
// a student answered incorrectly. The output format is the same as
// BuildQuizPrompt, so ParseQuiz handles the response unchanged.
func BuildPracticePrompt(req GenerationRequest, weaknesses string) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}
	if strings.TrimSpace(weaknesses) == "" {
		return "", &InvalidRequestError{Field: "weaknesses", Reason: "must not be empty"}
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are an expert Machine Learning educator. Create a personalized practice quiz with %d %s-level questions to help a student improve in their areas of weakness.\n\n",
		req.NumQuestions, req.Difficulty))

	sb.WriteString(fmt.Sprintf("Focus Topic: %s\n", req.Topic))
	sb.WriteString(fmt.Sprintf("Areas of Weakness: %s\n\n", weaknesses))

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Focus the questions specifically on the weakness areas listed above\n")
	sb.WriteString("- Each question must have exactly 4 options labeled A, B, C, and D\n")
	sb.WriteString("- Include only one correct answer per question\n")
	sb.WriteString("- Make incorrect options plausible but clearly wrong to someone who understands the concept\n")
	sb.WriteString("- Questions should reinforce correct understanding, not just test\n")
	sb.WriteString("- The explanations are particularly important: explain why the correct answer is right and the others are wrong\n\n")

	sb.WriteString("IMPORTANT: Use the following EXACT format for every question:\n\n")
	sb.WriteString("Question: [Question text]\n")
	sb.WriteString("A. [Option A]\n")
	sb.WriteString("B. [Option B]\n")
	sb.WriteString("C. [Option C]\n")
	sb.WriteString("D. [Option D]\n")
	sb.WriteString("Correct Answer: [Letter of the correct option]\n")
	sb.WriteString("Explanation: [Detailed explanation of why this answer is correct and why others are incorrect]\n\n")

	sb.WriteString(fmt.Sprintf("Provide exactly %d questions, formatted precisely as specified above.\n", req.NumQuestions))

	return sb.String(), nil
}

// BuildCodingPrompt renders the generation prompt for a coding assignment.
// The sectioned format matches what ParseCoding expects back.
func BuildCodingPrompt(req GenerationRequest) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Create a Python coding assignment on the topic: %s\n", req.Topic))
	sb.WriteString(fmt.Sprintf("Difficulty level: %s\n\n", req.Difficulty))

	sb.WriteString("Format your response with the following sections:\n\n")
	sb.WriteString("TITLE: A descriptive title for the assignment\n\n")
	sb.WriteString("BACKGROUND: Brief explanation of the topic and relevant concepts\n\n")
	sb.WriteString("REQUIREMENTS: Clear statement of what the program should do\n\n")
	sb.WriteString("EXPECTED_OUTPUT: Examples of expected input/output behavior\n\n")
	sb.WriteString("HINTS: Helpful hints or tips for solving the problem\n\n")
	sb.WriteString("EVALUATION_CRITERIA: Criteria for evaluating the solution\n\n")
	sb.WriteString("CODE_TEMPLATE:\n```python\n# Starter code the student can build on\n```\n\n")

	sb.WriteString(fmt.Sprintf("Make the assignment challenging but achievable for a %s level student.\n", req.Difficulty))

	return sb.String(), nil
}

// BuildGradingPrompt renders the second round-trip prompt asking the model
// to grade a submitted solution against the assignment's rubric.
func BuildGradingPrompt(assignment *CodingAssignment, sub Submission) string {
	var sb strings.Builder

	sb.WriteString("Evaluate the following Python code submitted for a coding assignment.\n\n")

	sb.WriteString("ASSIGNMENT:\n")
	sb.WriteString(assignment.Text)
	sb.WriteString("\n\n")

	if assignment.Rubric != "" {
		sb.WriteString("GRADING RUBRIC:\n")
		sb.WriteString(assignment.Rubric)
		sb.WriteString("\n\n")
	}

	if assignment.StarterCode != "" {
		sb.WriteString("STARTER CODE GIVEN TO THE STUDENT:\n```python\n")
		sb.WriteString(assignment.StarterCode)
		sb.WriteString("\n```\n\n")
	}

	sb.WriteString("SUBMITTED CODE:\n```python\n")
	sb.WriteString(sub.AnswerText)
	sb.WriteString("\n```\n\n")

	sb.WriteString("Grade the submission against the rubric and respond in EXACTLY this format:\n\n")
	sb.WriteString("SCORE: [Integer from 0 to 100]\n")
	sb.WriteString("FEEDBACK: [Detailed feedback on correctness, quality, and possible improvements]\n")

	return sb.String()
}

// BuildAnalysisPrompt renders a prompt asking for a study analysis of a
// completed quiz, given a formatted per-question summary and the score.
func BuildAnalysisPrompt(summary string, correct, total int, pct float64) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following quiz results:\n\n")
	sb.WriteString(fmt.Sprintf("Score: %d/%d (%.1f%%)\n\n", correct, total, pct))
	sb.WriteString(summary)
	sb.WriteString("\n\n")

	sb.WriteString("Provide an analysis with the following sections:\n")
	sb.WriteString("1. Overall understanding of the topic\n")
	sb.WriteString("2. Areas where the student shows good understanding\n")
	sb.WriteString("3. Specific areas where the student needs improvement\n")
	sb.WriteString("4. Specific resources or strategies for improvement\n\n")

	sb.WriteString("Format your response as follows:\n")
	sb.WriteString("UNDERSTANDING: [Overall understanding assessment]\n")
	sb.WriteString("STRENGTHS: [Areas of strength]\n")
	sb.WriteString("KNOWLEDGE_GAPS: [Areas needing improvement]\n")
	sb.WriteString("RECOMMENDATIONS: [Specific recommendations]\n")

	return sb.String()
}
