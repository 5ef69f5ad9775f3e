package examgen

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// QuizParseResult carries whatever questions could be extracted from a
// model response. Partial is set when fewer questions than requested
// parsed; Truncated when the model returned more than requested and the
// surplus was discarded.
type QuizParseResult struct {
	Questions []*Question
	Partial   bool
	Truncated bool
}

var (
	questionLabelRe = regexp.MustCompile(`(?i)^\s*question(?:\s*\d+)?\s*:\s*(.*)$`)
	optionRe        = regexp.MustCompile(`^\s*([A-F])[.)]\s+(.+)$`)
	answerRe        = regexp.MustCompile(`(?i)^\s*(?:correct\s+)?answer\s*:\s*\*{0,2}\s*([A-F])\b`)
	explanationRe   = regexp.MustCompile(`(?i)^\s*explanation\s*:\s*(.*)$`)
	scoreRe         = regexp.MustCompile(`(?i)\bscore\s*[:\-]?\s*(\d{1,3})`)
	feedbackRe      = regexp.MustCompile(`(?i)^\s*feedback\s*:\s*(.*)$`)
	codeFenceRe     = regexp.MustCompile("(?s)```[a-z]*[ \t]*\n?(.*?)```")
)

// placeholder fragments the model sometimes emits instead of real content
var placeholderFragments = []string{
	"placeholder",
	"[option",
	"[insert",
	"[question",
	"lorem ipsum",
}

func isPlaceholder(text string) bool {
	lower := strings.ToLower(text)
	for _, frag := range placeholderFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// ParseQuiz extracts multiple choice questions from raw model output. The
// scan is best-effort and line oriented: it tolerates extra whitespace,
// "A." or "A)" option labels and "Answer:" as well as "Correct Answer:".
// Blocks that don't yield a valid question are dropped with a logged
// warning, never fabricated. want is the requested question count; pass 0
// to disable the partial/truncated accounting.
func ParseQuiz(raw string, want int) (*QuizParseResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Reason: ReasonEmptyResult, Message: "empty response"}
	}

	var questions []*Question
	seen := make(map[string]bool) // normalized question text, for dedup

	for _, block := range splitQuestionBlocks(raw) {
		q, reason := parseQuestionBlock(block)
		if q == nil {
			log.Printf("Warning: dropping unparsable question block: %s", reason)
			continue
		}

		key := normalizeText(q.Text)
		if seen[key] {
			log.Printf("Warning: dropping duplicate question: %q", q.Text)
			continue
		}
		seen[key] = true

		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, &ParseError{Reason: ReasonEmptyResult, Message: "no questions could be parsed"}
	}

	result := &QuizParseResult{Questions: questions}
	if want > 0 {
		if len(questions) < want {
			result.Partial = true
		} else if len(questions) > want {
			log.Printf("Warning: model returned %d questions, requested %d; truncating", len(questions), want)
			result.Questions = questions[:want]
			result.Truncated = true
		}
	}

	return result, nil
}

// splitQuestionBlocks cuts raw text into chunks, each starting at a
// "Question:" label line.
func splitQuestionBlocks(raw string) []string {
	lines := strings.Split(raw, "\n")

	var blocks []string
	var current []string

	for _, line := range lines {
		if questionLabelRe.MatchString(line) {
			if len(current) > 0 {
				blocks = append(blocks, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}

	return blocks
}

// parseQuestionBlock turns one block into a Question, or returns nil with
// a human-readable reason for the dropped block.
func parseQuestionBlock(block string) (*Question, string) {
	var (
		text         string
		options      []string
		correct      = -1
		explanation  []string
		inExplain    bool
		sawAnyOption bool
	)

	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			inExplain = false
			continue
		}

		if m := questionLabelRe.FindStringSubmatch(line); m != nil {
			text = strings.TrimSpace(m[1])
			continue
		}
		if m := optionRe.FindStringSubmatch(line); m != nil {
			inExplain = false
			sawAnyOption = true
			idx := int(m[1][0] - 'A')
			// option letters must arrive in order; a skipped letter means
			// the block is malformed enough to distrust
			if idx != len(options) {
				return nil, "option labels out of order"
			}
			options = append(options, strings.TrimSpace(m[2]))
			continue
		}
		if m := answerRe.FindStringSubmatch(line); m != nil {
			inExplain = false
			correct = int(m[1][0] - 'A')
			continue
		}
		if m := explanationRe.FindStringSubmatch(line); m != nil {
			explanation = append(explanation, strings.TrimSpace(m[1]))
			inExplain = true
			continue
		}
		if inExplain {
			explanation = append(explanation, trimmed)
			continue
		}
		// continuation of the question text before any option appeared
		if !sawAnyOption && text != "" {
			text += " " + trimmed
		}
	}

	if text == "" || isPlaceholder(text) {
		return nil, "missing or placeholder question text"
	}

	var valid []string
	for _, opt := range options {
		if opt == "" || isPlaceholder(opt) {
			return nil, "placeholder option"
		}
		valid = append(valid, opt)
	}
	if len(valid) < 2 || len(valid) > 6 {
		return nil, "needs between 2 and 6 options"
	}
	if correct < 0 || correct >= len(valid) {
		return nil, "correct answer does not resolve to an option"
	}

	return &Question{
		Text:          text,
		Options:       valid,
		CorrectAnswer: correct,
		Explanation:   strings.Join(explanation, " "),
	}, ""
}

// assignment section labels, in the order the prompt asks for them
var assignmentSections = []string{
	"TITLE",
	"BACKGROUND",
	"REQUIREMENTS",
	"EXPECTED_OUTPUT",
	"HINTS",
	"EVALUATION_CRITERIA",
	"CODE_TEMPLATE",
}

// ParseCoding extracts a coding assignment from raw model output. A
// missing code template is tolerated (StarterCode stays empty); a response
// with no recognizable sections at all is a parse failure.
func ParseCoding(raw string) (*CodingAssignment, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Reason: ReasonEmptyResult, Message: "empty response"}
	}

	sections := scanSections(raw, assignmentSections)

	starter := ""
	if m := codeFenceRe.FindStringSubmatch(sections["CODE_TEMPLATE"]); m != nil {
		starter = strings.TrimSpace(m[1])
	} else if m := codeFenceRe.FindStringSubmatch(raw); m != nil {
		// fence present but outside a labeled section
		starter = strings.TrimSpace(m[1])
	}

	var body []string
	for _, key := range []string{"BACKGROUND", "REQUIREMENTS", "EXPECTED_OUTPUT", "HINTS"} {
		if s := sections[key]; s != "" {
			body = append(body, s)
		}
	}

	if sections["TITLE"] == "" && len(body) == 0 && starter == "" {
		return nil, &ParseError{Reason: ReasonNoAssignment, Message: "no assignment sections recognized"}
	}

	return &CodingAssignment{
		Title:        sections["TITLE"],
		Text:         strings.Join(body, "\n\n"),
		StarterCode:  starter,
		LanguageHint: "python",
		Rubric:       sections["EVALUATION_CRITERIA"],
	}, nil
}

// scanSections walks raw line by line accumulating text under the most
// recently seen "LABEL:" heading.
func scanSections(raw string, labels []string) map[string]string {
	parts := make(map[string][]string)
	current := ""

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		// models like to decorate headings with markdown
		stripped := strings.TrimSpace(strings.TrimLeft(trimmed, "#*- "))

		matched := false
		for _, label := range labels {
			if rest, ok := strings.CutPrefix(stripped, label+":"); ok {
				current = label
				if rest = strings.TrimSpace(strings.Trim(rest, "*")); rest != "" {
					parts[current] = append(parts[current], rest)
				}
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		// keep the line as-is: starter code sections are indentation
		// sensitive
		if current != "" {
			parts[current] = append(parts[current], line)
		}
	}

	sections := make(map[string]string, len(parts))
	for label, lines := range parts {
		sections[label] = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return sections
}

// ParseGrading extracts a 0-100 score and feedback text from a grading
// response. It never fails: when no score can be extracted the raw text is
// surfaced verbatim as feedback with ScoreExtracted false, and no score is
// ever fabricated.
func ParseGrading(raw string) GradeResult {
	result := GradeResult{Feedback: raw}

	if m := scoreRe.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 && n <= 100 {
			result.Score = &n
			result.ScoreExtracted = true
		}
	}

	if !result.ScoreExtracted {
		return result
	}

	var feedback []string
	inFeedback := false
	for _, line := range strings.Split(raw, "\n") {
		if m := feedbackRe.FindStringSubmatch(line); m != nil {
			inFeedback = true
			if s := strings.TrimSpace(m[1]); s != "" {
				feedback = append(feedback, s)
			}
			continue
		}
		if inFeedback {
			if s := strings.TrimSpace(line); s != "" {
				feedback = append(feedback, s)
			}
		}
	}
	if len(feedback) > 0 {
		result.Feedback = strings.Join(feedback, " ")
	}

	return result
}

// analysis section labels
var analysisSections = []string{
	"UNDERSTANDING",
	"STRENGTHS",
	"KNOWLEDGE_GAPS",
	"RECOMMENDATIONS",
}

// ParseAnalysis extracts the structured study analysis from a quiz
// analysis response. Missing sections come back empty.
func ParseAnalysis(raw string) Analysis {
	sections := scanSections(raw, analysisSections)
	return Analysis{
		Understanding:   sections["UNDERSTANDING"],
		Strengths:       sections["STRENGTHS"],
		KnowledgeGaps:   sections["KNOWLEDGE_GAPS"],
		Recommendations: sections["RECOMMENDATIONS"],
	}
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
