package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	examgen "github.com/oelwan/AI-EXAME-GENERATOR"
)

// homeView is the data for the generation form page
type homeView struct {
	Error      string
	Retryable  bool
	Topic      string
	Count      string
	Difficulty string
	Mode       string
	History    []examgen.SessionRecord
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates[name].ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Template error in %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	view := homeView{Count: "5", Difficulty: examgen.DifficultyMedium, Mode: string(examgen.ModeQuiz)}

	history, err := s.db.ListRecent(20)
	if err != nil {
		log.Printf("Failed to list session history: %v", err)
	} else {
		view.History = history
	}

	s.render(w, "home", view)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	count, _ := strconv.Atoi(r.FormValue("num_questions"))
	req := examgen.GenerationRequest{
		Topic:        r.FormValue("topic"),
		Difficulty:   r.FormValue("difficulty"),
		NumQuestions: count,
		Mode:         examgen.Mode(r.FormValue("mode")),
	}

	sessionID := examgen.NewSessionID()
	logger, err := examgen.NewTranscriptLogger(sessionID, req)
	if err != nil {
		log.Printf("Transcript logging disabled: %v", err)
		logger = nil
	}

	// request-scoped generator so concurrent sessions don't share a transcript
	gen := examgen.NewGenerator(s.llm)
	gen.SetTranscriptLogger(logger)

	session, err := gen.Generate(r.Context(), req)
	if err != nil {
		// a failed generation leaves any previous session untouched
		if logger != nil {
			logger.Close()
		}
		s.renderGenerateError(w, r, req, err)
		return
	}
	session.ID = sessionID

	s.active.Put(session, logger)

	// the new session replaces the previous one; on failure above the old
	// session was left untouched
	cookie, _ := s.store.Get(r, cookieName)
	if old, ok := cookie.Values["session_id"].(string); ok && old != "" {
		s.active.Remove(old)
	}
	cookie.Values["session_id"] = session.ID
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Failed to save session cookie: %v", err)
	}

	http.Redirect(w, r, "/quiz/"+session.ID, http.StatusSeeOther)
}

func (s *Server) renderGenerateError(w http.ResponseWriter, r *http.Request, req examgen.GenerationRequest, err error) {
	view := homeView{
		Topic:      req.Topic,
		Count:      strconv.Itoa(req.NumQuestions),
		Difficulty: req.Difficulty,
		Mode:       string(req.Mode),
	}
	if history, herr := s.db.ListRecent(20); herr == nil {
		view.History = history
	}

	var invalidErr *examgen.InvalidRequestError
	var serviceErr *examgen.ServiceError
	var parseErr *examgen.ParseError

	switch {
	case errors.As(err, &invalidErr):
		view.Error = invalidErr.Error()
	case errors.As(err, &serviceErr):
		view.Error = "The completion service is unavailable (" + string(serviceErr.Kind) + ")."
		view.Retryable = true
	case errors.As(err, &parseErr):
		view.Error = "Could not generate valid content, please retry."
		view.Retryable = true
	default:
		log.Printf("Unexpected generation error: %v", err)
		view.Error = "Generation failed, please retry."
		view.Retryable = true
	}

	s.render(w, "home", view)
}

// getSession resolves the URL's session id to its locked live entry,
// enforcing that the requesting browser owns it. The caller must invoke
// the returned release when done; a nil entry means the response was
// already written.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) (*liveSession, func()) {
	sessionID := chi.URLParam(r, "sessionID")

	entry, release, ok := s.active.Acquire(sessionID)
	if !ok {
		http.NotFound(w, r)
		return nil, nil
	}

	cookie, _ := s.store.Get(r, cookieName)
	if owner, ok := cookie.Values["session_id"].(string); !ok || owner != sessionID {
		release()
		http.NotFound(w, r)
		return nil, nil
	}
	return entry, release
}

type quizView struct {
	Session *examgen.SessionState
	Error   string
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	entry, release := s.getSession(w, r)
	if entry == nil {
		return
	}
	defer release()
	session := entry.session

	name := "quiz"
	if session.Request.Mode == examgen.ModeCoding {
		name = "coding"
	}
	s.render(w, name, quizView{Session: session})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	entry, release := s.getSession(w, r)
	if entry == nil {
		return
	}
	defer release()
	session := entry.session

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	evaluator := examgen.NewEvaluator(s.llm)
	evaluator.SetTranscriptLogger(entry.logger)

	// record submissions first, then evaluate; a failed evaluation leaves
	// the submission recorded so a resubmit retries only the evaluation
	for _, item := range session.Items {
		state, _ := session.State(item.ItemID())
		if state == examgen.StateGenerated {
			sub := examgen.Submission{
				ItemID:      item.ItemID(),
				SubmittedAt: time.Now(),
			}
			switch item.(type) {
			case *examgen.Question:
				sub.SelectedOption = -1
				if v := r.FormValue("answer_" + item.ItemID()); v != "" {
					if idx, err := strconv.Atoi(v); err == nil {
						sub.SelectedOption = idx
					}
				}
			case *examgen.CodingAssignment:
				sub.SelectedOption = -1
				sub.AnswerText = r.FormValue("code_" + item.ItemID())
			}
			if err := session.RecordSubmission(sub); err != nil {
				log.Printf("Failed to record submission for %s: %v", item.ItemID(), err)
			}
		}
	}

	for _, item := range session.Items {
		if _, done := session.Result(item.ItemID()); done {
			continue
		}
		sub, ok := session.Submission(item.ItemID())
		if !ok {
			continue
		}

		var (
			result examgen.EvaluationResult
			err    error
		)
		switch it := item.(type) {
		case *examgen.Question:
			result = examgen.EvaluateQuiz(it, sub)
		case *examgen.CodingAssignment:
			result, err = evaluator.EvaluateCoding(r.Context(), it, sub)
		}
		if err != nil {
			name := "quiz"
			if session.Request.Mode == examgen.ModeCoding {
				name = "coding"
			}
			s.render(w, name, quizView{
				Session: session,
				Error:   "Grading failed, your answer was kept. Submit again to retry.",
			})
			return
		}
		if err := session.RecordResult(result); err != nil {
			log.Printf("Failed to record result for %s: %v", item.ItemID(), err)
		}
	}

	if session.AllEvaluated() {
		if err := s.db.SaveCompleted(session); err != nil {
			log.Printf("Failed to save completed session %s: %v", session.ID, err)
		}
	}

	http.Redirect(w, r, "/quiz/"+session.ID+"/results", http.StatusSeeOther)
}

type resultsView struct {
	Session     *examgen.SessionState
	Correct     int
	Total       int
	Pct         float64
	Rows        []resultRow
	Analysis    *examgen.Analysis
	CanPractice bool
}

type resultRow struct {
	Item       examgen.Item
	Question   *examgen.Question
	Assignment *examgen.CodingAssignment
	Submission examgen.Submission
	Result     examgen.EvaluationResult
	HasResult  bool
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	entry, release := s.getSession(w, r)
	if entry == nil {
		return
	}
	defer release()
	session := entry.session

	view := resultsView{Session: session}
	view.Correct, view.Total, view.Pct = session.Score()

	for _, item := range session.Items {
		row := resultRow{Item: item}
		switch it := item.(type) {
		case *examgen.Question:
			row.Question = it
		case *examgen.CodingAssignment:
			row.Assignment = it
		}
		row.Submission, _ = session.Submission(item.ItemID())
		row.Result, row.HasResult = session.Result(item.ItemID())
		view.Rows = append(view.Rows, row)
	}

	if session.Request.Mode == examgen.ModeQuiz && session.AllEvaluated() {
		view.CanPractice = len(session.Missed()) > 0

		evaluator := examgen.NewEvaluator(s.llm)
		evaluator.SetTranscriptLogger(entry.logger)
		if analysis, err := evaluator.AnalyzeQuiz(r.Context(), session); err != nil {
			log.Printf("Quiz analysis unavailable: %v", err)
		} else {
			view.Analysis = &analysis
		}
	}

	s.render(w, "results", view)
}

// handlePractice generates a follow-up quiz focused on the questions the
// student got wrong, replacing the finished session the same way a fresh
// generation does.
func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	entry, release := s.getSession(w, r)
	if entry == nil {
		return
	}
	prev := entry.session
	req := examgen.GenerationRequest{
		Topic:        prev.Request.Topic,
		Difficulty:   prev.Request.Difficulty,
		NumQuestions: prev.Request.NumQuestions,
		Mode:         examgen.ModeQuiz,
	}
	weaknesses := strings.Join(prev.Missed(), "; ")
	allEvaluated := prev.AllEvaluated()
	release()

	if !allEvaluated || weaknesses == "" {
		http.Redirect(w, r, "/quiz/"+prev.ID+"/results", http.StatusSeeOther)
		return
	}

	sessionID := examgen.NewSessionID()
	logger, err := examgen.NewTranscriptLogger(sessionID, req)
	if err != nil {
		log.Printf("Transcript logging disabled: %v", err)
		logger = nil
	}

	gen := examgen.NewGenerator(s.llm)
	gen.SetTranscriptLogger(logger)

	session, err := gen.GeneratePractice(r.Context(), req, weaknesses)
	if err != nil {
		if logger != nil {
			logger.Close()
		}
		s.renderGenerateError(w, r, req, err)
		return
	}
	session.ID = sessionID

	s.active.Put(session, logger)

	cookie, _ := s.store.Get(r, cookieName)
	if old, ok := cookie.Values["session_id"].(string); ok && old != "" {
		s.active.Remove(old)
	}
	cookie.Values["session_id"] = session.ID
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Failed to save session cookie: %v", err)
	}

	http.Redirect(w, r, "/quiz/"+session.ID, http.StatusSeeOther)
}
