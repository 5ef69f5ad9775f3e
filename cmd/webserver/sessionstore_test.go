package main

import (
	"sync"
	"testing"
	"time"

	examgen "github.com/oelwan/AI-EXAME-GENERATOR"
)

func newLiveQuizSession(id string) *examgen.SessionState {
	q := &examgen.Question{
		ID:            "q1",
		Text:          "What does a loss function measure?",
		Options:       []string{"Prediction error", "Disk usage"},
		CorrectAnswer: 0,
	}
	req := examgen.GenerationRequest{
		Topic:        "loss functions",
		Difficulty:   examgen.DifficultyMedium,
		NumQuestions: 1,
		Mode:         examgen.ModeQuiz,
	}
	return examgen.NewSessionState(id, req, []examgen.Item{q})
}

// Concurrent requests for the same session id must not touch the session
// at the same time: one goroutine submitting while another reads results
// would otherwise write and read the session's maps unsynchronized.
func TestAcquireSerializesSessionAccess(t *testing.T) {
	active := newActiveSessions()
	active.Put(newLiveQuizSession("s1"), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			entry, release, ok := active.Acquire("s1")
			if !ok {
				t.Error("Acquire() reported the session missing")
				return
			}
			defer release()

			sub := examgen.Submission{ItemID: "q1", SelectedOption: 0, SubmittedAt: time.Now()}
			if err := entry.session.RecordSubmission(sub); err == nil {
				res := examgen.EvaluateQuiz(entry.session.Questions()[0], sub)
				if err := entry.session.RecordResult(res); err != nil {
					t.Errorf("RecordResult() failed: %v", err)
				}
			}
			entry.session.Score()
		}()
	}
	wg.Wait()

	entry, release, ok := active.Acquire("s1")
	if !ok {
		t.Fatal("Acquire() reported the session missing after the writes")
	}
	defer release()

	if !entry.session.AllEvaluated() {
		t.Error("Expected exactly one submission to win and be evaluated")
	}
	if correct, total, _ := entry.session.Score(); correct != 1 || total != 1 {
		t.Errorf("Score() = %d/%d, want 1/1", correct, total)
	}
}

func TestAcquireUnknownSession(t *testing.T) {
	active := newActiveSessions()
	if _, _, ok := active.Acquire("missing"); ok {
		t.Error("Acquire() found a session that was never put")
	}
}

func TestRemoveDropsSession(t *testing.T) {
	active := newActiveSessions()
	active.Put(newLiveQuizSession("s2"), nil)

	active.Remove("s2")
	if _, _, ok := active.Acquire("s2"); ok {
		t.Error("Acquire() still finds a removed session")
	}

	// removing twice is harmless
	active.Remove("s2")
}
