package examgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TranscriptLogger records every prompt and raw model response for one
// session to a file under log/. A nil logger is valid and drops everything.
type TranscriptLogger struct {
	file      *os.File
	mu        sync.Mutex
	sessionID string
}

// NewTranscriptLogger creates a transcript log file for a session
func NewTranscriptLogger(sessionID string, req GenerationRequest) (*TranscriptLogger, error) {
	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join("log", fmt.Sprintf("%s.log", sessionID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &TranscriptLogger{
		file:      file,
		sessionID: sessionID,
	}

	logger.Logf("=== Exam Generation Log ===\n")
	logger.Logf("Session ID: %s\n", sessionID)
	logger.Logf("Topic: %s\n", req.Topic)
	logger.Logf("Mode: %s\n", req.Mode)
	logger.Logf("Requested Items: %d\n", req.NumQuestions)
	logger.Logf("Difficulty: %s\n", req.Difficulty)
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("===========================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (tl *TranscriptLogger) Logf(format string, args ...interface{}) {
	if tl == nil {
		return
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	message := fmt.Sprintf(format, args...)

	fmt.Fprintf(tl.file, "[%s] %s", timestamp, message)
	tl.file.Sync()
}

// LogRequest logs a prompt before it is sent
func (tl *TranscriptLogger) LogRequest(stage, prompt string) {
	if tl == nil {
		return
	}
	tl.Logf("=== REQUEST (%s) ===\n", stage)
	tl.Logf("Prompt:\n%s\n", prompt)
	tl.Logf("====================\n\n")
}

// LogResponse logs a raw model response
func (tl *TranscriptLogger) LogResponse(stage, response string) {
	if tl == nil {
		return
	}
	tl.Logf("=== RESPONSE (%s) ===\n", stage)
	tl.Logf("Response:\n%s\n", response)
	tl.Logf("=====================\n\n")
}

// Close closes the log file
func (tl *TranscriptLogger) Close() error {
	if tl == nil {
		return nil
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.file != nil {
		fmt.Fprintf(tl.file, "[%s] === Session Complete ===\n", time.Now().Format("15:04:05.000"))
		return tl.file.Close()
	}
	return nil
}
