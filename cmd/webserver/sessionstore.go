package main

import (
	"sync"

	examgen "github.com/oelwan/AI-EXAME-GENERATOR"
)

// liveSession pairs an in-progress session with its transcript log. The
// lock serializes handler access to the session: SessionState carries no
// locking of its own, so concurrent requests for the same browser session
// (a double submit, a results load racing a submit) must take it here.
type liveSession struct {
	mu      sync.Mutex
	session *examgen.SessionState
	logger  *examgen.TranscriptLogger
}

// activeSessions holds in-progress sessions by id. Each entry belongs to
// exactly one browser session; the id travels in the session cookie.
type activeSessions struct {
	mu      sync.RWMutex
	entries map[string]*liveSession
}

func newActiveSessions() *activeSessions {
	return &activeSessions{
		entries: make(map[string]*liveSession),
	}
}

func (as *activeSessions) Put(session *examgen.SessionState, logger *examgen.TranscriptLogger) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.entries[session.ID] = &liveSession{session: session, logger: logger}
}

// Acquire returns the live session locked for exclusive use. The caller
// must call release when done with it.
func (as *activeSessions) Acquire(id string) (entry *liveSession, release func(), ok bool) {
	as.mu.RLock()
	entry, ok = as.entries[id]
	as.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}
	entry.mu.Lock()
	return entry, entry.mu.Unlock, true
}

// Remove drops a finished session and closes its transcript log. It waits
// for any handler still holding the entry before closing the log.
func (as *activeSessions) Remove(id string) {
	as.mu.Lock()
	entry, ok := as.entries[id]
	delete(as.entries, id)
	as.mu.Unlock()
	if !ok {
		return
	}
	entry.mu.Lock()
	entry.logger.Close()
	entry.mu.Unlock()
}
