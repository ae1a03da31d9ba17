package jagriti

import (
	"net/http"
	"sync"
	"time"
)

// Session is the mutable cookie/CSRF state shared by every request of
// one Client. It is only ever mutated by the transport, under its
// mutex; concurrent bootstrap attempts collapse into a single one via
// double-checked init in Client.InitializeSession.
type Session struct {
	mu           sync.Mutex
	cookies      map[string]string
	csrfToken    string
	bootstrapped bool
	lastRequest  time.Time
}

func newSession() *Session {
	return &Session{cookies: map[string]string{}}
}

func (s *Session) snapshot() (cookies []*http.Cookie, csrf string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, value := range s.cookies {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return cookies, s.csrfToken
}

func (s *Session) mergeCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		s.cookies[c.Name] = c.Value
	}
}

func (s *Session) setCSRF(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != "" {
		s.csrfToken = token
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = map[string]string{}
	s.csrfToken = ""
	s.bootstrapped = false
}
