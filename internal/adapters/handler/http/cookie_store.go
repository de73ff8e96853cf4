package http

import (
	"context"
	"net/http"
	"time"
)

const anonymousCookieMaxAge = 365 * 24 * time.Hour

// cookieStore keeps values in long lived browser cookies. Values set are
// visible to the current request at once but reach the browser only when
// the store is committed.
type cookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	domain  string
	secure  bool
	pending []*http.Cookie
}

func newCookieStore(w http.ResponseWriter, r *http.Request, domain string, secure bool) *cookieStore {
	return &cookieStore{w: w, r: r, domain: domain, secure: secure}
}

func (s *cookieStore) Get(_ context.Context, key string) (string, bool, error) {
	cookie, err := s.r.Cookie(key)
	if err != nil {
		return "", false, nil
	}
	return cookie.Value, cookie.Value != "", nil
}

func (s *cookieStore) Set(_ context.Context, key, value string) error {
	s.pending = append(s.pending, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		Domain:   s.domain,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(anonymousCookieMaxAge.Seconds()),
	})
	s.r.AddCookie(&http.Cookie{Name: key, Value: value})
	return nil
}

// commit sends the values set so far to the browser. It must run before
// the response body is written.
func (s *cookieStore) commit() {
	for _, c := range s.pending {
		http.SetCookie(s.w, c)
	}
	s.pending = nil
}
