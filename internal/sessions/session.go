package sessions

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "admin_session"
	tokenKey    = "token"
)

// Store keeps the admin token in a signed and encrypted cookie, for browsers that
// do not send an Authorization header.
type Store struct {
	cookies *sessions.CookieStore
}

// New derives the cookie keys from secret. maxAge should match the token expiry.
func New(secret string, maxAge time.Duration, secure bool) *Store {
	// one secret, two keys: signing and encryption
	h := sha256.Sum256([]byte("auth:" + secret))
	e := sha256.Sum256([]byte("enc:" + secret))

	cs := sessions.NewCookieStore(h[:], e[:])
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return &Store{cookies: cs}
}

// SetToken stores token in the session cookie.
func (s *Store) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	sess, err := s.cookies.Get(r, sessionName)
	if err != nil && sess == nil {
		return err
	}
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// Token returns the token from the session cookie, if any.
func (s *Store) Token(r *http.Request) (string, bool) {
	sess, err := s.cookies.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	v, ok := sess.Values[tokenKey].(string)
	return v, ok && v != ""
}

// Clear expires the session cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.cookies.Get(r, sessionName)
	if err != nil && sess == nil {
		return err
	}
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
