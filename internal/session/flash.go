// Package session wraps a gorilla cookie store used for one-shot flash
// messages. Identity does not live here; it rides the signed auth cookie
// handled by the middleware package.
package session

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// FlashCookieName is the cookie carrying queued flash messages. Exported
// so the page cache can recognise requests with pending flashes.
const FlashCookieName = "zoo_flash"

// Flash severities shown by the templates.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
	FlashDanger  = "danger"
)

// Flash is a severity-tagged notice shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Store holds the configured cookie store. Construct one per process with
// NewStore and pass it where flashes are read or written.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore derives separate sign and encrypt keys from the shared secret
// and configures the cookie options.
func NewStore(secret string, secure bool) *Store {
	h := sha256.Sum256([]byte("auth:" + secret))
	e := sha256.Sum256([]byte("enc:" + secret))

	cs := sessions.NewCookieStore(h[:], e[:])
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   10 * 60, // flashes are short-lived by nature
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return &Store{cookies: cs}
}

// Add queues a flash message for the next rendered page.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, level, message string) {
	sess, err := s.cookies.Get(r, FlashCookieName)
	if err != nil {
		// A corrupt cookie yields a fresh session; keep going.
		sess, _ = s.cookies.New(r, FlashCookieName)
	}
	sess.AddFlash(Flash{Level: level, Message: message})
	_ = sess.Save(r, w)
}

// Take returns all queued flashes and clears them. Reading is destructive
// so a message is rendered exactly once.
func (s *Store) Take(w http.ResponseWriter, r *http.Request) []Flash {
	sess, err := s.cookies.Get(r, FlashCookieName)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w) // persists the cleared flash list

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
