package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledger/internal/cache"
	"ledger/internal/table"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "ledger_session"

// tableState is the per-session handle on one table. *table.Engine[T]
// satisfies it for every row type.
type tableState interface {
	SetFilter(key, value string) error
	ResetFilters()
	RequestSort(key string) error
	SetPage(n int)
	Next()
	Previous()
	SetRowsPerPage(n int) error
	SetPaginationEnabled(enabled bool)
	State() table.State
	Restore(st table.State)
	Render() table.Rendered
}

// Session holds one visitor's tables. Handlers lock mu for the whole
// read-modify-render cycle.
type Session struct {
	ID string

	mu         sync.Mutex
	generation uint64
	tables     map[string]tableState
}

// sync rebuilds the tables when the snapshot generation moved on, carrying
// filter, sort and page state over. Callers hold mu.
func (sess *Session) sync(snap snapshot, build func(snapshot) (map[string]tableState, error)) error {
	if sess.tables != nil && sess.generation == snap.generation {
		return nil
	}
	fresh, err := build(snap)
	if err != nil {
		return err
	}
	for name, t := range fresh {
		if old, ok := sess.tables[name]; ok {
			t.Restore(old.State())
		}
	}
	sess.tables = fresh
	sess.generation = snap.generation
	return nil
}

// sessionStore keeps sessions in a sliding-expiry LRU so idle visitors age
// out and the population stays bounded.
type sessionStore struct {
	sessions *cache.LRUCache[*Session]
	ttl      time.Duration
}

func newSessionStore(maxSessions int, ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: cache.NewSlidingLRUCache[*Session](maxSessions, ttl),
		ttl:      ttl,
	}
}

// get returns the session named by the request cookie, or a new one whose
// cookie is set on w.
func (st *sessionStore) get(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := st.sessions.Get(c.Value); ok {
			return sess
		}
	}

	sess := &Session{ID: newSessionID()}
	st.sessions.Set(sess.ID, sess)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(st.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (st *sessionStore) len() int {
	return st.sessions.Size()
}

func newSessionID() string {
	return uuid.NewString()
}

// logID is the session ID shortened for logs; the full value is a bearer
// credential.
func (sess *Session) logID() string {
	if len(sess.ID) > 8 {
		return sess.ID[:8]
	}
	return sess.ID
}
