package transport

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type workerKey struct{}

// WorkerFromContext returns the authenticated worker from context, if present.
func WorkerFromContext(ctx context.Context) (string, bool) {
	worker, ok := ctx.Value(workerKey{}).(string)
	return worker, ok
}

// Authenticator validates workers against the shared password list and
// mints bearer tokens for the session. Tokens live in memory; a restart
// just sends everyone through login again.
type Authenticator struct {
	passwords map[string]string
	admins    map[string]bool

	mu     sync.RWMutex
	tokens map[string]string
}

// NewAuthenticator creates an Authenticator from the configured password
// list and admin allow-list.
func NewAuthenticator(passwords map[string]string, admins []string) *Authenticator {
	adminSet := make(map[string]bool, len(admins))
	for _, a := range admins {
		adminSet[a] = true
	}
	return &Authenticator{
		passwords: passwords,
		admins:    adminSet,
		tokens:    make(map[string]string),
	}
}

// Login validates credentials and returns a fresh bearer token.
func (a *Authenticator) Login(worker, password string) (string, error) {
	expected, ok := a.passwords[worker]
	if !ok || subtle.ConstantTimeCompare([]byte(expected), []byte(password)) != 1 {
		return "", ErrUnauthorized
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	a.mu.Lock()
	a.tokens[token] = worker
	a.mu.Unlock()
	return token, nil
}

// Resolve maps a bearer token back to its worker.
func (a *Authenticator) Resolve(token string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	worker, ok := a.tokens[token]
	return worker, ok
}

// IsAdmin reports whether a worker is on the admin allow-list.
func (a *Authenticator) IsAdmin(worker string) bool {
	return a.admins[worker]
}

// Middleware enforces bearer token authentication and stores the worker
// in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		worker, ok := a.Resolve(token)
		if !ok {
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), workerKey{}, worker)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a handler to allow-listed workers.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		worker, ok := WorkerFromContext(r.Context())
		if !ok || !a.IsAdmin(worker) {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
