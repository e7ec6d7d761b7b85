// Package auth is the login gate. A successful login sets a durable flag
// that keeps the hub and the games unlocked across restarts.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/store"
)

// KeyAuthenticated is the durable flag key.
const KeyAuthenticated = "isAuthenticated"

// ErrBadCredentials is returned for a wrong username or password. Its text
// is shown on the login screen as is.
var ErrBadCredentials = errors.New("Incorrecto! Intenta de nuevo.")

const opTimeout = 2 * time.Second

// Credentials is the accepted login. Hash, when set, takes precedence
// over the plain password.
type Credentials struct {
	Username string
	Password string
	Hash     string
}

// Gate checks credentials and owns the durable flag.
type Gate struct {
	kv    store.KV
	creds Credentials
	log   *slog.Logger
}

// New creates a Gate over the durable KV.
func New(kv store.KV, creds Credentials, log *slog.Logger) *Gate {
	return &Gate{kv: kv, creds: creds, log: logging.Tagged(log, "auth")}
}

// Check reports whether username and password match without touching the flag.
func (g *Gate) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare(
		[]byte(strings.TrimSpace(username)), []byte(g.creds.Username)) == 1
	var passOK bool
	if g.creds.Hash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(g.creds.Hash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(g.creds.Password)) == 1
	}
	return userOK && passOK
}

// Login checks the credentials and persists the flag. A failed flag write
// still lets the user in for this run.
func (g *Gate) Login(username, password string) error {
	if !g.Check(username, password) {
		g.log.Info("login rejected")
		return ErrBadCredentials
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := g.kv.Set(ctx, KeyAuthenticated, "true"); err != nil {
		g.log.Warn("persist auth flag", "err", err)
	}
	g.log.Info("login accepted")
	return nil
}

// IsAuthenticated reads the durable flag. Any read error counts as signed out.
func (g *Gate) IsAuthenticated() bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	v, err := g.kv.Get(ctx, KeyAuthenticated)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			g.log.Warn("read auth flag", "err", err)
		}
		return false
	}
	return v == "true"
}

// Logout clears the durable flag.
func (g *Gate) Logout() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := g.kv.Delete(ctx, KeyAuthenticated); err != nil {
		return fmt.Errorf("clear auth flag: %w", err)
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for the password_hash setting.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
