package utils

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"medassist/models"
)

const (
	SessionCookie = "session_token"
	CSRFCookie    = "csrf_token"
	CSRFField     = "csrf_token"
	CSRFHeader    = "X-CSRF-Token"
)

var (
	ErrUnauthorized = errors.New("unauthorized: missing or unknown session")
	ErrInvalidCSRF  = errors.New("unauthorized: invalid CSRF token")
)

func GenerateToken(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		panic("generate token: " + err.Error())
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// CompareDummyPassword spends the same bcrypt work as a real comparison so
// that an unknown username cannot be told apart by response time.
func CompareDummyPassword(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte(GenerateToken(16)), 10)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// StartSession creates a Redis session for user and sets the session and
// CSRF cookies on w.
func StartSession(ctx context.Context, w http.ResponseWriter, r *http.Request, client *redis.Client, user *models.User, ttl time.Duration, secure bool) (*models.Session, error) {
	sessionToken := GenerateToken(32)
	csrfToken := GenerateToken(32)
	now := time.Now()

	session := models.Session{
		SessionToken: sessionToken,
		UserID:       user.ID.String(),
		Username:     user.Username,
		CreatedAt:    now.Format(time.RFC3339),
		ExpiresAt:    now.Add(ttl).Format(time.RFC3339),
		LastActivity: now.Format(time.RFC3339),
		CSRFToken:    csrfToken,
		UserAgent:    GetUserAgent(r),
		IPAddress:    GetIP(r),
	}
	if err := StoreSession(ctx, client, session, ttl); err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionToken,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookie,
		Value:    csrfToken,
		HttpOnly: false, // read by page scripts for the X-CSRF-Token header
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
	return &session, nil
}

// EndSession deletes the caller's session, if any, and expires both cookies.
func EndSession(ctx context.Context, w http.ResponseWriter, r *http.Request, client *redis.Client) error {
	var err error
	if CookieExists(r, SessionCookie) {
		st, _ := r.Cookie(SessionCookie)
		err = DeleteSession(ctx, client, st.Value)
	}

	for _, name := range []string{SessionCookie, CSRFCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: name == SessionCookie,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
	return err
}

// CurrentSession resolves the session_token cookie to a live session.
func CurrentSession(ctx context.Context, r *http.Request, client *redis.Client) (*models.Session, error) {
	if !CookieExists(r, SessionCookie) {
		return nil, ErrUnauthorized
	}
	st, _ := r.Cookie(SessionCookie)
	session, err := ValidateSession(ctx, client, st.Value)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrUnauthorized
	}
	return session, err
}

// Authorize checks the CSRF token of a state-changing request against the
// session. The token may arrive as a form field or in the X-CSRF-Token header.
func Authorize(r *http.Request, session *models.Session) error {
	if session == nil {
		return ErrUnauthorized
	}
	csrf := r.Header.Get(CSRFHeader)
	if csrf == "" {
		csrf = r.FormValue(CSRFField)
	}
	if csrf == "" || session.CSRFToken == "" ||
		subtle.ConstantTimeCompare([]byte(csrf), []byte(session.CSRFToken)) != 1 {
		return ErrInvalidCSRF
	}
	return nil
}
