package guard

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goncalo-araujo/babyshower/internal/config"
	"github.com/goncalo-araujo/babyshower/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUnauthorized means the credential was missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited means the day's attempt budget is spent.
	ErrRateLimited = errors.New("rate limited")
)

// Role is a capability a request can hold.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

// Guard classifies requests by shared-secret headers and throttles login
// attempts with a per-identity daily counter kept in the record store.
// The mutex serializes counter updates so concurrent attempts can never
// all read the same stale count (SQLite offers no row-level locking).
type Guard struct {
	db     *gorm.DB
	auth   config.AuthConfig
	limits config.RateLimitConfig
	mu     sync.Mutex

	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

func New(db *gorm.DB, auth config.AuthConfig, limits config.RateLimitConfig) *Guard {
	return &Guard{db: db, auth: auth, limits: limits, Now: time.Now}
}

// matchSecret compares a submitted credential against the configured one.
// Config values starting with "$2" are treated as bcrypt hashes; anything
// else compares in constant time.
func matchSecret(submitted, configured string) bool {
	if configured == "" || submitted == "" {
		return false
	}
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(configured)) == 1
}

// HasRole reports whether a header value grants the role. The value may be
// the raw shared secret or a token previously minted by Authenticate.
func (g *Guard) HasRole(role Role, headerValue string) bool {
	if headerValue == "" {
		return false
	}
	secret := g.auth.GuestPassword
	if role == RoleAdmin {
		secret = g.auth.AdminPassword
	}
	if matchSecret(headerValue, secret) {
		return true
	}
	tokenRole, err := g.VerifyToken(headerValue)
	return err == nil && tokenRole == role
}

// Authenticate verifies a submitted password for the role. Every attempt
// consumes one slot of the identity's daily budget before the password is
// even looked at, so parallel requests cannot outrun the counter. A correct
// password clears the counter and returns a role token.
func (g *Guard) Authenticate(role Role, password, identity string) (string, error) {
	key := fmt.Sprintf("%s:%s", role, identity)
	if err := g.consume(key, g.limits.LoginDailyLimit); err != nil {
		return "", err
	}

	secret := g.auth.GuestPassword
	if role == RoleAdmin {
		secret = g.auth.AdminPassword
	}
	if !matchSecret(password, secret) {
		return "", ErrUnauthorized
	}

	if err := g.reset(key); err != nil {
		return "", err
	}
	return g.mintToken(role)
}

// AllowChat counts a chat message against the identity's daily budget.
// Returns ErrRateLimited once the cap is hit; a no-op when the cap is
// disabled in config.
func (g *Guard) AllowChat(identity string) error {
	if !g.limits.ChatEnabled || g.limits.ChatDailyLimit <= 0 {
		return nil
	}
	return g.consume("chat:"+identity, g.limits.ChatDailyLimit)
}

func (g *Guard) day() string {
	return g.Now().UTC().Format("2006-01-02")
}

// consume takes one slot of the key's daily budget, creating the counter row
// on the first event. Check and increment run under the mutex inside one
// transaction, so two concurrent attempts can never both be admitted on the
// same remaining slot. A limit of zero or less means counted but unlimited.
func (g *Guard) consume(key string, limit int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	day := g.day()
	return g.db.Transaction(func(tx *gorm.DB) error {
		var row models.RateLimit
		err := tx.Where("identity = ? AND day = ?", key, day).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.RateLimit{Identity: key, Day: day, Count: 1}
			return tx.Create(&row).Error
		}
		if err != nil {
			return fmt.Errorf("load rate limit: %w", err)
		}
		if limit > 0 && row.Count >= limit {
			return ErrRateLimited
		}
		return tx.Model(&row).Update("count", row.Count+1).Error
	})
}

func (g *Guard) reset(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.db.Where("identity = ? AND day = ?", key, g.day()).
		Delete(&models.RateLimit{}).Error
}
