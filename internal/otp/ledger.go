// Package otp holds the in-memory ledger of outstanding password-recovery
// passcodes. Challenges are keyed by account email, live for a fixed TTL,
// and are consumed on successful reset. Expired entries are evicted both
// on read and by a periodic sweep.
package otp

import (
	"crypto/rand"
	"fmt"
	"hash/fnv"
	"math/big"
	"sync"
	"time"

	"github.com/homestock/auth-api/internal/models"
)

// CodeDigits is the fixed length of generated passcodes.
const CodeDigits = 6

// shardCount trades map contention for memory; must be a power of two.
const shardCount = 16

// Challenge is one outstanding recovery passcode.
type Challenge struct {
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Verified  bool
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*Challenge
}

// Ledger is a sharded in-memory challenge store. All operations on a given
// email are serialized by its shard lock; operations on different shards
// proceed independently.
type Ledger struct {
	ttl    time.Duration
	now    func() time.Time
	shards [shardCount]*shard
}

// NewLedger creates a ledger whose challenges expire ttl after issue.
func NewLedger(ttl time.Duration) *Ledger {
	l := &Ledger{ttl: ttl, now: time.Now}
	for i := range l.shards {
		l.shards[i] = &shard{entries: make(map[string]*Challenge)}
	}
	return l
}

// SetClock overrides the time source. Test hook.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

func (l *Ledger) shardFor(email string) *shard {
	h := fnv.New32a()
	h.Write([]byte(email))
	return l.shards[h.Sum32()&(shardCount-1)]
}

// GenerateCode returns a fresh fixed-length numeric passcode drawn from
// crypto/rand.
func GenerateCode() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(CodeDigits), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate passcode: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeDigits, n), nil
}

// Issue records a fresh challenge for the email, overwriting any prior
// challenge whether or not it was verified. The recovery clock restarts.
func (l *Ledger) Issue(email string) (*Challenge, error) {
	code, err := GenerateCode()
	if err != nil {
		return nil, err
	}

	now := l.now()
	ch := &Challenge{
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(l.ttl),
	}

	s := l.shardFor(email)
	s.mu.Lock()
	s.entries[email] = ch
	s.mu.Unlock()

	return ch, nil
}

// Verify checks the presented code against the outstanding challenge.
// A missing challenge or mismatched code yields ErrInvalidOTP; an expired
// challenge is evicted and yields ErrOTPExpired. On success the challenge
// is marked verified in place.
func (l *Ledger) Verify(email, code string) error {
	s := l.shardFor(email)
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.entries[email]
	if !ok || ch.Code != code {
		return models.ErrInvalidOTP
	}

	if l.now().After(ch.ExpiresAt) {
		delete(s.entries, email)
		return models.ErrOTPExpired
	}

	ch.Verified = true
	return nil
}

// RequireVerified gates password reset: the email must hold an unexpired,
// verified challenge. Expired entries are evicted on the way.
func (l *Ledger) RequireVerified(email string) error {
	s := l.shardFor(email)
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.entries[email]
	if !ok {
		return models.ErrOTPNotVerified
	}

	if l.now().After(ch.ExpiresAt) {
		delete(s.entries, email)
		return models.ErrOTPNotVerified
	}

	if !ch.Verified {
		return models.ErrOTPNotVerified
	}
	return nil
}

// Consume deletes the challenge after a successful reset. Single use.
func (l *Ledger) Consume(email string) {
	s := l.shardFor(email)
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
}

// Get returns a copy of the outstanding challenge, if any. Test hook.
func (l *Ledger) Get(email string) (Challenge, bool) {
	s := l.shardFor(email)
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.entries[email]
	if !ok {
		return Challenge{}, false
	}
	return *ch, true
}

// SweepExpired evicts every expired challenge and reports how many were
// removed. Run periodically from a background task.
func (l *Ledger) SweepExpired() int {
	now := l.now()
	removed := 0

	for _, s := range l.shards {
		s.mu.Lock()
		for email, ch := range s.entries {
			if now.After(ch.ExpiresAt) {
				delete(s.entries, email)
				removed++
			}
		}
		s.mu.Unlock()
	}

	return removed
}

// Len reports the number of outstanding challenges, expired or not.
func (l *Ledger) Len() int {
	total := 0
	for _, s := range l.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}
