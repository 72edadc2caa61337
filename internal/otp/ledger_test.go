package otp

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestock/auth-api/internal/models"
)

func TestGenerateCode_FixedLengthNumeric(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeDigits)
		_, err = strconv.Atoi(code)
		assert.NoError(t, err, "code %q should be numeric", code)
	}
}

func TestLedger_IssueAndVerify(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)

	ch, err := ledger.Issue("user@example.com")
	require.NoError(t, err)
	require.Len(t, ch.Code, CodeDigits)

	err = ledger.Verify("user@example.com", ch.Code)
	require.NoError(t, err)

	got, ok := ledger.Get("user@example.com")
	require.True(t, ok)
	assert.True(t, got.Verified)
}

func TestLedger_Verify_WrongCode(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)

	ch, err := ledger.Issue("user@example.com")
	require.NoError(t, err)

	guess := "000000"
	if ch.Code == guess {
		guess = "000001"
	}

	err = ledger.Verify("user@example.com", guess)
	assert.ErrorIs(t, err, models.ErrInvalidOTP)

	got, ok := ledger.Get("user@example.com")
	require.True(t, ok)
	assert.False(t, got.Verified, "wrong code must never mark the challenge verified")
}

func TestLedger_Verify_UnknownEmail(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)

	err := ledger.Verify("nobody@example.com", "123456")
	assert.ErrorIs(t, err, models.ErrInvalidOTP)
}

func TestLedger_ExpiryBoundary(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)
	base := time.Now()
	ledger.SetClock(func() time.Time { return base })

	ch, err := ledger.Issue("user@example.com")
	require.NoError(t, err)

	// Just inside the window
	ledger.SetClock(func() time.Time { return base.Add(4*time.Minute + 59*time.Second) })
	require.NoError(t, ledger.Verify("user@example.com", ch.Code))

	// Reissue, then move past the window
	ch, err = ledger.Issue("user@example.com")
	require.NoError(t, err)

	ledger.SetClock(func() time.Time { return base.Add(4*time.Minute + 59*time.Second).Add(5*time.Minute + time.Second) })
	err = ledger.Verify("user@example.com", ch.Code)
	assert.ErrorIs(t, err, models.ErrOTPExpired)

	_, ok := ledger.Get("user@example.com")
	assert.False(t, ok, "expired challenge should be evicted")
}

func TestLedger_Issue_OverwritesPriorChallenge(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)

	first, err := ledger.Issue("user@example.com")
	require.NoError(t, err)
	require.NoError(t, ledger.Verify("user@example.com", first.Code))

	second, err := ledger.Issue("user@example.com")
	require.NoError(t, err)

	got, ok := ledger.Get("user@example.com")
	require.True(t, ok)
	assert.Equal(t, second.Code, got.Code)
	assert.False(t, got.Verified, "reissue must reset verification")

	if first.Code != second.Code {
		err = ledger.Verify("user@example.com", first.Code)
		assert.ErrorIs(t, err, models.ErrInvalidOTP)
	}
}

func TestLedger_RequireVerified(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)

	// No challenge at all
	err := ledger.RequireVerified("user@example.com")
	assert.ErrorIs(t, err, models.ErrOTPNotVerified)

	// Outstanding but unverified
	ch, err := ledger.Issue("user@example.com")
	require.NoError(t, err)
	err = ledger.RequireVerified("user@example.com")
	assert.ErrorIs(t, err, models.ErrOTPNotVerified)

	// Verified
	require.NoError(t, ledger.Verify("user@example.com", ch.Code))
	assert.NoError(t, ledger.RequireVerified("user@example.com"))
}

func TestLedger_RequireVerified_ExpiredAfterVerification(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)
	base := time.Now()
	ledger.SetClock(func() time.Time { return base })

	ch, err := ledger.Issue("user@example.com")
	require.NoError(t, err)
	require.NoError(t, ledger.Verify("user@example.com", ch.Code))

	// Verification does not extend the lifetime
	ledger.SetClock(func() time.Time { return base.Add(6 * time.Minute) })

	err = ledger.RequireVerified("user@example.com")
	assert.ErrorIs(t, err, models.ErrOTPNotVerified)

	_, ok := ledger.Get("user@example.com")
	assert.False(t, ok)
}

func TestLedger_Consume_SingleUse(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)

	ch, err := ledger.Issue("user@example.com")
	require.NoError(t, err)
	require.NoError(t, ledger.Verify("user@example.com", ch.Code))
	require.NoError(t, ledger.RequireVerified("user@example.com"))

	ledger.Consume("user@example.com")

	err = ledger.RequireVerified("user@example.com")
	assert.ErrorIs(t, err, models.ErrOTPNotVerified)
	assert.Equal(t, 0, ledger.Len())
}

func TestLedger_SweepExpired(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)
	base := time.Now()
	ledger.SetClock(func() time.Time { return base })

	_, err := ledger.Issue("old1@example.com")
	require.NoError(t, err)
	_, err = ledger.Issue("old2@example.com")
	require.NoError(t, err)

	ledger.SetClock(func() time.Time { return base.Add(4 * time.Minute) })
	_, err = ledger.Issue("fresh@example.com")
	require.NoError(t, err)

	ledger.SetClock(func() time.Time { return base.Add(6 * time.Minute) })

	removed := ledger.SweepExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, ledger.Len())

	_, ok := ledger.Get("fresh@example.com")
	assert.True(t, ok)
}

func TestLedger_ConcurrentAccess(t *testing.T) {
	ledger := NewLedger(5 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			email := "user" + strconv.Itoa(n%8) + "@example.com"
			ch, err := ledger.Issue(email)
			if err != nil {
				t.Error(err)
				return
			}
			_ = ledger.Verify(email, ch.Code)
			_, _ = ledger.Get(email)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, ledger.Len())
}
