package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPIssueAndVerify(t *testing.T) {
	svc := NewOTPService(5 * time.Minute)
	defer svc.Close()

	code, err := svc.Issue("asha@example.com")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)

	require.NoError(t, svc.Verify("asha@example.com", code))
}

func TestOTPIsSingleUse(t *testing.T) {
	svc := NewOTPService(5 * time.Minute)
	defer svc.Close()

	code, err := svc.Issue("asha@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Verify("asha@example.com", code))
	assert.ErrorIs(t, svc.Verify("asha@example.com", code), ErrInvalidOTP)
}

func TestOTPWrongCodeOrEmail(t *testing.T) {
	svc := NewOTPService(5 * time.Minute)
	defer svc.Close()

	code, err := svc.Issue("asha@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify("asha@example.com", "000000"), ErrInvalidOTP)
	assert.ErrorIs(t, svc.Verify("other@example.com", code), ErrInvalidOTP)

	// The failed attempts must not consume the real code.
	require.NoError(t, svc.Verify("asha@example.com", code))
}

func TestOTPReissueReplacesEarlierCode(t *testing.T) {
	svc := NewOTPService(5 * time.Minute)
	defer svc.Close()

	first, err := svc.Issue("asha@example.com")
	require.NoError(t, err)
	second, err := svc.Issue("asha@example.com")
	require.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, svc.Verify("asha@example.com", first), ErrInvalidOTP)
	}
	require.NoError(t, svc.Verify("asha@example.com", second))
}

func TestOTPExpires(t *testing.T) {
	svc := NewOTPService(10 * time.Millisecond)
	defer svc.Close()

	code, err := svc.Issue("asha@example.com")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	assert.ErrorIs(t, svc.Verify("asha@example.com", code), ErrOTPExpired)
}
