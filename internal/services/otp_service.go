package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

var (
	ErrInvalidOTP = errors.New("invalid OTP")
	ErrOTPExpired = errors.New("OTP expired")
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// OTPService issues short-lived one-time passcodes keyed by email. Codes
// are single use: a successful verify consumes the entry. A background
// sweep removes expired entries only and never touches codes still in
// flight.
type OTPService struct {
	mu    sync.Mutex
	codes map[string]otpEntry
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

func NewOTPService(ttl time.Duration) *OTPService {
	s := &OTPService{
		codes: make(map[string]otpEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Issue generates a fresh 6-digit code for the email, replacing any
// earlier unexpired one.
func (s *OTPService) Issue(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = otpEntry{
		code:      code,
		expiresAt: time.Now().Add(s.ttl),
	}
	return code, nil
}

// Verify checks and consumes the code for the email.
func (s *OTPService) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.codes[email]
	if !exists || entry.code != code {
		return ErrInvalidOTP
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.codes, email)
		return ErrOTPExpired
	}
	delete(s.codes, email)
	return nil
}

func (s *OTPService) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for email, entry := range s.codes {
				if now.After(entry.expiresAt) {
					delete(s.codes, email)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Close stops the background sweep.
func (s *OTPService) Close() {
	s.once.Do(func() { close(s.stop) })
}
