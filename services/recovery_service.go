package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"github.com/KarimShetewy/Ikhtaberni-Platform/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Identifier kinds accepted by the recovery flow. The caller states the
// kind explicitly; the service never guesses it from the string shape.
const (
	IdentifierPhone = "phone"
	IdentifierEmail = "email"
)

const (
	otpValidity     = 10 * time.Minute
	verifiedFlagTTL = 10 * time.Minute
	minPasswordLen  = 8
)

// OTPSender delivers a recovery code out of band. Best effort: the flow
// never waits on it and never reports its failures to the caller.
type OTPSender interface {
	SendOTP(kind, identifier, code string)
}

// RecoveryService owns the OTP-based password recovery state machine:
// NoCode -> CodeIssued -> Verified -> Consumed. Code issue and expiry live
// on the account row; the short-lived "recovery-verified" claim is held
// here, scoped to the identifier so one account's verification can never
// authorize a reset on another.
type RecoveryService struct {
	db     *gorm.DB
	sender OTPSender

	mu       sync.Mutex
	verified map[string]time.Time
}

func NewRecoveryService(db *gorm.DB, sender OTPSender) *RecoveryService {
	return &RecoveryService{
		db:       db,
		sender:   sender,
		verified: make(map[string]time.Time),
	}
}

func flagKey(kind, identifier string) string {
	return fmt.Sprintf("%s:%s", kind, identifier)
}

func (s *RecoveryService) findActiveAccount(kind, identifier string) (*models.User, error) {
	query := s.db.Where("is_active = ?", true)
	switch kind {
	case IdentifierPhone:
		if !utils.ValidPhoneNumber(identifier) {
			return nil, fmt.Errorf("%w: malformed phone number", ErrInvalidInput)
		}
		query = query.Where("phone_number = ?", identifier)
	case IdentifierEmail:
		if identifier == "" {
			return nil, fmt.Errorf("%w: missing email", ErrInvalidInput)
		}
		query = query.Where("email = ?", identifier)
	default:
		return nil, fmt.Errorf("%w: unknown identifier kind %q", ErrInvalidInput, kind)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrUnavailable
	}
	return &user, nil
}

// RequestCode issues a fresh 8-digit code for the account behind the
// identifier and hands it to the delivery gateway. A missing account is
// indistinguishable from a found one: both return nil, so the endpoint
// never discloses whether an identifier is registered.
func (s *RecoveryService) RequestCode(kind, identifier string) error {
	user, err := s.findActiveAccount(kind, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	code, err := utils.GenerateOTPCode()
	if err != nil {
		return ErrUnavailable
	}
	expiry := time.Now().Add(otpValidity)

	err = s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"otp_code":   code,
		"otp_expiry": expiry,
	}).Error
	if err != nil {
		return ErrUnavailable
	}

	go s.sender.SendOTP(kind, identifier, code)
	return nil
}

// VerifyCode checks the submitted code against the stored one and, on
// success, marks the identifier recovery-verified for a short window. The
// code itself stays on the row until ResetPassword consumes it or it
// expires. Any failure clears a previously granted flag.
func (s *RecoveryService) VerifyCode(kind, identifier, code string) error {
	key := flagKey(kind, identifier)

	if !utils.ValidOTPCode(code) {
		s.clearFlag(key)
		return fmt.Errorf("%w: malformed code", ErrInvalidInput)
	}

	user, err := s.findActiveAccount(kind, identifier)
	if err != nil {
		s.clearFlag(key)
		return err
	}

	now := time.Now()
	if user.OTPCode == nil || user.OTPExpiry == nil ||
		*user.OTPCode != code || !now.Before(*user.OTPExpiry) {
		s.clearFlag(key)
		return fmt.Errorf("%w: wrong or expired code", ErrUnauthorized)
	}

	s.mu.Lock()
	s.verified[key] = now.Add(verifiedFlagTTL)
	s.mu.Unlock()
	return nil
}

// ResetPassword replaces the credential for a recovery-verified identifier
// and retires the code. The flag is consumed before the write, so a second
// concurrent reset for the same identifier cannot ride on it.
func (s *RecoveryService) ResetPassword(kind, identifier, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	key := flagKey(kind, identifier)
	if !s.consumeFlag(key) {
		return fmt.Errorf("%w: recovery code not verified", ErrUnauthorized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrUnavailable
	}

	query := s.db.Model(&models.User{}).Where("is_active = ?", true)
	switch kind {
	case IdentifierPhone:
		query = query.Where("phone_number = ?", identifier)
	case IdentifierEmail:
		query = query.Where("email = ?", identifier)
	default:
		return fmt.Errorf("%w: unknown identifier kind %q", ErrInvalidInput, kind)
	}

	result := query.Updates(map[string]interface{}{
		"password":   string(hashed),
		"otp_code":   nil,
		"otp_expiry": nil,
	})
	if result.Error != nil {
		return ErrUnavailable
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RecoveryService) clearFlag(key string) {
	s.mu.Lock()
	delete(s.verified, key)
	s.mu.Unlock()
}

// consumeFlag atomically takes the verified flag if it exists and has not
// lapsed. The taker is the only caller allowed to proceed with a reset.
func (s *RecoveryService) consumeFlag(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.verified[key]
	delete(s.verified, key)
	return ok && time.Now().Before(deadline)
}
