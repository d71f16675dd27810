package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/grommetlabs/storefront-api/internal/apperr"
	"github.com/grommetlabs/storefront-api/internal/email"
	"github.com/grommetlabs/storefront-api/internal/emailkey"
	"github.com/grommetlabs/storefront-api/internal/validation"
)

// Manager issues and verifies one-time codes. One logical slot exists per
// email address; issuing again overwrites it, verifying consumes it.
type Manager struct {
	store      *Store
	dispatcher email.Dispatcher
	nowFunc    func() time.Time
}

// NewManager wires a Manager from its collaborators.
func NewManager(store *Store, dispatcher email.Dispatcher) *Manager {
	return &Manager{
		store:      store,
		dispatcher: dispatcher,
		nowFunc:    time.Now,
	}
}

// generateCode draws a uniform 6-digit code from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("draw code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue generates a fresh code for email, stores it and dispatches it by mail.
// The stored record is not rolled back on dispatch failure: a retried Issue
// overwrites the slot, so no stale code survives.
func (m *Manager) Issue(ctx context.Context, address string) (*IssueResult, error) {
	if !validation.ValidEmail(address) {
		return nil, apperr.New(apperr.KindValidation, "Invalid email address")
	}
	if err := m.dispatcher.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindDispatch, "Email service is not configured", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error. Please try again.", err)
	}

	now := m.nowFunc()
	expiresAt := now.Add(CodeTTL)
	rec := CodeRecord{
		EmailKey:   emailkey.Encode(address),
		RecordType: RecordTypeCode,
		Email:      address,
		Code:       code,
		CreatedAt:  now,
		ExpiresAt:  expiresAt.Unix(),
	}
	if err := m.store.PutCode(ctx, rec); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Internal server error. Please try again.", err)
	}

	if err := m.dispatcher.Send(ctx, address, email.OTPSubject, email.OTPBody(code)); err != nil {
		return nil, apperr.Wrap(apperr.KindDispatch, "Failed to send OTP. Please try again later.", err)
	}

	return &IssueResult{ExpiresAt: expiresAt}, nil
}

// Verify checks the supplied code against the pending slot. Success consumes
// the slot and records the verification; expiry detection deletes the slot.
func (m *Manager) Verify(ctx context.Context, address, code string) error {
	if !validation.ValidEmail(address) {
		return apperr.New(apperr.KindValidation, "Invalid email address")
	}
	if !validation.ValidCode(code) {
		return apperr.New(apperr.KindValidation, "OTP must be 6 digits")
	}

	key := emailkey.Encode(address)
	rec, err := m.store.GetCode(ctx, key)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "Internal server error. Please try again.", err)
	}
	if rec == nil {
		return apperr.New(apperr.KindNotFound, "OTP not found. Please request a new OTP.")
	}

	now := m.nowFunc()
	if now.Unix() > rec.ExpiresAt {
		_ = m.store.DeleteCode(ctx, key)
		return apperr.New(apperr.KindExpired, "OTP has expired. Please request a new OTP.")
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return apperr.New(apperr.KindMismatch, "Invalid OTP. Please try again.")
	}

	consumed, err := m.store.ConsumeCode(ctx, key, code)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "Internal server error. Please try again.", err)
	}
	if !consumed {
		// Lost a race with another verify for the same slot.
		return apperr.New(apperr.KindNotFound, "OTP not found. Please request a new OTP.")
	}

	audit := VerifiedRecord{
		EmailKey:   key,
		RecordType: RecordTypeVerified,
		Email:      address,
		Verified:   true,
		VerifiedAt: now,
	}
	if err := m.store.PutVerified(ctx, audit); err != nil {
		return apperr.Wrap(apperr.KindInternal, "Internal server error. Please try again.", err)
	}
	return nil
}
