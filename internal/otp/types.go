package otp

import "time"

// Record types stored in the verification table. One table, keyed by
// email_key + record_type, holds both the pending code slot and the
// verification audit entry.
const (
	RecordTypeCode     = "otp"
	RecordTypeVerified = "verified"
)

// CodeTTL is how long an issued code stays valid.
const CodeTTL = 5 * time.Minute

// CodeRecord is the pending OTP slot for one email address. A re-issue
// overwrites it; a successful verify or detected expiry deletes it.
type CodeRecord struct {
	EmailKey   string    `dynamodbav:"email_key"`   // PK
	RecordType string    `dynamodbav:"record_type"` // SK, always "otp"
	Email      string    `dynamodbav:"email"`
	Code       string    `dynamodbav:"code"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
	ExpiresAt  int64     `dynamodbav:"expires_at"` // TTL epoch seconds
}

// VerifiedRecord is the audit entry written when a code is consumed.
type VerifiedRecord struct {
	EmailKey   string    `dynamodbav:"email_key"`   // PK
	RecordType string    `dynamodbav:"record_type"` // SK, always "verified"
	Email      string    `dynamodbav:"email"`
	Verified   bool      `dynamodbav:"verified"`
	VerifiedAt time.Time `dynamodbav:"verified_at"`
}

// IssueResult is returned by Manager.Issue.
type IssueResult struct {
	ExpiresAt time.Time
}
