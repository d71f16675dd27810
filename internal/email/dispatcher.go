package email

import "context"

// Dispatcher is the outbound email collaborator. The OTP manager depends on
// this interface only; production wires the SES implementation. Validate lets
// callers fail fast when the sender identity is missing, before any state is
// written.
type Dispatcher interface {
	Validate() error
	Send(ctx context.Context, to, subject, htmlBody string) error
}
