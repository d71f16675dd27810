// Package emailkey derives the document-store key for an email address.
package emailkey

import "encoding/base64"

// Encode returns the stable, URL-safe key for email. The key is deterministic
// so repeated calls for the same address hit the same records; the raw email is
// stored alongside, never recovered from the key.
func Encode(email string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(email))
}
