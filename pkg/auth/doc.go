// Package auth hashes passwords and issues the admin's bearer tokens.
//
// Passwords are stored as bcrypt digests at a fixed cost. Tokens are HS256
// JWTs signed with the configured secret and carrying the subject id, an
// expiry and a superuser flag. Tokens are stateless; there is no revocation.
//
// Verification failures are reported as adminerr kinds so callers can tell
// them apart:
//
//   - KindTokenExpired: the exp claim is in the past
//   - KindTokenInvalid: malformed, wrong signature, wrong algorithm
//   - KindForbidden: valid token whose superuser flag is false
package auth
