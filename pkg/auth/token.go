package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
)

// Claims is the payload of an admin bearer token.
type Claims struct {
	Superuser bool `json:"superuser"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	SubjectID string
	Superuser bool
	ExpiresAt time.Time
}

// Issuer signs and verifies HS256 bearer tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer whose tokens live for ttl.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	c := *i
	c.now = now
	return &c
}

// TTL returns the token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for subjectID that expires after the issuer's TTL.
func (i *Issuer) Issue(subjectID string, superuser bool) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)

	claims := Claims{
		Superuser: superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	// The exp claim has second precision.
	return signed, claims.ExpiresAt.Time, nil
}

// Authenticate verifies the signature, algorithm and expiry of token.
func (i *Issuer) Authenticate(token string) (*Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, adminerr.Wrap(adminerr.KindTokenExpired, err, "token expired")
		}
		return nil, adminerr.Wrap(adminerr.KindTokenInvalid, err, "invalid token")
	}
	if claims.Subject == "" {
		return nil, adminerr.New(adminerr.KindTokenInvalid, "invalid token: missing subject")
	}

	return &Identity{
		SubjectID: claims.Subject,
		Superuser: claims.Superuser,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// AuthenticateSuperuser is Authenticate plus a superuser requirement.
func (i *Issuer) AuthenticateSuperuser(token string) (*Identity, error) {
	id, err := i.Authenticate(token)
	if err != nil {
		return nil, err
	}
	if !id.Superuser {
		return nil, &adminerr.Error{Kind: adminerr.KindForbidden, ID: id.SubjectID}
	}
	return id, nil
}
