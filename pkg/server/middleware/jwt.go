package middleware

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
	"github.com/doodlesbykumbi/admin-in-go/pkg/auth"
	"github.com/doodlesbykumbi/admin-in-go/pkg/logging"
)

var bearerRegex = regexp.MustCompile(`^(?i:bearer)\s+(\S+)$`)

// JWTAuthenticator is middleware that requires a superuser bearer token
type JWTAuthenticator struct {
	Issuer *auth.Issuer
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(issuer *auth.Issuer) *JWTAuthenticator {
	return &JWTAuthenticator{Issuer: issuer}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", adminerr.New(adminerr.KindTokenInvalid, "authorization missing")
	}

	matches := bearerRegex.FindStringSubmatch(authHeader)
	if len(matches) != 2 {
		return "", adminerr.New(adminerr.KindTokenInvalid, "malformed authorization header")
	}
	return matches[1], nil
}

// Middleware returns an HTTP middleware that validates bearer tokens and
// rejects callers without the superuser flag
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := BearerToken(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		id, err := j.Issuer.AuthenticateSuperuser(token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := auth.WithIdentity(r.Context(), id)
		ctx, _ = logging.ContextWithSubject(ctx, id.SubjectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := adminerr.Body(err)
	logging.FromContext(r.Context()).
		WithField("code", body.Error.Code).
		Debugf("Rejected request to %s: %v", r.URL.Path, err)

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
