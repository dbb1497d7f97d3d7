package endpoints

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
	"github.com/doodlesbykumbi/admin-in-go/pkg/auth"
	"github.com/doodlesbykumbi/admin-in-go/pkg/logging"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

// LoginResponse is returned by POST /login
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RegisterLoginEndpoint registers POST /login. The body is either a JSON
// object or an OAuth2 password-grant form with the login and password.
func RegisterLoginEndpoint(s *server.Server) {
	s.Router.HandleFunc("/login", handleLogin(s.UsersStore, s.Issuer, s.Registry.LoginField())).Methods("POST")
}

func handleLogin(usersStore store.UsersStore, issuer *auth.Issuer, loginField string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		login, password, err := readCredentials(w, r, loginField)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		rlog := logging.FromContext(r.Context()).WithField("login", login)

		creds, err := usersStore.Credentials(r.Context(), login)
		if errors.Is(err, adminerr.ErrNotFound) {
			rlog.Info("Login failed: unknown user")
			respondWithError(w, r, adminerr.ErrInvalidCredentials)
			return
		}
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		if !auth.CheckPassword(password, creds.HashedPassword) {
			rlog.Info("Login failed: wrong password")
			respondWithError(w, r, adminerr.ErrInvalidCredentials)
			return
		}

		if !creds.Superuser {
			rlog.Info("Login refused: not a superuser")
			respondWithError(w, r, &adminerr.Error{Kind: adminerr.KindForbidden, ID: creds.ID})
			return
		}

		token, expires, err := issuer.Issue(creds.ID, creds.Superuser)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		rlog.Info("Login succeeded")
		respondWithJSON(w, http.StatusOK, LoginResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   expires.UTC(),
		})
	}
}

func readCredentials(w http.ResponseWriter, r *http.Request, loginField string) (string, string, error) {
	var login, password string

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return "", "", adminerr.Wrap(adminerr.KindInvalidPayload, err, "invalid form body")
		}
		login = r.PostForm.Get("username")
		if login == "" {
			login = r.PostForm.Get(loginField)
		}
		password = r.PostForm.Get("password")
	} else {
		fields, err := decodeObject(w, r)
		if err != nil {
			return "", "", err
		}
		login, _ = fields[loginField].(string)
		password, _ = fields["password"].(string)
	}

	if login == "" || password == "" {
		return "", "", adminerr.New(adminerr.KindInvalidPayload, "%s and password are required", loginField)
	}
	return login, password, nil
}
