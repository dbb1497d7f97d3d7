package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
	"github.com/doodlesbykumbi/admin-in-go/pkg/logging"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError writes the error envelope for err with the status of its kind.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := adminerr.Body(err)

	rlog := logging.FromContext(r.Context()).WithField("code", body.Error.Code)
	if status >= http.StatusInternalServerError {
		rlog.WithError(err).Errorf("%s %s failed", r.Method, r.URL.Path)
	} else {
		rlog.Debugf("%s %s rejected: %v", r.Method, r.URL.Path, err)
	}

	respondWithJSON(w, status, body)
}

// pathVar returns the decoded value of a route variable. The router keeps
// paths encoded so ids may contain escaped slashes.
func pathVar(r *http.Request, name string) string {
	raw := mux.Vars(r)[name]
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// decodeObject reads the request body, which must be a single JSON object.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, adminerr.New(adminerr.KindInvalidPayload, "request body exceeds %d bytes", maxBodyBytes)
		}
		return nil, adminerr.Wrap(adminerr.KindInvalidPayload, err, "failed to read request body")
	}

	// Numbers stay json.Number so integer columns are not rounded through float64.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, adminerr.Wrap(adminerr.KindInvalidPayload, err, "request body is not valid JSON")
	}
	if dec.More() {
		return nil, adminerr.New(adminerr.KindInvalidPayload, "request body must hold a single JSON value")
	}

	fields, ok := payload.(map[string]any)
	if !ok {
		return nil, adminerr.New(adminerr.KindInvalidPayload, "request body must be a JSON object")
	}
	return fields, nil
}
