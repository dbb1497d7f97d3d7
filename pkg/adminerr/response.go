package adminerr

// Response is the JSON envelope of every error reply.
type Response struct {
	Error ResponseError `json:"error"`
}

// ResponseError carries the stable code and a human-readable message.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Body returns the HTTP status and envelope for err. Internal errors get a
// generic message so storage details are not exposed to clients.
func Body(err error) (int, Response) {
	e := As(err)
	msg := e.Error()
	if e.Kind == KindInternal {
		msg = "internal error"
	}
	return e.Kind.HTTPStatus(), Response{Error: ResponseError{Code: e.Code(), Message: msg}}
}
