// Package adminerr defines the error taxonomy shared by every layer of the
// admin.
//
// Services return *Error values carrying a Kind; the route layer turns the
// kind into a status code with Kind.HTTPStatus and into a stable code string
// with Kind.String. Callers can match on kind with errors.Is:
//
//	rec, err := records.Get(ctx, "orders", "42")
//	if errors.Is(err, adminerr.ErrNotFound) {
//	    // record missing
//	}
//	if errors.Is(err, adminerr.ErrModelNotFound) {
//	    // table not registered
//	}
package adminerr
