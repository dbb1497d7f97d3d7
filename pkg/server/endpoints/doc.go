// Package endpoints implements the admin HTTP routes.
//
// Each Register* function attaches one group of routes to a *server.Server.
// Handlers take the store interfaces they need, decode JSON objects, call
// the store and encode the result, mapping adminerr kinds to status codes
// with a {"error": {"code", "message"}} body.
//
// # Routes
//
//   - GET /, GET /status, POST /login, /static/: public
//   - /users/, /users/{id}: superuser token required
//   - /{table}/, /{table}/{id}: superuser token required
package endpoints
