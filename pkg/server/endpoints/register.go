package endpoints

import (
	"github.com/doodlesbykumbi/admin-in-go/pkg/server"
)

// RegisterAll registers all admin endpoints on the server.
//
// gorilla mux matches routes in registration order, so the fixed paths and
// the user routes go in before the generic /{table}/ routes.
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterLoginEndpoint(srv)
	RegisterStaticFiles(srv)
	RegisterUsersEndpoints(srv)
	RegisterRecordsEndpoints(srv)
}
