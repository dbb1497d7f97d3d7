package endpoints

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/doodlesbykumbi/admin-in-go/pkg/server"
)

//go:embed static/css static/js
var staticFiles embed.FS

// RegisterStaticFiles registers static file serving for the landing page.
// Static files are embedded in the binary.
func RegisterStaticFiles(srv *server.Server) {
	staticFS, _ := fs.Sub(staticFiles, "static")

	prefix := srv.BasePath + "/static/"
	srv.Router.PathPrefix("/static/").Handler(
		http.StripPrefix(prefix, http.FileServer(http.FS(staticFS))),
	).Methods("GET", "HEAD")

	// Serve favicon.ico (return 404 if not present)
	srv.Router.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}
