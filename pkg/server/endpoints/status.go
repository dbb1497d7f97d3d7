package endpoints

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/admin-in-go/pkg/logging"
	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

//go:embed templates/index.html templates/help.md
var templateFiles embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFiles, "templates/index.html"))

// IndexResponse is the JSON form of the landing page.
type IndexResponse struct {
	Tables    []string `json:"tables"`
	UserTable string   `json:"user_table"`
}

// StatusResponse is returned by GET /status
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type indexPage struct {
	BasePath   string
	Tables     []string
	UserTable  string
	LoginField string
	Help       *helpDoc
}

// RegisterStatusEndpoints registers the landing page and the health check.
// Neither requires a token.
func RegisterStatusEndpoints(s *server.Server) {
	source, err := templateFiles.ReadFile("templates/help.md")
	if err != nil {
		panic(err)
	}
	help, err := renderHelp(source)
	if err != nil {
		panic(err)
	}

	// GET / - Landing page
	s.Router.HandleFunc("/", handleIndex(s.Registry, s.BasePath, help)).Methods("GET")

	// GET /status - Database connectivity check
	s.Router.HandleFunc("/status", handleHealth(s.HealthStore)).Methods("GET")
}

func handleIndex(reg *registry.Registry, basePath string, help *helpDoc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userTable := reg.UserModel().Table

		accept := r.Header.Get("Accept")
		if r.URL.Query().Get("format") == "json" || strings.Contains(accept, "application/json") {
			respondWithJSON(w, http.StatusOK, IndexResponse{
				Tables:    reg.Tables(),
				UserTable: userTable,
			})
			return
		}

		page := indexPage{
			BasePath:   basePath,
			Tables:     reg.Tables(),
			UserTable:  userTable,
			LoginField: reg.LoginField(),
			Help:       help,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, page); err != nil {
			logging.FromContext(r.Context()).WithError(err).Error("Failed to render landing page")
		}
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			logging.FromContext(r.Context()).WithError(err).Warn("Database connectivity check failed")
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	}
}
