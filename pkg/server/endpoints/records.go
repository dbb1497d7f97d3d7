package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/admin-in-go/pkg/logging"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

// RegisterRecordsEndpoints registers the generic CRUD routes. They must be
// registered after every fixed path so "/users/" and "/static/" win.
func RegisterRecordsEndpoints(s *server.Server) {
	recordsStore := s.RecordsStore

	recordsRouter := s.Router.NewRoute().Subrouter()
	recordsRouter.Use(s.JWTMiddleware.Middleware)

	// GET /{table}/ - List records
	recordsRouter.HandleFunc("/{table}/", handleListRecords(recordsStore)).Methods("GET")

	// POST /{table}/ - Create a record
	recordsRouter.HandleFunc("/{table}/", handleCreateRecord(recordsStore)).Methods("POST")

	// GET /{table}/{id} - Fetch a record
	recordsRouter.HandleFunc("/{table}/{id}", handleGetRecord(recordsStore)).Methods("GET")

	// PUT /{table}/{id} - Update a record
	recordsRouter.HandleFunc("/{table}/{id}", handleUpdateRecord(recordsStore)).Methods("PUT")

	// DELETE /{table}/{id} - Delete a record
	recordsRouter.HandleFunc("/{table}/{id}", handleDeleteRecord(recordsStore)).Methods("DELETE")
}

func handleListRecords(recordsStore store.RecordsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := recordsStore.List(r.Context(), pathVar(r, "table"))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, records)
	}
}

func handleGetRecord(recordsStore store.RecordsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := recordsStore.Get(r.Context(), pathVar(r, "table"), pathVar(r, "id"))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, record)
	}
}

func handleCreateRecord(recordsStore store.RecordsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := pathVar(r, "table")

		fields, err := decodeObject(w, r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		record, err := recordsStore.Create(r.Context(), table, fields)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).WithField("table", table).Info("Record created")
		respondWithJSON(w, http.StatusCreated, record)
	}
}

func handleUpdateRecord(recordsStore store.RecordsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := pathVar(r, "table")
		id := pathVar(r, "id")

		fields, err := decodeObject(w, r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		record, err := recordsStore.Update(r.Context(), table, id, fields)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).WithField("table", table).WithField("id", id).Info("Record updated")
		respondWithJSON(w, http.StatusOK, record)
	}
}

func handleDeleteRecord(recordsStore store.RecordsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := pathVar(r, "table")
		id := pathVar(r, "id")

		result, err := recordsStore.Delete(r.Context(), table, id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).WithField("table", table).WithField("id", id).Info("Record deleted")
		respondWithJSON(w, http.StatusOK, result)
	}
}
