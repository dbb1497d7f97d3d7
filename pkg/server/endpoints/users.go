package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/admin-in-go/pkg/logging"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

func RegisterUsersEndpoints(s *server.Server) {
	usersStore := s.UsersStore

	usersRouter := s.Router.PathPrefix("/users").Subrouter()
	usersRouter.Use(s.JWTMiddleware.Middleware)

	usersRouter.HandleFunc("/", handleListUsers(usersStore)).Methods("GET")
	usersRouter.HandleFunc("/", handleCreateUser(usersStore)).Methods("POST")
	usersRouter.HandleFunc("/{id}", handleGetUser(usersStore)).Methods("GET")
	usersRouter.HandleFunc("/{id}", handleUpdateUser(usersStore)).Methods("PUT")
	usersRouter.HandleFunc("/{id}", handleDeleteUser(usersStore)).Methods("DELETE")
}

func handleListUsers(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := usersStore.List(r.Context())
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, users)
	}
}

func handleGetUser(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := usersStore.Get(r.Context(), pathVar(r, "id"))
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleCreateUser(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := decodeObject(w, r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		user, err := usersStore.Create(r.Context(), fields)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).Info("User created")
		respondWithJSON(w, http.StatusCreated, user)
	}
}

func handleUpdateUser(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathVar(r, "id")

		fields, err := decodeObject(w, r)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		user, err := usersStore.Update(r.Context(), id, fields)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).WithField("id", id).Info("User updated")
		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleDeleteUser(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathVar(r, "id")

		result, err := usersStore.Delete(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).WithField("id", id).Info("User deleted")
		respondWithJSON(w, http.StatusOK, result)
	}
}
