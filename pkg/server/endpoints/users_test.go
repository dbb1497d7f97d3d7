package endpoints

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/admin-in-go/pkg/adminerr"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
)

func TestUsersEndpoints(t *testing.T) {
	t.Run("users routes win over the generic table routes", func(t *testing.T) {
		ms := newMockTestServer(t, "")
		ms.Users.On("List", mock.Anything).Return([]store.Record{{"id": 1, "username": "root"}}, nil)

		rr := ms.do("GET", "/users/", "", ms.token(t, true))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"id":1,"username":"root"}]`, rr.Body.String())
		ms.Records.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("get user", func(t *testing.T) {
		ms := newMockTestServer(t, "")
		ms.Users.On("Get", mock.Anything, "1").Return(store.Record{"id": 1, "username": "root"}, nil)

		rr := ms.do("GET", "/users/1", "", ms.token(t, true))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("create user passes the plain password to the store", func(t *testing.T) {
		ms := newMockTestServer(t, "")
		fields := map[string]any{"username": "ada", store.PasswordKey: "s3cret"}
		ms.Users.On("Create", mock.Anything, fields).Return(store.Record{"id": 2, "username": "ada"}, nil)

		rr := ms.do("POST", "/users/", `{"username":"ada","password":"s3cret"}`, ms.token(t, true))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":2,"username":"ada"}`, rr.Body.String())
	})

	t.Run("create user with bad password", func(t *testing.T) {
		ms := newMockTestServer(t, "")
		fields := map[string]any{"username": "ada", store.PasswordKey: json.Number("5")}
		ms.Users.On("Create", mock.Anything, fields).
			Return(nil, adminerr.New(adminerr.KindInvalidPayload, "password must be a non-empty string"))

		rr := ms.do("POST", "/users/", `{"username":"ada","password":5}`, ms.token(t, true))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid_payload", decodeError(t, rr.Body.Bytes()).Code)
	})

	t.Run("update user", func(t *testing.T) {
		ms := newMockTestServer(t, "")
		fields := map[string]any{"is_superuser": false}
		ms.Users.On("Update", mock.Anything, "2", fields).Return(store.Record{"id": 2, "is_superuser": false}, nil)

		rr := ms.do("PUT", "/users/2", `{"is_superuser":false}`, ms.token(t, true))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("delete user", func(t *testing.T) {
		ms := newMockTestServer(t, "")
		ms.Users.On("Delete", mock.Anything, "2").Return(&store.DeleteResult{Table: "users", ID: "2"}, nil)

		rr := ms.do("DELETE", "/users/2", "", ms.token(t, true))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("delete missing user", func(t *testing.T) {
		ms := newMockTestServer(t, "")
		ms.Users.On("Delete", mock.Anything, "9").Return(nil, adminerr.NotFound("users", "9"))

		rr := ms.do("DELETE", "/users/9", "", ms.token(t, true))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
