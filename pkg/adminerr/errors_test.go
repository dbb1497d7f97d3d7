package adminerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected int
	}{
		{KindInternal, http.StatusInternalServerError},
		{KindModelNotFound, http.StatusNotFound},
		{KindNotFound, http.StatusNotFound},
		{KindInvalidPayload, http.StatusBadRequest},
		{KindUnknownField, http.StatusBadRequest},
		{KindInvalidID, http.StatusBadRequest},
		{KindTokenInvalid, http.StatusUnauthorized},
		{KindTokenExpired, StatusAuthenticationTimeout},
		{KindForbidden, http.StatusForbidden},
		{KindInvalidCredentials, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.HTTPStatus())
		})
	}
}

func TestTokenFailuresHaveDistinctStatuses(t *testing.T) {
	statuses := map[int]Kind{}
	for _, k := range []Kind{KindTokenInvalid, KindTokenExpired, KindForbidden} {
		_, dup := statuses[k.HTTPStatus()]
		assert.False(t, dup, "status for %s already used", k)
		statuses[k.HTTPStatus()] = k
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "model_not_found", KindModelNotFound.String())
	assert.Equal(t, "token_expired", KindTokenExpired.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())

	k, err := KindString("invalid_id")
	require.NoError(t, err)
	assert.Equal(t, KindInvalidID, k)

	_, err = KindString("nope")
	assert.Error(t, err)
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(KindForbidden)
	require.NoError(t, err)
	assert.Equal(t, `"forbidden"`, string(data))

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"not_found"`), &k))
	assert.Equal(t, KindNotFound, k)
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("orders", "7"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrModelNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `model "orders" not found`, ModelNotFound("orders").Error())
	assert.Equal(t, `record 7 not found in table "orders"`, NotFound("orders", "7").Error())
	assert.Equal(t, `unknown field "colour" for table "orders"`, UnknownField("orders", "colour").Error())
	assert.Equal(t, "custom: boom", Wrap(KindInternal, errors.New("boom"), "custom").Error())
}

func TestKindOfForeignError(t *testing.T) {
	err := errors.New("connection reset")
	assert.Equal(t, KindInternal, KindOf(err))

	wrapped := As(err)
	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.ErrorIs(t, wrapped, err)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(KindInternal, nil, "ignored"))
}

func TestBody(t *testing.T) {
	status, body := Body(NotFound("orders", "7"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, `record 7 not found in table "orders"`, body.Error.Message)

	status, body = Body(errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", body.Error.Code)
	assert.Equal(t, "internal error", body.Error.Message)

	data, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"code":"internal","message":"internal error"}}`, string(data))
}
