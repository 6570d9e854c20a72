package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetwise/sheetwise/pkg/response"
	"github.com/sheetwise/sheetwise/pkg/validator"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Body {
	t.Helper()
	var body response.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	response.JSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"hello":"world"}}`, rec.Body.String())
}

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("http errors keep their status and key", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.Error(rec, response.ErrForbidden)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "forbidden", body.Error.Code)
	})

	t.Run("validation errors become 422 with a details map", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.Error(rec, validator.Apply(
			validator.RequiredString("input", ""),
		))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "validation_error", body.Error.Code)
		assert.Contains(t, body.Error.Details, "input")
	})

	t.Run("unknown errors never leak their message", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.Error(rec, errors.New("upstream said: secret key sk_live_123 invalid"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "internal_error", body.Error.Code)
		assert.NotContains(t, rec.Body.String(), "sk_live_123")
	})

	t.Run("custom errors carry their message", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		response.Error(rec, response.NewHTTPError(http.StatusForbidden,
			"trial_exhausted", "Free trial exhausted."))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "trial_exhausted", body.Error.Code)
		assert.Equal(t, "Free trial exhausted.", body.Error.Message)
	})
}
