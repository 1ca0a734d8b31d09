package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesByCodeAndDomain(t *testing.T) {
	wrapped := ErrReviewNotFound.WithError(errors.New("rpc error: code = NotFound"))

	assert.True(t, errors.Is(wrapped, ErrReviewNotFound))
	assert.False(t, errors.Is(wrapped, ErrCommentNotFound))
	assert.Nil(t, ErrReviewNotFound.Err, "WithError не должен менять исходную переменную")
}

func TestAppError_JSONHidesCause(t *testing.T) {
	appErr := ErrDatabase(errors.New("dial tcp 10.0.0.1: connection refused"), DomainMarket)

	raw, err := json.Marshal(appErr)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "connection refused")
	assert.Contains(t, string(raw), `"code":"DATABASE_ERROR"`)
	assert.Contains(t, string(raw), `"domain":"market"`)
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"app error", ErrUserNotFound, http.StatusNotFound, `"code":"USER_NOT_FOUND"`},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, `"code":"INTERNAL_ERROR"`},
		{"validation", ValidationError(map[string]string{"userId": "This field is required"}), http.StatusBadRequest, `"userId"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tc.err)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}
