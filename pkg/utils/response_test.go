package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantApp  string
	}{
		{"invalid input", InvalidInput("hole %d", 0), http.StatusBadRequest, ErrCodeValidation},
		{"not found", fmt.Errorf("%w: course x", ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"unavailable", fmt.Errorf("%w: weather", ErrUnavailable), http.StatusServiceUnavailable, ErrCodeUnavailable},
		{"navigation", fmt.Errorf("%w: no screen", ErrNavigationFailed), http.StatusInternalServerError, ErrCodeNavigation},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			SendDomainError(c, "failed", tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantApp, resp.Error.Code)
			assert.Equal(t, "failed", resp.Error.Message)
		})
	}
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("confidence %.1f outside [0,1]", 1.5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "confidence 1.5")
}
