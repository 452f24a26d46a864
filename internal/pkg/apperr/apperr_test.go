package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndStatus(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: refused")

	tests := []struct {
		name       string
		err        error
		wantKind   string
		wantStatus int
	}{
		{"nil", nil, "", http.StatusOK},
		{"validation", Validation("Invalid email format"), KindValidation, http.StatusBadRequest},
		{"configuration", Configuration("Payment system configuration error"), KindConfiguration, http.StatusInternalServerError},
		{"provider", Provider("Payment verification failed", cause), KindProvider, http.StatusBadRequest},
		{"wrapped provider", fmt.Errorf("verify: %w", Provider("declined", nil)), KindProvider, http.StatusBadRequest},
		{"notification", Notification("send failed", cause), KindNotification, http.StatusInternalServerError},
		{"not found", NotFound("Order not found", nil), KindNotFound, http.StatusNotFound},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout, http.StatusGatewayTimeout},
		{"canceled", context.Canceled, KindCanceled, http.StatusRequestTimeout},
		{"plain", cause, KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantKind, Kind(tt.err))
			assert.Equal(t, tt.wantStatus, HTTPStatus(tt.err))
		})
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("timeout talking to provider")
	err := Provider("Payment initialization failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Payment initialization failed: timeout talking to provider", err.Error())
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Invalid email format", PublicMessage(Validation("Invalid email format"), "fallback"))
	assert.Equal(t, "fallback", PublicMessage(errors.New("secret stack detail"), "fallback"))
	assert.Equal(t, "declined", PublicMessage(fmt.Errorf("wrap: %w", Provider("declined", nil)), "fallback"))
}
