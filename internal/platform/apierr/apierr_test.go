package apierr

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
)

func TestFromMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("note %q: %w", "x", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{apperrors.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{fmt.Errorf("wrap: %w", apperrors.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("gateway: %w", apperrors.ErrUpstream), http.StatusBadGateway, "upstream_error"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
		{New(http.StatusTeapot, "teapot", nil), http.StatusTeapot, "teapot"},
	}
	for _, tc := range cases {
		got := From(tc.err)
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("From(%v) = %d/%s want %d/%s", tc.err, got.Status, got.Code, tc.status, tc.code)
		}
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}
