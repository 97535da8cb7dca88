package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nando/finper/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrMovementNotFound, http.StatusNotFound},
		{domain.ErrCategoryNotFound, http.StatusNotFound},
		{domain.ErrAccountInUse, http.StatusConflict},
		{domain.ErrCategoryInUse, http.StatusConflict},
		{domain.ErrDuplicateCode, http.StatusConflict},
		{domain.ErrNoAccountSpecified, http.StatusBadRequest},
		{domain.ErrNegativeAmount, http.StatusBadRequest},
		{domain.ErrNoCategory, http.StatusBadRequest},
		{domain.ErrInvalidAccountCode, http.StatusBadRequest},
		{errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Errorf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25&bogus=abc", nil)

	if got := parseIntQuery(req, "limit", 20); got != 25 {
		t.Errorf("limit = %d, want 25", got)
	}
	if got := parseIntQuery(req, "missing", 20); got != 20 {
		t.Errorf("missing = %d, want default 20", got)
	}
	if got := parseIntQuery(req, "bogus", 20); got != 20 {
		t.Errorf("bogus = %d, want default 20", got)
	}
}
