package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/accounts", "/api/v1/accounts"},
		{"/api/v1/accounts/", "/api/v1/accounts/"},
		{"/api/v1/accounts/01ABC", "/api/v1/accounts/:id"},
		{"/api/v1/accounts/01ABC/balance", "/api/v1/accounts/:id/balance"},
		{"/api/v1/accounts/01ABC/balance/correct", "/api/v1/accounts/:id/balance/correct"},
		{"/api/v1/movements/01XYZ", "/api/v1/movements/:id"},
		{"/api/v1/categories/01CAT", "/api/v1/categories/:id"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
