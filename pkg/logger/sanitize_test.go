package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizedEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"typical", "user@example.com", "u***@*******.com"},
		{"single char local", "u@example.com", "u@*******.com"},
		{"not an email", "not-an-email", "[invalid-email]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizedEmail(tt.email))
		})
	}
}

func TestSanitizeQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"password param", "password=hunter2", true},
		{"otp param", "otp=123456", true},
		{"email param", "Email=user%40example.com", true},
		{"credential param", "credential=abc", true},
		{"benign params", "limit=10&offset=20", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeQueryString(tt.query))
		})
	}
}
