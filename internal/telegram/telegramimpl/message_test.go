package telegramimpl

import (
	"errors"
	"testing"
)

func TestIsGoneError(t *testing.T) {
	tests := []struct {
		msg  string
		gone bool
	}{
		{"Bad Request: chat not found", true},
		{"Forbidden: bot was kicked from the supergroup chat", true},
		{"Forbidden: bot is not a member of the channel chat", true},
		{"Bad Request: message thread not found", true},
		{"Too Many Requests: retry after 5", false},
		{"Bad Gateway", false},
	}

	for _, tt := range tests {
		if got := isGoneError(errors.New(tt.msg)); got != tt.gone {
			t.Errorf("isGoneError(%q) = %v, want %v", tt.msg, got, tt.gone)
		}
	}
}
