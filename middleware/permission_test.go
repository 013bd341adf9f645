package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{"ADMIN", "donations:list_all", true},
		{"ADMIN", "donations:update_status", true},
		{"SYNC", "donations:update_status", true},
		{"SYNC", "donations:list_all", false},
		{"guest", "donations:list_all", false},
		{"", "donations:list_all", false},
		{"ADMIN", "donations:delete", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission),
			"role %q permission %q", tt.role, tt.permission)
	}
}
