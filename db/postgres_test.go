package db

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestPoolSize(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset uses default", "", defaultMaxConns},
		{"explicit value", "50", 50},
		{"garbage uses default", "banana", defaultMaxConns},
		{"zero uses default", "0", defaultMaxConns},
		{"negative uses default", "-5", defaultMaxConns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_MAX_CONNS", tt.value)
			assert.Equal(t, tt.want, poolSize())
		})
	}
}
