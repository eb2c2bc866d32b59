package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"url form untouched", "postgres://u:p@localhost:5432/interim?sslmode=disable", "postgres://u:p@localhost:5432/interim?sslmode=disable"},
		{"quoted url", `"postgres://u:p@localhost/interim"`, "postgres://u:p@localhost/interim"},
		{"kv form gets sslmode", "host=localhost user=u dbname=interim", "host=localhost user=u dbname=interim sslmode=disable"},
		{"kv form spacing collapsed", "host=localhost   user=u  dbname=interim sslmode=require", "host=localhost user=u dbname=interim sslmode=require"},
		{"empty", "", ""},
		{"garbage untouched", "not a dsn", "not a dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDSN(tt.in); got != tt.want {
				t.Errorf("NormalizeDSN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
