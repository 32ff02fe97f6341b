package redis

import "testing"

func TestIdleKeyGameID(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{idleKey("abc-123"), "abc-123", true},
		{sessionKey("abc-123"), "", false},
		{"game:abc:timer", "", false},
		{"session:abc:idle", "", false},
		{"sengoku::idle", "", false},
		{"sengoku:a:b:idle", "", false},
		{"idle", "", false},
	}
	for _, tt := range tests {
		got, ok := IdleKeyGameID(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("IdleKeyGameID(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}
