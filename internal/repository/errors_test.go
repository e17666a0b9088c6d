package repository

import (
	"errors"
	"testing"
)

func TestIsDeadlock(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadlock", errors.New("Error 1213 (40001): Deadlock found when trying to get lock; try restarting transaction"), true},
		{"duplicate key", errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.email'"), false},
		{"plain", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isDeadlock(tc.err); got != tc.want {
				t.Fatalf("isDeadlock(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
