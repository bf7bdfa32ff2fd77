package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestRedisErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("wrap: %w", RedisError{Operation: "session_save", Err: base})

	if !errors.Is(err, base) {
		t.Fatal("expected errors.Is to find base error")
	}
	var re RedisError
	if !errors.As(err, &re) || re.Operation != "session_save" {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestLockErrorMessage(t *testing.T) {
	holder := "ask"
	err := LockError{SessionID: "s1", HolderName: &holder}
	want := "failed to acquire lock session=s1 holder=ask"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestIsExpectedUserBehavior(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"malformed", MalformedInputError{Message: "bad"}, true},
		{"wrapped unauthorized", fmt.Errorf("x: %w", UnauthorizedError{}), true},
		{"db", DatabaseError{Operation: "find"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpectedUserBehavior(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
