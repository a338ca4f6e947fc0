// Package testutil provides testing utilities, including assertion helpers.
package testutil

import (
	"fmt"
	"os"
	"testing"
)

// EqFatal calls t.Fatal if got != want.
func EqFatal[T comparable](t *testing.T, got, want T, msgAndArgs ...any) {
	t.Helper()
	if got != want {
		t.Fatal(append([]any{fmt.Sprintf("got %v, want %v", got, want)}, msgAndArgs...)...)
	}
}

// NoError calls t.Fatal if err is non-nil.
func NoError(t *testing.T, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Fatal(append([]any{err}, msgAndArgs...)...)
	}
}

// SetEnv sets an environment variable for the duration of the test.
// An empty value unsets it.
func SetEnv(t *testing.T, key, value string) {
	t.Helper()

	orig, existed := os.LookupEnv(key)
	t.Cleanup(func() {
		if existed {
			_ = os.Setenv(key, orig)
		} else {
			_ = os.Unsetenv(key)
		}
	})

	var err error
	if value == "" {
		err = os.Unsetenv(key)
	} else {
		err = os.Setenv(key, value)
	}
	if err != nil {
		t.Fatal(err)
	}
}
