package common

import (
	"errors"
	"testing"
)

func TestCombine(t *testing.T) {
	if err := Combine(nil, nil); err != nil {
		t.Fatalf("Combine(nil, nil) = %v, want nil", err)
	}

	err := Combine(errors.New("one"), nil, errors.New("two"))
	if err == nil || err.Error() != "one, two" {
		t.Fatalf("Combine() = %v, want \"one, two\"", err)
	}
}

// A panic escaping Recover would fail this test by crashing it.
func TestRecoverStopsPanic(t *testing.T) {
	func() {
		defer Recover("")
		panic("boom")
	}()
}
