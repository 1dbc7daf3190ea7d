package session

import (
	"testing"
	"time"
)

func TestVerify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ch := &Challenge{
		Username: "younghee",
		Email:    "younghee@example.com",
		Code:     "482913",
		Expires:  now.Add(5 * time.Minute),
	}

	tests := []struct {
		name     string
		ch       *Challenge
		identity string
		code     string
		at       time.Time
		want     error
	}{
		{"match by email", ch, "younghee@example.com", "482913", now, nil},
		{"match by username", ch, "younghee", "482913", now, nil},
		{"match at expiry boundary", ch, "younghee@example.com", "482913", ch.Expires, nil},
		{"no challenge", nil, "younghee@example.com", "482913", now, ErrNoChallenge},
		{"expired wins over correct code", ch, "younghee@example.com", "482913", ch.Expires.Add(time.Millisecond), ErrExpired},
		{"wrong code", ch, "younghee@example.com", "000000", now, ErrMismatch},
		{"wrong identity", ch, "someone-else", "482913", now, ErrMismatch},
		{"empty identity", ch, "", "482913", now, ErrMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Verify(tc.ch, tc.identity, tc.code, tc.at); got != tc.want {
				t.Fatalf("Verify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMismatchLeavesChallengeUsable(t *testing.T) {
	now := time.Now()
	ch := &Challenge{Email: "a@b.com", Code: "111111", Expires: now.Add(time.Minute)}

	if err := Verify(ch, "a@b.com", "999999", now); err != ErrMismatch {
		t.Fatalf("first attempt: got %v, want ErrMismatch", err)
	}
	if err := Verify(ch, "a@b.com", "111111", now); err != nil {
		t.Fatalf("retry after mismatch: got %v, want success", err)
	}
}
