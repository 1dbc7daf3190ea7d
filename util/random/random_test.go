package random

import "testing"

func TestCode(t *testing.T) {
	for _, n := range []int{1, 6, 10} {
		code := Code(n)
		if len(code) != n {
			t.Fatalf("Code(%d) returned %q, want length %d", n, code, n)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("Code(%d) returned %q, want digits only", n, code)
			}
		}
	}
}

func TestNum(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := Num(10); got < 0 || got > 9 {
			t.Fatalf("Num(10) = %d, want 0..9", got)
		}
	}
	if got := Num(1); got != 0 {
		t.Fatalf("Num(1) = %d, want 0", got)
	}
}

func TestSeq(t *testing.T) {
	seq := Seq(32)
	if len(seq) != 32 {
		t.Fatalf("Seq(32) returned %q, want length 32", seq)
	}
	for _, r := range seq {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			t.Fatalf("Seq(32) returned %q with unexpected rune %q", seq, r)
		}
	}
}
