package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestEnsureLenGrow(t *testing.T) {
	out := EnsureLen([]float32{1}, 3)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	src := []float32{1.5, -2, 0.25}
	wide := ToFloat64(nil, src)
	if len(wide) != 3 || wide[0] != 1.5 || wide[1] != -2 || wide[2] != 0.25 {
		t.Fatalf("ToFloat64 = %v", wide)
	}

	back := make([]float32, len(wide))
	FromFloat64(back, wide)
	for i := range src {
		if back[i] != src[i] {
			t.Fatalf("back[%d] = %v, want %v", i, back[i], src[i])
		}
	}
}
