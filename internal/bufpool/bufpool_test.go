package bufpool

import "testing"

func TestGetPutRoundTrip(t *testing.T) {
	buf := Get(64)
	if len(buf) != 64 {
		t.Fatalf("expected length 64, got %d", len(buf))
	}
	buf[0] = 0xFF
	Put(buf)

	buf2 := Get(64)
	if len(buf2) != 64 {
		t.Fatalf("expected length 64, got %d", len(buf2))
	}
}

func TestGetOversized(t *testing.T) {
	p := NewPool(&Config{SmallSize: 8, MediumSize: 16})
	buf := p.Get(1024)
	if len(buf) != 1024 {
		t.Fatalf("expected length 1024, got %d", len(buf))
	}
	// Oversized buffers are not pooled; Put must not panic.
	p.Put(buf)
}

func TestPutNilIsNoop(t *testing.T) {
	Put(nil)
}
