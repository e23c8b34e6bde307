//nolint:testpackage // using package name 'pool' to access unexported fields for testing
package pool

import (
	"testing"
)

type scratch struct {
	values []string
	used   bool
}

func TestPool_GetPut(t *testing.T) {
	created := 0
	p := New(func() *scratch {
		created++
		return &scratch{}
	})

	obj := p.Get()
	if obj == nil {
		t.Fatal("Expected object from pool")
	}
	if created != 1 {
		t.Errorf("Expected factory to run once, ran %d times", created)
	}
	p.Put(obj)
	p.Put(nil)
}

func TestPool_Reset(t *testing.T) {
	p := NewWithReset(
		func() *scratch { return &scratch{} },
		func(s *scratch) {
			s.values = s.values[:0]
			s.used = false
		},
	)

	obj := p.Get()
	obj.values = append(obj.values, "a", "b")
	obj.used = true
	p.Put(obj)

	// sync.Pool may drop the object; whichever we get must be reset.
	again := p.Get()
	if len(again.values) != 0 || again.used {
		t.Errorf("Expected reset object, got %+v", again)
	}
}

func TestBuffers(t *testing.T) {
	b := GetBuffer()
	if len(*b) != 0 {
		t.Fatalf("Expected empty pattern buffer, got len %d", len(*b))
	}
	*b = append(*b, "AAOA"...)
	PutBuffer(b)

	b2 := GetBuffer()
	if len(*b2) != 0 {
		t.Errorf("Expected reset pattern buffer, got %q", *b2)
	}
	PutBuffer(b2)
}

func TestStringsCleared(t *testing.T) {
	s := GetStrings()
	*s = append(*s, "--keep", "value")
	full := (*s)[:cap(*s)]
	PutStrings(s)

	if full[0] != "" || full[1] != "" {
		t.Errorf("Expected cleared backing array, got %q", full[:2])
	}
}

func TestOversizedNotRetained(t *testing.T) {
	big := make([]int, 0, maxRetained+1)
	PutInts(&big) // must not panic and must not be pooled
	got := GetInts()
	if cap(*got) > maxRetained {
		t.Errorf("Expected oversized slice to be dropped, got cap %d", cap(*got))
	}
	PutInts(got)
}
