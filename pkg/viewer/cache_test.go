package viewer

import (
	"testing"

	"github.com/philipparndt/roomsnap/pkg/document"
	"github.com/philipparndt/roomsnap/pkg/geometry"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache[int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get failed: expected a to be cached")
	}
	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("Put failed: expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get failed: expected 1, got %v (%v)", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get failed: expected 3, got %v (%v)", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len failed: expected 2, got %d", c.Len())
	}
}

func TestCacheUpdateKeepsSize(t *testing.T) {
	c := NewCache[string](3)
	c.Put("a", "x")
	c.Put("a", "y")

	if c.Len() != 1 {
		t.Errorf("Put failed: expected 1 entry, got %d", c.Len())
	}
	if v, _ := c.Get("a"); v != "y" {
		t.Errorf("Put failed: expected y, got %q", v)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Clear failed: expected 0 entries, got %d", c.Len())
	}
}

func TestWarpKey(t *testing.T) {
	q := document.Quad{{X: 0.1, Y: 0.1}, {X: 0.4, Y: 0.1}, {X: 0.4, Y: 0.4}, {X: 0.1, Y: 0.4}}
	moved := q.Translate(geometry.NewVector2(0.01, 0))

	base := WarpKey("a.png", q, 100, 100)
	if base != WarpKey("a.png", q, 100, 100) {
		t.Error("WarpKey failed: expected stable key")
	}
	for name, other := range map[string]string{
		"file": WarpKey("b.png", q, 100, 100),
		"quad": WarpKey("a.png", moved, 100, 100),
		"size": WarpKey("a.png", q, 100, 120),
	} {
		if other == base {
			t.Errorf("WarpKey failed: expected a different key when %s changes", name)
		}
	}
}
