package cache_test

import (
	"errors"
	"testing"

	"github.com/sandrolain/goxq/pkg/cache"
	"github.com/sandrolain/goxq/pkg/parser"
	"github.com/sandrolain/goxq/pkg/types"
)

func mustCompile(t *testing.T, query string) *types.Expression {
	t.Helper()
	expr, err := parser.Compile(query)
	if err != nil {
		t.Fatal(err)
	}
	return expr
}

func TestCacheNew(t *testing.T) {
	c := cache.New(10)
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache, got %d", got)
	}
	if got := c.Capacity(); got != 10 {
		t.Fatalf("expected capacity 10, got %d", got)
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New(0)
	if got := c.Capacity(); got != cache.DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", cache.DefaultCapacity, got)
	}
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New(4)
	expr := mustCompile(t, "//title")
	c.Set("//title", expr)
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	got, ok := c.Get("//title")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != expr {
		t.Fatal("expected same expression pointer")
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(3)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, mustCompile(t, k))
	}
	// Touch "a" so "b" becomes the least recently used entry.
	c.Get("a")
	c.Set("d", mustCompile(t, "d"))
	if got := c.Len(); got != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", got)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal(`expected "b" to be evicted (LRU)`)
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("expected %q to survive", k)
		}
	}
}

func TestCacheInvalidateClear(t *testing.T) {
	c := cache.New(4)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, mustCompile(t, k))
	}
	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after Invalidate")
	}
	c.Clear()
	if got := c.Len(); got != 0 {
		t.Fatalf("expected 0 after Clear, got %d", got)
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := cache.New(4)
	callCount := 0
	compileFn := func() (*types.Expression, error) {
		callCount++
		return parser.Compile("count(.//book)")
	}

	expr1, err := c.GetOrCompile("q", compileFn)
	if err != nil || expr1 == nil {
		t.Fatalf("first GetOrCompile: %v", err)
	}
	expr2, err := c.GetOrCompile("q", compileFn)
	if err != nil {
		t.Fatalf("second GetOrCompile: %v", err)
	}
	if callCount != 1 {
		t.Fatalf("expected 1 compile call, got %d", callCount)
	}
	if expr1 != expr2 {
		t.Fatal("expected same pointer from cache")
	}
}

func TestCacheGetOrCompileError(t *testing.T) {
	c := cache.New(4)
	boom := errors.New("boom")
	_, err := c.GetOrCompile("bad", func() (*types.Expression, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected compile error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("expected errors not to be cached")
	}
}
