package storage

import (
	"errors"
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	c := NewPathCache()
	if err := c.Set("/sets/m21/cards/123/en", "value"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get("/sets/m21/cards/123/en", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit")
	}
	if got != "value" {
		t.Fatalf("unexpected value: %v", got)
	}

	// Leading/trailing slashes normalize to the same path.
	got, ok, err = c.Get("sets/m21/cards/123/en/", nil)
	if err != nil || !ok || got != "value" {
		t.Fatalf("normalized path lookup failed: %v %v %v", got, ok, err)
	}
}

func TestGetMiss(t *testing.T) {
	c := NewPathCache()
	if err := c.Set("/a/b", 1); err != nil {
		t.Fatalf("set: %v", err)
	}

	for _, path := range []string{"/a/c", "/x", "/x/y/z"} {
		_, ok, err := c.Get(path, nil)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		if ok {
			t.Fatalf("expected miss for %s", path)
		}
	}
}

func TestEmptyPathInvalid(t *testing.T) {
	c := NewPathCache()
	for _, path := range []string{"", "/", "///"} {
		if err := c.Set(path, 1); err == nil {
			t.Fatalf("expected set error for %q", path)
		}
		var ipe *InvalidPathError
		_, _, err := c.Get(path, nil)
		if !errors.As(err, &ipe) {
			t.Fatalf("expected InvalidPathError for get %q, got %v", path, err)
		}
	}
}

func TestDescendThroughLeaf(t *testing.T) {
	c := NewPathCache()
	if err := c.Set("/a", 1); err != nil {
		t.Fatalf("set: %v", err)
	}

	var ipe *InvalidPathError
	if err := c.Set("/a/b", 2); !errors.As(err, &ipe) {
		t.Fatalf("expected InvalidPathError, got %v", err)
	}
	if _, _, err := c.Get("/a/b", nil); !errors.As(err, &ipe) {
		t.Fatalf("expected InvalidPathError, got %v", err)
	}
}

func TestSetOverwritesSubtree(t *testing.T) {
	c := NewPathCache()
	if err := c.Set("/a/b", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set("/a", "scalar"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := c.Get("/a", nil)
	if err != nil || !ok || got != "scalar" {
		t.Fatalf("unexpected result after overwrite: %v %v %v", got, ok, err)
	}
}

func TestClearRecursiveIdempotent(t *testing.T) {
	c := NewPathCache()
	if err := c.Set("/a/b", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set("/a/c", 2); err != nil {
		t.Fatalf("set: %v", err)
	}

	c.Clear("/a")
	for _, path := range []string{"/a/b", "/a/c"} {
		if _, ok, _ := c.Get(path, nil); ok {
			t.Fatalf("expected %s cleared", path)
		}
	}

	// Second clear is a no-op, as is clearing through a leaf.
	c.Clear("/a")
	c.Clear("/nonexistent/deep/path")
	if err := c.Set("/leaf", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	c.Clear("/leaf/below")
	if _, ok, _ := c.Get("/leaf", nil); !ok {
		t.Fatalf("leaf should survive clearing below it")
	}
}

func TestClearRootAndReset(t *testing.T) {
	c := NewPathCache()
	if err := c.Set("/a/b", 1); err != nil {
		t.Fatalf("set: %v", err)
	}

	c.Clear("/")
	if _, ok, _ := c.Get("/a/b", nil); ok {
		t.Fatalf("expected cleared after root clear")
	}

	if err := c.Set("/a/b", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	c.Reset()
	if _, ok, _ := c.Get("/a/b", nil); ok {
		t.Fatalf("expected cleared after reset")
	}
}

func TestConvertAppliedOnHitOnly(t *testing.T) {
	c := NewPathCache()
	calls := 0
	conv := func(v any) any {
		calls++
		return v.(int) * 2
	}

	if _, ok, err := c.Get("/n", conv); ok || err != nil {
		t.Fatalf("unexpected hit: %v", err)
	}
	if calls != 0 {
		t.Fatalf("convert ran on a miss")
	}

	if err := c.Set("/n", 21); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get("/n", conv)
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if got != 42 || calls != 1 {
		t.Fatalf("convert result wrong: %v (calls=%d)", got, calls)
	}
}
