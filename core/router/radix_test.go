package router

import (
	"testing"

	"github.com/kairoslabs/headparse/core/headparse"
)

func TestRadixRouterBasic(t *testing.T) {
	router := NewRadixRouter()

	handler := func(ctx any) {}
	router.Add(headparse.MethodGet, "/", handler)
	router.Add(headparse.MethodGet, "/hello", handler)
	router.Add(headparse.MethodGet, "/hello/world", handler)

	tests := []struct {
		path        string
		shouldMatch bool
	}{
		{"/", true},
		{"/hello", true},
		{"/hello/world", true},
		{"/notfound", false},
	}

	for _, tt := range tests {
		h, _ := router.Find(headparse.MethodGet, tt.path)
		matched := h != nil
		if matched != tt.shouldMatch {
			t.Errorf("Path %s: expected match=%v, got match=%v", tt.path, tt.shouldMatch, matched)
		}
	}
}

// TestRadixRouterMethodIsolation checks that a route registered for one
// parsed method is invisible to every other method on the same path --
// the map is keyed by headparse.Method, not by path alone.
func TestRadixRouterMethodIsolation(t *testing.T) {
	router := NewRadixRouter()

	router.Add(headparse.MethodGet, "/widgets", func(ctx any) {})
	router.Add(headparse.MethodPost, "/widgets", func(ctx any) {})

	if h, _ := router.Find(headparse.MethodGet, "/widgets"); h == nil {
		t.Error("expected GET /widgets to match")
	}
	if h, _ := router.Find(headparse.MethodPost, "/widgets"); h == nil {
		t.Error("expected POST /widgets to match")
	}
	if h, _ := router.Find(headparse.MethodDelete, "/widgets"); h != nil {
		t.Error("expected DELETE /widgets to have no handler")
	}
}

func TestRadixRouterPriority(t *testing.T) {
	router := NewRadixRouter()

	exactHandler := func(ctx any) {}
	paramHandler := func(ctx any) {}

	router.Add(headparse.MethodGet, "/user/admin", exactHandler)
	router.Add(headparse.MethodGet, "/user/:id", paramHandler)

	tests := []struct {
		path         string
		shouldMatch  bool
		isExactMatch bool
	}{
		{"/user/admin", true, true},
		{"/user/123", true, false},
	}

	for _, tt := range tests {
		h, params := router.Find(headparse.MethodGet, tt.path)
		if (h != nil) != tt.shouldMatch {
			t.Errorf("Path %s: expected match=%v, got match=%v", tt.path, tt.shouldMatch, h != nil)
		}
		if tt.shouldMatch {
			_, hasParam := params["id"]
			if tt.isExactMatch && hasParam {
				t.Errorf("Path %s: should be exact match, but got params", tt.path)
			}
			if !tt.isExactMatch && !hasParam {
				t.Errorf("Path %s: should be param match, but no params", tt.path)
			}
		}
	}
}

// Benchmarks

func BenchmarkRadixRouterStatic(b *testing.B) {
	router := NewRadixRouter()
	handler := func(ctx any) {}
	router.Add(headparse.MethodGet, "/hello/world", handler)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		router.Find(headparse.MethodGet, "/hello/world")
	}
}

func BenchmarkRadixRouterParam(b *testing.B) {
	router := NewRadixRouter()
	handler := func(ctx any) {}
	router.Add(headparse.MethodGet, "/user/:id", handler)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		router.Find(headparse.MethodGet, "/user/123")
	}
}
