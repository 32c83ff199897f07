package retriever

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func TestQueryCacheHitAndMiss(t *testing.T) {
	c := NewQueryCache(10, time.Minute)

	if _, hit := c.Get("s1", "q", 5, 1); hit {
		t.Error("empty cache reported a hit")
	}

	c.Put("s1", "q", 5, 1, []string{"a", "b"})

	got, hit := c.Get("s1", "q", 5, 1)
	if !hit {
		t.Fatal("expected cache hit")
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}

	// Different session, query, or top-k all miss.
	if _, hit := c.Get("s2", "q", 5, 1); hit {
		t.Error("different session must miss")
	}
	if _, hit := c.Get("s1", "other", 5, 1); hit {
		t.Error("different query must miss")
	}
	if _, hit := c.Get("s1", "q", 3, 1); hit {
		t.Error("different top-k must miss")
	}
}

func TestQueryCacheGenerationInvalidates(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	c.Put("s1", "q", 5, 1, []string{"a"})

	if _, hit := c.Get("s1", "q", 5, 2); hit {
		t.Error("entry from an older generation must not be served")
	}
}

func TestQueryCacheTTL(t *testing.T) {
	c := NewQueryCache(10, time.Nanosecond)
	c.Put("s1", "q", 5, 1, []string{"a"})
	time.Sleep(time.Millisecond)

	if _, hit := c.Get("s1", "q", 5, 1); hit {
		t.Error("expired entry served")
	}
}

func TestQueryCacheEviction(t *testing.T) {
	c := NewQueryCache(2, time.Minute)
	for i := 0; i < 3; i++ {
		c.Put("s1", fmt.Sprintf("q%d", i), 5, 1, []string{"x"})
	}

	if _, hit := c.Get("s1", "q0", 5, 1); hit {
		t.Error("oldest entry should have been evicted")
	}
	if _, hit := c.Get("s1", "q2", 5, 1); !hit {
		t.Error("newest entry should still be cached")
	}
}

func TestQueryCacheResultsAreIsolated(t *testing.T) {
	c := NewQueryCache(10, time.Minute)

	stored := []string{"a", "b"}
	c.Put("s1", "q", 5, 1, stored)
	stored[0] = "mangled by caller after put"

	first, hit := c.Get("s1", "q", 5, 1)
	if !hit {
		t.Fatal("expected cache hit")
	}
	first[1] = "mangled by caller after get"

	got, hit := c.Get("s1", "q", 5, 1)
	if !hit {
		t.Fatal("expected cache hit")
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("cached entry was mutated through a returned slice: %v", got)
	}
}
