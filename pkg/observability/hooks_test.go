package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	a := NoopAggregationHooks{}
	a.OnAggregateStart(ctx, []string{"Go", "Rust"})
	a.OnLanguageFetched(ctx, "Go", 500, time.Second, nil)
	a.OnAggregateComplete(ctx, 2, 2000, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "github")
	c.OnCacheMiss(ctx, "github")
	c.OnCacheSet(ctx, "github", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/search/repositories")
	h.OnResponse(ctx, "GET", "api.github.com", "/search/repositories", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/search/repositories", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Aggregation().(NoopAggregationHooks); !ok {
		t.Error("Aggregation() should return NoopAggregationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customAgg := &testAggregationHooks{}
	SetAggregationHooks(customAgg)
	if Aggregation() != customAgg {
		t.Error("SetAggregationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Aggregation().(NoopAggregationHooks); !ok {
		t.Error("Reset() should restore NoopAggregationHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testAggregationHooks{}
	SetAggregationHooks(custom)
	SetAggregationHooks(nil)

	if Aggregation() != custom {
		t.Error("SetAggregationHooks(nil) should be ignored")
	}
}

type testAggregationHooks struct{ NoopAggregationHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
