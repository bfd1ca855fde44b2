package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"category/extractor/internal/config"
	"category/extractor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWikipediaConfig(url string) config.WikipediaConfig {
	return config.WikipediaConfig{
		APIURL:    url,
		UserAgent: "product-extractor/1.0",
		Timeout:   5,
		Cooldown:  60,
		MaxItems:  2000,
	}
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestPageExists(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "2", q.Get("formatversion"))
		assert.Equal(t, "product-extractor/1.0", r.Header.Get("User-Agent"))

		switch q.Get("titles") {
		case "Category:Citrus":
			writeJSON(w, `{"batchcomplete":true,"query":{"pages":[{"pageid":7,"ns":14,"title":"Category:Citrus"}]}}`)
		case "Bad|Title":
			writeJSON(w, `{"query":{"pages":[{"title":"Bad|Title","invalidreason":"x","invalid":true}]}}`)
		default:
			writeJSON(w, `{"query":{"pages":[{"ns":14,"title":"Category:Fruit/Citrus","missing":true}]}}`)
		}
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))
	ctx := context.Background()

	exists, err := client.PageExists(ctx, "Category:Citrus")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.PageExists(ctx, "Category:Fruit/Citrus")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = client.PageExists(ctx, "Bad|Title")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCategoryMembers_FollowsContinuation(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "categorymembers", q.Get("list"))
		assert.Equal(t, "Category:Citrus", q.Get("cmtitle"))

		if q.Get("cmcontinue") == "" {
			writeJSON(w, `{"continue":{"cmcontinue":"page|2","continue":"-||"},"query":{"categorymembers":[
				{"ns":0,"title":"Lemon"},{"ns":14,"title":"Category:Oranges"}]}}`)
			return
		}
		assert.Equal(t, "page|2", q.Get("cmcontinue"))
		assert.Equal(t, "-||", q.Get("continue"))
		writeJSON(w, `{"query":{"categorymembers":[{"ns":0,"title":"Lime"}]}}`)
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))

	members, err := client.CategoryMembers(context.Background(), "Category:Citrus")

	require.NoError(t, err)
	assert.Equal(t, []domain.Member{
		{Title: "Lemon", Namespace: domain.NamespaceMain},
		{Title: "Category:Oranges", Namespace: domain.NamespaceCategory},
		{Title: "Lime", Namespace: domain.NamespaceMain},
	}, members)
}

func TestCategoryMembers_StopsAtCap(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, `{"continue":{"cmcontinue":"next"},"query":{"categorymembers":[{"ns":0,"title":"A"},{"ns":0,"title":"B"}]}}`)
	})
	cfg := testWikipediaConfig(server.URL)
	cfg.MaxItems = 3
	client := NewWikipediaClient(cfg)

	members, err := client.CategoryMembers(context.Background(), "Category:Endless")

	require.NoError(t, err)
	assert.Len(t, members, 4)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLinks(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "links", q.Get("prop"))
		assert.Equal(t, "max", q.Get("pllimit"))

		if q.Get("titles") == "Nowhere" {
			writeJSON(w, `{"query":{"pages":[{"ns":0,"title":"Nowhere","missing":true}]}}`)
			return
		}
		if q.Get("plcontinue") == "" {
			writeJSON(w, `{"continue":{"plcontinue":"1|0|Kumquat","continue":"||"},"query":{"pages":[{"pageid":1,"ns":0,"title":"Citrus fruit","links":[{"ns":0,"title":"Grapefruit"}]}]}}`)
			return
		}
		writeJSON(w, `{"query":{"pages":[{"pageid":1,"ns":0,"title":"Citrus fruit","links":[{"ns":0,"title":"Kumquat"}]}]}}`)
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))

	links, err := client.Links(context.Background(), "Citrus fruit")
	require.NoError(t, err)
	assert.Equal(t, []string{"Grapefruit", "Kumquat"}, links)

	_, err = client.Links(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "search", q.Get("list"))
		assert.Equal(t, "Fruit Citrus", q.Get("srsearch"))
		assert.Equal(t, "5", q.Get("srlimit"))
		writeJSON(w, `{"query":{"search":[{"ns":0,"title":"Citrus fruit"},{"ns":0,"title":"Citrus"}]}}`)
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))

	titles, err := client.Search(context.Background(), "Fruit Citrus", 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"Citrus fruit", "Citrus"}, titles)
}

func TestQuery_HTTPError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))

	_, err := client.Search(context.Background(), "q", 10)

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestQuery_APIError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"error":{"code":"badvalue","info":"Unrecognized value"}}`)
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))

	_, err := client.PageExists(context.Background(), "x")

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "badvalue")
}

func TestQuery_MalformedJSON(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `<html>not json</html>`)
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))

	_, err := client.Search(context.Background(), "q", 10)

	assert.Error(t, err)
}

func TestCircuitBreaker_OpensOnThrottle(t *testing.T) {
	var calls atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))
	ctx := context.Background()

	_, err := client.Search(ctx, "q", 10)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	_, err = client.Search(ctx, "q", 10)
	assert.ErrorIs(t, err, domain.ErrCircuitOpen)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCircuitBreaker_OpensOnMaxlag(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"error":{"code":"maxlag","info":"Waiting for a database server"}}`)
	})
	client := NewWikipediaClient(testWikipediaConfig(server.URL))
	ctx := context.Background()

	_, _ = client.PageExists(ctx, "x")
	_, err := client.PageExists(ctx, "x")

	assert.ErrorIs(t, err, domain.ErrCircuitOpen)
}
