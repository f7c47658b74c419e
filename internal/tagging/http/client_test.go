package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/tagging"
)

func TestNewClient(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		client := NewClient("http://localhost:7171/")
		assert.Equal(t, "http://localhost:7171", client.BaseURL())
	})

	t.Run("applies timeout", func(t *testing.T) {
		client := NewClient("http://localhost", WithTimeout(5*time.Second))
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("applies user agent", func(t *testing.T) {
		client := NewClient("http://localhost", WithUserAgent("test-agent"))
		assert.Equal(t, "test-agent", client.userAgent)
	})
}

// roundTripFunc serves requests in-process.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestClient_WithTransport(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tagging.test", r.Host)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, PathTags, r.URL.Path)
		json.NewEncoder(w).Encode(TagListResponse{Tags: []string{"Favorite"}})
	})

	calls := 0
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Result(), nil
	})

	client := NewClient("http://tagging.test", WithTransport(transport), WithUserAgent("test-agent"))
	tags, err := client.ListTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Favorite"}, tags)
	assert.Equal(t, 1, calls)

	t.Run("transport errors surface as call failures", func(t *testing.T) {
		failing := roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		})
		client := NewClient("http://tagging.test", WithTransport(failing))

		err := tagging.Call(context.Background(), client, tagging.OpAdd, 1, core.FavoriteTag)
		assert.ErrorIs(t, err, tagging.ErrRemoteCall)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestClient_AddTag(t *testing.T) {
	t.Run("posts result id and tag name", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, PathTagAdd, r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req TagRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, uint(7), req.ResultID)
			assert.Equal(t, "Favorite", req.TagName)

			json.NewEncoder(w).Encode("ok")
		}))
		defer server.Close()

		client := NewClient(server.URL)
		err := client.AddTag(context.Background(), 7, core.FavoriteTag)
		require.NoError(t, err)
	})

	t.Run("non-success status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Result not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL)
		err := client.AddTag(context.Background(), 7, core.FavoriteTag)
		require.Error(t, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
		assert.Equal(t, "Result not found", statusErr.Message)
	})

	t.Run("network failure is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := NewClient(url)
		assert.Error(t, client.AddTag(context.Background(), 7, core.FavoriteTag))
	})
}

func TestClient_RemoveTag(t *testing.T) {
	var got TagRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathTagRemove, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode("ok")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.RemoveTag(context.Background(), 42, core.FavoriteTag))
	assert.Equal(t, TagRequest{ResultID: 42, TagName: "Favorite"}, got)
}

func TestClient_ListResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, PathResults, r.URL.Path)
		assert.Equal(t, "Favorite", r.URL.Query().Get("tag"))

		json.NewEncoder(w).Encode([]core.Result{
			{ID: 1, URL: "https://a.example", Tags: []core.Tag{{Name: "Favorite"}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	results, err := client.ListResults(context.Background(), core.FavoriteTag)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsFavorite())
}

func TestClient_GetResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathResults+"/42", r.URL.Path)
		json.NewEncoder(w).Encode(core.Result{ID: 42, URL: "https://a.example"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.GetResult(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), result.ID)
}

func TestClient_ListTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathTags, r.URL.Path)
		w.Write([]byte(`{"tags":["Admin","Favorite"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	tags, err := client.ListTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "Favorite"}, tags)
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListTags(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_WrappedByCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := tagging.Call(context.Background(), client, tagging.OpAdd, 7, core.FavoriteTag)
	assert.ErrorIs(t, err, tagging.ErrRemoteCall)

	var statusErr *StatusError
	assert.ErrorAs(t, err, &statusErr)
}
