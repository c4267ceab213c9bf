package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/calistrack/calistrack/internal/client/repositories/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) AccessToken(context.Context) (string, error) { return string(s), nil }

type failingTokens struct{}

func (failingTokens) AccessToken(context.Context) (string, error) {
	return "", errors.New("cache closed")
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_AttachesHeaders(t *testing.T) {
	var got http.Header
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	})

	c := New(srv.URL+"/", staticTokens("abc"))
	require.NoError(t, c.Get(context.Background(), "/exercise/", nil))

	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Len(t, got.Get(RequestIDHeader), 36)
	assert.Equal(t, srv.URL, c.BaseURL())
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	var auth string
	var seen bool
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth, seen = r.Header.Get("Authorization"), true
	})

	c := New(srv.URL, staticTokens(""))
	require.NoError(t, c.Get(context.Background(), "/ping", nil))
	assert.True(t, seen)
	assert.Empty(t, auth)
}

func TestClient_TokenFromCache(t *testing.T) {
	ctx := context.Background()
	cache := kvstore.NewMemoryRepository()

	var auth []string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
	})
	c := New(srv.URL, CacheTokens{Cache: cache})

	require.NoError(t, c.Get(ctx, "/a", nil))
	require.NoError(t, cache.Set(ctx, kvstore.KeyToken, "t1"))
	require.NoError(t, c.Get(ctx, "/b", nil))

	assert.Equal(t, []string{"", "Bearer t1"}, auth)
}

func TestClient_TokenSourceError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	c := New(srv.URL, failingTokens{})
	err := c.Get(context.Background(), "/a", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read access token")
}

func TestClient_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var in payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(payload{Name: in.Name + "!"})
	})

	var out payload
	c := New(srv.URL, nil)
	require.NoError(t, c.Put(context.Background(), "/x", payload{Name: "dips"}, &out))
	assert.Equal(t, "dips!", out.Name)
}

func TestClient_RawStringBody(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	var out string
	require.NoError(t, New(srv.URL, nil).Post(context.Background(), "/x", nil, &out))
	assert.Equal(t, "ok", out)
}

func TestClient_EmptyBodyWithTarget(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {})

	var out map[string]any
	require.NoError(t, New(srv.URL, nil).Get(context.Background(), "/x", &out))
	assert.Nil(t, out)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		code   int
		body   string
		target error
		msg    string
	}{
		{http.StatusUnauthorized, "", ErrUnauthorized, ""},
		{http.StatusForbidden, `{"message":"expired"}`, ErrUnauthorized, "expired"},
		{http.StatusNotFound, `{"error":"no such user"}`, ErrNotFound, "no such user"},
		{http.StatusConflict, " in use \n", ErrConflict, "in use"},
		{http.StatusTooManyRequests, "", ErrTooManyRequests, ""},
		{http.StatusBadGateway, "", ErrServer, ""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})

			err := New(srv.URL, nil).Get(context.Background(), "/x", nil)
			require.ErrorIs(t, err, tt.target)

			var he *HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.code, he.StatusCode)
			assert.Equal(t, tt.msg, he.Message)
			assert.Equal(t, tt.code, StatusCode(err))
		})
	}
}

func TestClient_AuthExpiredFiresOncePerRequest(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c := New(srv.URL, staticTokens("stale"))

	var first, second atomic.Int32
	c.OnAuthExpired(func() { first.Add(1) })
	c.OnAuthExpired(func() { second.Add(1) })

	for range 3 {
		err := c.Get(context.Background(), "/x", nil)
		require.ErrorIs(t, err, ErrUnauthorized)
	}

	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(3), second.Load())

	c.OnAuthExpired(nil)
	require.Error(t, c.Get(context.Background(), "/x", nil))
	assert.Equal(t, int32(3), second.Load())
}

func TestClient_SkipAuthExpired(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	c := New(srv.URL, nil)

	var fired atomic.Int32
	c.OnAuthExpired(func() { fired.Add(1) })

	err := c.Post(SkipAuthExpired(context.Background()), "/api/auth/login", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), fired.Load())
}

func TestClient_NoAuthExpiredOnOtherErrors(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := New(srv.URL, nil)

	var fired atomic.Int32
	c.OnAuthExpired(func() { fired.Add(1) })
	require.ErrorIs(t, c.Get(context.Background(), "/x", nil), ErrServer)
	assert.Equal(t, int32(0), fired.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := New(srv.URL, nil, WithTimeout(50*time.Millisecond))
	err := c.Get(context.Background(), "/slow", nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url, nil).Get(context.Background(), "/x", nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_CanceledIsNotUnavailable(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(srv.URL, nil).Get(ctx, "/x", nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestWithHTTPClient_UsesTimeout(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	c := New("http://example.invalid", nil, WithHTTPClient(hc), WithTimeout(3*time.Second))

	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.NotSame(t, hc, c.httpClient)
	assert.Equal(t, time.Minute, hc.Timeout, "caller's client must keep its timeout")
}

func TestWithHTTPClient_DefaultClientUntouched(t *testing.T) {
	before := http.DefaultClient.Timeout
	New("http://example.invalid", nil, WithHTTPClient(http.DefaultClient), WithTimeout(2*time.Second))
	assert.Equal(t, before, http.DefaultClient.Timeout)
}
