package network

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/axgle/mahonia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, config Config) *Client {
	t.Helper()
	config.Logger = NewLogger(false)
	client, err := NewClient(config)
	require.NoError(t, err)
	return client
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetchSendsIdentifyingHeaders(t *testing.T) {
	var gotUA, gotEncoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotEncoding = r.Header.Get("Accept-Encoding")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := newTestClient(t, Config{UserAgent: "LiferayScan/test"})
	resp, err := client.Fetch(context.Background(), srv.URL+"/home")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", resp.Body)
	assert.Equal(t, "LiferayScan/test", gotUA)
	assert.Equal(t, "gzip,deflate", gotEncoding)
}

func TestFetchDefaultUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := newTestClient(t, Config{})
	_, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, DefaultConnectTimeout, client.Config().ConnectTimeout)
	assert.Equal(t, DefaultReadTimeout, client.Config().ReadTimeout)
}

func TestFetchDecodesGzip(t *testing.T) {
	payload := gzipBytes(t, "var Liferay = Liferay || {};")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "var Liferay = Liferay || {};", resp.Body)
}

func TestFetchGzipFallbackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write([]byte("<h2>And now... Some Services</h2>"))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h2>And now... Some Services</h2>", resp.Body)
}

func TestFetchDoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/c/portal/login" {
			w.Header().Set("Location", "/c/portal/layout?p_p_id=58")
			w.WriteHeader(http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, Config{}).Fetch(context.Background(), srv.URL+"/c/portal/login")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/c/portal/layout?p_p_id=58", resp.HeaderValue("location"))
}

func TestFetchReturnsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, Config{}).Fetch(context.Background(), srv.URL+"/html/portlet/blogs/view.jsp")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := newTestClient(t, Config{ConnectTimeout: time.Second, ReadTimeout: 100 * time.Millisecond})
	resp, err := client.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, srv.URL, terr.URL)
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	_, err := newTestClient(t, Config{ConnectTimeout: time.Second}).Fetch(context.Background(), target)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable), "got %v", err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestFetchRejectsNonHTTPURL(t *testing.T) {
	_, err := newTestClient(t, Config{}).Fetch(context.Background(), "ftp://example.com/")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestFetchNormalizesCharset(t *testing.T) {
	encoded := mahonia.NewEncoder("gbk").ConvertString("欢迎使用 Liferay")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=gbk")
		_, _ = w.Write([]byte(encoded))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "欢迎使用 Liferay", resp.Body)
}

func TestNormalizeCharsetReplacesInvalidBytes(t *testing.T) {
	body := normalizeCharset("text/html; charset=utf-8", []byte("Users \xff\xfe"))
	assert.Equal(t, "Users �", body)
}

func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "http://portal.example.com", EnsureScheme("portal.example.com"))
	assert.Equal(t, "https://portal.example.com:443", EnsureScheme("portal.example.com:443"))
	assert.Equal(t, "https://portal.example.com/", EnsureScheme(" https://portal.example.com/ "))
	assert.Equal(t, "ftp://portal.example.com", EnsureScheme("ftp://portal.example.com"))
	assert.Equal(t, "", EnsureScheme("  "))
}
