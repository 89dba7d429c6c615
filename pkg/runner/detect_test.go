package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"liferayscan/pkg/network"
	"liferayscan/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPortlet = "com_liferay_login_web_portlet_LoginPortlet"

// newLiferayServer 模拟一个 7.x 版本的 Liferay 门户
func newLiferayServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			atomic.AddInt32(requests, 1)
		}
		q := r.URL.Query()
		switch {
		case r.URL.Path == "/c/portal/login":
			w.Header().Set("Location", "/home?p_p_id="+loginPortlet)
			w.WriteHeader(http.StatusFound)
		case r.URL.Path == "/":
			w.Header().Set("Liferay-Portal", "Liferay Community Edition Portal 7.3.5 CE GA6")
			w.Header().Add("Set-Cookie", "GUEST_LANGUAGE_ID=en_US; Path=/")
			_, _ = w.Write([]byte("<html><head><title>Home - Liferay</title></head><body>var Liferay = {};</body></html>"))
		case r.URL.Path == "/home" && q.Get("_"+loginPortlet+"_mvcRenderCommandName") == "/login/forgot_password":
			_, _ = w.Write([]byte(`<h1>Forgot Password</h1><input id="_` + loginPortlet + `_captchaText">`))
		case r.URL.Path == "/home" && q.Get("p_p_id") == loginPortlet:
			_, _ = w.Write([]byte(`<input name="_` + loginPortlet + `_login" type="text" value="@liferay.com">`))
		case r.URL.Path == "/api/liferay":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("<h1>Access denied for 127.0.0.1</h1><h3>Apache Tomcat/9.0.40</h3>"))
		case r.URL.Path == "/api/jsonws":
			_, _ = w.Write([]byte("<title>json-web-services-api</title>"))
		case r.URL.Path == "/c/search/open_search":
			_, _ = w.Write([]byte("<title>[Users &raquo; Test Test]</title><title>[Users &raquo; Jane Doe]</title>"))
		case r.URL.Path == "/web/test/home/-/blogs/rss":
			_, _ = w.Write([]byte("<feed><subtitle>Test Test</subtitle></feed>"))
		case r.URL.Path == "/html/portlet/blogs/view.jsp":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *network.Client {
	t.Helper()
	client, err := network.NewClient(network.Config{
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    2 * time.Second,
		Logger:         network.NewLogger(false),
	})
	require.NoError(t, err)
	return client
}

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "example.com", want: "http://example.com/"},
		{in: "example.com:443", want: "https://example.com:443/"},
		{in: " HTTP://example.com/portal ", want: "http://example.com/portal/"},
		{in: "https://example.com/", want: "https://example.com/"},
		{in: "http://example.com/portal?a=b#top", want: "http://example.com/portal/"},
		{in: "ftp://example.com", wantErr: true},
		{in: "", wantErr: true},
		{in: "http://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTarget(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectLiferay7(t *testing.T) {
	srv := newLiferayServer(t, nil)
	d := NewDetector(newTestClient(t), DetectOptions{
		EnumerateUsers:    true,
		EnumeratePortlets: true,
		Users:             []string{"admin", "test"},
		Portlets:          []string{"blogs", "wiki"},
		Workers:           4,
	})

	fp, err := d.Detect(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/", fp.Target)
	assert.True(t, fp.IsLiferay)
	assert.Equal(t, "Liferay Community Edition Portal 7.3.5 CE GA6", fp.Version)
	assert.Equal(t, "en_US", fp.Language)
	assert.Equal(t, "liferay.com", fp.OrganisationEmailDomain)
	assert.False(t, fp.UserRegistrationEnabled)
	assert.False(t, fp.SSOEnabled)
	assert.False(t, fp.SOAPAPIExposed)
	assert.True(t, fp.JSONAPIExposed)
	assert.True(t, fp.PasswordResetEnabled)
	assert.True(t, fp.PasswordResetCaptchaEnabled)
	assert.Equal(t, "Apache Tomcat/9.0.40", fp.ServerVersion)
	assert.Equal(t, types.NewServerInfo("Apache Tomcat/9.0.40", "Apache Tomcat", "9.0.40"), fp.Server)
	assert.Equal(t, "127.0.0.1", fp.ClientIPDisclosed)
	assert.Equal(t, "Home - Liferay", fp.Title)
	assert.Equal(t, []types.User{
		{ScreenName: "test", DisplayName: "Test Test"},
		{DisplayName: "Jane Doe"},
	}, fp.DiscoveredUsers)
	assert.Equal(t, []string{"blogs"}, fp.InstalledPortlets)
	assert.Positive(t, fp.Duration)

	stats := d.Stats()
	assert.Equal(t, int64(13), stats.TotalTasks)
	assert.Equal(t, int64(13), stats.CompletedTasks)
}

func TestDetectNotLiferayStopsEarly(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fp, err := NewDetector(newTestClient(t), DetectOptions{EnumerateUsers: true, Users: []string{"test"}}).
		Detect(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, &types.Fingerprint{Target: srv.URL + "/", Duration: fp.Duration}, fp)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestDetectForce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/axis" {
			_, _ = w.Write([]byte("<h2>And now... Some Services</h2>"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fp, err := NewDetector(newTestClient(t), DetectOptions{Force: true}).Detect(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, fp.IsLiferay)
	assert.True(t, fp.SOAPAPIExposed)
	assert.Nil(t, fp.DiscoveredUsers)
}

func TestDetectLoginHitSkipsHome(t *testing.T) {
	var homeRequests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/c/portal/login":
			w.Header().Set("Location", "/c/portal/layout?p_p_id=58")
			w.WriteHeader(http.StatusFound)
		case "/home":
			// 登录页表单等探测也请求 /home，但都带有 p_p_id 参数
			if r.URL.RawQuery == "" {
				atomic.AddInt32(&homeRequests, 1)
			}
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fp, err := NewDetector(newTestClient(t), DetectOptions{}).Detect(context.Background(), strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	assert.True(t, fp.IsLiferay)
	assert.Equal(t, int32(0), atomic.LoadInt32(&homeRequests))
}

func TestDetectInvalidTarget(t *testing.T) {
	fp, err := NewDetector(newTestClient(t), DetectOptions{}).Detect(context.Background(), "ftp://example.com")
	assert.Error(t, err)
	assert.Nil(t, fp)
}

func TestDetectCancelled(t *testing.T) {
	var requests int32
	srv := newLiferayServer(t, &requests)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fp, err := NewDetector(newTestClient(t), DetectOptions{}).Detect(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, fp)
	assert.False(t, fp.IsLiferay)
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}
