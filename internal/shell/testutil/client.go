package testutil

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
)

// NewClient returns a client with a cookie jar that reports redirects instead
// of following them.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Get issues a GET and returns the response with its body read.
func Get(t testing.TB, client *http.Client, target string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(t, client, req)
}

// PostForm submits form values and returns the response with its body read.
func PostForm(t testing.TB, client *http.Client, target string, form url.Values, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(t, client, req)
}

// SignIn loads the sign-in view for its CSRF token and submits token.
func SignIn(t testing.TB, client *http.Client, baseURL, token string) *http.Response {
	t.Helper()

	resp, body := Get(t, client, baseURL+"/signin", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign-in view: status %d", resp.StatusCode)
	}
	csrf := ParseHTML(t, body).Find("form.auth-form input[name=csrf_token]").AttrOr("value", "")
	if csrf == "" {
		t.Fatalf("sign-in view: missing csrf token")
	}

	resp, _ = PostForm(t, client, baseURL+"/signin", url.Values{
		"id_token":   {token},
		"csrf_token": {csrf},
	}, nil)
	return resp
}

func do(t testing.TB, client *http.Client, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}
