package shopsdk

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Client is one visitor of the shop.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client with its own cookie jar. Redirects are not
// followed automatically.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// response is a fully read HTTP response.
type response struct {
	status   int
	location string
	body     string
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) (response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return response{}, ErrRateLimited
	}

	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		body:     string(data),
	}, nil
}

// get fetches a page, turning a bounce to /login into ErrNotSignedIn.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	switch {
	case resp.status == http.StatusOK:
		return resp.body, nil
	case resp.status == http.StatusFound && resp.location == "/login":
		return "", ErrNotSignedIn
	case resp.status == http.StatusFound:
		return "", c.formError(ctx, resp.location)
	default:
		return "", &StatusError{Status: resp.status, Body: resp.body}
	}
}

// submit posts form and returns the redirect target.
func (c *Client) submit(ctx context.Context, path string, form url.Values) (string, error) {
	if form == nil {
		form = url.Values{}
	}

	resp, err := c.do(ctx, http.MethodPost, path, form)
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusFound {
		return "", &StatusError{Status: resp.status, Body: resp.body}
	}
	return resp.location, nil
}

// expect posts form and succeeds when the shop redirects to one of want.
func (c *Client) expect(ctx context.Context, path string, form url.Values, want ...string) (string, error) {
	location, err := c.submit(ctx, path, form)
	if err != nil {
		return "", err
	}
	for _, w := range want {
		if location == w {
			return location, nil
		}
	}
	return "", c.formError(ctx, location)
}

var flashErrorRe = regexp.MustCompile(`class="flash flash-error"[^>]*>([^<]*)<`)

// formError follows a failed form's redirect and picks up the flash.
func (c *Client) formError(ctx context.Context, location string) error {
	fe := &FormError{Path: location}

	resp, err := c.do(ctx, http.MethodGet, location, nil)
	if err != nil {
		return fe
	}
	if m := flashErrorRe.FindStringSubmatch(resp.body); m != nil {
		fe.Message = html.UnescapeString(m[1])
	}
	return fe
}
