package rabota

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"go-vacancy-collector/internal/config"
)

// ErrAuth means no access token could be obtained. It is fatal for a run.
var ErrAuth = errors.New("rabota: authentication failed")

const (
	tokenPath     = "/oauth/token.json"
	authorizePath = "/oauth/authorize.html"
	vacancyPath   = "/v6/vacancy.json"
	vacanciesPath = "/v6/vacancies.json"
)

// Client talks to the rabota.ru API.
type Client struct {
	http  *resty.Client
	base  string
	creds config.Credentials
	now   func() time.Time
}

func NewClient(cfg config.RabotaConfig) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Accept", "application/json")

	return &Client{
		http:  client,
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		creds: cfg.Credentials,
		now:   time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Token exchanges the application code for an access token.
func (c *Client) Token(ctx context.Context) (string, error) {
	params := map[string]string{
		"app_id": c.creds.AppID,
		"time":   strconv.FormatInt(c.now().Unix(), 10),
		"code":   c.creds.Code,
	}
	form := map[string]string{"signature": Sign(params, c.creds.AppSecret)}
	for k, v := range params {
		form[k] = v
	}

	var out tokenResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		ForceContentType("application/json").
		Post(tokenPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("%w: status %d", ErrAuth, res.StatusCode())
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in response", ErrAuth)
	}
	return out.AccessToken, nil
}

// Vacancy fetches one vacancy and returns the raw JSON envelope.
func (c *Client) Vacancy(ctx context.Context, token string, id int64) ([]byte, error) {
	body := map[string]any{"request": map[string]any{"vacancy_id": id}}
	return c.post(ctx, token, vacancyPath, body)
}

// Vacancies fetches several vacancies in one call.
func (c *Client) Vacancies(ctx context.Context, token string, ids []int64) ([]byte, error) {
	body := map[string]any{"request": map[string]any{"vacancy_ids": ids}}
	return c.post(ctx, token, vacanciesPath, body)
}

func (c *Client) post(ctx context.Context, token, path string, body any) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Token", token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("rabota: post %s: %w", path, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("rabota: post %s: status %d: %s", path, res.StatusCode(), snippet(res.Body()))
	}
	return res.Body(), nil
}

// AuthorizeURL is the page a user opens once to grant the application
// access from a new device.
func (c *Client) AuthorizeURL(redirectURI string) string {
	q := url.Values{
		"app_id":       {c.creds.AppID},
		"scope":        {"profile,vacancies"},
		"display":      {"page"},
		"redirect_uri": {redirectURI},
	}
	return c.base + authorizePath + "?" + q.Encode()
}

func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
