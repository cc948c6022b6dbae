package tencent

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"shortsmith/internal/asr"
)

const (
	defaultBaseURL = "https://asr.cloud.tencent.com"
	flashPath      = "/asr/flash/v1/"
	defaultTimeout = 300 * time.Second
)

var _ asr.Recognizer = (*Client)(nil)

// Client calls the flash recognition endpoint, which answers synchronously
// with the whole transcript.
type Client struct {
	appID      string
	secretID   string
	secretKey  string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

func withHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(appID, secretID, secretKey string, options ...Option) *Client {
	c := &Client{
		appID:      appID,
		secretID:   secretID,
		secretKey:  secretKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Recognize returns the raw JSON envelope. Service-level failures arrive with
// HTTP 200 and a non-zero code, so only transport failures are errors here.
func (c *Client) Recognize(ctx context.Context, audio []byte, opts asr.Options) ([]byte, error) {
	query := c.buildQuery(opts)
	path := flashPath + c.appID

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	u.RawQuery = query

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", sign(c.secretKey, http.MethodPost+u.Host+path+"?"+query))
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = int64(len(audio))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &asr.RecognitionError{
			Code:    resp.StatusCode,
			Message: truncate(string(body), 300),
		}
	}

	return body, nil
}

// buildQuery renders parameters sorted by key; the signature covers this exact
// string.
func (c *Client) buildQuery(opts asr.Options) string {
	params := map[string]string{
		"secretid":           c.secretID,
		"timestamp":          strconv.FormatInt(c.now().Unix(), 10),
		"engine_type":        opts.EngineType,
		"voice_format":       opts.VoiceFormat,
		"filter_dirty":       strconv.Itoa(opts.FilterDirty),
		"filter_modal":       strconv.Itoa(opts.FilterModal),
		"filter_punc":        strconv.Itoa(opts.FilterPunc),
		"convert_num_mode":   strconv.Itoa(opts.ConvertNumMode),
		"word_info":          strconv.Itoa(opts.WordInfo),
		"first_channel_only": "1",
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+url.QueryEscape(params[k]))
	}

	return strings.Join(parts, "&")
}

func sign(secretKey, plain string) string {
	mac := hmac.New(sha1.New, []byte(secretKey))
	mac.Write([]byte(plain))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
