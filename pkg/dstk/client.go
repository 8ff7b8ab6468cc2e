package dstk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the public DSTK deployment.
	DefaultBaseURL = "http://www.datasciencetoolkit.org"
	// BaseURLEnv overrides DefaultBaseURL when no explicit base is given.
	BaseURLEnv = "DSTK_API_BASE"
	// RequiredVersion is the oldest /info version this client talks to.
	RequiredVersion = 50

	defaultUserAgent = "dstk-go/0.1"
)

// Service is the set of remote capabilities. It is implemented by *Client
// and lets callers substitute a fake in tests.
type Service interface {
	Info(ctx context.Context) (VersionInfo, error)
	IP2Coordinates(ctx context.Context, ips ...string) (map[string]*Location, error)
	Street2Coordinates(ctx context.Context, addresses ...string) (map[string]*StreetLocation, error)
	Coordinates2Politics(ctx context.Context, coords ...Coordinates) ([]PoliticsResult, error)
	Coordinates2Statistics(ctx context.Context, coords []Coordinates, statistics ...string) ([]StatisticsResult, error)
	Text2Places(ctx context.Context, text string) ([]Place, error)
	Text2People(ctx context.Context, text string) ([]Person, error)
	Text2Times(ctx context.Context, text string) ([]TimeMention, error)
	Text2Sentences(ctx context.Context, text string) (Sentences, error)
	Text2Sentiment(ctx context.Context, text string) (Sentiment, error)
	HTML2Text(ctx context.Context, html string) (Text, error)
	HTML2Story(ctx context.Context, html string) (Story, error)
	Geocode(ctx context.Context, address string) (GeocodeResponse, error)
	File2Text(ctx context.Context, fileName string, data []byte) (string, error)
	File2TextFromPath(ctx context.Context, path string) (string, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

var errNilClient = errors.New("client is nil")

// Client talks to a DSTK server. It holds no mutable state after New returns
// and is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	baseURL      string
	checkVersion bool
	httpClient   *http.Client
	logger       zerolog.Logger
	userAgent    string
}

// WithBaseURL sets the service address explicitly. It wins over BaseURLEnv.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithVersionCheck toggles the /info compatibility check done by New.
// It is enabled by default.
func WithVersionCheck(enabled bool) Option {
	return func(o *options) { o.checkVersion = enabled }
}

// WithHTTPClient replaces the transport. The client sets no timeout of its
// own, so deadlines belong on this client or on the call's context.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		if hc != nil {
			o.httpClient = hc
		}
	}
}

// WithLogger attaches a logger for per-request debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		if ua := strings.TrimSpace(userAgent); ua != "" {
			o.userAgent = ua
		}
	}
}

// New resolves the base address and, unless disabled, verifies that the
// server speaks at least RequiredVersion. It fails with
// *UnreachableServerError or *IncompatibleServerError.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	o := options{
		checkVersion: true,
		httpClient:   &http.Client{},
		logger:       zerolog.Nop(),
		userAgent:    defaultUserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := parseBaseURL(resolveBaseURL(o.baseURL, os.Getenv(BaseURLEnv)))
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      o.httpClient,
		userAgent: o.userAgent,
		log:       o.logger,
	}
	if o.checkVersion {
		if err := c.checkVersion(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BaseURL returns the resolved service address.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// resolveBaseURL applies explicit > environment > default.
func resolveBaseURL(explicit, fromEnv string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(fromEnv); v != "" {
		return v
	}
	return DefaultBaseURL
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func (c *Client) endpointURL(endpoint string, query url.Values) *url.URL {
	u := c.baseURL.JoinPath(endpoint)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u
}

// Info fetches the server's version information. Every failure is reported
// as *UnreachableServerError since a DSTK server always answers /info.
func (c *Client) Info(ctx context.Context) (VersionInfo, error) {
	if c == nil {
		return VersionInfo{}, errNilClient
	}
	base := c.baseURL.String()
	resp, err := c.roundTrip(ctx, request{method: http.MethodGet, endpoint: "/info"})
	if err != nil {
		return VersionInfo{}, &UnreachableServerError{URL: base, Err: err}
	}
	if resp.status >= 400 {
		return VersionInfo{}, &UnreachableServerError{URL: base, Err: fmt.Errorf("/info returned status %d", resp.status)}
	}
	if !gjson.ValidBytes(resp.body) {
		return VersionInfo{}, &UnreachableServerError{URL: base, Err: errors.New("no version information found")}
	}
	if v := gjson.GetBytes(resp.body, "version"); v.Type != gjson.Number {
		return VersionInfo{}, &UnreachableServerError{URL: base, Err: errors.New("no version information found")}
	}
	var info VersionInfo
	if err := json.Unmarshal(resp.body, &info); err != nil {
		return VersionInfo{}, &UnreachableServerError{URL: base, Err: fmt.Errorf("decode /info: %w", err)}
	}
	return info, nil
}

func (c *Client) checkVersion(ctx context.Context) error {
	info, err := c.Info(ctx)
	if err != nil {
		return err
	}
	if info.Version < RequiredVersion {
		return &IncompatibleServerError{
			URL:      c.endpointURL("/info", nil).String(),
			Found:    info.Version,
			Required: RequiredVersion,
		}
	}
	c.log.Debug().Int("version", info.Version).Str("base", c.baseURL.String()).Msg("dstk server verified")
	return nil
}

// IP2Coordinates looks up the approximate location of each IP address.
// The result is keyed by the IPs as given; a nil value means no match.
func (c *Client) IP2Coordinates(ctx context.Context, ips ...string) (map[string]*Location, error) {
	var payload map[string]*Location
	if err := c.postJSON(ctx, "/ip2coordinates", nil, nonNil(ips), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Street2Coordinates geocodes street addresses, keyed by the addresses as given.
func (c *Client) Street2Coordinates(ctx context.Context, addresses ...string) (map[string]*StreetLocation, error) {
	var payload map[string]*StreetLocation
	if err := c.postJSON(ctx, "/street2coordinates", nil, nonNil(addresses), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Coordinates2Politics lists the political areas containing each coordinate,
// in input order.
func (c *Client) Coordinates2Politics(ctx context.Context, coords ...Coordinates) ([]PoliticsResult, error) {
	var payload []PoliticsResult
	if err := c.postJSON(ctx, "/coordinates2politics", nil, nonNil(coords), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Coordinates2Statistics returns environmental and demographic statistics for
// each coordinate. With no statistic names the server picks its defaults.
func (c *Client) Coordinates2Statistics(ctx context.Context, coords []Coordinates, statistics ...string) ([]StatisticsResult, error) {
	var query url.Values
	if names := compact(statistics); len(names) > 0 {
		query = url.Values{"statistics": {strings.Join(names, ",")}}
	}
	var payload []StatisticsResult
	if err := c.postJSON(ctx, "/coordinates2statistics", query, nonNil(coords), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Text2Places finds place names in free text.
func (c *Client) Text2Places(ctx context.Context, text string) ([]Place, error) {
	var payload []Place
	if err := c.postText(ctx, "/text2places", textContentType, text, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Text2People finds people's names in free text.
func (c *Client) Text2People(ctx context.Context, text string) ([]Person, error) {
	var payload []Person
	if err := c.postText(ctx, "/text2people", textContentType, text, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Text2Times finds dates and times in free text.
func (c *Client) Text2Times(ctx context.Context, text string) ([]TimeMention, error) {
	var payload []TimeMention
	if err := c.postText(ctx, "/text2times", textContentType, text, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Text2Sentences keeps only the parts of the text that read like sentences.
func (c *Client) Text2Sentences(ctx context.Context, text string) (Sentences, error) {
	var payload Sentences
	if err := c.postText(ctx, "/text2sentences", textContentType, text, &payload); err != nil {
		return Sentences{}, err
	}
	return payload, nil
}

// Text2Sentiment scores the sentiment of the text.
func (c *Client) Text2Sentiment(ctx context.Context, text string) (Sentiment, error) {
	var payload Sentiment
	if err := c.postText(ctx, "/text2sentiment", textContentType, text, &payload); err != nil {
		return Sentiment{}, err
	}
	return payload, nil
}

// HTML2Text extracts the displayed text of an HTML document.
func (c *Client) HTML2Text(ctx context.Context, html string) (Text, error) {
	var payload Text
	if err := c.postText(ctx, "/html2text", htmlContentType, html, &payload); err != nil {
		return Text{}, err
	}
	return payload, nil
}

// HTML2Story extracts the main story of an HTML page, dropping navigation
// and other boilerplate.
func (c *Client) HTML2Story(ctx context.Context, html string) (Story, error) {
	var payload Story
	if err := c.postText(ctx, "/html2story", htmlContentType, html, &payload); err != nil {
		return Story{}, err
	}
	return payload, nil
}

// Geocode calls the Google-compatible geocoder emulation.
func (c *Client) Geocode(ctx context.Context, address string) (GeocodeResponse, error) {
	if c == nil {
		return GeocodeResponse{}, errNilClient
	}
	req := request{
		method:   http.MethodGet,
		endpoint: "/maps/api/geocode/json",
		query:    url.Values{"address": {address}},
	}
	var payload GeocodeResponse
	if err := c.call(ctx, req, &payload); err != nil {
		return GeocodeResponse{}, err
	}
	return payload, nil
}

// File2Text uploads a document (PDF, Word, Excel, image, HTML or text) and
// returns the text the server extracted from it.
func (c *Client) File2Text(ctx context.Context, fileName string, data []byte) (string, error) {
	if c == nil {
		return "", errNilClient
	}
	name := filepath.Base(fileName)
	body, err := newMultipartBody([]formPart{{
		FieldName:   FileFieldName,
		FileName:    name,
		ContentType: contentTypeFor(name, data),
		Data:        data,
	}})
	if err != nil {
		return "", fmt.Errorf("encode upload: %w", err)
	}

	const endpoint = "/file2text"
	resp, err := c.roundTrip(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		body:        body.Data,
		contentType: body.ContentType(),
	})
	if err != nil {
		return "", &UnreachableServerError{URL: c.baseURL.String(), Err: err}
	}
	// Success bodies are plain text; only JSON bodies can carry an error.
	if resp.status >= 400 || resp.isJSON() {
		if err := checkRemoteError(endpoint, resp); err != nil {
			return "", err
		}
	}
	if resp.status >= 400 {
		return "", &MalformedResponseError{Endpoint: endpoint, Status: resp.status, Err: fmt.Errorf("unexpected status %d", resp.status)}
	}
	return string(resp.body), nil
}

// File2TextFromPath reads path and uploads it with File2Text. A file that
// cannot be read fails before any request, with the *fs.PathError wrapped.
func (c *Client) File2TextFromPath(ctx context.Context, path string) (string, error) {
	if c == nil {
		return "", errNilClient
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return c.File2Text(ctx, path, data)
}

const (
	jsonContentType = "application/json"
	textContentType = "text/plain; charset=utf-8"
	htmlContentType = "text/html; charset=utf-8"
)

type request struct {
	method      string
	endpoint    string
	query       url.Values
	body        []byte
	contentType string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) isJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.header.Get("Content-Type"))
	return err == nil && mediaType == jsonContentType
}

func (c *Client) postJSON(ctx context.Context, endpoint string, query url.Values, input, dest any) error {
	if c == nil {
		return errNilClient
	}
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}
	return c.call(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		query:       query,
		body:        body,
		contentType: jsonContentType,
	}, dest)
}

// postText sends text verbatim as the request body, with no JSON envelope.
func (c *Client) postText(ctx context.Context, endpoint, contentType, text string, dest any) error {
	if c == nil {
		return errNilClient
	}
	return c.call(ctx, request{
		method:      http.MethodPost,
		endpoint:    endpoint,
		body:        []byte(text),
		contentType: contentType,
	}, dest)
}

// call performs one round trip and decodes a JSON payload into dest.
func (c *Client) call(ctx context.Context, req request, dest any) error {
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return &UnreachableServerError{URL: c.baseURL.String(), Err: err}
	}
	if err := checkRemoteError(req.endpoint, resp); err != nil {
		return err
	}
	if resp.status >= 400 {
		return &MalformedResponseError{Endpoint: req.endpoint, Status: resp.status, Err: fmt.Errorf("unexpected status %d", resp.status)}
	}
	if !gjson.ValidBytes(resp.body) {
		return &MalformedResponseError{Endpoint: req.endpoint, Status: resp.status, Err: errors.New("body is not valid JSON")}
	}
	if err := json.Unmarshal(resp.body, dest); err != nil {
		return &MalformedResponseError{Endpoint: req.endpoint, Status: resp.status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// checkRemoteError reports a top-level "error" member of a JSON object body,
// whatever its value. Arrays never carry the member. Strings are returned
// unquoted; other values keep their JSON text.
func checkRemoteError(endpoint string, resp response) error {
	if !gjson.ValidBytes(resp.body) {
		return nil
	}
	parsed := gjson.ParseBytes(resp.body)
	if !parsed.IsObject() {
		return nil
	}
	field := parsed.Get("error")
	if !field.Exists() {
		return nil
	}
	message := field.Raw
	if field.Type == gjson.String {
		message = field.String()
	}
	return &RemoteServiceError{Endpoint: endpoint, Status: resp.status, Message: message}
}

func (c *Client) roundTrip(ctx context.Context, r request) (response, error) {
	reqURL := c.endpointURL(r.endpoint, r.query)

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, reqURL.String(), body)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	if r.body != nil {
		req.ContentLength = int64(len(r.body))
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", r.method).Str("endpoint", r.endpoint).Msg("dstk request failed")
		return response{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read response: %w", err)
	}
	c.log.Debug().
		Str("method", r.method).
		Str("endpoint", r.endpoint).
		Int("status", resp.StatusCode).
		Int("request_bytes", len(r.body)).
		Int("response_bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("dstk request")
	return response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
