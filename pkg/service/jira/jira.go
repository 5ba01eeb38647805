package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	jiramodel "github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
	"github.com/standup-lab/jirabot/pkg/utils/retry"
	"github.com/standup-lab/jirabot/pkg/utils/safe"
)

const (
	issueCacheTTL   = 60 * time.Second
	catalogCacheTTL = 300 * time.Second

	searchBatchSize   = 50
	defaultMaxResults = 50
)

// issueKeyPattern validates issue keys before any network call.
var issueKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)

// Config holds the connection settings of a Jira Cloud site.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return goerr.New("jira base URL is required", goerr.T(types.ErrTagConfig))
	}
	if c.Email == "" {
		return goerr.New("jira email is required", goerr.T(types.ErrTagConfig))
	}
	if c.APIToken == "" {
		return goerr.New("jira API token is required", goerr.T(types.ErrTagConfig))
	}
	return nil
}

// Service is the Jira Cloud REST API v2 client. All requests go through
// do(), which classifies failures and retries transient ones.
type Service struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
	policy     *retry.Policy

	issueCache   *ttlCache[[]*jiramodel.Issue]
	statusCache  *ttlCache[[]*jiramodel.Status]
	userCache    *ttlCache[[]*jiramodel.User]
	accountCache *ttlCache[*jiramodel.User]
}

// New builds a Service and verifies the credentials with a request to
// /rest/api/2/myself. A 401 here is a configuration error, not something
// to retry at call sites.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		email:        cfg.Email,
		apiToken:     cfg.APIToken,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		policy:       retry.DefaultPolicy(),
		issueCache:   newTTLCache[[]*jiramodel.Issue](issueCacheTTL),
		statusCache:  newTTLCache[[]*jiramodel.Status](catalogCacheTTL),
		userCache:    newTTLCache[[]*jiramodel.User](catalogCacheTTL),
		accountCache: newTTLCache[*jiramodel.User](catalogCacheTTL),
	}

	for _, opt := range opts {
		opt(s)
	}

	var myself struct {
		AccountID   string `json:"accountId"`
		DisplayName string `json:"displayName"`
	}
	if err := s.do(ctx, http.MethodGet, "/rest/api/2/myself", nil, nil, &myself); err != nil {
		return nil, goerr.Wrap(err, "jira credential check failed", goerr.T(types.ErrTagConfig))
	}
	logging.From(ctx).Info("Connected to Jira",
		"baseURL", s.baseURL, "account", myself.DisplayName)

	return s, nil
}

type Option func(*Service)

// WithHTTPClient replaces the underlying HTTP client, used in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

// WithRetryPolicy replaces the retry schedule.
func WithRetryPolicy(policy *retry.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// apiError is the Jira error response body.
type apiError struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

func (e *apiError) message() string {
	if len(e.ErrorMessages) > 0 {
		return strings.Join(e.ErrorMessages, "; ")
	}
	var parts []string
	for field, msg := range e.Errors {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// do sends one request under the retry policy. The response body is decoded
// into out when out is non-nil.
func (s *Service) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body", goerr.V("path", path))
		}
		payload = data
	}

	return s.policy.Do(ctx, func(ctx context.Context) error {
		reqURL := s.baseURL + path
		if len(query) > 0 {
			reqURL += "?" + query.Encode()
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
		}
		req.SetBasicAuth(s.email, s.apiToken)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return goerr.Wrap(err, "jira request failed",
				goerr.V("path", path), goerr.T(types.ErrTagTransient))
		}
		defer safe.Close(ctx, resp.Body)

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return goerr.Wrap(err, "failed to read jira response",
				goerr.V("path", path), goerr.T(types.ErrTagTransient))
		}

		if resp.StatusCode >= 400 {
			return classifyStatus(resp, respBody, path)
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return goerr.Wrap(err, "failed to decode jira response", goerr.V("path", path))
			}
		}
		return nil
	})
}

// classifyStatus maps an error response to the error category call sites
// and the retry policy act on.
func classifyStatus(resp *http.Response, body []byte, path string) error {
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)
	msg := apiErr.message()
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return goerr.New(msg, goerr.V("path", path), goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagValidation))
	case resp.StatusCode == http.StatusUnauthorized:
		return goerr.New("jira authentication failed", goerr.V("path", path),
			goerr.V("status", resp.StatusCode), goerr.T(types.ErrTagAuth))
	case resp.StatusCode == http.StatusForbidden:
		return goerr.New(msg, goerr.V("path", path), goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagForbidden))
	case resp.StatusCode == http.StatusNotFound:
		return goerr.New(msg, goerr.V("path", path), goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagNotFound))
	case resp.StatusCode == http.StatusTooManyRequests:
		if after := parseRetryAfter(resp.Header.Get("Retry-After")); after > 0 {
			return &retry.RateLimitError{After: after}
		}
		return goerr.New("jira rate limited", goerr.V("path", path),
			goerr.V("status", resp.StatusCode), goerr.T(types.ErrTagTransient))
	case resp.StatusCode >= 500:
		return goerr.New(msg, goerr.V("path", path), goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagTransient))
	default:
		return goerr.New(msg, goerr.V("path", path), goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagIntegration))
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func validateIssueKey(key string) error {
	if !issueKeyPattern.MatchString(key) {
		return goerr.New("invalid issue key",
			goerr.V("issueKey", key), goerr.T(types.ErrTagValidation))
	}
	return nil
}
