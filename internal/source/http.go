package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"deinfluencer/internal/models"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/sirupsen/logrus"
)

// maxPayloadBytes caps how much of a profile response is read
const maxPayloadBytes = 8 << 20

// ErrSourceUnavailable is returned while the profile service is failing and
// requests are being short-circuited
var ErrSourceUnavailable = errors.New("profile source unavailable")

// HTTPConfig configures an HTTPSource
type HTTPConfig struct {
	BaseURL string
	// APIKey is sent as a bearer token when set
	APIKey  string
	Timeout time.Duration

	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// FailureThreshold consecutive failures open the breaker for BreakerDelay
	FailureThreshold uint
	BreakerDelay     time.Duration
}

// DefaultHTTPConfig returns the retry and breaker settings used in production
func DefaultHTTPConfig(baseURL, apiKey string) HTTPConfig {
	return HTTPConfig{
		BaseURL:          baseURL,
		APIKey:           apiKey,
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		BaseDelay:        200 * time.Millisecond,
		MaxDelay:         5 * time.Second,
		FailureThreshold: 5,
		BreakerDelay:     30 * time.Second,
	}
}

func (c HTTPConfig) normalize() HTTPConfig {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 200 * time.Millisecond
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	if c.BreakerDelay <= 0 {
		c.BreakerDelay = 30 * time.Second
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

// statusError is an upstream response worth retrying
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return "profile service returned " + e.status
}

// retryable reports whether a failed attempt should be retried and counted
// against the breaker. Transport errors, 5xx and 429 qualify.
func retryable(_ *http.Response, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, circuitbreaker.ErrOpen) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return true
}

func stateName(state circuitbreaker.State) string {
	switch state {
	case circuitbreaker.OpenState:
		return "open"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	default:
		return "closed"
	}
}

// HTTPSource fetches payloads from a profile-fetching service at
// GET <baseURL>/v1/profiles/<platform>/<username>
type HTTPSource struct {
	config     HTTPConfig
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker[*http.Response]
	executor   failsafe.Executor[*http.Response]
}

// NewHTTPSource creates a source backed by the profile service in cfg
func NewHTTPSource(cfg HTTPConfig, log logrus.FieldLogger) *HTTPSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg = cfg.normalize()

	retry := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(retryable).
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		WithJitterFactor(0.1).
		Build()

	breaker := circuitbreaker.NewBuilder[*http.Response]().
		HandleIf(retryable).
		WithFailureThreshold(cfg.FailureThreshold).
		WithDelay(cfg.BreakerDelay).
		WithSuccessThreshold(1).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			log.WithFields(logrus.Fields{
				"circuit_breaker": "profile_source",
				"from_state":      stateName(event.OldState),
				"to_state":        stateName(event.NewState),
			}).Warn("circuit breaker state change")
		}).
		Build()

	return &HTTPSource{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		executor:   failsafe.With[*http.Response](retry, breaker),
	}
}

// FetchProfile retrieves the profile and recent posts for username
func (s *HTTPSource) FetchProfile(ctx context.Context, platform models.Platform, username string) (*models.AnalysisPayload, error) {
	platform = platform.Normalize()
	if !platform.IsSupported() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedPlatform, platform)
	}
	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return nil, fmt.Errorf("%w: invalid username %q", ErrProfileNotFound, username)
	}

	endpoint := fmt.Sprintf("%s/v1/profiles/%s/%s", s.config.BaseURL, url.PathEscape(string(platform)), url.PathEscape(username))
	resp, err := s.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		return s.get(ctx, endpoint)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s on %s", ErrProfileNotFound, username, platform)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("profile service returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload models.AnalysisPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	payload.Profile.Platform = platform
	if payload.Profile.Username == "" {
		payload.Profile.Username = username
	}
	// Scraped text often arrives as markup
	payload.Profile.Bio = CleanText(payload.Profile.Bio)
	for i := range payload.Posts {
		payload.Posts[i].Caption = CleanText(payload.Posts[i].Caption)
	}
	return &payload, nil
}

// BreakerOpen reports whether requests are currently short-circuited
func (s *HTTPSource) BreakerOpen() bool {
	return s.breaker.IsOpen()
}

// get performs one attempt. Retryable statuses are turned into errors so the
// policies see them.
func (s *HTTPSource) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "deinfluencer/1.0")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}
	return resp, nil
}
