package feishu

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"github.com/rs/zerolog"

	"github.com/ctf-hub/ctfbot/internal/domain/chat"
)

const (
	DefaultBaseURL = "https://open.feishu.cn"
	DefaultTimeout = 10 * time.Second
)

// APIError is a failure reported by the open platform.
type APIError struct {
	Status    int
	Code      int
	Msg       string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("feishu api http %d: %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("feishu api error %d: %s", e.Code, e.Msg)
}

func newAPIError(raw *larkcore.ApiResp, codeErr larkcore.CodeError) *APIError {
	e := &APIError{Code: codeErr.Code, Msg: codeErr.Msg}
	if raw != nil {
		e.Status = raw.StatusCode
		e.RequestID = raw.RequestId()
		if e.Msg == "" {
			e.Msg = http.StatusText(raw.StatusCode)
		}
	}
	return e
}

type Config struct {
	BaseURL   string
	AppID     string
	AppSecret string

	// Timeout bounds every platform request. Zero means DefaultTimeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the Feishu open platform on behalf of the bot app. The
// SDK client caches the tenant access token.
type Client struct {
	lark   *lark.Client
	logger zerolog.Logger
}

var _ chat.Messenger = (*Client)(nil)

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	logger = logger.With().Str("service", "feishu").Logger()

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []lark.ClientOptionFunc{
		lark.WithOpenBaseUrl(baseURL),
		lark.WithReqTimeout(timeout),
		lark.WithLogger(sdkLogger{logger: logger}),
		lark.WithLogLevel(larkcore.LogLevelWarn),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, lark.WithHttpClient(cfg.HTTPClient))
	}
	return &Client{
		lark:   lark.NewClient(strings.TrimSpace(cfg.AppID), strings.TrimSpace(cfg.AppSecret), opts...),
		logger: logger,
	}
}

// sdkLogger routes the SDK's own diagnostics into zerolog.
type sdkLogger struct {
	logger zerolog.Logger
}

func (l sdkLogger) Debug(_ context.Context, args ...interface{}) {
	l.logger.Debug().Msg(fmt.Sprint(args...))
}

func (l sdkLogger) Info(_ context.Context, args ...interface{}) {
	l.logger.Info().Msg(fmt.Sprint(args...))
}

func (l sdkLogger) Warn(_ context.Context, args ...interface{}) {
	l.logger.Warn().Msg(fmt.Sprint(args...))
}

func (l sdkLogger) Error(_ context.Context, args ...interface{}) {
	l.logger.Error().Msg(fmt.Sprint(args...))
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
