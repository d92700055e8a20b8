package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"
	"github.com/hyp3rd/sectools/pkg/validate"

	keepalive "github.com/hyp3rd/go-keepalive"
)

// Executor performs one health-check attempt sequence per call to Execute.
type Executor struct {
	request      Request
	retrier      *keepalive.Retrier
	newClient    func() *http.Client
	logger       *slog.Logger
	urlValidator *validate.URLValidator
	validatorSet bool
}

// New validates the request and returns an executor bound to the retrier.
func New(request Request, retrier *keepalive.Retrier, opts ...Option) (*Executor, error) {
	if retrier == nil {
		return nil, ewrap.Wrap(ErrInvalidRequest, "retrier is required")
	}

	err := retrier.Validate()
	if err != nil {
		return nil, ewrap.Wrap(err, "invalid retrier")
	}

	if retrier.Registry == nil {
		retrier.Registry = keepalive.NewRegistry()
	}

	// only transport failures and 5xx responses are worth another attempt.
	retrier.Registry.RegisterTemporaryErrors(map[string]error{
		"executor.ErrTransport":    ErrTransport,
		"executor.ErrServerStatus": ErrServerStatus,
	})

	exec := &Executor{
		retrier:   retrier,
		newClient: newSessionClient,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(exec)
	}

	if !exec.validatorSet {
		validator, err := validate.NewURLValidator()
		if err == nil {
			exec.urlValidator = validator
		}
	}

	exec.request, err = exec.normalizeRequest(request)
	if err != nil {
		return nil, err
	}

	return exec, nil
}

// Request returns the normalized request.
func (e *Executor) Request() Request {
	return e.request
}

func (e *Executor) normalizeRequest(request Request) (Request, error) {
	if request.URL == "" {
		return Request{}, fmt.Errorf("%w: request URL is required", ErrInvalidRequest)
	}

	if request.Method == "" {
		request.Method = http.MethodGet
	}

	request.Method = strings.ToUpper(request.Method)
	if !isSupportedMethod(request.Method) {
		return Request{}, fmt.Errorf("%w: %s", ErrUnsupportedMethod, request.Method)
	}

	if request.Timeout <= 0 {
		return Request{}, fmt.Errorf("%w: timeout must be > 0", ErrInvalidRequest)
	}

	if e.urlValidator != nil {
		_, err := e.urlValidator.Validate(context.Background(), request.URL)
		if err != nil {
			return Request{}, fmt.Errorf("%w: request URL invalid: %w", ErrInvalidRequest, err)
		}
	}

	// headers and body are resent unchanged on every attempt.
	headers := make(map[string]string, len(request.Headers))
	for key, value := range request.Headers {
		headers[key] = value
	}

	request.Headers = headers

	if request.Method != http.MethodPost {
		request.Body = nil
	}

	return request, nil
}

// Execute runs up to MaxAttempts calls against the target and never fails:
// every error is folded into the returned Outcome.
func (e *Executor) Execute(ctx context.Context) Outcome {
	outcome := Outcome{StartedAt: time.Now()}

	client := e.newClient()
	defer client.CloseIdleConnections()

	last, errs := keepalive.DoWithResult(ctx, e.retrier, func(ctx context.Context, attempt int) (AttemptResult, error) {
		outcome.Attempts = attempt
		result := e.attempt(ctx, client, attempt)

		return result, result.Err
	})

	outcome.FinishedAt = time.Now()
	outcome.StatusCode = last.StatusCode
	outcome.Bytes = last.Bytes
	outcome.Err = errs.Last
	outcome.Success = errs.Last == nil

	e.logOutcome(ctx, outcome)

	return outcome
}

func (e *Executor) attempt(ctx context.Context, client *http.Client, attempt int) AttemptResult {
	result := AttemptResult{Attempt: attempt}
	startedAt := time.Now()

	e.logger.InfoContext(ctx, "attempt",
		slog.Int("attempt", attempt),
		slog.String("method", e.request.Method),
		slog.String("url", e.request.URL),
		slog.String("timestamp", startedAt.UTC().Format(time.RFC3339Nano)),
	)

	reqCtx, cancel := context.WithTimeout(ctx, e.request.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, e.request.Method, e.request.URL, e.body())
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		result.Duration = time.Since(startedAt)

		return result
	}

	for key, value := range e.request.Headers {
		req.Header.Set(key, value)
	}

	if len(e.request.Body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType(e.request.Body))
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrTransport, err)
		result.Duration = time.Since(startedAt)
		e.logFailure(ctx, result)

		return result
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			e.logger.DebugContext(ctx, "response body close failed", slog.Any("error", closeErr))
		}
	}()

	result.StatusCode = resp.StatusCode

	result.Bytes, err = io.Copy(io.Discard, resp.Body)
	result.Duration = time.Since(startedAt)

	if err != nil {
		result.Err = fmt.Errorf("%w: reading body: %w", ErrTransport, err)
		e.logFailure(ctx, result)

		return result
	}

	e.logger.InfoContext(ctx, "response",
		slog.Int("attempt", attempt),
		slog.Int("status", resp.StatusCode),
		slog.Int64("bytes", result.Bytes),
		slog.Duration("duration", result.Duration),
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		result.Err = fmt.Errorf("%w: status %d", ErrServerStatus, resp.StatusCode)
		e.logFailure(ctx, result)
	}

	return result
}

func (e *Executor) body() io.Reader {
	if len(e.request.Body) == 0 {
		return nil
	}

	return bytes.NewReader(e.request.Body)
}

func (e *Executor) logFailure(ctx context.Context, result AttemptResult) {
	if ctx.Err() != nil {
		e.logger.InfoContext(ctx, "request interrupted", slog.Int("attempt", result.Attempt), slog.Any("error", result.Err))

		return
	}

	e.logger.WarnContext(ctx, "request failed", slog.Int("attempt", result.Attempt), slog.Any("error", result.Err))

	if result.Attempt < e.retrier.MaxAttempts {
		e.logger.InfoContext(ctx, "waiting before next attempt",
			slog.Int("next_attempt", result.Attempt+1),
			slog.Duration("wait", e.retrier.Backoff(result.Attempt)),
		)
	}
}

func (e *Executor) logOutcome(ctx context.Context, outcome Outcome) {
	switch {
	case outcome.Success:
		e.logger.DebugContext(ctx, "sequence succeeded",
			slog.Int("attempts", outcome.Attempts),
			slog.Duration("duration", outcome.Duration()),
		)
	case ctx.Err() != nil:
		e.logger.InfoContext(ctx, "sequence interrupted", slog.Int("attempts", outcome.Attempts))
	case errors.Is(outcome.Err, keepalive.ErrMaxAttemptsReached):
		e.logger.ErrorContext(ctx, "maximum attempts reached, skipping",
			slog.Int("attempts", outcome.Attempts),
			slog.Any("error", outcome.Err),
		)
	default:
		e.logger.ErrorContext(ctx, "sequence failed",
			slog.Int("attempts", outcome.Attempts),
			slog.Any("error", outcome.Err),
		)
	}
}

func newSessionClient() *http.Client {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return &http.Client{}
	}

	return &http.Client{Transport: transport.Clone()}
}

func contentType(body []byte) string {
	if json.Valid(body) {
		return "application/json"
	}

	return "text/plain; charset=utf-8"
}

func isSupportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost:
		return true
	default:
		return false
	}
}
