package adapter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/go-resty/resty/v2"
)

// HTTPClientConfig configures [NewHTTPRemoteStore].
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPRemoteStore is the resty-backed [RemoteStore] implementation speaking
// to the vault sync server.
type HTTPRemoteStore struct {
	client *resty.Client
	// watch has no client-side timeout: subscription responses stream
	// indefinitely.
	watch *resty.Client
	log   *logger.Logger

	mu     sync.RWMutex
	token  string
	userID string
}

// NewHTTPRemoteStore constructs an [HTTPRemoteStore] for the given server.
func NewHTTPRemoteStore(cfg HTTPClientConfig, log *logger.Logger) *HTTPRemoteStore {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPRemoteStore{
		client: resty.New().SetBaseURL(base).SetTimeout(cfg.Timeout),
		watch:  resty.New().SetBaseURL(base),
		log:    log,
	}
}

// SetSession stores the bearer token and its user ID for all subsequent
// calls. Call after a successful token exchange; Clear with empty values on
// sign-out.
func (h *HTTPRemoteStore) SetSession(token, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
	h.userID = userID
}

func (h *HTTPRemoteStore) session() (token, userID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token, h.userID
}

// Write implements [RemoteStore].
func (h *HTTPRemoteStore) Write(ctx context.Context, userID string, record models.WireRecord) error {
	token, sessionUser := h.session()
	if token == "" || userID != sessionUser {
		return ErrUnauthorized
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		Put("/api/vault/" + record.ID)
	if err != nil {
		return fmt.Errorf("%w: write request: %v", ErrRemoteSync, err)
	}
	return mapHTTPError(resp)
}

// Delete implements [RemoteStore].
func (h *HTTPRemoteStore) Delete(ctx context.Context, userID, recordID string) error {
	token, sessionUser := h.session()
	if token == "" || userID != sessionUser {
		return ErrUnauthorized
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete("/api/vault/" + recordID)
	if err != nil {
		return fmt.Errorf("%w: delete request: %v", ErrRemoteSync, err)
	}
	return mapHTTPError(resp)
}

// Subscribe implements [RemoteStore]. It opens the server-sent-events watch
// stream and decodes every event into a full-collection snapshot.
func (h *HTTPRemoteStore) Subscribe(ctx context.Context, userID string) (Subscription, error) {
	token, sessionUser := h.session()
	if token == "" || userID != sessionUser {
		return nil, ErrUnauthorized
	}

	subCtx, cancel := context.WithCancel(ctx)

	resp, err := h.watch.R().
		SetContext(subCtx).
		SetAuthToken(token).
		SetDoNotParseResponse(true).
		Get("/api/vault/watch")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: watch request: %v", ErrRemoteSync, err)
	}
	if resp.StatusCode() != 200 {
		resp.RawBody().Close()
		cancel()
		if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: watch returned %s", ErrRemoteSync, resp.Status())
	}

	sub := &httpSubscription{
		snapshots: make(chan []models.WireRecord),
		cancel:    cancel,
	}
	go sub.pump(subCtx, resp, h.log)

	return sub, nil
}

type httpSubscription struct {
	snapshots chan []models.WireRecord
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

func (s *httpSubscription) Snapshots() <-chan []models.WireRecord {
	return s.snapshots
}

func (s *httpSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *httpSubscription) Close() {
	s.closeOnce.Do(s.cancel)
}

func (s *httpSubscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// pump reads the SSE stream line by line. Events are framed as
// "data: <json>" lines terminated by a blank line; comment lines (leading
// colon) are server heartbeats and are skipped.
func (s *httpSubscription) pump(ctx context.Context, resp *resty.Response, log *logger.Logger) {
	body := resp.RawBody()
	defer body.Close()
	defer close(s.snapshots)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, ":"):
			// heartbeat
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case line == "":
			if data.Len() == 0 {
				continue
			}
			var snapshot []models.WireRecord
			if err := json.Unmarshal([]byte(data.String()), &snapshot); err != nil {
				log.Err(err).Str("func", "*httpSubscription.pump").Msg("dropping undecodable snapshot event")
				data.Reset()
				continue
			}
			data.Reset()

			select {
			case s.snapshots <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
		s.setErr(fmt.Errorf("%w: watch stream: %v", ErrRemoteSync, err))
		return
	}
	// A clean EOF on a standing subscription still means the server went
	// away; only a cancelled context is a deliberate close.
	if ctx.Err() == nil {
		s.setErr(fmt.Errorf("%w: watch stream closed by server", ErrRemoteSync))
	}
}
