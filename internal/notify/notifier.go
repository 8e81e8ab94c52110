package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderSignature = "X-Folio-Signature"
	HeaderTimestamp = "X-Folio-Timestamp"
	HeaderEvent     = "X-Folio-Event"

	EventContactReceived = "contact.received"
)

// ErrNoEndpoint is returned by Send when no endpoint is configured.
var ErrNoEndpoint = errors.New("notification endpoint is not configured")

type Config struct {
	Endpoint       string
	SigningSecret  string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Notifier posts signed JSON events to a single configured endpoint.
type Notifier struct {
	httpClient     *http.Client
	endpoint       string
	signingSecret  string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	now            func() time.Time
}

func New(cfg Config) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	initialBackoff := cfg.InitialBackoff
	if initialBackoff <= 0 {
		initialBackoff = 1 * time.Second
	}

	maxBackoff := cfg.MaxBackoff
	if maxBackoff < initialBackoff {
		maxBackoff = initialBackoff
	}

	return &Notifier{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint:       strings.TrimSpace(cfg.Endpoint),
		signingSecret:  cfg.SigningSecret,
		maxAttempts:    maxAttempts,
		initialBackoff: initialBackoff,
		maxBackoff:     maxBackoff,
		now:            time.Now,
	}
}

func (n *Notifier) Enabled() bool {
	return n.endpoint != ""
}

func (n *Notifier) Send(ctx context.Context, event string, payload any) error {
	if !n.Enabled() {
		return ErrNoEndpoint
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	timestamp := strconv.FormatInt(n.now().UTC().Unix(), 10)
	signature := Sign(n.signingSecret, timestamp, body)

	backoff := n.initialBackoff
	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build notification request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderTimestamp, timestamp)
		req.Header.Set(HeaderSignature, signature)
		req.Header.Set(HeaderEvent, event)

		resp, err := n.httpClient.Do(req)
		if err == nil && resp != nil {
			resp.Body.Close()
		}

		if err == nil && resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		lastErr = classifyError(err, resp)
		if attempt == n.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, n.maxBackoff)
	}

	return fmt.Errorf("notification delivery failed after %d attempts: %w", n.maxAttempts, lastErr)
}

// Sign computes the signature header value over "timestamp.body".
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func classifyError(err error, resp *http.Response) error {
	if err != nil {
		return err
	}
	if resp == nil {
		return fmt.Errorf("notification request failed: no response")
	}
	return fmt.Errorf("notification endpoint returned status=%d", resp.StatusCode)
}
