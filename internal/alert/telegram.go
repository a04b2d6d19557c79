package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/biraj16/TPBK-V8/internal/models"
)

// Sender delivers one alert to the outbound channel
type Sender interface {
	Send(ctx context.Context, alert *models.SignalAlert) error
}

// TelegramSender delivers alerts to a Telegram chat via the Bot API with
// bounded retries
type TelegramSender struct {
	botToken string
	chatID   string
	attempts int
	delay    time.Duration
	client   *http.Client

	// baseURL is overridable for tests
	baseURL string
}

// NewTelegramSender creates a new Telegram sender
func NewTelegramSender(botToken, chatID string, attempts int, delay time.Duration) *TelegramSender {
	if attempts <= 0 {
		attempts = 3
	}
	return &TelegramSender{
		botToken: botToken,
		chatID:   chatID,
		attempts: attempts,
		delay:    delay,
		client:   &http.Client{Timeout: 15 * time.Second},
		baseURL:  "https://api.telegram.org",
	}
}

// Send formats and posts one alert, retrying transient failures
func (t *TelegramSender) Send(ctx context.Context, alert *models.SignalAlert) error {
	if t.botToken == "" || t.chatID == "" {
		return fmt.Errorf("telegram sender is not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	payload := map[string]interface{}{
		"chat_id":    t.chatID,
		"text":       FormatMessage(alert),
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram payload: %w", err)
	}

	var lastErr error
	for i := 0; i < t.attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.delay * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build telegram request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := t.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode/100 == 2 {
			return nil
		}
		lastErr = fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("telegram delivery failed after %d attempts: %w", t.attempts, lastErr)
}

// FormatMessage renders the alert text pushed to the chat
func FormatMessage(a *models.SignalAlert) string {
	return fmt.Sprintf(
		"*%s* signal changed: %s → %s\nThesis: %s (confidence %+d)\nLTP: %.2f | In control: %s\n%s",
		a.InstrumentID, a.PreviousSignal, a.NewSignal,
		a.Thesis, a.Confidence,
		a.LTP, a.DominantPlayer,
		a.Narrative,
	)
}
