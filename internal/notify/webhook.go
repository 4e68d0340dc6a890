package notify

import (
	"context"
	"time"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/config"
	"github.com/Reathyze20/akcion/pkg/httputil"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// webhookPayload is the JSON body posted to each configured endpoint.
type webhookPayload struct {
	Event     string               `json:"event"`
	Alert     contracts.DriftAlert `json:"alert"`
	Timestamp time.Time            `json:"timestamp"`
}

// Notifier fans drift alerts out to configured webhook URLs. Delivery is
// asynchronous and best-effort: a dead endpoint never blocks or fails
// the merge that produced the alert.
type Notifier struct {
	client  *httputil.Client
	urls    []string
	timeout time.Duration
	logger  *logger.Logger
}

// NewNotifier creates a webhook notifier.
func NewNotifier(cfg config.NotifyConfig, client *httputil.Client, log *logger.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		client:  client,
		urls:    cfg.WebhookURLs,
		timeout: timeout,
		logger:  log.Component("notify.webhook"),
	}
}

// Publish delivers one alert to every endpoint. Implements the drift
// monitor's AlertSink.
func (n *Notifier) Publish(alert contracts.DriftAlert) {
	if len(n.urls) == 0 {
		return
	}

	payload := webhookPayload{
		Event:     "drift_alert",
		Alert:     alert,
		Timestamp: time.Now().UTC(),
	}

	for _, url := range n.urls {
		go n.deliver(url, payload)
	}
}

func (n *Notifier) deliver(url string, payload webhookPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	resp, err := n.client.PostJSON(ctx, url, payload)
	if err != nil {
		n.logger.WithError(err).WithField("url", url).Warn("Webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.logger.WithFields(map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
			"ticker": payload.Alert.Ticker,
		}).Warn("Webhook endpoint rejected alert")
		return
	}

	n.logger.WithFields(map[string]interface{}{
		"url":      url,
		"ticker":   payload.Alert.Ticker,
		"severity": payload.Alert.Severity,
	}).Debug("Webhook delivered")
}
