package middleware

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"macrofeed/appctx"
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	postWebhook   func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // same error alerts at most once per 10min
		postWebhook:   slack.PostWebhookContext,
	}
}

// HTTPMiddleware recovers handler panics, answers 500 and raises an alert
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			alertContext := fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
			if requestID, ok := appctx.GetRequestID(r.Context()); ok {
				alertContext = fmt.Sprintf("%s (%s)", alertContext, requestID)
			}
			errorMsg := fmt.Sprintf("%s: PANIC - %v", alertContext, rec)
			log.Printf("❌ %s", errorMsg)
			m.alert(errorMsg, alertContext+" (PANIC)")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			if err := json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"}); err != nil {
				log.Printf("❌ Failed to encode error response: %v", err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// AlertOnError reports a non-panic failure, e.g. an internal fault surfaced by a handler
func (m *ErrorAlertMiddleware) AlertOnError(err error, alertContext string) {
	m.alert(fmt.Sprintf("%s: %v", alertContext, err), alertContext)
}

// WrapBackgroundTask reports failures of work running outside a request
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() (err error) {
		alertContext := fmt.Sprintf("Background task: %s", taskName)
		defer func() {
			if rec := recover(); rec != nil {
				errorMsg := fmt.Sprintf("%s: PANIC - %v", alertContext, rec)
				log.Printf("❌ %s", errorMsg)
				m.alert(errorMsg, alertContext+" (PANIC)")
				err = fmt.Errorf("panic in %s: %v", taskName, rec)
			}
		}()

		if err := task(); err != nil {
			m.AlertOnError(err, alertContext)
			return err
		}
		return nil
	}
}

func (m *ErrorAlertMiddleware) alert(errorMsg, alertContext string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		return
	}
	m.alertedErrors[hash] = time.Now()

	go m.sendSlackAlert(errorMsg, alertContext)
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, alertContext string) {
	envTag := ""
	if m.config.Environment == "dev" {
		envTag = "[dev] "
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType,
			fmt.Sprintf("🚨 %s[%s] Error Alert", envTag, m.config.AppName),
			true,
			false,
		)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", alertContext), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil,
			nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil,
			nil,
		))
	}

	msg := &slack.WebhookMessage{
		Text:   fmt.Sprintf("%s error alert: %s", m.config.AppName, errorMsg),
		Blocks: &slack.Blocks{BlockSet: blocks},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.postWebhook(ctx, m.config.WebhookURL, msg); err != nil {
		log.Printf("❌ Failed to send Slack alert: %v", err)
	}
}
