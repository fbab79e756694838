// Package metrics defines the custom Prometheus metrics of the agency API.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; echoprometheus serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agency"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts admin login attempts.
// Label:
//   - result: "success", "invalid", "unknown_user", "forbidden" or "bad_password"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests refused by a rate limiter.
// Label:
//   - scope: "login" or "contact"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests refused by a rate limiter.",
	},
	[]string{"scope"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// UploadsTotal counts uploaded image files.
// Label:
//   - result: "stored", "rejected" (validation) or "failed" (storage)
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image uploads, by result.",
	},
	[]string{"result"},
)

// ContactMessagesTotal counts contact messages stored from the public form.
var ContactMessagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_messages_total",
		Help:      "Total number of contact messages received.",
	},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailSentTotal counts emails handed to the SMTP server.
// Label:
//   - category: the email category (e.g. "contact_notification")
var MailSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of emails delivered to the SMTP server.",
	},
	[]string{"category"},
)

// MailFailuresTotal counts emails that could not be delivered or queued.
// Labels:
//   - category: the email category
//   - reason: "send" or "queue_full"
var MailFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_failures_total",
		Help:      "Total number of emails that were dropped or failed to send.",
	},
	[]string{"category", "reason"},
)

// MailQueueDepth tracks the number of emails waiting for a worker.
var MailQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in the mail dispatcher.",
	},
)
