// internal/checks/runner.go
package checks

import (
	"context"
	"fmt"
	"time"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
	"hol-manager/internal/common/metrics"
	"hol-manager/internal/employee"
)

// Store is the slice of the employee record store the runner needs.
type Store interface {
	List(ctx context.Context, statusFilter employee.Status) ([]employee.Employee, []employee.FieldIssue, error)
	MarkFingerprintNotice(ctx context.Context, id string, appointment time.Time) error
}

// Sink delivers notification intents. CreateNotification returns false when
// the sink deduplicated the intent; dedup lives entirely in the sink.
type Sink interface {
	CreateNotification(ctx context.Context, intent Intent) (created bool, err error)
	SendEmail(ctx context.Context, subject, htmlBody string) error
}

// KindCounts aggregates delivery outcomes for one check kind.
type KindCounts struct {
	Intents      int `json:"intents"`
	Created      int `json:"created"`
	Deduplicated int `json:"deduplicated"`
	Failed       int `json:"failed"`
}

// CheckRunResult is what a run reports back to its trigger. It is returned
// even when everything inside failed; the runner never raises past its own
// boundary.
type CheckRunResult struct {
	RanAt         time.Time           `json:"ranAt"`
	PerKind       map[Kind]KindCounts `json:"perKind"`
	EmailsSent    int                 `json:"emailsSent"`
	EmailFailures int                 `json:"emailFailures"`
	Diagnostics   int                 `json:"diagnostics"`
	StoreError    string              `json:"storeError,omitempty"`
	Digest        string              `json:"digest,omitempty"`
}

// Runner sequences the check engine's sub-checks over a single snapshot and
// pushes the resulting intents through the sink.
type Runner struct {
	engine       *Engine
	store        Store
	sink         Sink
	emailEnabled bool
	logger       logger.Logger
	now          func() time.Time
}

func NewRunner(engine *Engine, store Store, sink Sink, emailEnabled bool, log logger.Logger) *Runner {
	return &Runner{
		engine:       engine,
		store:        store,
		sink:         sink,
		emailEnabled: emailEnabled,
		logger:       log.WithFields(map[string]interface{}{"component": "check-runner"}),
		now:          time.Now,
	}
}

// WithClock overrides the runner's clock. Test hook.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// emailKinds are the check kinds urgent enough to email the HR inbox; idle
// flags stay inbox-only.
var emailKinds = map[Kind]bool{
	KindFingerprintReminder: true,
	KindContractExpiring:    true,
}

// RunChecks fetches one snapshot, runs every check against it, and delivers
// the intents. Each intent's delivery is isolated: a sink failure is counted
// and the run moves on. RunChecks always returns a result, never an error.
func (r *Runner) RunChecks(ctx context.Context) *CheckRunResult {
	ranAt := r.now()
	result := &CheckRunResult{
		RanAt:   ranAt,
		PerKind: make(map[Kind]KindCounts, len(Kinds)),
	}
	for _, kind := range Kinds {
		result.PerKind[kind] = KindCounts{}
	}

	employees, issues, err := r.store.List(ctx, employee.StatusActive)
	if err != nil {
		r.logger.Error("employee snapshot fetch failed", map[string]interface{}{
			"error": err.Error(),
			"code":  string(stderrors.CodeOf(err)),
		})
		result.StoreError = err.Error()
		return result
	}
	result.Diagnostics = len(issues)
	for _, issue := range issues {
		r.logger.Warn("skipping malformed field", map[string]interface{}{
			"employeeId": issue.EmployeeID,
			"field":      issue.Field,
			"reason":     issue.Reason,
		})
	}

	report := r.engine.Run(employees, ranAt)
	result.Digest = report.Digest

	byKind := make(map[Kind][]Intent)
	for _, intent := range report.Intents {
		byKind[intent.Kind] = append(byKind[intent.Kind], intent)
		metrics.IntentsEmitted.WithLabelValues(string(intent.Kind)).Inc()
	}

	appointments := appointmentsByEmployee(employees)

	for _, kind := range Kinds {
		counts := KindCounts{Intents: len(byKind[kind])}
		for _, intent := range byKind[kind] {
			created, err := r.sink.CreateNotification(ctx, intent)
			switch {
			case err != nil:
				counts.Failed++
				code := stderrors.CodeOf(err)
				metrics.NotificationsFailed.WithLabelValues(string(kind), string(code)).Inc()
				r.logger.Error("notification delivery failed", map[string]interface{}{
					"kind":       string(kind),
					"employeeId": intent.EmployeeID,
					"error":      err.Error(),
					"category":   stderrors.GetErrorCategory(code),
					"retryable":  stderrors.IsRetryable(err),
				})
			case created:
				counts.Created++
				metrics.NotificationsCreated.WithLabelValues(string(kind)).Inc()
				if kind == KindFingerprintReminder {
					r.markNotified(ctx, intent, appointments)
				}
			default:
				counts.Deduplicated++
				metrics.NotificationsDeduplicated.WithLabelValues(string(kind)).Inc()
			}
		}
		result.PerKind[kind] = counts
	}

	r.sendDigestEmails(ctx, byKind, result)

	r.logger.Info("check run completed", map[string]interface{}{
		"ranAt":         ranAt.Format(time.RFC3339),
		"intents":       len(report.Intents),
		"emailsSent":    result.EmailsSent,
		"emailFailures": result.EmailFailures,
		"diagnostics":   result.Diagnostics,
	})

	return result
}

// markNotified records which appointment date a reminder covered so the next
// run skips it. A bookkeeping failure is logged only; the notification is
// already committed.
func (r *Runner) markNotified(ctx context.Context, intent Intent, appointments map[string]time.Time) {
	appointment, ok := appointments[intent.EmployeeID]
	if !ok {
		return
	}
	if err := r.store.MarkFingerprintNotice(ctx, intent.EmployeeID, appointment); err != nil {
		r.logger.Warn("fingerprint notice bookkeeping failed", map[string]interface{}{
			"employeeId": intent.EmployeeID,
			"error":      err.Error(),
		})
	}
}

func (r *Runner) sendDigestEmails(ctx context.Context, byKind map[Kind][]Intent, result *CheckRunResult) {
	if !r.emailEnabled {
		return
	}

	for _, kind := range Kinds {
		if !emailKinds[kind] || len(byKind[kind]) == 0 {
			continue
		}
		subject, body := renderDigestEmail(kind, byKind[kind])
		if err := r.sink.SendEmail(ctx, subject, body); err != nil {
			result.EmailFailures++
			metrics.EmailsFailed.Inc()
			r.logger.Error("digest email failed", map[string]interface{}{
				"kind":  string(kind),
				"error": err.Error(),
			})
			continue
		}
		result.EmailsSent++
		metrics.EmailsSent.Inc()
	}
}

func renderDigestEmail(kind Kind, intents []Intent) (subject, body string) {
	switch kind {
	case KindFingerprintReminder:
		subject = fmt.Sprintf("Fingerprint appointments: %d upcoming", len(intents))
	case KindContractExpiring:
		subject = fmt.Sprintf("Contracts expiring: %d within window", len(intents))
	default:
		subject = fmt.Sprintf("HOL Manager: %d items (%s)", len(intents), kind)
	}

	items := ""
	for _, intent := range intents {
		items += fmt.Sprintf("<li>%s</li>", intent.Message)
	}
	body = fmt.Sprintf("<html><body><p>%s</p><ul>%s</ul></body></html>", subject, items)
	return subject, body
}

func appointmentsByEmployee(employees []employee.Employee) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, emp := range employees {
		if emp.NextAppointment != nil {
			out[emp.ID] = *emp.NextAppointment
		}
	}
	return out
}
