// internal/notify/sink.go
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hol-manager/internal/checks"
	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
	"hol-manager/internal/employee"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SESService is the slice of the SES client the sink uses. Interface kept
// narrow for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Config holds sink settings.
type Config struct {
	EmailEnabled bool
	FromEmail    string
	HRInbox      string
	DedupTTL     time.Duration
}

// Notification is a persisted in-app inbox entry.
type Notification struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	EmployeeID    string    `json:"employeeId"`
	Message       string    `json:"message"`
	DaysRemaining int       `json:"daysRemaining"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Sink is the notification sink: an in-app inbox backed by Postgres, dedup
// keyed by (kind, employee, date) in Redis, and outbound email via SES.
type Sink struct {
	db     *sql.DB
	rdb    *redis.Client
	ses    SESService
	config Config
	logger logger.Logger
	now    func() time.Time
}

func NewSink(db *sql.DB, rdb *redis.Client, sesClient SESService, config Config, log logger.Logger) *Sink {
	if config.DedupTTL == 0 {
		config.DedupTTL = 48 * time.Hour
	}
	return &Sink{
		db:     db,
		rdb:    rdb,
		ses:    sesClient,
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "notification-sink"}),
		now:    time.Now,
	}
}

// WithClock overrides the sink's clock. Test hook.
func (s *Sink) WithClock(now func() time.Time) *Sink {
	s.now = now
	return s
}

// CreateNotification writes an inbox entry unless an identical one (same
// kind, employee and calendar date) was already created. Returns false with
// a nil error for a suppressed duplicate.
func (s *Sink) CreateNotification(ctx context.Context, intent checks.Intent) (bool, error) {
	day := employee.FormatDate(s.now())
	dedupKey := fmt.Sprintf("notif:%s:%s:%s", intent.Kind, intent.EmployeeID, day)

	acquired, err := s.rdb.SetNX(ctx, dedupKey, 1, s.config.DedupTTL).Result()
	if err != nil {
		return false, stderrors.NewNotificationCreateFailedError(string(intent.Kind), err)
	}
	if !acquired {
		s.logger.Debug("duplicate notification suppressed", map[string]interface{}{
			"key": dedupKey,
		})
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, kind, employee_id, message, days_remaining, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), string(intent.Kind), intent.EmployeeID,
		intent.Message, intent.DaysRemaining, s.now().UTC(),
	)
	if err != nil {
		// The dedup key stays; a later retry within the TTL is suppressed.
		// Accepted: losing a notification beats double-notifying HR staff.
		return false, stderrors.NewNotificationCreateFailedError(string(intent.Kind), err)
	}

	return true, nil
}

// SendEmail delivers an HTML email to the HR inbox via SES. A disabled email
// channel is a silent no-op.
func (s *Sink) SendEmail(ctx context.Context, subject, htmlBody string) error {
	if !s.config.EmailEnabled {
		s.logger.Debug("email channel disabled, skipping", map[string]interface{}{
			"subject": subject,
		})
		return nil
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.config.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{s.config.HRInbox},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.ses.SendEmail(ctx, input); err != nil {
		return stderrors.NewEmailSendFailedError(err)
	}

	s.logger.Info("email sent", map[string]interface{}{
		"to":      s.config.HRInbox,
		"subject": subject,
	})
	return nil
}

// List returns the newest inbox entries, up to limit.
func (s *Sink) List(ctx context.Context, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, employee_id, message, days_remaining, created_at
		FROM notifications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Kind, &n.EmployeeID, &n.Message, &n.DaysRemaining, &n.CreatedAt); err != nil {
			return nil, stderrors.NewStoreQueryFailedError(err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
