// internal/notify/sink_test.go
package notify

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hol-manager/internal/checks"
	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
	"hol-manager/internal/employee"
)

// ==========================
// Test Doubles
// ==========================

type mockSES struct {
	sendErr error
	inputs  []*ses.SendEmailInput
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return &ses.SendEmailOutput{}, nil
}

// ==========================
// Test Helper Functions
// ==========================

func sinkClock() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func createTestSink(t *testing.T, db *sql.DB, sesMock SESService, emailEnabled bool) (*Sink, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sink := NewSink(db, rdb, sesMock, Config{
		EmailEnabled: emailEnabled,
		FromEmail:    "no-reply@example.com",
		HRInbox:      "hr@example.com",
		DedupTTL:     48 * time.Hour,
	}, logger.NewTestLogger(t)).WithClock(sinkClock)

	return sink, mr
}

func testIntent() checks.Intent {
	return checks.Intent{
		Kind:          checks.KindFingerprintReminder,
		EmployeeID:    "emp-1",
		EmployeeName:  "Anna Kowalska",
		Message:       "Anna Kowalska has a fingerprint appointment on 2025-03-15 (in 5 days)",
		DaysRemaining: 5,
	}
}

// ==========================
// CreateNotification Tests
// ==========================

func TestSink_CreateNotification_Success(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "fingerprint-reminder", "emp-1", sqlmock.AnyArg(), 5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sink, mr := createTestSink(t, db, &mockSES{}, false)

	created, err := sink.CreateNotification(context.Background(), testIntent())
	require.NoError(t, err)
	assert.True(t, created)

	// Dedup key is set with the configured TTL.
	key := "notif:fingerprint-reminder:emp-1:2025-03-10"
	assert.True(t, mr.Exists(key))
	ttl := mr.TTL(key)
	assert.Equal(t, 48*time.Hour, ttl)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSink_CreateNotification_DuplicateSuppressed(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sink, _ := createTestSink(t, db, &mockSES{}, false)

	created, err := sink.CreateNotification(context.Background(), testIntent())
	require.NoError(t, err)
	assert.True(t, created)

	// Second delivery of the same intent on the same day is a silent no-op.
	created, err = sink.CreateNotification(context.Background(), testIntent())
	require.NoError(t, err)
	assert.False(t, created)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSink_CreateNotification_DifferentKindNotDeduplicated(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec("INSERT INTO notifications").WillReturnResult(sqlmock.NewResult(0, 1))

	sink, _ := createTestSink(t, db, &mockSES{}, false)

	created, err := sink.CreateNotification(context.Background(), testIntent())
	require.NoError(t, err)
	assert.True(t, created)

	contract := testIntent()
	contract.Kind = checks.KindContractExpiring
	created, err = sink.CreateNotification(context.Background(), contract)
	require.NoError(t, err)
	assert.True(t, created)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSink_CreateNotification_InsertFailure(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectExec("INSERT INTO notifications").
		WillReturnError(errors.New("connection reset"))

	sink, mr := createTestSink(t, db, &mockSES{}, false)

	created, err := sink.CreateNotification(context.Background(), testIntent())
	require.Error(t, err)
	assert.False(t, created)
	assert.Equal(t, stderrors.ErrCodeNotificationCreateFailed, stderrors.CodeOf(err))

	// The dedup key stays claimed; retries inside the TTL are suppressed.
	assert.True(t, mr.Exists("notif:fingerprint-reminder:emp-1:2025-03-10"))
}

func TestSink_CreateNotification_RedisFailure(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sink, mr := createTestSink(t, db, &mockSES{}, false)
	mr.Close()

	created, err := sink.CreateNotification(context.Background(), testIntent())
	require.Error(t, err)
	assert.False(t, created)
	assert.Equal(t, stderrors.ErrCodeNotificationCreateFailed, stderrors.CodeOf(err))
}

// ==========================
// SendEmail Tests
// ==========================

func TestSink_SendEmail_Success(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sesMock := &mockSES{}
	sink, _ := createTestSink(t, db, sesMock, true)

	err = sink.SendEmail(context.Background(), "Fingerprint appointments: 2 upcoming", "<html></html>")
	require.NoError(t, err)

	require.Len(t, sesMock.inputs, 1)
	input := sesMock.inputs[0]
	assert.Equal(t, "no-reply@example.com", *input.Source)
	assert.Equal(t, []string{"hr@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "Fingerprint appointments: 2 upcoming", *input.Message.Subject.Data)
}

func TestSink_SendEmail_Disabled(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sesMock := &mockSES{}
	sink, _ := createTestSink(t, db, sesMock, false)

	err = sink.SendEmail(context.Background(), "subject", "body")
	require.NoError(t, err)
	assert.Empty(t, sesMock.inputs)
}

func TestSink_SendEmail_Failure(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sesMock := &mockSES{sendErr: errors.New("throttled")}
	sink, _ := createTestSink(t, db, sesMock, true)

	err = sink.SendEmail(context.Background(), "subject", "body")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeEmailSendFailed, stderrors.CodeOf(err))
}

// ==========================
// Runner Wiring Tests
// ==========================

type snapshotStore struct {
	employees []employee.Employee
}

func (s *snapshotStore) List(ctx context.Context, statusFilter employee.Status) ([]employee.Employee, []employee.FieldIssue, error) {
	return s.employees, nil, nil
}

func (s *snapshotStore) MarkFingerprintNotice(ctx context.Context, id string, appointment time.Time) error {
	return nil
}

// A run against a disabled email channel must not count any email: the
// runner's flag and the sink's flag come from the same configuration value,
// so a suppressed send never shows up as delivered.
func TestRunner_DisabledEmailChannelCountsNothing(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sesMock := &mockSES{}
	emailEnabled := false
	sink, _ := createTestSink(t, db, sesMock, emailEnabled)

	appointment := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	store := &snapshotStore{employees: []employee.Employee{
		{ID: "emp-1", FullName: "Anna Kowalska", Status: employee.StatusActive, NextAppointment: &appointment},
	}}

	engine := checks.NewEngine(checks.Windows{
		AppointmentLookaheadDays: 7,
		ContractLookaheadDays:    30,
		StalenessThresholdDays:   60,
	})
	runner := checks.NewRunner(engine, store, sink, emailEnabled, logger.NewTestLogger(t)).
		WithClock(sinkClock)

	result := runner.RunChecks(context.Background())

	assert.Equal(t, 1, result.PerKind[checks.KindFingerprintReminder].Created)
	assert.Zero(t, result.EmailsSent)
	assert.Zero(t, result.EmailFailures)
	assert.Empty(t, sesMock.inputs)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// ==========================
// List Tests
// ==========================

func TestSink_List(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "kind", "employee_id", "message", "days_remaining", "created_at"}).
		AddRow("n-2", "contract-expiring", "emp-2", "contract ends soon", 10, createdAt).
		AddRow("n-1", "fingerprint-reminder", "emp-1", "appointment soon", 5, createdAt.Add(-time.Hour))

	dbMock.ExpectQuery("SELECT id, kind, employee_id, message, days_remaining, created_at").
		WithArgs(25).
		WillReturnRows(rows)

	sink, _ := createTestSink(t, db, &mockSES{}, false)

	notifications, err := sink.List(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "n-2", notifications[0].ID)
	assert.Equal(t, "contract-expiring", notifications[0].Kind)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSink_List_DefaultLimit(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectQuery("SELECT id, kind, employee_id, message, days_remaining, created_at").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "employee_id", "message", "days_remaining", "created_at"}))

	sink, _ := createTestSink(t, db, &mockSES{}, false)

	notifications, err := sink.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, notifications)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
