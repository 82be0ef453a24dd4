// internal/employee/repository.go
package employee

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"

	"github.com/google/uuid"
)

// Repository is the live employee record store, backed by Postgres.
//
// Schema (see db/schema.sql): the date-ish columns are text in DateLayout,
// carried over from the realtime-database export these records came from.
// Parsing happens here, at the boundary, so the check engine only ever sees
// typed optional dates.
type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "employee-repository"}),
	}
}

const employeeColumns = `id, full_name, card_number, job_title, department, manager, status,
	legalization, nationality, locker_number, dept_locker_number, seal_number,
	hire_date, termination_date, contract_end_date, next_appointment,
	last_fingerprint_notice, last_activity`

// List returns employees in insertion order, optionally filtered by status.
// Malformed date fields are reported as FieldIssues; the affected rows stay
// in the result with the field nil.
func (r *Repository) List(ctx context.Context, statusFilter Status) ([]Employee, []FieldIssue, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees`, employeeColumns)
	args := []interface{}{}
	if statusFilter != "" {
		query += ` WHERE status = $1`
		args = append(args, string(statusFilter))
	}
	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, stderrors.NewStoreQueryFailedError(err)
	}
	defer rows.Close()

	var employees []Employee
	var issues []FieldIssue
	for rows.Next() {
		emp, rowIssues, err := scanEmployee(rows)
		if err != nil {
			return nil, nil, stderrors.NewStoreQueryFailedError(err)
		}
		employees = append(employees, emp)
		issues = append(issues, rowIssues...)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, stderrors.NewStoreQueryFailedError(err)
	}

	if len(issues) > 0 {
		r.logger.Warn("malformed fields in employee snapshot", map[string]interface{}{
			"count": len(issues),
		})
	}

	return employees, issues, nil
}

// Get fetches a single employee by id.
func (r *Repository) Get(ctx context.Context, id string) (*Employee, []FieldIssue, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	emp, issues, err := scanEmployee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, stderrors.NewEmployeeNotFoundError(id)
		}
		return nil, nil, stderrors.NewStoreQueryFailedError(err)
	}
	return &emp, issues, nil
}

// Create inserts a new employee and returns its assigned id.
func (r *Repository) Create(ctx context.Context, e *Employee) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if e.Legalization == "" {
		e.Legalization = LegalizationNone
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (
			id, full_name, card_number, job_title, department, manager, status,
			legalization, nationality, locker_number, dept_locker_number, seal_number,
			hire_date, termination_date, contract_end_date, next_appointment,
			last_fingerprint_notice, last_activity
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW())`,
		e.ID, e.FullName, e.CardNumber, e.JobTitle, e.Department, e.Manager, string(e.Status),
		string(e.Legalization), e.Nationality, e.LockerNumber, e.DeptLockerNumber, e.SealNumber,
		dateArg(e.HireDate), dateArg(e.TerminationDate), dateArg(e.ContractEndDate),
		dateArg(e.NextAppointment), dateArg(e.LastFingerprintNotice),
	)
	if err != nil {
		return "", stderrors.NewStoreUpdateFailedError(e.ID, err)
	}
	return e.ID, nil
}

// updatableColumns maps patch field names to columns. Dates are patched as
// strings in DateLayout; an empty string clears the field.
var updatableColumns = map[string]string{
	"fullName":         "full_name",
	"cardNumber":       "card_number",
	"jobTitle":         "job_title",
	"department":       "department",
	"manager":          "manager",
	"status":           "status",
	"legalization":     "legalization",
	"nationality":      "nationality",
	"lockerNumber":     "locker_number",
	"deptLockerNumber": "dept_locker_number",
	"sealNumber":       "seal_number",
	"hireDate":         "hire_date",
	"terminationDate":  "termination_date",
	"contractEndDate":  "contract_end_date",
	"nextAppointment":  "next_appointment",
}

// Update applies a partial-fields patch and bumps last_activity. Unknown
// fields are rejected before anything is written.
func (r *Repository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}

	fields := make([]string, 0, len(patch))
	for field := range patch {
		if _, ok := updatableColumns[field]; !ok {
			return stderrors.NewEmployeeValidationFailedError(fmt.Sprintf("unknown field: %s", field))
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	for i, field := range fields {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", updatableColumns[field], i+1))
		args = append(args, patch[field])
	}
	setClauses = append(setClauses, "last_activity = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return stderrors.NewStoreUpdateFailedError(id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return stderrors.NewEmployeeNotFoundError(id)
	}
	return nil
}

// Delete removes an employee from the live store.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return stderrors.NewStoreDeleteFailedError(id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return stderrors.NewEmployeeNotFoundError(id)
	}
	return nil
}

// MarkFingerprintNotice records the appointment date an employee was just
// reminded about, so the next run skips the same date.
func (r *Repository) MarkFingerprintNotice(ctx context.Context, id string, appointment time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE employees SET last_fingerprint_notice = $1 WHERE id = $2`,
		FormatDate(appointment), id,
	)
	if err != nil {
		return stderrors.NewStoreUpdateFailedError(id, err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(s scanner) (Employee, []FieldIssue, error) {
	var (
		e                     Employee
		status, legalization  string
		hireDate, termDate    sql.NullString
		contractEnd, nextAppt sql.NullString
		lastNotice            sql.NullString
		lastActivity          sql.NullTime
	)

	err := s.Scan(
		&e.ID, &e.FullName, &e.CardNumber, &e.JobTitle, &e.Department, &e.Manager, &status,
		&legalization, &e.Nationality, &e.LockerNumber, &e.DeptLockerNumber, &e.SealNumber,
		&hireDate, &termDate, &contractEnd, &nextAppt,
		&lastNotice, &lastActivity,
	)
	if err != nil {
		return Employee{}, nil, err
	}

	e.Status = Status(status)
	e.Legalization = Legalization(legalization)
	if lastActivity.Valid {
		t := lastActivity.Time
		e.LastActivity = &t
	}

	var issues []FieldIssue
	e.HireDate = parseDateField(e.ID, "hireDate", hireDate, &issues)
	e.TerminationDate = parseDateField(e.ID, "terminationDate", termDate, &issues)
	e.ContractEndDate = parseDateField(e.ID, "contractEndDate", contractEnd, &issues)
	e.NextAppointment = parseDateField(e.ID, "nextAppointment", nextAppt, &issues)
	e.LastFingerprintNotice = parseDateField(e.ID, "lastFingerprintNotice", lastNotice, &issues)

	return e, issues, nil
}

func parseDateField(id, field string, v sql.NullString, issues *[]FieldIssue) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := ParseDate(v.String)
	if err != nil {
		*issues = append(*issues, FieldIssue{
			EmployeeID: id,
			Field:      field,
			Value:      v.String,
			Reason:     "unparseable date",
		})
		return nil
	}
	return &t
}

func dateArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatDate(*t)
}
