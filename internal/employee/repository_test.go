// internal/employee/repository_test.go
package employee

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

var employeeRowColumns = []string{
	"id", "full_name", "card_number", "job_title", "department", "manager", "status",
	"legalization", "nationality", "locker_number", "dept_locker_number", "seal_number",
	"hire_date", "termination_date", "contract_end_date", "next_appointment",
	"last_fingerprint_notice", "last_activity",
}

func createTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db, logger.NewTestLogger(t)), mock, db
}

func employeeRow(id, name, status, hireDate, contractEnd string) []driver.Value {
	return []driver.Value{
		id, name, "", "", "", "", status,
		"none", "", "", "", "",
		hireDate, nil, contractEnd, nil,
		nil, nil,
	}
}

// ==========================
// List Tests
// ==========================

func TestRepository_List(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	rows := sqlmock.NewRows(employeeRowColumns).
		AddRow(employeeRow("emp-1", "Anna Kowalska", "active", "2024-01-15", "2026-01-14")...).
		AddRow(employeeRow("emp-2", "Piotr Nowak", "active", "2023-06-01", "")...)

	mock.ExpectQuery("SELECT (.+) FROM employees").
		WithArgs("active").
		WillReturnRows(rows)

	employees, issues, err := repo.List(context.Background(), StatusActive)
	require.NoError(t, err)
	assert.Empty(t, issues)

	require.Len(t, employees, 2)
	assert.Equal(t, "emp-1", employees[0].ID)
	require.NotNil(t, employees[0].HireDate)
	assert.Equal(t, "2024-01-15", FormatDate(*employees[0].HireDate))
	require.NotNil(t, employees[0].ContractEndDate)
	assert.Nil(t, employees[1].ContractEndDate) // empty string stays nil, no issue
}

func TestRepository_List_MalformedDateBecomesFieldIssue(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	rows := sqlmock.NewRows(employeeRowColumns).
		AddRow(employeeRow("emp-1", "Anna Kowalska", "active", "15/01/2024", "2026-01-14")...)

	mock.ExpectQuery("SELECT (.+) FROM employees").
		WillReturnRows(rows)

	employees, issues, err := repo.List(context.Background(), "")
	require.NoError(t, err)

	// The row survives with the bad field nil; the issue is reported alongside.
	require.Len(t, employees, 1)
	assert.Nil(t, employees[0].HireDate)
	assert.NotNil(t, employees[0].ContractEndDate)

	require.Len(t, issues, 1)
	assert.Equal(t, "emp-1", issues[0].EmployeeID)
	assert.Equal(t, "hireDate", issues[0].Field)
	assert.Equal(t, "15/01/2024", issues[0].Value)
}

func TestRepository_List_QueryError(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM employees").
		WillReturnError(errors.New("connection refused"))

	_, _, err := repo.List(context.Background(), StatusActive)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeStoreQueryFailed, stderrors.CodeOf(err))
}

// ==========================
// Get Tests
// ==========================

func TestRepository_Get(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	rows := sqlmock.NewRows(employeeRowColumns).
		AddRow(employeeRow("emp-1", "Anna Kowalska", "active", "2024-01-15", "")...)

	mock.ExpectQuery("SELECT (.+) FROM employees WHERE id").
		WithArgs("emp-1").
		WillReturnRows(rows)

	emp, issues, err := repo.Get(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, "Anna Kowalska", emp.FullName)
	assert.Equal(t, StatusActive, emp.Status)
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM employees WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))

	_, _, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeEmployeeNotFound, stderrors.CodeOf(err))
}

// ==========================
// Create Tests
// ==========================

func TestRepository_Create(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO employees").
		WillReturnResult(sqlmock.NewResult(1, 1))

	emp := &Employee{FullName: "Anna Kowalska"}
	id, err := repo.Create(context.Background(), emp)
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Equal(t, StatusActive, emp.Status)
	assert.Equal(t, LegalizationNone, emp.Legalization)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_KeepsProvidedID(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO employees").
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Create(context.Background(), &Employee{ID: "emp-42", FullName: "Piotr Nowak"})
	require.NoError(t, err)
	assert.Equal(t, "emp-42", id)
}

// ==========================
// Update Tests
// ==========================

func TestRepository_Update(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	// Fields are applied in sorted order; last_activity is always bumped.
	mock.ExpectExec(`UPDATE employees SET department = \$1, legalization = \$2, last_activity = NOW\(\) WHERE id = \$3`).
		WithArgs("Logistics", "visa", "emp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "emp-1", map[string]interface{}{
		"legalization": "visa",
		"department":   "Logistics",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_UnknownFieldRejected(t *testing.T) {
	repo, _, db := createTestRepository(t)
	defer db.Close()

	err := repo.Update(context.Background(), "emp-1", map[string]interface{}{
		"salary": 5000,
	})
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeEmployeeValidationFailed, stderrors.CodeOf(err))
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	mock.ExpectExec("UPDATE employees SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), "missing", map[string]interface{}{
		"department": "Logistics",
	})
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeEmployeeNotFound, stderrors.CodeOf(err))
}

func TestRepository_Update_EmptyPatchIsNoOp(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	err := repo.Update(context.Background(), "emp-1", map[string]interface{}{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Delete Tests
// ==========================

func TestRepository_Delete(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM employees WHERE id").
		WithArgs("emp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "emp-1"))
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM employees WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeEmployeeNotFound, stderrors.CodeOf(err))
}

// ==========================
// Bookkeeping Tests
// ==========================

func TestRepository_MarkFingerprintNotice(t *testing.T) {
	repo, mock, db := createTestRepository(t)
	defer db.Close()

	appointment, err := ParseDate("2025-03-15")
	require.NoError(t, err)

	mock.ExpectExec("UPDATE employees SET last_fingerprint_notice").
		WithArgs("2025-03-15", "emp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFingerprintNotice(context.Background(), "emp-1", appointment))
	assert.NoError(t, mock.ExpectationsWereMet())
}
