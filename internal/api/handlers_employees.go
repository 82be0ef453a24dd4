// internal/api/handlers_employees.go
package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
	"hol-manager/internal/employee"
)

// EmployeeStore is the record store contract the admin handlers consume.
type EmployeeStore interface {
	List(ctx context.Context, statusFilter employee.Status) ([]employee.Employee, []employee.FieldIssue, error)
	Get(ctx context.Context, id string) (*employee.Employee, []employee.FieldIssue, error)
	Create(ctx context.Context, e *employee.Employee) (string, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// Summarizer is the opaque profile-summary capability.
type Summarizer interface {
	Summarize(ctx context.Context, facts map[string]interface{}) (string, error)
}

type EmployeesHandler struct {
	store      EmployeeStore
	summarizer Summarizer
	logger     logger.Logger
}

func NewEmployeesHandler(store EmployeeStore, summarizer Summarizer, log logger.Logger) *EmployeesHandler {
	return &EmployeesHandler{store: store, summarizer: summarizer, logger: log}
}

// List returns all employees, optionally filtered by ?status=.
func (h *EmployeesHandler) List(c *gin.Context) {
	status := employee.Status(c.Query("status"))
	if status != "" && status != employee.StatusActive && status != employee.StatusTerminated {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Invalid status filter", fmt.Sprintf("status: %s", status))
		return
	}

	employees, issues, err := h.store.List(c.Request.Context(), status)
	if err != nil {
		respondStandardError(c, http.StatusInternalServerError, err)
		return
	}
	if employees == nil {
		employees = []employee.Employee{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"employees": employees, "fieldIssues": issues})
}

func (h *EmployeesHandler) Get(c *gin.Context) {
	emp, issues, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if stderrors.CodeOf(err) == stderrors.ErrCodeEmployeeNotFound {
			status = http.StatusNotFound
		}
		respondStandardError(c, status, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"employee": emp, "fieldIssues": issues})
}

// intakePayload is the create DTO; dates travel as DateLayout strings.
type intakePayload struct {
	FullName         string `json:"fullName"`
	CardNumber       string `json:"cardNumber"`
	JobTitle         string `json:"jobTitle"`
	Department       string `json:"department"`
	Manager          string `json:"manager"`
	Status           string `json:"status"`
	Legalization     string `json:"legalization"`
	Nationality      string `json:"nationality"`
	LockerNumber     string `json:"lockerNumber"`
	DeptLockerNumber string `json:"deptLockerNumber"`
	SealNumber       string `json:"sealNumber"`
	HireDate         string `json:"hireDate"`
	TerminationDate  string `json:"terminationDate"`
	ContractEndDate  string `json:"contractEndDate"`
	NextAppointment  string `json:"nextAppointment"`
}

// Create validates the intake payload against the employee schema and the
// record invariants before anything reaches the store.
func (h *EmployeesHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable request body", err.Error())
		return
	}

	problems, err := employee.ValidateIntake(body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid employee payload", err.Error())
		return
	}
	if len(problems) > 0 {
		respondError(c, http.StatusBadRequest, "EMPLOYEE_VALIDATION_FAILED",
			"Employee record validation failed", employee.JoinProblems(problems))
		return
	}

	var payload intakePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid employee payload", err.Error())
		return
	}

	emp := employee.Employee{
		FullName:         payload.FullName,
		CardNumber:       payload.CardNumber,
		JobTitle:         payload.JobTitle,
		Department:       payload.Department,
		Manager:          payload.Manager,
		Status:           employee.Status(payload.Status),
		Legalization:     employee.Legalization(payload.Legalization),
		Nationality:      payload.Nationality,
		LockerNumber:     payload.LockerNumber,
		DeptLockerNumber: payload.DeptLockerNumber,
		SealNumber:       payload.SealNumber,
		HireDate:         parseOptionalDate(payload.HireDate),
		TerminationDate:  parseOptionalDate(payload.TerminationDate),
		ContractEndDate:  parseOptionalDate(payload.ContractEndDate),
		NextAppointment:  parseOptionalDate(payload.NextAppointment),
	}

	if problems := employee.CheckInvariants(&emp); len(problems) > 0 {
		respondError(c, http.StatusBadRequest, "EMPLOYEE_VALIDATION_FAILED",
			"Employee record validation failed", employee.JoinProblems(problems))
		return
	}

	id, err := h.store.Create(c.Request.Context(), &emp)
	if err != nil {
		respondStandardError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"id": id})
}

// Patch applies a partial-fields update. The patched record is rebuilt and
// re-validated field by field, and the record invariants are re-checked,
// before anything reaches the store; the status lifecycle cannot be escaped
// through a patch.
func (h *EmployeesHandler) Patch(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid patch payload", err.Error())
		return
	}

	current, _, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if stderrors.CodeOf(err) == stderrors.ErrCodeEmployeeNotFound {
			status = http.StatusNotFound
		}
		respondStandardError(c, status, err)
		return
	}

	patched, problems := employee.ApplyPatch(*current, patch)
	if len(problems) == 0 {
		problems = employee.CheckInvariants(&patched)
	}
	if len(problems) > 0 {
		respondError(c, http.StatusBadRequest, "EMPLOYEE_VALIDATION_FAILED",
			"Employee record validation failed", employee.JoinProblems(problems))
		return
	}

	err = h.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		status := http.StatusInternalServerError
		switch stderrors.CodeOf(err) {
		case stderrors.ErrCodeEmployeeNotFound:
			status = http.StatusNotFound
		case stderrors.ErrCodeEmployeeValidationFailed:
			status = http.StatusBadRequest
		}
		respondStandardError(c, status, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *EmployeesHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		status := http.StatusInternalServerError
		if stderrors.CodeOf(err) == stderrors.ErrCodeEmployeeNotFound {
			status = http.StatusNotFound
		}
		respondStandardError(c, status, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

// exportColumns matches the original spreadsheet export.
var exportColumns = []string{
	"id", "full_name", "card_number", "job_title", "department", "manager",
	"status", "legalization", "nationality", "locker_number",
	"dept_locker_number", "seal_number", "hire_date", "termination_date",
	"contract_end_date", "next_appointment",
}

// Export returns the live employee set as CSV. The file is assembled in
// memory first so an encoding failure can answer with an error instead of a
// truncated download.
func (h *EmployeesHandler) Export(c *gin.Context) {
	employees, _, err := h.store.List(c.Request.Context(), "")
	if err != nil {
		respondStandardError(c, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(exportColumns); err == nil {
		for _, e := range employees {
			if err := cw.Write([]string{
				e.ID, e.FullName, e.CardNumber, e.JobTitle, e.Department, e.Manager,
				string(e.Status), string(e.Legalization), e.Nationality, e.LockerNumber,
				e.DeptLockerNumber, e.SealNumber,
				formatOptionalDate(e.HireDate), formatOptionalDate(e.TerminationDate),
				formatOptionalDate(e.ContractEndDate), formatOptionalDate(e.NextAppointment),
			}); err != nil {
				break
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("employee export encoding failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(c, http.StatusInternalServerError, "EMPLOYEE_EXPORT_FAILED",
			"Failed to build employee export", err.Error())
		return
	}

	name := fmt.Sprintf("employees-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// Summary returns an AI-generated text summary for one profile. Generation
// failures degrade to an error payload; the profile itself stays readable
// through Get.
func (h *EmployeesHandler) Summary(c *gin.Context) {
	emp, _, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if stderrors.CodeOf(err) == stderrors.ErrCodeEmployeeNotFound {
			status = http.StatusNotFound
		}
		respondStandardError(c, status, err)
		return
	}

	facts := map[string]interface{}{
		"fullName":     emp.FullName,
		"jobTitle":     emp.JobTitle,
		"department":   emp.Department,
		"status":       string(emp.Status),
		"legalization": string(emp.Legalization),
		"nationality":  emp.Nationality,
	}
	if emp.HireDate != nil {
		facts["hireDate"] = employee.FormatDate(*emp.HireDate)
	}

	text, err := h.summarizer.Summarize(c.Request.Context(), facts)
	if err != nil {
		respondStandardError(c, http.StatusBadGateway, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"id": emp.ID, "summary": text})
}

// LegalizationStatuses returns the enumerated status set with display colors
// plus the fallback palette for unknown values.
func (h *EmployeesHandler) LegalizationStatuses(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{
		"statuses": employee.KnownLegalizations(),
		"fallback": employee.FallbackColors,
	})
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := employee.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return employee.FormatDate(*t)
}
