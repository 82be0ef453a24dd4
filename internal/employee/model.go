// internal/employee/model.go
package employee

import "time"

// DateLayout is the wire format for all employee date fields. The live store
// keeps them as plain strings, a leftover of the realtime-database export the
// records were migrated from.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated"
)

// Employee is one person's HR record. Optional date fields are nil when
// absent or when the stored value could not be parsed; callers must treat a
// nil date as "skip this record for that check", never as an error.
type Employee struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	CardNumber string `json:"cardNumber,omitempty"`

	JobTitle   string `json:"jobTitle,omitempty"`
	Department string `json:"department,omitempty"`
	Manager    string `json:"manager,omitempty"`
	Status     Status `json:"status"`

	Legalization Legalization `json:"legalization"`
	Nationality  string       `json:"nationality,omitempty"`

	LockerNumber     string `json:"lockerNumber,omitempty"`
	DeptLockerNumber string `json:"deptLockerNumber,omitempty"`
	SealNumber       string `json:"sealNumber,omitempty"`

	HireDate        *time.Time `json:"hireDate,omitempty"`
	TerminationDate *time.Time `json:"terminationDate,omitempty"`
	ContractEndDate *time.Time `json:"contractEndDate,omitempty"`
	NextAppointment *time.Time `json:"nextAppointment,omitempty"`

	// LastFingerprintNotice is the appointment date the employee was last
	// reminded about. The check engine skips a reminder when it equals the
	// current NextAppointment.
	LastFingerprintNotice *time.Time `json:"lastFingerprintNotice,omitempty"`

	// LastActivity is the last status-update timestamp, driven by HR edits.
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

// FieldIssue records a malformed field found while reading the store. The
// affected employee stays in the snapshot with the field nil; the issue is
// reported alongside, never propagated as a failure of the whole read.
type FieldIssue struct {
	EmployeeID string `json:"employeeId"`
	Field      string `json:"field"`
	Value      string `json:"value"`
	Reason     string `json:"reason"`
}

// ParseDate parses a stored date string in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
