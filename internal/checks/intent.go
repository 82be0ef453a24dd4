// internal/checks/intent.go
package checks

// Kind identifies a check and the notification it produces.
type Kind string

const (
	KindFingerprintReminder Kind = "fingerprint-reminder"
	KindContractExpiring    Kind = "contract-expiring"
	KindNoLoginFlag         Kind = "no-login-flag"
)

// Kinds lists the check kinds in the order the engine runs them.
var Kinds = []Kind{KindFingerprintReminder, KindContractExpiring, KindNoLoginFlag}

// Intent is a computed, not-yet-delivered notification decision. Intents are
// ephemeral; persisting what gets delivered is the sink's job.
type Intent struct {
	Kind          Kind   `json:"kind"`
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	Message       string `json:"message"`
	DaysRemaining int    `json:"daysRemaining"`
}
