// internal/checks/engine.go
package checks

import (
	"fmt"
	"strings"
	"time"

	"hol-manager/internal/employee"
)

// Windows holds the configured thresholds, all in days. A date falling
// exactly on a lookahead boundary is inside the window (<= N, not < N).
type Windows struct {
	AppointmentLookaheadDays int
	ContractLookaheadDays    int
	StalenessThresholdDays   int
}

// Engine is the pure decision core: given an employee snapshot and a date it
// computes notification intents. It never mutates its input and is
// deterministic for a fixed today.
type Engine struct {
	win Windows
}

func NewEngine(win Windows) *Engine {
	return &Engine{win: win}
}

// Report is the engine's aggregate output: intents grouped by kind in stable
// input order, plus a human-readable digest.
type Report struct {
	Intents []Intent
	Digest  string
}

// Run executes all checks against one snapshot. Intents come out grouped by
// kind, and within a kind in the snapshot's order.
func (e *Engine) Run(employees []employee.Employee, today time.Time) Report {
	intents := e.FingerprintDue(employees, today)
	intents = append(intents, e.ContractExpiring(employees, today)...)
	intents = append(intents, e.IdleEmployees(employees, today)...)

	return Report{
		Intents: intents,
		Digest:  buildDigest(intents, today),
	}
}

// FingerprintDue emits a reminder for each active employee whose next
// fingerprint appointment falls within the lookahead window and who has not
// already been flagged for that exact date. Employees without an appointment
// date are skipped.
func (e *Engine) FingerprintDue(employees []employee.Employee, today time.Time) []Intent {
	var intents []Intent
	for _, emp := range employees {
		if !emp.IsActive() || emp.NextAppointment == nil {
			continue
		}
		days := daysUntil(today, *emp.NextAppointment)
		if days < 0 || days > e.win.AppointmentLookaheadDays {
			continue
		}
		if emp.LastFingerprintNotice != nil && sameDay(*emp.LastFingerprintNotice, *emp.NextAppointment) {
			continue
		}
		intents = append(intents, Intent{
			Kind:          KindFingerprintReminder,
			EmployeeID:    emp.ID,
			EmployeeName:  emp.FullName,
			DaysRemaining: days,
			Message: fmt.Sprintf("%s has a fingerprint appointment on %s (%s)",
				emp.FullName, employee.FormatDate(*emp.NextAppointment), inDays(days)),
		})
	}
	return intents
}

// ContractExpiring emits an intent for each active employee whose contract
// ends within the lookahead window. Employees without a contract end date
// are skipped.
func (e *Engine) ContractExpiring(employees []employee.Employee, today time.Time) []Intent {
	var intents []Intent
	for _, emp := range employees {
		if !emp.IsActive() || emp.ContractEndDate == nil {
			continue
		}
		days := daysUntil(today, *emp.ContractEndDate)
		if days < 0 || days > e.win.ContractLookaheadDays {
			continue
		}
		intents = append(intents, Intent{
			Kind:          KindContractExpiring,
			EmployeeID:    emp.ID,
			EmployeeName:  emp.FullName,
			DaysRemaining: days,
			Message: fmt.Sprintf("%s's contract ends on %s (%s)",
				emp.FullName, employee.FormatDate(*emp.ContractEndDate), inDays(days)),
		})
	}
	return intents
}

// IdleEmployees flags active employees whose last status update is older
// than the staleness threshold. Employees without an activity timestamp are
// skipped.
func (e *Engine) IdleEmployees(employees []employee.Employee, today time.Time) []Intent {
	var intents []Intent
	for _, emp := range employees {
		if !emp.IsActive() || emp.LastActivity == nil {
			continue
		}
		idle := daysUntil(*emp.LastActivity, today)
		if idle <= e.win.StalenessThresholdDays {
			continue
		}
		intents = append(intents, Intent{
			Kind:          KindNoLoginFlag,
			EmployeeID:    emp.ID,
			EmployeeName:  emp.FullName,
			DaysRemaining: idle,
			Message: fmt.Sprintf("%s's record has had no status update for %d days",
				emp.FullName, idle),
		})
	}
	return intents
}

// daysUntil counts calendar days from today to target, ignoring clock time.
func daysUntil(today, target time.Time) int {
	t0 := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	t1 := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(t1.Sub(t0).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func inDays(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "in 1 day"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

func buildDigest(intents []Intent, today time.Time) string {
	counts := map[Kind]int{}
	for _, in := range intents {
		counts[in.Kind]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Checks for %s: %d fingerprint appointments due, %d contracts expiring, %d idle employees\n",
		employee.FormatDate(today),
		counts[KindFingerprintReminder], counts[KindContractExpiring], counts[KindNoLoginFlag])
	for _, in := range intents {
		fmt.Fprintf(&b, "- %s\n", in.Message)
	}
	return b.String()
}
