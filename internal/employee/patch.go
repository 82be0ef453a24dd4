// internal/employee/patch.go
package employee

import (
	"fmt"
	"time"
)

// ApplyPatch applies a partial-fields patch onto a copy of e, validating each
// field the same way intake does: status and legalization against their
// enums, date fields against DateLayout (empty string clears). The returned
// problem list is empty when every field applied cleanly; callers still run
// CheckInvariants on the result before persisting.
func ApplyPatch(e Employee, patch map[string]interface{}) (Employee, []string) {
	var problems []string

	for field, raw := range patch {
		val, ok := raw.(string)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: expected a string", field))
			continue
		}

		switch field {
		case "fullName":
			if val == "" {
				problems = append(problems, "fullName: must not be empty")
				continue
			}
			e.FullName = val
		case "cardNumber":
			e.CardNumber = val
		case "jobTitle":
			e.JobTitle = val
		case "department":
			e.Department = val
		case "manager":
			e.Manager = val
		case "nationality":
			e.Nationality = val
		case "lockerNumber":
			e.LockerNumber = val
		case "deptLockerNumber":
			e.DeptLockerNumber = val
		case "sealNumber":
			e.SealNumber = val
		case "status":
			switch Status(val) {
			case StatusActive, StatusTerminated:
				e.Status = Status(val)
			default:
				problems = append(problems, fmt.Sprintf("status: unknown value %q", val))
			}
		case "legalization":
			if !IsKnownLegalization(val) {
				problems = append(problems, fmt.Sprintf("legalization: unknown status %q", val))
				continue
			}
			e.Legalization = Legalization(val)
		case "hireDate", "terminationDate", "contractEndDate", "nextAppointment":
			parsed, problem := parsePatchDate(field, val)
			if problem != "" {
				problems = append(problems, problem)
				continue
			}
			switch field {
			case "hireDate":
				e.HireDate = parsed
			case "terminationDate":
				e.TerminationDate = parsed
			case "contractEndDate":
				e.ContractEndDate = parsed
			case "nextAppointment":
				e.NextAppointment = parsed
			}
		default:
			problems = append(problems, fmt.Sprintf("unknown field: %s", field))
		}
	}

	return e, problems
}

func parsePatchDate(field, val string) (*time.Time, string) {
	if val == "" {
		return nil, ""
	}
	t, err := ParseDate(val)
	if err != nil {
		return nil, fmt.Sprintf("%s: not a valid %s date: %q", field, DateLayout, val)
	}
	return &t, ""
}
