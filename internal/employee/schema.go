// internal/employee/schema.go
package employee

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// intakeSchema validates employee create/import payloads at the store
// boundary. Date fields are checked as strings against DateLayout's shape;
// the legalization enum mirrors the fixed status set.
const intakeSchema = `{
	"type": "object",
	"required": ["fullName", "hireDate", "status"],
	"additionalProperties": false,
	"properties": {
		"fullName":         {"type": "string", "minLength": 1},
		"cardNumber":       {"type": "string"},
		"jobTitle":         {"type": "string"},
		"department":       {"type": "string"},
		"manager":          {"type": "string"},
		"status":           {"type": "string", "enum": ["active", "terminated"]},
		"legalization": {
			"type": "string",
			"enum": [
				"none", "visa", "residence-card-pl", "residence-card-other",
				"decision-received", "application-submitted-local",
				"application-submitted-other-office", "fingerprints-submitted",
				"documents-forwarded"
			]
		},
		"nationality":      {"type": "string"},
		"lockerNumber":     {"type": "string"},
		"deptLockerNumber": {"type": "string"},
		"sealNumber":       {"type": "string"},
		"hireDate":         {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"terminationDate":  {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"contractEndDate":  {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"nextAppointment":  {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
	}
}`

var compiledIntakeSchema = gojsonschema.NewStringLoader(intakeSchema)

// ValidateIntake checks a raw employee payload against the intake schema and
// the cross-field invariants the schema cannot express. Returns a list of
// human-readable problems, empty when the payload is acceptable.
func ValidateIntake(payload []byte) ([]string, error) {
	result, err := gojsonschema.Validate(compiledIntakeSchema, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return problems, nil
}

// CheckInvariants enforces the record invariants on a parsed employee:
// terminationDate set iff terminated, and contractEndDate >= hireDate.
func CheckInvariants(e *Employee) []string {
	var problems []string

	if e.Status == StatusTerminated && e.TerminationDate == nil {
		problems = append(problems, "terminationDate is required for terminated employees")
	}
	if e.Status == StatusActive && e.TerminationDate != nil {
		problems = append(problems, "terminationDate must not be set for active employees")
	}
	if e.ContractEndDate != nil && e.HireDate != nil && e.ContractEndDate.Before(*e.HireDate) {
		problems = append(problems, fmt.Sprintf(
			"contractEndDate %s precedes hireDate %s",
			FormatDate(*e.ContractEndDate), FormatDate(*e.HireDate)))
	}

	return problems
}

// JoinProblems renders a problem list as one details string.
func JoinProblems(problems []string) string {
	return strings.Join(problems, "; ")
}
