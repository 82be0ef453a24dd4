// internal/archive/writer.go
package archive

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"hol-manager/internal/employee"
)

// csvColumns is the artifact column set, matching the original spreadsheet
// export. Order is part of the artifact contract.
var csvColumns = []string{
	"id", "full_name", "card_number", "job_title", "department", "manager",
	"status", "legalization", "nationality", "locker_number",
	"dept_locker_number", "seal_number", "hire_date", "termination_date",
	"contract_end_date",
}

// Writer persists archive artifacts as dated CSV files in a directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// ArtifactName builds the dated artifact name for a run.
func ArtifactName(now time.Time) string {
	return fmt.Sprintf("archive-%s.csv", now.UTC().Format("20060102-150405"))
}

// WriteArtifact serializes records into a CSV artifact and returns its
// location. The write is staged through a temp file so a crashed run never
// leaves a half-written artifact behind.
func (w *Writer) WriteArtifact(records []employee.Employee, name string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	location := filepath.Join(w.dir, name)
	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(csvColumns); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write artifact header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(recordRow(rec)); err != nil {
			tmp.Close()
			return "", fmt.Errorf("write artifact row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flush artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), location); err != nil {
		return "", fmt.Errorf("publish artifact: %w", err)
	}
	return location, nil
}

// ListArtifacts returns artifact names in the archive directory, newest-name
// last. A missing directory means no artifacts yet, not an error.
func (w *Writer) ListArtifacts() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func recordRow(e employee.Employee) []string {
	return []string{
		e.ID, e.FullName, e.CardNumber, e.JobTitle, e.Department, e.Manager,
		string(e.Status), string(e.Legalization), e.Nationality, e.LockerNumber,
		e.DeptLockerNumber, e.SealNumber,
		dateCell(e.HireDate), dateCell(e.TerminationDate), dateCell(e.ContractEndDate),
	}
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return employee.FormatDate(*t)
}
