// internal/archive/flow.go
package archive

import (
	"context"
	"time"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
	"hol-manager/internal/common/metrics"
	"hol-manager/internal/employee"
)

// Store is the slice of the employee record store the flow needs.
type Store interface {
	List(ctx context.Context, statusFilter employee.Status) ([]employee.Employee, []employee.FieldIssue, error)
	Delete(ctx context.Context, id string) error
}

// ArtifactWriter persists the archive artifact.
type ArtifactWriter interface {
	WriteArtifact(records []employee.Employee, name string) (location string, err error)
}

// RecordIndexer mirrors archived records into the search index. Optional;
// indexing failures never fail the flow.
type RecordIndexer interface {
	IndexArchived(ctx context.Context, rec employee.Employee, artifact string) error
}

// Output reports one archival run. FailedIDs lists records that were written
// to the artifact but could not be removed from the live store; they stay
// duplicated until an operator retries.
type Output struct {
	RanAt            time.Time `json:"ranAt"`
	Archived         int       `json:"archived"`
	ArtifactLocation string    `json:"artifactLocation,omitempty"`
	FailedIDs        []string  `json:"failedIds,omitempty"`
}

// Flow moves terminated employees past the retention window out of the live
// store into an archive artifact. The ordering is strict: the artifact must
// be durable before any live record is deleted.
type Flow struct {
	store         Store
	writer        ArtifactWriter
	indexer       RecordIndexer
	retentionDays int
	logger        logger.Logger
	now           func() time.Time
}

func NewFlow(store Store, writer ArtifactWriter, indexer RecordIndexer, retentionDays int, log logger.Logger) *Flow {
	return &Flow{
		store:         store,
		writer:        writer,
		indexer:       indexer,
		retentionDays: retentionDays,
		logger:        log.WithFields(map[string]interface{}{"component": "archive-flow"}),
		now:           time.Now,
	}
}

// WithClock overrides the flow's clock. Test hook.
func (f *Flow) WithClock(now func() time.Time) *Flow {
	f.now = now
	return f
}

// Eligible selects terminated employees whose termination date is at least
// retentionDays before today. Records without a termination date are never
// eligible, whatever their status claims.
func Eligible(employees []employee.Employee, today time.Time, retentionDays int) []employee.Employee {
	var out []employee.Employee
	for _, emp := range employees {
		if emp.Status != employee.StatusTerminated || emp.TerminationDate == nil {
			continue
		}
		if daysSince(*emp.TerminationDate, today) >= retentionDays {
			out = append(out, emp)
		}
	}
	return out
}

// Archive runs one archival batch. If the artifact write fails, the error is
// returned and no record is deleted. Per-record delete failures after a
// durable artifact are collected in Output.FailedIDs, not raised.
func (f *Flow) Archive(ctx context.Context) (*Output, error) {
	ranAt := f.now()
	output := &Output{RanAt: ranAt}

	terminated, _, err := f.store.List(ctx, employee.StatusTerminated)
	if err != nil {
		metrics.ArchiveRunsTotal.WithLabelValues("store_error").Inc()
		return output, err
	}

	eligible := Eligible(terminated, ranAt, f.retentionDays)
	if len(eligible) == 0 {
		f.logger.Info("no employees eligible for archival", nil)
		metrics.ArchiveRunsTotal.WithLabelValues("empty").Inc()
		return output, nil
	}

	name := ArtifactName(ranAt)
	location, err := f.writer.WriteArtifact(eligible, name)
	if err != nil {
		// Mandatory ordering: without a durable artifact nothing gets deleted.
		f.logger.Error("artifact write failed, aborting run", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		metrics.ArchiveRunsTotal.WithLabelValues("write_failed").Inc()
		return output, stderrors.NewArchiveWriteFailedError(err)
	}
	output.ArtifactLocation = location
	output.Archived = len(eligible)
	metrics.ArchivedRecords.Add(float64(len(eligible)))

	for _, rec := range eligible {
		if f.indexer != nil {
			if err := f.indexer.IndexArchived(ctx, rec, name); err != nil {
				f.logger.Warn("search index update failed", map[string]interface{}{
					"employeeId": rec.ID,
					"error":      err.Error(),
				})
			}
		}

		if err := f.store.Delete(ctx, rec.ID); err != nil {
			delErr := stderrors.NewArchiveDeleteFailedError(rec.ID, err)
			output.FailedIDs = append(output.FailedIDs, rec.ID)
			metrics.ArchiveDeleteFailures.Inc()
			f.logger.Error("live record delete failed after archival", map[string]interface{}{
				"employeeId": rec.ID,
				"artifact":   name,
				"error":      delErr.Error(),
				"retryable":  stderrors.IsRetryable(delErr),
			})
		}
	}

	outcome := "ok"
	if len(output.FailedIDs) > 0 {
		outcome = "partial"
	}
	metrics.ArchiveRunsTotal.WithLabelValues(outcome).Inc()

	f.logger.Info("archival run completed", map[string]interface{}{
		"archived":  output.Archived,
		"failedIds": len(output.FailedIDs),
		"artifact":  location,
	})

	return output, nil
}

func daysSince(from, to time.Time) int {
	t0 := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t1 := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t1.Sub(t0).Hours() / 24)
}
