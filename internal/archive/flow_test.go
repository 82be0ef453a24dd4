// internal/archive/flow_test.go
package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
	"hol-manager/internal/employee"
)

// ==========================
// Test Doubles
// ==========================

type fakeArchiveStore struct {
	employees  []employee.Employee
	listErr    error
	deletedIDs []string
	deleteErr  map[string]error
}

func (f *fakeArchiveStore) List(ctx context.Context, statusFilter employee.Status) ([]employee.Employee, []employee.FieldIssue, error) {
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	return f.employees, nil, nil
}

func (f *fakeArchiveStore) Delete(ctx context.Context, id string) error {
	if err, ok := f.deleteErr[id]; ok {
		return err
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeWriter struct {
	writeErr error
	written  []employee.Employee
	name     string
}

func (f *fakeWriter) WriteArtifact(records []employee.Employee, name string) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.written = records
	f.name = name
	return "/archive/" + name, nil
}

type fakeIndexer struct {
	indexed  []string
	indexErr error
}

func (f *fakeIndexer) IndexArchived(ctx context.Context, rec employee.Employee, artifact string) error {
	f.indexed = append(f.indexed, rec.ID)
	return f.indexErr
}

// ==========================
// Test Helper Functions
// ==========================

func archiveToday() time.Time {
	return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
}

func terminatedEmployee(id string, terminated time.Time) employee.Employee {
	return employee.Employee{
		ID:              id,
		FullName:        "Terminated " + id,
		Status:          employee.StatusTerminated,
		TerminationDate: &terminated,
	}
}

func createTestFlow(t *testing.T, store *fakeArchiveStore, writer *fakeWriter, indexer RecordIndexer) *Flow {
	return NewFlow(store, writer, indexer, 90, logger.NewTestLogger(t)).WithClock(archiveToday)
}

// ==========================
// Eligibility Tests
// ==========================

func TestEligible(t *testing.T) {
	today := archiveToday()

	tests := []struct {
		name     string
		employee employee.Employee
		want     bool
	}{
		{
			name:     "terminated well past retention",
			employee: terminatedEmployee("emp-1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
			want:     true,
		},
		{
			name:     "terminated exactly at retention boundary",
			employee: terminatedEmployee("emp-2", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)), // 90 days before
			want:     true,
		},
		{
			name:     "terminated one day inside retention",
			employee: terminatedEmployee("emp-3", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)), // 89 days before
			want:     false,
		},
		{
			name: "terminated without a termination date",
			employee: employee.Employee{
				ID:     "emp-4",
				Status: employee.StatusTerminated,
			},
			want: false,
		},
		{
			name: "active employee",
			employee: employee.Employee{
				ID:     "emp-5",
				Status: employee.StatusActive,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Eligible([]employee.Employee{tt.employee}, today, 90)
			if tt.want {
				require.Len(t, got, 1)
				assert.Equal(t, tt.employee.ID, got[0].ID)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

// ==========================
// Archive Flow Tests
// ==========================

func TestFlow_Archive_Success(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeArchiveStore{
		employees: []employee.Employee{
			terminatedEmployee("emp-1", old),
			terminatedEmployee("emp-2", old),
		},
	}
	writer := &fakeWriter{}
	indexer := &fakeIndexer{}
	flow := createTestFlow(t, store, writer, indexer)

	output, err := flow.Archive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, output.Archived)
	assert.Equal(t, "/archive/archive-20250601-090000.csv", output.ArtifactLocation)
	assert.Empty(t, output.FailedIDs)
	assert.ElementsMatch(t, []string{"emp-1", "emp-2"}, store.deletedIDs)
	assert.ElementsMatch(t, []string{"emp-1", "emp-2"}, indexer.indexed)
}

func TestFlow_Archive_WriteFailureDeletesNothing(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeArchiveStore{
		employees: []employee.Employee{terminatedEmployee("emp-1", old)},
	}
	writer := &fakeWriter{writeErr: errors.New("disk full")}
	flow := createTestFlow(t, store, writer, nil)

	output, err := flow.Archive(context.Background())

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeArchiveWriteFailed, stderrors.CodeOf(err))
	assert.Zero(t, output.Archived)
	assert.Empty(t, store.deletedIDs)
}

func TestFlow_Archive_PartialDeleteFailure(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeArchiveStore{
		employees: []employee.Employee{
			terminatedEmployee("emp-1", old),
			terminatedEmployee("emp-2", old),
			terminatedEmployee("emp-3", old),
		},
		deleteErr: map[string]error{
			"emp-2": stderrors.NewStoreDeleteFailedError("emp-2", errors.New("lock timeout")),
		},
	}
	writer := &fakeWriter{}
	flow := createTestFlow(t, store, writer, nil)

	output, err := flow.Archive(context.Background())
	require.NoError(t, err)

	// The artifact holds all three; only the failed delete is reported.
	assert.Equal(t, 3, output.Archived)
	assert.Equal(t, []string{"emp-2"}, output.FailedIDs)
	assert.ElementsMatch(t, []string{"emp-1", "emp-3"}, store.deletedIDs)
}

func TestFlow_Archive_EmptyEligibleSet(t *testing.T) {
	recent := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	store := &fakeArchiveStore{
		employees: []employee.Employee{terminatedEmployee("emp-1", recent)},
	}
	writer := &fakeWriter{}
	flow := createTestFlow(t, store, writer, nil)

	output, err := flow.Archive(context.Background())
	require.NoError(t, err)

	assert.Zero(t, output.Archived)
	assert.Empty(t, output.ArtifactLocation)
	assert.Empty(t, writer.written)
	assert.Empty(t, store.deletedIDs)
}

func TestFlow_Archive_StoreError(t *testing.T) {
	store := &fakeArchiveStore{
		listErr: stderrors.NewStoreQueryFailedError(errors.New("connection refused")),
	}
	flow := createTestFlow(t, store, &fakeWriter{}, nil)

	output, err := flow.Archive(context.Background())

	require.Error(t, err)
	assert.Zero(t, output.Archived)
}

func TestFlow_Archive_IndexFailureIsNonFatal(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeArchiveStore{
		employees: []employee.Employee{terminatedEmployee("emp-1", old)},
	}
	writer := &fakeWriter{}
	indexer := &fakeIndexer{indexErr: errors.New("es unavailable")}
	flow := createTestFlow(t, store, writer, indexer)

	output, err := flow.Archive(context.Background())
	require.NoError(t, err)

	// Search indexing is best effort; the live record still gets removed.
	assert.Equal(t, 1, output.Archived)
	assert.Empty(t, output.FailedIDs)
	assert.Equal(t, []string{"emp-1"}, store.deletedIDs)
}
