// internal/archive/index.go
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/employee"

	"github.com/elastic/go-elasticsearch/v8"
)

// Indexer pushes archived employee records into Elasticsearch so they stay
// searchable after leaving the live store.
type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	return &Indexer{client: client, index: index}
}

type archivedDoc struct {
	employee.Employee
	Artifact string `json:"artifact"`
}

// IndexArchived indexes one archived record, tagging it with the artifact it
// was written to.
func (i *Indexer) IndexArchived(ctx context.Context, rec employee.Employee, artifact string) error {
	body, err := json.Marshal(archivedDoc{Employee: rec, Artifact: artifact})
	if err != nil {
		return fmt.Errorf("encode archived record: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(rec.ID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return stderrors.NewArchiveIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return stderrors.NewArchiveIndexFailedError(fmt.Errorf("index response: %s", res.Status()))
	}
	return nil
}
