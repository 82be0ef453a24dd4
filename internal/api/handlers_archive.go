// internal/api/handlers_archive.go
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hol-manager/internal/archive"
	"hol-manager/internal/common/logger"
)

// Archiver is the archival flow contract exposed to the UI layer.
type Archiver interface {
	Archive(ctx context.Context) (*archive.Output, error)
}

// ArtifactLister lists existing archive artifacts.
type ArtifactLister interface {
	ListArtifacts() ([]string, error)
}

type ArchiveHandler struct {
	flow   Archiver
	lister ArtifactLister
	logger logger.Logger
}

func NewArchiveHandler(flow Archiver, lister ArtifactLister, log logger.Logger) *ArchiveHandler {
	return &ArchiveHandler{flow: flow, lister: lister, logger: log}
}

// Run executes one archival batch. An artifact-write failure surfaces as a
// failed output with 502; partial delete failures still succeed with the
// failed ids listed for retry.
func (h *ArchiveHandler) Run(c *gin.Context) {
	output, err := h.flow.Archive(c.Request.Context())
	if err != nil {
		respondStandardError(c, http.StatusBadGateway, err)
		return
	}
	respondSuccess(c, http.StatusOK, output)
}

// ListArtifacts returns the names of existing archive artifacts.
func (h *ArchiveHandler) ListArtifacts(c *gin.Context) {
	names, err := h.lister.ListArtifacts()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ARCHIVE_LIST_FAILED",
			"Failed to list archive artifacts", err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"artifacts": names})
}
