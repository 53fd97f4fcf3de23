package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-records/ccrm-api/internal/service"
	"github.com/campus-records/ccrm-api/pkg/response"
)

// FileHandler exposes the CSV file layer and backup endpoints.
type FileHandler struct {
	files *service.FileService
}

// NewFileHandler constructs FileHandler.
func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Import replaces an entity collection from a CSV file in the data directory.
// The file defaults to <entity>.csv and may be overridden with ?file=.
func (h *FileHandler) Import(c *gin.Context) {
	entity := c.Param("entity")
	filename := c.DefaultQuery("file", entity+".csv")
	count, err := h.files.Import(c.Request.Context(), entity, filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"entity": entity, "imported": count}, nil)
}

// Export writes an entity collection to a CSV file in the data directory.
func (h *FileHandler) Export(c *gin.Context) {
	entity := c.Param("entity")
	filename, err := h.files.Export(c.Request.Context(), entity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"entity": entity, "file": filename}, nil)
}

// Backup enqueues an asynchronous backup of the data directory.
func (h *FileHandler) Backup(c *gin.Context) {
	jobID, err := h.files.Backup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"job_id": jobID, "status": "queued"}, nil)
}

// BackupSize reports the total size in bytes of all stored backups.
func (h *FileHandler) BackupSize(c *gin.Context) {
	size, err := h.files.BackupSize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"bytes": size}, nil)
}
