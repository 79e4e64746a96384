package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Enejivk/cleary-chat-Backend/internal/middleware"
	"github.com/Enejivk/cleary-chat-Backend/internal/service"
)

type DocumentHandler struct {
	svc           *service.DocumentService
	maxUploadSize int64
}

func NewDocumentHandler(svc *service.DocumentService, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{svc: svc, maxUploadSize: maxUploadSize}
}

// Upload accepts one or more PDF files in a multipart form. Each file is
// stored and queued for ingestion independently; one bad file does not fail
// the batch.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	var results []gin.H
	var failures []gin.H
	for _, header := range files {
		if header.Size > h.maxUploadSize {
			failures = append(failures, gin.H{"filename": header.Filename, "error": "file too large"})
			continue
		}

		file, err := header.Open()
		if err != nil {
			failures = append(failures, gin.H{"filename": header.Filename, "error": err.Error()})
			continue
		}
		data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize))
		file.Close()
		if err != nil {
			failures = append(failures, gin.H{"filename": header.Filename, "error": err.Error()})
			continue
		}

		doc, _, err := h.svc.Upload(c.Request.Context(), userID, header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			status := err.Error()
			if errors.Is(err, service.ErrInvalidFileType) {
				status = "only PDF files are allowed"
			}
			failures = append(failures, gin.H{"filename": header.Filename, "error": status})
			continue
		}

		results = append(results, gin.H{
			"document_id": doc.ID,
			"filename":    doc.Filename,
			"file_url":    doc.Filepath,
			"status":      service.IngestStatusPending,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":          results,
		"success_count": len(results),
		"failed_count":  len(failures),
		"errors":        failures,
	})
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	docs, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": docs})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) Status(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	status, err := h.svc.Status(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"document_id": id, "status": status})
}
