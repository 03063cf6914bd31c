package analysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"billaudit-backend/internal/shared/server/middleware"
	"billaudit-backend/internal/shared/server/respond"
	"billaudit-backend/internal/shared/storage/object"
	"billaudit-backend/internal/shared/telemetry"
)

const maxUploadSize = 10 << 20 // 10MB, as advertised to end users

// Handler wires the analyze endpoint to the pipeline service.
type Handler struct {
	Svc   *Service
	Store object.UploadStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store object.UploadStore) *Handler {
	return &Handler{Svc: svc, Store: store}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analysis/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("bill")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, CodeMissingFile, "no file attached", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, CodeMissingFile, "unable to read file", nil)
		return
	}
	defer file.Close()

	storageKey, size, mimeType, err := h.Store.Save(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, CodeInternal, "failed to store upload", nil)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), userID, Upload{
		StorageKey:   storageKey,
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		SizeBytes:    size,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFile):
			respond.Error(c, http.StatusBadRequest, CodeMissingFile, "no file attached", nil)
		case errors.Is(err, ErrUnsupportedMedia):
			respond.Error(c, http.StatusBadRequest, CodeUnsupportedMedia, "unsupported file type; upload a PDF or image", nil)
		case errors.Is(err, ErrExtraction):
			respond.Error(c, http.StatusUnprocessableEntity, CodeExtractionFailed, "could not read the uploaded bill", nil)
		case errors.Is(err, ErrInference):
			respond.Error(c, http.StatusBadGateway, CodeInferenceFailed, "analysis failed", err.Error())
		case errors.Is(err, ErrMalformedResponse):
			respond.Error(c, http.StatusBadGateway, CodeMalformedResponse, "analysis produced no usable result", nil)
		case errors.Is(err, ErrPersistence):
			// The analysis itself succeeded; hand it to the user and log the
			// lost write rather than failing the request.
			telemetry.Error("analysis.persist_failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
			respond.JSON(c, http.StatusOK, gin.H{"success": true, "analysis": result})
		default:
			respond.Error(c, http.StatusInternalServerError, CodeInternal, "analysis failed", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"success": true, "analysis": result})
}
