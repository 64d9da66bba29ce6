package api

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"school-management-api/internal/config"
	"school-management-api/internal/logger"
	"school-management-api/internal/model"
	"school-management-api/internal/storage"
	"school-management-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	historyLimit = 50

	// multipartOverhead covers part headers and boundaries around the file.
	multipartOverhead = 64 << 10
)

type Importer interface {
	Import(ctx context.Context, kind model.ImportKind, schoolID int64, data []byte) (model.ImportOutcome, error)
}

type UploadStore interface {
	CreateUpload(ctx context.Context, upload *model.ImportUpload) error
	FinishUpload(ctx context.Context, uploadID int64, status model.UploadStatus, outcome model.ImportOutcome, errorMessage *string) error
	GetUpload(ctx context.Context, schoolID, uploadID int64) (*model.ImportUpload, error)
	ListUploads(ctx context.Context, schoolID int64, limit int) ([]model.ImportUpload, error)
}

type Notifier interface {
	NotifyImport(ctx context.Context, p model.Principal, schoolID int64, kind model.ImportKind, fileName string, outcome model.ImportOutcome) error
}

type LoginService interface {
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
}

type Handler struct {
	importer Importer
	uploads  UploadStore
	archive  storage.Storage
	notifier Notifier
	auth     LoginService
	cfg      *config.Config
	log      zerolog.Logger
}

// NewHandler wires the HTTP handlers. archive and notifier may be nil.
func NewHandler(
	cfg *config.Config,
	importer Importer,
	uploads UploadStore,
	archive storage.Storage,
	notifier Notifier,
	auth LoginService,
) *Handler {
	return &Handler{
		importer: importer,
		uploads:  uploads,
		archive:  archive,
		notifier: notifier,
		auth:     auth,
		cfg:      cfg,
		log:      logger.Get(),
	}
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, model.APIResponse{Success: false, Message: message})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if stderrors.Is(err, errors.ErrInvalidCredentials) {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Login failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{Success: true, Data: resp})
}

// BulkUpload returns the handler for one import kind. The file arrives in
// the multipart field "file".
func (h *Handler) BulkUpload(kind model.ImportKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil || principal.SchoolID == nil {
			fail(c, http.StatusBadRequest, errors.ErrMissingSchool.Error())
			return
		}
		schoolID := *principal.SchoolID
		log := h.log.With().Int64("school_id", schoolID).Str("kind", string(kind)).Logger()

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Import.MaxUploadBytes+multipartOverhead)
		header, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				fail(c, http.StatusBadRequest, "File is too large")
				return
			}
			fail(c, http.StatusBadRequest, "No file uploaded")
			return
		}
		if header.Size > h.cfg.Import.MaxUploadBytes {
			fail(c, http.StatusBadRequest, "File is too large")
			return
		}

		f, err := header.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, "Could not read uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			fail(c, http.StatusBadRequest, "Could not read uploaded file")
			return
		}

		ctx := c.Request.Context()
		upload := &model.ImportUpload{
			SchoolID:   schoolID,
			UploadedBy: principal.UserID,
			Kind:       kind,
			FileName:   header.Filename,
			StorageKey: h.archiveUpload(ctx, log, schoolID, kind, data),
			Status:     model.UploadProcessing,
		}
		if err := h.uploads.CreateUpload(ctx, upload); err != nil {
			log.Error().Err(err).Msg("Failed to record upload")
			fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		log = log.With().Int64("upload_id", upload.ID).Str("file_name", header.Filename).Logger()

		outcome, err := h.importer.Import(ctx, kind, schoolID, data)
		if err != nil {
			msg := err.Error()
			if ferr := h.uploads.FinishUpload(ctx, upload.ID, model.UploadFailed, model.NewImportOutcome(), &msg); ferr != nil {
				log.Error().Err(ferr).Msg("Failed to update upload status")
			}
			status, message := importFailure(err)
			log.Warn().Err(err).Int("status", status).Msg("Bulk upload failed")
			fail(c, status, message)
			return
		}

		if err := h.uploads.FinishUpload(ctx, upload.ID, model.UploadCompleted, outcome, nil); err != nil {
			log.Error().Err(err).Msg("Failed to update upload status")
		}

		if h.notifier != nil && h.cfg.Import.NotifyOnComplete {
			if err := h.notifier.NotifyImport(ctx, *principal, schoolID, kind, header.Filename, outcome); err != nil {
				log.Warn().Err(err).Msg("Failed to send import notification")
			}
		}

		c.JSON(http.StatusOK, model.APIResponse{Success: true, Message: "Bulk upload processed", Data: outcome})
	}
}

func (h *Handler) archiveUpload(ctx context.Context, log zerolog.Logger, schoolID int64, kind model.ImportKind, data []byte) *string {
	if h.archive == nil || !h.cfg.Import.ArchiveUploads {
		return nil
	}

	key := storage.ArchiveKey(schoolID, kind)
	if err := h.archive.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to archive upload")
		return nil
	}
	return &key
}

func importFailure(err error) (int, string) {
	switch {
	case stderrors.Is(err, errors.ErrNoFile):
		return http.StatusBadRequest, "No file uploaded"
	case stderrors.Is(err, errors.ErrInvalidFileFormat), stderrors.Is(err, errors.ErrEmptySheet):
		return http.StatusBadRequest, "Could not read spreadsheet: " + err.Error()
	default:
		return http.StatusInternalServerError, "Bulk upload failed: " + err.Error()
	}
}

func (h *Handler) ListUploads(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil || principal.SchoolID == nil {
		fail(c, http.StatusBadRequest, errors.ErrMissingSchool.Error())
		return
	}

	uploads, err := h.uploads.ListUploads(c.Request.Context(), *principal.SchoolID, historyLimit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list uploads")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if uploads == nil {
		uploads = []model.ImportUpload{}
	}

	c.JSON(http.StatusOK, model.APIResponse{Success: true, Data: uploads})
}

func (h *Handler) GetUpload(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil || principal.SchoolID == nil {
		fail(c, http.StatusBadRequest, errors.ErrMissingSchool.Error())
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid upload ID")
		return
	}

	upload, err := h.uploads.GetUpload(c.Request.Context(), *principal.SchoolID, id)
	if stderrors.Is(err, errors.ErrNotFound) {
		fail(c, http.StatusNotFound, "Upload not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("upload_id", id).Msg("Failed to get upload")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{Success: true, Data: upload})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}
