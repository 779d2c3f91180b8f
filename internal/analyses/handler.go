package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/scoring"
	"resume-scorer/internal/session"
	"resume-scorer/internal/shared/server/respond"
)

// multipartSlack leaves room for form boundaries so an oversized file is
// reported by Validate instead of failing multipart parsing.
const multipartSlack = 1 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.upload)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
}

// ResultView is a record plus its presentation fields.
type ResultView struct {
	Record
	Grade   string       `json:"grade"`
	Band    scoring.Band `json:"band"`
	Verdict string       `json:"verdict"`
}

// NewResultView decorates rec for the results page.
func NewResultView(rec Record) ResultView {
	return ResultView{
		Record:  rec,
		Grade:   scoring.Grade(rec.Score),
		Band:    scoring.BandFor(rec.Score),
		Verdict: scoring.Verdict(rec.Score),
	}
}

func (h *Handler) upload(c *gin.Context) {
	sc, ok := session.FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+multipartSlack)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, &ValidationError{Field: "size", Value: strconv.FormatInt(tooLarge.Limit, 10), Message: "File size must be less than 10MB"}, "upload_failed", msgUploadFailed)
			return
		}
		writeError(c, &ValidationError{Field: "file", Message: "Please select a file to upload"}, "upload_failed", msgUploadFailed)
		return
	}

	up := Upload{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
	}
	// Reject on metadata before reading the file body.
	if err := Validate(up); err != nil {
		writeError(c, err, "upload_failed", msgUploadFailed)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()
	up.Data, err = io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	rec, err := h.Svc.Upload(c.Request.Context(), sc.UserID, up)
	if err != nil {
		writeError(c, err, "upload_failed", msgUploadFailed)
		return
	}
	c.Set("analysisId", rec.ID)
	respond.Created(c, NewResultView(rec))
}

func (h *Handler) get(c *gin.Context) {
	sc, ok := session.FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	id := c.Param("id")
	c.Set("analysisId", id)

	rec, err := h.Svc.Get(c.Request.Context(), sc.UserID, id)
	if err != nil {
		writeError(c, err, "internal_error", "failed to fetch analysis")
		return
	}
	respond.OK(c, NewResultView(rec))
}

func (h *Handler) list(c *gin.Context) {
	sc, ok := session.FromGin(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	records, err := h.Svc.List(c.Request.Context(), sc.UserID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}
	respond.OK(c, records)
}

// writeError maps service errors to responses. Storage, extraction and
// persistence failures all land on the fallback code and message with status 500.
func writeError(c *gin.Context, err error, fallbackCode, fallbackMsg string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		respond.Error(c, http.StatusBadRequest, "validation_error", ve.Message, []map[string]string{
			{"field": ve.Field, "issue": ve.Message},
		})
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", msgNotFound, nil)
	case errors.Is(err, ErrOwnerRequired):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, fallbackCode, fallbackMsg, nil)
	}
}
