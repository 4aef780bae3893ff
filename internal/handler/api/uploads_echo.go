package api

import (
	"fmt"
	"io"

	"SmartBank/internal/domain/models"
	"SmartBank/internal/service/ratelimit"
	"SmartBank/internal/services/upload"
	"SmartBank/internal/usecase"
	xhttp "SmartBank/pkg/http"
	xlogger "SmartBank/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DefaultMaxUploadBytes is the largest file accepted by POST /api/upload.
const DefaultMaxUploadBytes int64 = 10 << 20

type UploadEchoHandler struct {
	logger   *xlogger.Logger
	uploads  *usecase.UploadUseCase
	limiter  *ratelimit.Limiter
	maxBytes int64
}

func NewUploadEchoHandler(logger *xlogger.Logger, uploads *usecase.UploadUseCase, limiter *ratelimit.Limiter, maxBytes int64) *UploadEchoHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadEchoHandler{logger: logger, uploads: uploads, limiter: limiter, maxBytes: maxBytes}
}

func (h *UploadEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/upload", h.Upload)
	g.GET("/uploads", h.List)
	g.GET("/uploads/:id", h.Get)
	g.GET("/download/:id", h.Download)
	g.DELETE("/upload/:id", h.Delete)
}

type uploadResponse struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	DataKind string `json:"data_kind"`
	Rows     int    `json:"rows"`
	Series   string `json:"series,omitempty"`
	Ingested int    `json:"ingested,omitempty"`
}

func (h *UploadEchoHandler) Upload(c echo.Context) error {
	if h.limiter != nil {
		if ok, wait := h.limiter.Allow(c.RealIP()); !ok {
			return xhttp.ThrottledResponse(c, wait, "too many uploads, retry later")
		}
	}

	req := &models.UploadRequest{Series: c.QueryParam("series")}
	if err := xhttp.Validate(req); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid series").WithField("series").WithError(err))
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("No file uploaded or invalid file type. Only JSON and CSV files are allowed.").WithField("file"))
	}
	if fh.Size > h.maxBytes {
		return xhttp.AppErrorResponse(c, xhttp.PayloadTooLargeError(fmt.Sprintf("file exceeds %d bytes", h.maxBytes)).WithField("file"))
	}
	if _, err := upload.FileType(fh.Filename); err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	f, err := fh.Open()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("cannot open uploaded file").WithError(err))
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("cannot read uploaded file").WithError(err))
	}
	if int64(len(content)) > h.maxBytes {
		return xhttp.AppErrorResponse(c, xhttp.PayloadTooLargeError(fmt.Sprintf("file exceeds %d bytes", h.maxBytes)).WithField("file"))
	}

	u, err := h.uploads.Upload(c.Request().Context(), usecase.UploadParams{
		FileName: fh.Filename,
		Content:  content,
		Series:   req.Series,
	})
	if err != nil {
		return h.fail(c, "upload usecase error", err)
	}
	return xhttp.SuccessResponse(c, uploadResponse{
		ID:       u.ID,
		FileName: u.FileName,
		FileSize: u.FileSize,
		DataKind: u.Metadata.DataKind,
		Rows:     u.Metadata.Rows,
		Series:   u.Metadata.Series,
		Ingested: u.Metadata.Ingested,
	})
}

func (h *UploadEchoHandler) List(c echo.Context) error {
	req := &models.UploadListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.uploads.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return h.fail(c, "upload list error", err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *UploadEchoHandler) Get(c echo.Context) error {
	req := &models.IDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	u, err := h.uploads.Get(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "upload get error", err)
	}
	return xhttp.SuccessResponse(c, u)
}

func (h *UploadEchoHandler) Download(c echo.Context) error {
	req := &models.IDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	u, ct, body, err := h.uploads.Download(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "upload download error", err)
	}
	return xhttp.AttachmentResponse(c, u.FileName, ct, body)
}

func (h *UploadEchoHandler) Delete(c echo.Context) error {
	req := &models.IDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.uploads.Delete(c.Request().Context(), req.ID); err != nil {
		return h.fail(c, "upload delete error", err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"id": req.ID, "deleted": true})
}

func (h *UploadEchoHandler) fail(c echo.Context, msg string, err error) error {
	mapped := toAppError(err)
	if mapped == err {
		h.logger.Error(msg, xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, mapped)
}
