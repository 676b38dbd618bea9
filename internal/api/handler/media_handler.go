package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kryos/employee-accounts/internal/core/domain"
	"github.com/kryos/employee-accounts/internal/core/ports"
	"github.com/kryos/employee-accounts/internal/pkg/metrics"
)

const (
	uploadFilesField = "files"
	uploadOwnerField = "userId"
)

type MediaHandler struct {
	media ports.MediaService
}

func NewMediaHandler(media ports.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

type uploadResponse struct {
	Message string   `json:"message"`
	Files   []string `json:"files"`
}

// Upload stores one or more files and returns their URLs.
//
// @Summary      Upload media
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        files   formData  file    true  "Files to upload (repeatable)"
// @Param        userId  formData  string  false "Owner reference"
// @Success      200     {object}  uploadResponse
// @Failure      400     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /upload [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil || len(form.File[uploadFilesField]) == 0 {
		return domain.ErrNoFiles
	}

	headers := form.File[uploadFilesField]
	files := make([]domain.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable file: "+fh.Filename)
		}
		opened = append(opened, f)
		files = append(files, domain.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Content:     f,
		})
	}

	urls, err := h.media.Upload(c.Request().Context(), files, c.FormValue(uploadOwnerField))
	if err != nil {
		return err
	}

	metrics.MediaUploadedFilesTotal.Add(float64(len(urls)))
	for _, fh := range headers {
		metrics.MediaUploadBytes.Observe(float64(fh.Size))
	}

	return c.JSON(http.StatusOK, uploadResponse{Message: "Files uploaded", Files: urls})
}

// Download streams an object by key.
//
// @Summary      Download media
// @Tags         media
// @Produce      octet-stream
// @Param        key  path  string  true  "Object key"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /download/{key} [get]
func (h *MediaHandler) Download(c echo.Context) error {
	obj, err := h.media.Download(c.Request().Context(), c.Param("key"))
	if err != nil {
		return err
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	if obj.ContentLength > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.ContentLength, 10))
	}
	return c.Stream(http.StatusOK, contentType, obj.Body)
}
