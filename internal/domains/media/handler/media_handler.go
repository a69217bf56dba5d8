package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"realty-backend/internal/domains/media/model"
	"realty-backend/internal/domains/media/service"
	"realty-backend/internal/infrastructure/storage"
	"realty-backend/internal/shared/response"
	"realty-backend/pkg/logger"
)

type MediaHandler struct {
	service service.MediaService
}

func NewMediaHandler(s service.MediaService) *MediaHandler {
	return &MediaHandler{service: s}
}

// UploadImage handles POST /listings/:id/images (multipart, field "image").
func (h *MediaHandler) UploadImage(c *gin.Context) {
	listingID, ok := listingIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}

	up, err := readUpload(fileHeader)
	if err != nil {
		response.BadRequest(c, "failed to read uploaded file")
		return
	}

	result, err := h.service.UploadImage(c.Request.Context(), listingID, up)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Image uploaded successfully", result)
}

// UploadImages handles POST /listings/:id/images/batch (multipart, field
// "images"). Bad files are reported per-file; the batch never fails as a
// whole because of one of them.
func (h *MediaHandler) UploadImages(c *gin.Context) {
	listingID, ok := listingIDParam(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form is required")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		response.BadRequest(c, "at least one image file is required")
		return
	}

	ups := make([]storage.Upload, 0, len(files))
	for _, fh := range files {
		up, err := readUpload(fh)
		if err != nil {
			response.BadRequest(c, "failed to read uploaded file: "+fh.Filename)
			return
		}
		ups = append(ups, up)
	}

	result := h.service.UploadImages(c.Request.Context(), listingID, ups)
	h.writeBatchResult(c, result, "image")
}

// UploadBase64Image handles POST /media/images/base64.
func (h *MediaHandler) UploadBase64Image(c *gin.Context) {
	var req model.Base64UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		response.BadRequest(c, "invalid listing id")
		return
	}

	result, err := h.service.UploadBase64Image(c.Request.Context(), listingID, req.Filename, req.Data)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Image uploaded successfully", result)
}

// DeleteImage handles DELETE /media/images.
func (h *MediaHandler) DeleteImage(c *gin.Context) {
	h.deleteMedia(c, "Image deleted successfully")
}

// MediaInfo handles GET /media/images/info?path=...
func (h *MediaHandler) MediaInfo(c *gin.Context) {
	var req model.MediaInfoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	info, err := h.service.Info(c.Request.Context(), req.Path)
	if err != nil {
		if isNotFound(err) {
			response.NotFound(c, "media not found")
			return
		}
		logger.Error("media info lookup failed", err)
		response.InternalServerError(c, "failed to retrieve media info")
		return
	}

	response.Success(c, http.StatusOK, "Media info retrieved successfully", info)
}

// ListingMedia handles GET /listings/:id/media.
func (h *MediaHandler) ListingMedia(c *gin.Context) {
	listingID, ok := listingIDParam(c)
	if !ok {
		return
	}

	items, err := h.service.GetListingMedia(c.Request.Context(), listingID)
	if err != nil {
		logger.Error("listing media lookup failed", err)
		response.InternalServerError(c, "failed to retrieve listing media")
		return
	}

	response.Success(c, http.StatusOK, "Listing media retrieved successfully", items)
}

// UploadVideo handles POST /listings/:id/videos (multipart, field "video").
func (h *MediaHandler) UploadVideo(c *gin.Context) {
	listingID, ok := listingIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		response.BadRequest(c, "video file is required")
		return
	}

	up, err := readUpload(fileHeader)
	if err != nil {
		response.BadRequest(c, "failed to read uploaded file")
		return
	}

	result, err := h.service.UploadVideo(c.Request.Context(), listingID, up)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Video uploaded successfully", result)
}

// UploadVideos handles POST /listings/:id/videos/batch (field "videos").
func (h *MediaHandler) UploadVideos(c *gin.Context) {
	listingID, ok := listingIDParam(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form is required")
		return
	}

	files := form.File["videos"]
	if len(files) == 0 {
		response.BadRequest(c, "at least one video file is required")
		return
	}

	ups := make([]storage.Upload, 0, len(files))
	for _, fh := range files {
		up, err := readUpload(fh)
		if err != nil {
			response.BadRequest(c, "failed to read uploaded file: "+fh.Filename)
			return
		}
		ups = append(ups, up)
	}

	result := h.service.UploadVideos(c.Request.Context(), listingID, ups)
	h.writeBatchResult(c, result, "video")
}

// DeleteVideo handles DELETE /media/videos.
func (h *MediaHandler) DeleteVideo(c *gin.Context) {
	h.deleteMedia(c, "Video deleted successfully")
}

func (h *MediaHandler) deleteMedia(c *gin.Context, okMessage string) {
	var req model.DeleteMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.Path); err != nil {
		if isNotFound(err) {
			response.NotFound(c, "media not found")
			return
		}
		logger.Error("media delete failed", err)
		response.InternalServerError(c, "failed to delete media")
		return
	}

	response.Success(c, http.StatusOK, okMessage, nil)
}

// writeUploadError maps pipeline errors onto the envelope. Validation
// detail goes back verbatim; storage internals do not.
func (h *MediaHandler) writeUploadError(c *gin.Context, err error) {
	var vErr *model.ValidationFailedError
	if errors.As(err, &vErr) {
		response.UnprocessableEntity(c, "file validation failed", vErr.Violations)
		return
	}

	if errors.Is(err, model.ErrDecodeFailed) {
		response.BadRequest(c, "file is not a valid image")
		return
	}

	var sErr *model.StorageFailedError
	if errors.As(err, &sErr) {
		logger.Error("upload storage failure", err)
		response.InternalServerError(c, "storage operation failed")
		return
	}

	logger.Error("upload failed", err)
	response.InternalServerError(c, "upload failed")
}

// writeBatchResult reports partial success: 201 when anything landed,
// 422 when every file was rejected.
func (h *MediaHandler) writeBatchResult(c *gin.Context, result *model.BatchResult, kind string) {
	status := http.StatusCreated
	message := "Batch upload completed"
	if len(result.Uploaded) == 0 {
		status = http.StatusUnprocessableEntity
		message = "no " + kind + "s were uploaded"
	}

	c.JSON(status, response.Response{
		Success: len(result.Uploaded) > 0,
		Message: message,
		Data:    result.Uploaded,
		Errors:  result.Errors,
	})
}

// listingIDParam reads the listing from the route param, or from the
// listing_id form field on the flat /media routes.
func listingIDParam(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.PostForm("listing_id")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "invalid listing id")
		return uuid.Nil, false
	}
	return id, true
}

func readUpload(fh *multipart.FileHeader) (storage.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return storage.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return storage.Upload{}, err
	}

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}

	return storage.Upload{
		Name: fh.Filename,
		Ext:  strings.TrimPrefix(strings.ToLower(path.Ext(fh.Filename)), "."),
		MIME: mime,
		Size: int64(len(data)),
		Data: data,
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrMediaNotFound) || errors.Is(err, storage.ErrNotFound)
}
