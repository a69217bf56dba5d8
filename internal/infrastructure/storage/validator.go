package storage

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"realty-backend/internal/config"
)

// Validation error codes.
const (
	CodeFileTooLarge         = "FileTooLarge"
	CodeUnsupportedExtension = "UnsupportedExtension"
	CodeUnsupportedMimeType  = "UnsupportedMimeType"
	CodeDimensionsTooLarge   = "DimensionsTooLarge"
)

// ValidationError is one accumulated violation. Fatal violations abort
// the upload; non-fatal ones are warnings the caller may ignore
// (oversized dimensions get clamped by the resize step anyway).
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fatal   bool   `json:"-"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Upload is the transient descriptor of an incoming file, built once
// per request and discarded when processing completes.
type Upload struct {
	Name   string
	Ext    string // declared extension, without dot
	MIME   string // declared content type
	Size   int64
	Width  int // 0 for non-images
	Height int
	Data   []byte
}

// Validator checks uploads against configured limits. Pure inspection;
// it never mutates or persists the file.
type Validator struct {
	cfg config.MediaConfig
}

func NewValidator(cfg config.MediaConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateImage runs every check independently and returns all
// violations; nothing short-circuits, so a caller sees the complete
// picture in one pass. There is deliberately no minimum-dimension
// check.
func (v *Validator) ValidateImage(u Upload) []ValidationError {
	var errs []ValidationError

	if u.Size > v.cfg.MaxImageBytes {
		errs = append(errs, ValidationError{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("file is %d bytes, limit is %d", u.Size, v.cfg.MaxImageBytes),
			Fatal:   true,
		})
	}

	if !containsFold(v.cfg.AllowedImageExts, u.Ext) {
		errs = append(errs, ValidationError{
			Code:    CodeUnsupportedExtension,
			Message: fmt.Sprintf("extension %q is not allowed", u.Ext),
			Fatal:   true,
		})
	}

	if !containsFold(v.cfg.AllowedImageMIMEs, u.MIME) {
		errs = append(errs, ValidationError{
			Code:    CodeUnsupportedMimeType,
			Message: fmt.Sprintf("mime type %q is not allowed", u.MIME),
			Fatal:   true,
		})
	}

	if u.Width > v.cfg.MaxWidth || u.Height > v.cfg.MaxHeight {
		errs = append(errs, ValidationError{
			Code: CodeDimensionsTooLarge,
			Message: fmt.Sprintf("image is %dx%d, limit is %dx%d",
				u.Width, u.Height, v.cfg.MaxWidth, v.cfg.MaxHeight),
			Fatal: false,
		})
	}

	return errs
}

// ValidateVideo applies the video limits. Videos are stored as-is, so
// only size and type are checked.
func (v *Validator) ValidateVideo(u Upload) []ValidationError {
	var errs []ValidationError

	if u.Size > v.cfg.MaxVideoBytes {
		errs = append(errs, ValidationError{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("file is %d bytes, limit is %d", u.Size, v.cfg.MaxVideoBytes),
			Fatal:   true,
		})
	}

	if !containsFold(v.cfg.AllowedVideoExts, u.Ext) {
		errs = append(errs, ValidationError{
			Code:    CodeUnsupportedExtension,
			Message: fmt.Sprintf("extension %q is not allowed", u.Ext),
			Fatal:   true,
		})
	}

	if !containsFold(v.cfg.AllowedVideoMIMEs, u.MIME) {
		errs = append(errs, ValidationError{
			Code:    CodeUnsupportedMimeType,
			Message: fmt.Sprintf("mime type %q is not allowed", u.MIME),
			Fatal:   true,
		})
	}

	return errs
}

// HasFatal reports whether any accumulated violation aborts the upload.
func HasFatal(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Fatal {
			return true
		}
	}
	return false
}

// InspectImage reads pixel dimensions from the encoded header without
// decoding the full bitmap.
func InspectImage(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("cannot decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
