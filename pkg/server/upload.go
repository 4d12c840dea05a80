package server

import (
	"errors"
	"net/http"

	"webnote/pkg/log"
	"webnote/pkg/store"

	"github.com/labstack/echo/v4"
)

// uploadFile stores a multipart file upload and returns the URL the editor
// inserts into the note body.
func (ns *NoteServer) uploadFile(ctx echo.Context) error {
	setNoCacheHeaders(ctx)

	file, err := ctx.FormFile("file")
	if err != nil {
		log.Error().Err(err).Msg("Upload request without a file field")
		return ctx.String(http.StatusBadRequest, "no file")
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("Failed to open uploaded file")
		return ctx.String(http.StatusBadRequest, "invalid file")
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close uploaded file")
		}
	}()

	filename := file.Filename
	if filename == "" {
		filename = "upload.bin"
	}

	result, err := ns.store.SaveUpload(src, filename)
	if err != nil {
		var tooLargeErr store.FileTooLargeError
		if errors.As(err, &tooLargeErr) {
			return ctx.String(http.StatusForbidden, "file too large")
		}
		log.Error().Err(err).Str("filename", filename).Msg("Failed to store upload")
		return ctx.NoContent(http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"url":      "/_tmp/" + result.Name,
		"is_image": result.IsImage,
		"name":     result.Name,
	})
}
