package server

import (
	"errors"
	"net/http"

	"webnote/pkg/log"
	"webnote/pkg/noteid"
	"webnote/pkg/store"

	"github.com/labstack/echo/v4"
)

// postNote saves the submitted text as the note body. An empty submission
// deletes the note instead, which is how the editor's "clear everything"
// flow works.
func (ns *NoteServer) postNote(ctx echo.Context) error {
	note := ctx.Param("note")
	if !noteid.Validate(note) {
		return ctx.Redirect(http.StatusSeeOther, "/"+noteid.New(noteid.DefaultLength))
	}

	setNoCacheHeaders(ctx)

	text := ctx.FormValue("text")

	if text == "" {
		if err := ns.store.Delete(note); err != nil {
			log.Error().Err(err).Str("note", note).Msg("Failed to delete note")
			return ctx.NoContent(http.StatusInternalServerError)
		}
		return ctx.NoContent(http.StatusOK)
	}

	if err := ns.store.Write(note, text); err != nil {
		var tooLargeErr store.FileTooLargeError
		if errors.As(err, &tooLargeErr) {
			return ctx.NoContent(http.StatusForbidden)
		}
		var tooManyErr store.TooManyFilesError
		if errors.As(err, &tooManyErr) {
			return ctx.NoContent(http.StatusForbidden)
		}
		log.Error().Err(err).Str("note", note).Msg("Failed to write note")
		return ctx.NoContent(http.StatusInternalServerError)
	}

	return ctx.NoContent(http.StatusOK)
}
