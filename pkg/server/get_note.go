package server

import (
	"errors"
	"net/http"

	"webnote/pkg/log"
	"webnote/pkg/noteid"
	"webnote/pkg/render"
	"webnote/pkg/store"

	"github.com/labstack/echo/v4"
)

// getNote serves a note either as the HTML editor page or, for CLI clients
// and ?raw requests, as the bare text body.
func (ns *NoteServer) getNote(ctx echo.Context) error {
	note := ctx.Param("note")
	if !noteid.Validate(note) {
		return ctx.Redirect(http.StatusSeeOther, "/"+noteid.New(noteid.DefaultLength))
	}

	setNoCacheHeaders(ctx)

	_, wantRaw := ctx.QueryParams()["raw"]
	if wantRaw || render.IsCLIClient(ctx.Request().UserAgent()) {
		return ns.rawNote(ctx, note)
	}

	// The editor page renders for absent notes too; they show up as an
	// empty textarea until the first save.
	content, err := ns.store.Read(note)
	if err != nil {
		var notFoundErr store.FileNotFoundError
		if !errors.As(err, &notFoundErr) {
			log.Error().Err(err).Str("note", note).Msg("Failed to read note")
		}
		content = ""
	}

	html, err := render.EditorPage(note, content)
	if err != nil {
		log.Error().Err(err).Str("note", note).Msg("Failed to render editor page")
		return ctx.NoContent(http.StatusInternalServerError)
	}

	return ctx.HTML(http.StatusOK, html)
}

// rawNote writes the stored bytes as text/plain. Missing notes are a plain
// 404 with an empty body, which keeps `curl` pipelines clean.
func (ns *NoteServer) rawNote(ctx echo.Context, note string) error {
	content, err := ns.store.Read(note)
	if err != nil {
		var notFoundErr store.FileNotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.NoContent(http.StatusNotFound)
		}
		log.Error().Err(err).Str("note", note).Msg("Failed to read note")
		return ctx.NoContent(http.StatusInternalServerError)
	}

	return ctx.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}
