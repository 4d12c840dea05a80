package server

import (
	"net/http"

	"webnote/pkg/noteid"

	"github.com/labstack/echo/v4"
)

// newNote redirects the visitor to a fresh random note URL.
func (ns *NoteServer) newNote(ctx echo.Context) error {
	return ctx.Redirect(http.StatusSeeOther, "/"+noteid.New(noteid.DefaultLength))
}
