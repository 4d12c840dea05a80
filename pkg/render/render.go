// Package render produces the HTML editor page along with the entity
// escaping and excerpt transforms it embeds, and decides which clients
// get raw text instead.
package render
