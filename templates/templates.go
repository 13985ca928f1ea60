// Package templates holds the HTML pages of the rendered surface.
package templates

import (
	"embed"
	"html/template"

	"photofeed/dto"
	"photofeed/feed"
)

//go:embed html/*.html
var files embed.FS

// Load parses every page together with the shared partials.
func Load() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"upload":   dto.UploadURL,
		"userShow": dto.UserShowURL,
	}).ParseFS(files, "html/*.html")
}

// PostItem is one post on a page plus the URL its forms redirect back to.
type PostItem struct {
	Post   feed.PostView
	Target string
}

// Page is the data every page template receives.
type Page struct {
	Logname string
	Items   []PostItem
	Item    PostItem
	Profile *feed.Profile
}
