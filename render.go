package blog

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderPage picks the view registered for p.View. Unknown views and
// views the caller left nil fall back to ServerError.
func (a *App) renderPage(c echo.Context, p Page) error {
	var view func(Page) templ.Component
	switch p.View {
	case ViewIndex:
		view = a.Views.Index
	case ViewPost:
		view = a.Views.Post
	case ViewNotFound:
		view = a.Views.NotFound
	}
	if view == nil {
		view = a.Views.ServerError
	}
	if view == nil {
		return echo.NewHTTPError(p.Status)
	}
	return RenderStatus(c, p.Status, view(p))
}
