package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/display"
	"github.com/mrlokans/library/internal/forms"
)

// Flasher stores one-shot messages between a POST and the page it redirects to.
type Flasher interface {
	Flash(ctx context.Context, message string)
	PopFlash(ctx context.Context) string
}

// CatalogController exposes the catalog workflows over HTTP.
type CatalogController struct {
	service *catalog.Service
	flasher Flasher
}

func NewCatalogController(service *catalog.Service, flasher Flasher) *CatalogController {
	return &CatalogController{service: service, flasher: flasher}
}

// RegisterRoutes mounts all catalog pages under /catalog.
func (cc *CatalogController) RegisterRoutes(router gin.IRouter) {
	g := router.Group("/catalog")
	g.GET("/", cc.Home)

	s := cc.service

	g.GET("/authors", page(cc, "authors", func(c *gin.Context) (any, error) {
		return s.ListAuthors(c.Request.Context())
	}))
	g.GET("/author/create", page(cc, "author", func(c *gin.Context) (any, error) {
		return s.AuthorCreateForm(c.Request.Context())
	}))
	g.POST("/author/create", submit(cc, "Author", "created", func(c *gin.Context, raw forms.Values) (catalog.Outcome[catalog.AuthorForm], error) {
		return s.CreateAuthor(c.Request.Context(), raw)
	}))
	g.GET("/author/:id", page(cc, "author", func(c *gin.Context) (any, error) {
		return s.AuthorDetail(c.Request.Context(), c.Param("id"))
	}))
	g.GET("/author/:id/update", page(cc, "author", func(c *gin.Context) (any, error) {
		return s.AuthorUpdateForm(c.Request.Context(), c.Param("id"))
	}))
	g.POST("/author/:id/update", submit(cc, "Author", "updated", func(c *gin.Context, raw forms.Values) (catalog.Outcome[catalog.AuthorForm], error) {
		return s.UpdateAuthor(c.Request.Context(), c.Param("id"), raw)
	}))
	g.GET("/author/:id/delete", confirmDelete(cc, "author", func(c *gin.Context) (catalog.DeleteOutcome[display.AuthorView], error) {
		return s.AuthorDeleteForm(c.Request.Context(), c.Param("id"))
	}))
	g.POST("/author/:id/delete", remove(cc, "Author", func(c *gin.Context, raw forms.Values) (catalog.DeleteOutcome[display.AuthorView], error) {
		return s.DeleteAuthor(c.Request.Context(), c.Param("id"), raw)
	}))

	g.GET("/genres", page(cc, "genres", func(c *gin.Context) (any, error) {
		return s.ListGenres(c.Request.Context())
	}))
	g.GET("/genre/create", page(cc, "genre", func(c *gin.Context) (any, error) {
		return s.GenreCreateForm(c.Request.Context())
	}))
	g.POST("/genre/create", submit(cc, "Genre", "saved", func(c *gin.Context, raw forms.Values) (catalog.Outcome[catalog.GenreForm], error) {
		return s.CreateGenre(c.Request.Context(), raw)
	}))
	g.GET("/genre/:id", page(cc, "genre", func(c *gin.Context) (any, error) {
		return s.GenreDetail(c.Request.Context(), c.Param("id"))
	}))
	g.GET("/genre/:id/update", page(cc, "genre", func(c *gin.Context) (any, error) {
		return s.GenreUpdateForm(c.Request.Context(), c.Param("id"))
	}))
	g.POST("/genre/:id/update", submit(cc, "Genre", "updated", func(c *gin.Context, raw forms.Values) (catalog.Outcome[catalog.GenreForm], error) {
		return s.UpdateGenre(c.Request.Context(), c.Param("id"), raw)
	}))
	g.GET("/genre/:id/delete", confirmDelete(cc, "genre", func(c *gin.Context) (catalog.DeleteOutcome[display.GenreView], error) {
		return s.GenreDeleteForm(c.Request.Context(), c.Param("id"))
	}))
	g.POST("/genre/:id/delete", remove(cc, "Genre", func(c *gin.Context, raw forms.Values) (catalog.DeleteOutcome[display.GenreView], error) {
		return s.DeleteGenre(c.Request.Context(), c.Param("id"), raw)
	}))

	g.GET("/books", page(cc, "books", func(c *gin.Context) (any, error) {
		return s.ListBooks(c.Request.Context())
	}))
	g.GET("/book/create", page(cc, "book", func(c *gin.Context) (any, error) {
		return s.BookCreateForm(c.Request.Context())
	}))
	g.POST("/book/create", submit(cc, "Book", "created", func(c *gin.Context, raw forms.Values) (catalog.Outcome[catalog.BookForm], error) {
		return s.CreateBook(c.Request.Context(), raw)
	}))
	g.GET("/book/:id", page(cc, "book", func(c *gin.Context) (any, error) {
		return s.BookDetail(c.Request.Context(), c.Param("id"))
	}))
	g.GET("/book/:id/update", page(cc, "book", func(c *gin.Context) (any, error) {
		return s.BookUpdateForm(c.Request.Context(), c.Param("id"))
	}))
	g.POST("/book/:id/update", submit(cc, "Book", "updated", func(c *gin.Context, raw forms.Values) (catalog.Outcome[catalog.BookForm], error) {
		return s.UpdateBook(c.Request.Context(), c.Param("id"), raw)
	}))
	g.GET("/book/:id/delete", confirmDelete(cc, "book", func(c *gin.Context) (catalog.DeleteOutcome[display.BookView], error) {
		return s.BookDeleteForm(c.Request.Context(), c.Param("id"))
	}))
	g.POST("/book/:id/delete", remove(cc, "Book", func(c *gin.Context, raw forms.Values) (catalog.DeleteOutcome[display.BookView], error) {
		return s.DeleteBook(c.Request.Context(), c.Param("id"), raw)
	}))

	g.GET("/bookinstances", page(cc, "book instances", func(c *gin.Context) (any, error) {
		return s.ListBookInstances(c.Request.Context())
	}))
	g.GET("/bookinstance/create", page(cc, "book instance", func(c *gin.Context) (any, error) {
		return s.BookInstanceCreateForm(c.Request.Context())
	}))
	g.POST("/bookinstance/create", submit(cc, "Book copy", "created", func(c *gin.Context, raw forms.Values) (catalog.Outcome[catalog.BookInstanceForm], error) {
		return s.CreateBookInstance(c.Request.Context(), raw)
	}))
	g.GET("/bookinstance/:id", page(cc, "book instance", func(c *gin.Context) (any, error) {
		return s.BookInstanceDetail(c.Request.Context(), c.Param("id"))
	}))
	g.GET("/bookinstance/:id/update", page(cc, "book instance", func(c *gin.Context) (any, error) {
		return s.BookInstanceUpdateForm(c.Request.Context(), c.Param("id"))
	}))
	g.POST("/bookinstance/:id/update", submit(cc, "Book copy", "updated", func(c *gin.Context, raw forms.Values) (catalog.Outcome[catalog.BookInstanceForm], error) {
		return s.UpdateBookInstance(c.Request.Context(), c.Param("id"), raw)
	}))
	g.GET("/bookinstance/:id/delete", confirmDelete(cc, "book instance", func(c *gin.Context) (catalog.DeleteOutcome[display.BookInstanceView], error) {
		return s.BookInstanceDeleteForm(c.Request.Context(), c.Param("id"))
	}))
	g.POST("/bookinstance/:id/delete", remove(cc, "Book copy", func(c *gin.Context, raw forms.Values) (catalog.DeleteOutcome[display.BookInstanceView], error) {
		return s.DeleteBookInstance(c.Request.Context(), c.Param("id"), raw)
	}))
}

// Home shows the record counts.
// GET /catalog/
func (cc *CatalogController) Home(c *gin.Context) {
	summary, err := cc.service.Summary(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "catalog summary")
		return
	}
	cc.respondPage(c, http.StatusOK, summary)
}

func (cc *CatalogController) respondPage(c *gin.Context, status int, data any) {
	resp := PageResponse{Data: data}
	if cc.flasher != nil {
		resp.Flash = cc.flasher.PopFlash(c.Request.Context())
	}
	c.JSON(status, resp)
}

func (cc *CatalogController) flash(c *gin.Context, message string) {
	if cc.flasher != nil {
		cc.flasher.Flash(c.Request.Context(), message)
	}
}

// page renders a read-only view. resource names the record in 404 responses.
func page(cc *CatalogController, resource string, load func(c *gin.Context) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := load(c)
		if err != nil {
			respondServiceError(c, err, resource, "load "+resource)
			return
		}
		cc.respondPage(c, http.StatusOK, data)
	}
}

// submit handles create and update posts: 303 to the saved record, or 422
// with the form to redisplay.
func submit[F any](cc *CatalogController, label, verb string, run func(c *gin.Context, raw forms.Values) (catalog.Outcome[F], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := postedValues(c)
		if !ok {
			return
		}
		out, err := run(c, raw)
		if err != nil {
			respondServiceError(c, err, label, label+" "+verb)
			return
		}
		if out.Invalid() {
			c.JSON(http.StatusUnprocessableEntity, PageResponse{Data: out.Form})
			return
		}
		cc.flash(c, label+" "+verb)
		c.Redirect(http.StatusSeeOther, out.RedirectURL)
	}
}

// confirmDelete shows a record with its dependents, or redirects to the list
// when the record is gone.
func confirmDelete[R any](cc *CatalogController, resource string, load func(c *gin.Context) (catalog.DeleteOutcome[R], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := load(c)
		if err != nil {
			respondServiceError(c, err, resource, "delete form "+resource)
			return
		}
		if out.RedirectURL != "" {
			c.Redirect(http.StatusSeeOther, out.RedirectURL)
			return
		}
		cc.respondPage(c, http.StatusOK, out)
	}
}

// remove handles delete posts: 303 to the list, or 409 with the dependents
// that block the delete.
func remove[R any](cc *CatalogController, label string, run func(c *gin.Context, raw forms.Values) (catalog.DeleteOutcome[R], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := postedValues(c)
		if !ok {
			return
		}
		out, err := run(c, raw)
		if err != nil {
			respondServiceError(c, err, label, label+" delete")
			return
		}
		if out.Blocked {
			c.JSON(http.StatusConflict, PageResponse{Data: out})
			return
		}
		cc.flash(c, label+" deleted")
		c.Redirect(http.StatusSeeOther, out.RedirectURL)
	}
}
