package forms

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/library/internal/entities"
)

const (
	FieldTitle   = "title"
	FieldAuthor  = "author"
	FieldSummary = "summary"
	FieldISBN    = "isbn"
	FieldGenre   = "genre"
)

// BookFields is a sanitized book submission. Author and Genres hold record
// ids; they are not checked for existence here.
type BookFields struct {
	Title   string
	Author  string
	Summary string
	ISBN    string
	Genres  []string

	submitted fieldSet
}

// Book validates and sanitizes a book form. The genre field is always
// normalized to a list, whatever shape it was submitted in.
func Book(raw Values) (BookFields, Errors) {
	title := strings.TrimSpace(raw.first(FieldTitle))
	author := strings.TrimSpace(raw.first(FieldAuthor))
	summary := strings.TrimSpace(raw.first(FieldSummary))
	isbn := strings.TrimSpace(raw.first(FieldISBN))

	errs := collect(validation.Errors{
		FieldTitle:   validation.Validate(title, validation.Required.Error("Title must not be empty.")),
		FieldAuthor:  validation.Validate(author, validation.Required.Error("Author must not be empty.")),
		FieldSummary: validation.Validate(summary, validation.Required.Error("Summary must not be empty.")),
		FieldISBN:    validation.Validate(isbn, validation.Required.Error("ISBN must not be empty")),
	}, FieldTitle, FieldAuthor, FieldSummary, FieldISBN)

	genres := raw.list(FieldGenre)
	for i, g := range genres {
		genres[i] = Escape(g)
	}

	return BookFields{
		Title:     Escape(title),
		Author:    Escape(author),
		Summary:   Escape(summary),
		ISBN:      Escape(isbn),
		Genres:    genres,
		submitted: raw.submitted(FieldTitle, FieldAuthor, FieldSummary, FieldISBN),
	}, errs
}

func (f BookFields) Entity() entities.Book {
	return entities.Book{
		Title:    f.Title,
		AuthorID: f.Author,
		Summary:  f.Summary,
		ISBN:     f.ISBN,
		GenreIDs: f.Genres,
	}
}

// Changes returns the scalar columns to write on update. The genre list is
// not a column; it always replaces the stored list since an unchecked set of
// boxes is submitted as an absent field.
func (f BookFields) Changes() map[string]any {
	changes := map[string]any{}
	if f.submitted[FieldTitle] {
		changes["title"] = f.Title
	}
	if f.submitted[FieldAuthor] {
		changes["author_id"] = f.Author
	}
	if f.submitted[FieldSummary] {
		changes["summary"] = f.Summary
	}
	if f.submitted[FieldISBN] {
		changes["isbn"] = f.ISBN
	}
	return changes
}

func (f BookFields) Merge(b entities.Book) entities.Book {
	if f.submitted[FieldTitle] {
		b.Title = f.Title
	}
	if f.submitted[FieldAuthor] {
		b.AuthorID = f.Author
	}
	if f.submitted[FieldSummary] {
		b.Summary = f.Summary
	}
	if f.submitted[FieldISBN] {
		b.ISBN = f.ISBN
	}
	b.GenreIDs = f.Genres
	return b
}
