package catalog

import (
	"context"
	"fmt"

	"github.com/mrlokans/library/internal/display"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

type BookDetail struct {
	Book      display.BookView           `json:"book"`
	Instances []display.BookInstanceView `json:"instances"`
}

// GenreOption is a genre offered on a book form. Checked marks genres the
// book currently lists.
type GenreOption struct {
	display.GenreView
	Checked bool `json:"checked"`
}

type BookForm struct {
	Title   string               `json:"title"`
	Book    *display.BookView    `json:"book,omitempty"`
	Authors []display.AuthorView `json:"authors"`
	Genres  []GenreOption        `json:"genres"`
	Errors  forms.Errors         `json:"errors,omitempty"`
}

func (s *Service) ListBooks(ctx context.Context) ([]display.BookView, error) {
	books, err := s.store.Books().ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return display.Books(books, s.now()), nil
}

// BookDetail returns the book with its author, genres and copies resolved.
func (s *Service) BookDetail(ctx context.Context, id string) (BookDetail, error) {
	book, err := s.store.Books().GetBook(ctx, id)
	if err != nil {
		return BookDetail{}, fmt.Errorf("get book %s: %w", id, err)
	}
	instances, err := s.store.Instances().ListInstancesByBook(ctx, id)
	if err != nil {
		return BookDetail{}, fmt.Errorf("list copies by book: %w", err)
	}
	now := s.now()
	return BookDetail{
		Book:      display.Book(*book, now),
		Instances: display.BookInstances(instances, now),
	}, nil
}

func (s *Service) BookCreateForm(ctx context.Context) (BookForm, error) {
	return s.bookForm(ctx, "Create New Book", nil, nil)
}

// CreateBook saves a new book. The author and every listed genre must exist.
func (s *Service) CreateBook(ctx context.Context, raw forms.Values) (Outcome[BookForm], error) {
	fields, errs := forms.Book(raw)
	book := fields.Entity()

	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error
		if errs, err = checkBookRefs(ctx, tx, fields, errs); err != nil || len(errs) > 0 {
			return err
		}
		return tx.Books().CreateBook(ctx, &book)
	})
	if err != nil {
		return Outcome[BookForm]{}, fmt.Errorf("create book: %w", err)
	}

	if len(errs) > 0 {
		form, err := s.bookForm(ctx, "Fix Errors in Create Book", &book, errs)
		if err != nil {
			return Outcome[BookForm]{}, err
		}
		return Outcome[BookForm]{Form: &form}, nil
	}

	s.recorder.Created(ctx, KindBook, book.ID, book.Title)
	return Outcome[BookForm]{RedirectURL: display.BookURL(book.ID)}, nil
}

func (s *Service) BookUpdateForm(ctx context.Context, id string) (BookForm, error) {
	book, err := s.store.Books().GetBook(ctx, id)
	if err != nil {
		return BookForm{}, fmt.Errorf("get book %s: %w", id, err)
	}
	return s.bookForm(ctx, "Update Book", book, nil)
}

// UpdateBook applies the submitted fields to the stored book. The genre list
// is always replaced, so a submission without genres clears them.
func (s *Service) UpdateBook(ctx context.Context, id string, raw forms.Values) (Outcome[BookForm], error) {
	stored, err := s.store.Books().GetBook(ctx, id)
	if err != nil {
		return Outcome[BookForm]{}, fmt.Errorf("get book %s: %w", id, err)
	}

	fields, errs := forms.Book(raw)
	merged := fields.Merge(*stored)

	err = s.store.Atomic(ctx, func(tx Store) error {
		var err error
		if errs, err = checkBookRefs(ctx, tx, fields, errs); err != nil || len(errs) > 0 {
			return err
		}
		return tx.Books().UpdateBook(ctx, id, fields.Changes(), fields.Genres)
	})
	if err != nil {
		return Outcome[BookForm]{}, fmt.Errorf("update book %s: %w", id, err)
	}

	if len(errs) > 0 {
		form, err := s.bookForm(ctx, "Update Book Information", &merged, errs)
		if err != nil {
			return Outcome[BookForm]{}, err
		}
		return Outcome[BookForm]{Form: &form}, nil
	}

	s.recorder.Updated(ctx, KindBook, id, merged.Title)
	return Outcome[BookForm]{RedirectURL: display.BookURL(id)}, nil
}

// BookDeleteForm returns the book and its copies for confirmation.
func (s *Service) BookDeleteForm(ctx context.Context, id string) (DeleteOutcome[display.BookView], error) {
	book, err := s.store.Books().GetBook(ctx, id)
	if isNotFound(err) {
		return DeleteOutcome[display.BookView]{RedirectURL: display.BooksURL}, nil
	}
	if err != nil {
		return DeleteOutcome[display.BookView]{}, fmt.Errorf("get book %s: %w", id, err)
	}
	instances, err := s.store.Instances().ListInstancesByBook(ctx, id)
	if err != nil {
		return DeleteOutcome[display.BookView]{}, fmt.Errorf("list copies by book: %w", err)
	}

	view := display.Book(*book, s.now())
	return DeleteOutcome[display.BookView]{
		Title:      "Delete Book:",
		Record:     &view,
		Dependents: s.dependentsView(Dependents{Instances: instances}),
	}, nil
}

// DeleteBook removes the book unless copies of it are still listed.
func (s *Service) DeleteBook(ctx context.Context, id string, raw forms.Values) (DeleteOutcome[display.BookView], error) {
	target := deleteTarget(KindBook, id, raw)

	var book *entities.Book
	verdict, err := s.guardedDelete(ctx, KindBook, target,
		func(tx Store) (err error) {
			book, err = tx.Books().GetBook(ctx, target)
			return err
		},
		func(tx Store) error {
			return tx.Books().DeleteBook(ctx, target)
		},
	)
	if err != nil {
		return DeleteOutcome[display.BookView]{}, err
	}
	if verdict.Absent {
		return DeleteOutcome[display.BookView]{RedirectURL: display.BooksURL}, nil
	}

	if verdict.Blocked {
		s.recorder.DeleteBlocked(ctx, KindBook, target, book.Title, verdict.Dependents.Len())
		view := display.Book(*book, s.now())
		return DeleteOutcome[display.BookView]{
			Title:      "Can not delete Book while copies of books still listed:",
			Blocked:    true,
			Record:     &view,
			Dependents: s.dependentsView(verdict.Dependents),
		}, nil
	}

	s.recorder.Deleted(ctx, KindBook, target, book.Title)
	return DeleteOutcome[display.BookView]{RedirectURL: display.BooksURL}, nil
}

// bookForm loads the author and genre choices for a book form. Genres the
// book lists are checked.
func (s *Service) bookForm(ctx context.Context, title string, book *entities.Book, errs forms.Errors) (BookForm, error) {
	authors, err := s.store.Authors().ListAuthors(ctx)
	if err != nil {
		return BookForm{}, fmt.Errorf("list authors: %w", err)
	}
	genres, err := s.store.Genres().ListGenres(ctx)
	if err != nil {
		return BookForm{}, fmt.Errorf("list genres: %w", err)
	}

	now := s.now()
	form := BookForm{
		Title:   title,
		Authors: display.Authors(authors, now),
		Genres:  make([]GenreOption, 0, len(genres)),
		Errors:  errs,
	}

	selected := map[string]bool{}
	if book != nil {
		for _, id := range book.GenreIDs {
			selected[id] = true
		}
		view := display.Book(*book, now)
		form.Book = &view
	}
	for _, g := range genres {
		form.Genres = append(form.Genres, GenreOption{
			GenreView: display.Genre(g),
			Checked:   selected[g.ID],
		})
	}
	return form, nil
}

// checkBookRefs appends a field error for an author or genre id that does not
// resolve to a stored record.
func checkBookRefs(ctx context.Context, store Store, fields forms.BookFields, errs forms.Errors) (forms.Errors, error) {
	if !errs.Has(forms.FieldAuthor) {
		_, err := store.Authors().GetAuthor(ctx, fields.Author)
		if isNotFound(err) {
			errs = append(errs, forms.FieldError{Field: forms.FieldAuthor, Message: "Author not found"})
		} else if err != nil {
			return errs, fmt.Errorf("get author %s: %w", fields.Author, err)
		}
	}

	missing, err := store.Genres().MissingGenres(ctx, fields.Genres)
	if err != nil {
		return errs, fmt.Errorf("check genres: %w", err)
	}
	if len(missing) > 0 {
		errs = append(errs, forms.FieldError{Field: forms.FieldGenre, Message: "Genre not found"})
	}
	return errs, nil
}
