package catalog

import (
	"context"
	"fmt"

	"github.com/mrlokans/library/internal/display"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

type GenreDetail struct {
	Genre display.GenreView  `json:"genre"`
	Books []display.BookView `json:"books"`
}

type GenreForm struct {
	Title  string             `json:"title"`
	Genre  *display.GenreView `json:"genre,omitempty"`
	Errors forms.Errors       `json:"errors,omitempty"`
}

func (s *Service) ListGenres(ctx context.Context) ([]display.GenreView, error) {
	genres, err := s.store.Genres().ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return display.Genres(genres), nil
}

// GenreDetail returns the genre with the books listed under it.
func (s *Service) GenreDetail(ctx context.Context, id string) (GenreDetail, error) {
	genre, err := s.store.Genres().GetGenre(ctx, id)
	if err != nil {
		return GenreDetail{}, fmt.Errorf("get genre %s: %w", id, err)
	}
	books, err := s.store.Books().ListBooksByGenre(ctx, id)
	if err != nil {
		return GenreDetail{}, fmt.Errorf("list books by genre: %w", err)
	}
	return GenreDetail{
		Genre: display.Genre(*genre),
		Books: display.Books(books, s.now()),
	}, nil
}

func (s *Service) GenreCreateForm(ctx context.Context) (GenreForm, error) {
	return GenreForm{Title: "Create Genre"}, nil
}

// CreateGenre saves a new genre. A genre whose name matches an existing one
// exactly is not saved again; the existing record's URL is returned instead.
func (s *Service) CreateGenre(ctx context.Context, raw forms.Values) (Outcome[GenreForm], error) {
	fields, errs := forms.Genre(raw)
	genre := fields.Entity()
	if len(errs) > 0 {
		view := display.Genre(genre)
		return Outcome[GenreForm]{Form: &GenreForm{
			Title:  "Repeat Create Genre",
			Genre:  &view,
			Errors: errs,
		}}, nil
	}

	created := false
	err := s.store.Atomic(ctx, func(tx Store) error {
		existing, err := tx.Genres().FindGenreByName(ctx, genre.Name)
		if err == nil {
			genre = *existing
			return nil
		}
		if !isNotFound(err) {
			return err
		}
		created = true
		return tx.Genres().CreateGenre(ctx, &genre)
	})
	if err != nil {
		return Outcome[GenreForm]{}, fmt.Errorf("create genre: %w", err)
	}

	if created {
		s.recorder.Created(ctx, KindGenre, genre.ID, genre.Name)
	}
	return Outcome[GenreForm]{RedirectURL: display.GenreURL(genre.ID)}, nil
}

func (s *Service) GenreUpdateForm(ctx context.Context, id string) (GenreForm, error) {
	genre, err := s.store.Genres().GetGenre(ctx, id)
	if err != nil {
		return GenreForm{}, fmt.Errorf("get genre %s: %w", id, err)
	}
	view := display.Genre(*genre)
	return GenreForm{Title: "Update Genre Name", Genre: &view}, nil
}

// UpdateGenre renames the genre. Names stay unique, so renaming onto another
// genre's name is rejected like any other invalid submission.
func (s *Service) UpdateGenre(ctx context.Context, id string, raw forms.Values) (Outcome[GenreForm], error) {
	stored, err := s.store.Genres().GetGenre(ctx, id)
	if err != nil {
		return Outcome[GenreForm]{}, fmt.Errorf("get genre %s: %w", id, err)
	}

	fields, errs := forms.Genre(raw)
	merged := fields.Merge(*stored)
	if len(errs) == 0 {
		err = s.store.Atomic(ctx, func(tx Store) error {
			existing, err := tx.Genres().FindGenreByName(ctx, merged.Name)
			if err == nil && existing.ID != id {
				errs = append(errs, forms.FieldError{Field: forms.FieldName, Message: "Genre with this name already exists"})
				return nil
			}
			if err != nil && !isNotFound(err) {
				return err
			}
			return tx.Genres().UpdateGenre(ctx, id, fields.Changes())
		})
		if err != nil {
			return Outcome[GenreForm]{}, fmt.Errorf("update genre %s: %w", id, err)
		}
	}
	if len(errs) > 0 {
		view := display.Genre(merged)
		return Outcome[GenreForm]{Form: &GenreForm{
			Title:  "Fix Errors in Genre Update",
			Genre:  &view,
			Errors: errs,
		}}, nil
	}

	s.recorder.Updated(ctx, KindGenre, id, merged.Name)
	return Outcome[GenreForm]{RedirectURL: display.GenreURL(id)}, nil
}

// GenreDeleteForm returns the genre and the books listed under it. The books
// do not block the delete; they only lose the genre.
func (s *Service) GenreDeleteForm(ctx context.Context, id string) (DeleteOutcome[display.GenreView], error) {
	genre, err := s.store.Genres().GetGenre(ctx, id)
	if isNotFound(err) {
		return DeleteOutcome[display.GenreView]{RedirectURL: display.GenresURL}, nil
	}
	if err != nil {
		return DeleteOutcome[display.GenreView]{}, fmt.Errorf("get genre %s: %w", id, err)
	}
	books, err := s.store.Books().ListBooksByGenre(ctx, id)
	if err != nil {
		return DeleteOutcome[display.GenreView]{}, fmt.Errorf("list books by genre: %w", err)
	}

	view := display.Genre(*genre)
	return DeleteOutcome[display.GenreView]{
		Title:      "Delete Genre:",
		Record:     &view,
		Dependents: s.dependentsView(Dependents{Books: books}),
	}, nil
}

func (s *Service) DeleteGenre(ctx context.Context, id string, raw forms.Values) (DeleteOutcome[display.GenreView], error) {
	target := deleteTarget(KindGenre, id, raw)

	var genre *entities.Genre
	verdict, err := s.guardedDelete(ctx, KindGenre, target,
		func(tx Store) (err error) {
			genre, err = tx.Genres().GetGenre(ctx, target)
			return err
		},
		func(tx Store) error {
			return tx.Genres().DeleteGenre(ctx, target)
		},
	)
	if err != nil {
		return DeleteOutcome[display.GenreView]{}, err
	}
	if !verdict.Absent {
		s.recorder.Deleted(ctx, KindGenre, target, genre.Name)
	}
	return DeleteOutcome[display.GenreView]{RedirectURL: display.GenresURL}, nil
}
