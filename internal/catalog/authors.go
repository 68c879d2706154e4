package catalog

import (
	"context"
	"fmt"

	"github.com/mrlokans/library/internal/display"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

type AuthorDetail struct {
	Author display.AuthorView `json:"author"`
	Books  []display.BookView `json:"books"`
}

type AuthorForm struct {
	Title  string              `json:"title"`
	Author *display.AuthorView `json:"author,omitempty"`
	Errors forms.Errors        `json:"errors,omitempty"`
}

func (s *Service) ListAuthors(ctx context.Context) ([]display.AuthorView, error) {
	authors, err := s.store.Authors().ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return display.Authors(authors, s.now()), nil
}

// AuthorDetail returns the author with the books they wrote.
func (s *Service) AuthorDetail(ctx context.Context, id string) (AuthorDetail, error) {
	author, err := s.store.Authors().GetAuthor(ctx, id)
	if err != nil {
		return AuthorDetail{}, fmt.Errorf("get author %s: %w", id, err)
	}
	books, err := s.store.Books().ListBooksByAuthor(ctx, id)
	if err != nil {
		return AuthorDetail{}, fmt.Errorf("list books by author: %w", err)
	}
	now := s.now()
	return AuthorDetail{
		Author: display.Author(*author, now),
		Books:  display.Books(books, now),
	}, nil
}

func (s *Service) AuthorCreateForm(ctx context.Context) (AuthorForm, error) {
	return AuthorForm{Title: "Create Author"}, nil
}

func (s *Service) CreateAuthor(ctx context.Context, raw forms.Values) (Outcome[AuthorForm], error) {
	fields, errs := forms.Author(raw)
	author := fields.Entity()
	if len(errs) > 0 {
		view := display.Author(author, s.now())
		return Outcome[AuthorForm]{Form: &AuthorForm{
			Title:  "Correct Errors In Author Creation",
			Author: &view,
			Errors: errs,
		}}, nil
	}

	if err := s.store.Authors().CreateAuthor(ctx, &author); err != nil {
		return Outcome[AuthorForm]{}, fmt.Errorf("create author: %w", err)
	}
	s.recorder.Created(ctx, KindAuthor, author.ID, display.AuthorName(author))
	return Outcome[AuthorForm]{RedirectURL: display.AuthorURL(author.ID)}, nil
}

func (s *Service) AuthorUpdateForm(ctx context.Context, id string) (AuthorForm, error) {
	author, err := s.store.Authors().GetAuthor(ctx, id)
	if err != nil {
		return AuthorForm{}, fmt.Errorf("get author %s: %w", id, err)
	}
	view := display.Author(*author, s.now())
	return AuthorForm{Title: "Update Author Information", Author: &view}, nil
}

// UpdateAuthor applies the submitted fields to the stored author. Fields that
// were not submitted keep their stored values.
func (s *Service) UpdateAuthor(ctx context.Context, id string, raw forms.Values) (Outcome[AuthorForm], error) {
	stored, err := s.store.Authors().GetAuthor(ctx, id)
	if err != nil {
		return Outcome[AuthorForm]{}, fmt.Errorf("get author %s: %w", id, err)
	}

	fields, errs := forms.Author(raw)
	merged := fields.Merge(*stored)
	if len(errs) > 0 {
		view := display.Author(merged, s.now())
		return Outcome[AuthorForm]{Form: &AuthorForm{
			Title:  "Correct Errors In Author Update",
			Author: &view,
			Errors: errs,
		}}, nil
	}

	if err := s.store.Authors().UpdateAuthor(ctx, id, fields.Changes()); err != nil {
		return Outcome[AuthorForm]{}, fmt.Errorf("update author %s: %w", id, err)
	}
	s.recorder.Updated(ctx, KindAuthor, id, display.AuthorName(merged))
	return Outcome[AuthorForm]{RedirectURL: display.AuthorURL(id)}, nil
}

// AuthorDeleteForm returns the author and their books for confirmation. A
// missing author redirects to the author list.
func (s *Service) AuthorDeleteForm(ctx context.Context, id string) (DeleteOutcome[display.AuthorView], error) {
	author, err := s.store.Authors().GetAuthor(ctx, id)
	if isNotFound(err) {
		return DeleteOutcome[display.AuthorView]{RedirectURL: display.AuthorsURL}, nil
	}
	if err != nil {
		return DeleteOutcome[display.AuthorView]{}, fmt.Errorf("get author %s: %w", id, err)
	}
	books, err := s.store.Books().ListBooksByAuthor(ctx, id)
	if err != nil {
		return DeleteOutcome[display.AuthorView]{}, fmt.Errorf("list books by author: %w", err)
	}

	view := display.Author(*author, s.now())
	return DeleteOutcome[display.AuthorView]{
		Title:      "Delete Author:",
		Record:     &view,
		Dependents: s.dependentsView(Dependents{Books: books}),
	}, nil
}

// DeleteAuthor removes the author unless books still reference them.
func (s *Service) DeleteAuthor(ctx context.Context, id string, raw forms.Values) (DeleteOutcome[display.AuthorView], error) {
	target := deleteTarget(KindAuthor, id, raw)

	var author *entities.Author
	verdict, err := s.guardedDelete(ctx, KindAuthor, target,
		func(tx Store) (err error) {
			author, err = tx.Authors().GetAuthor(ctx, target)
			return err
		},
		func(tx Store) error {
			return tx.Authors().DeleteAuthor(ctx, target)
		},
	)
	if err != nil {
		return DeleteOutcome[display.AuthorView]{}, err
	}
	if verdict.Absent {
		return DeleteOutcome[display.AuthorView]{RedirectURL: display.AuthorsURL}, nil
	}

	name := display.AuthorName(*author)
	if verdict.Blocked {
		s.recorder.DeleteBlocked(ctx, KindAuthor, target, name, verdict.Dependents.Len())
		view := display.Author(*author, s.now())
		return DeleteOutcome[display.AuthorView]{
			Title:      "Can not delete Author while books still listed:",
			Blocked:    true,
			Record:     &view,
			Dependents: s.dependentsView(verdict.Dependents),
		}, nil
	}

	s.recorder.Deleted(ctx, KindAuthor, target, name)
	return DeleteOutcome[display.AuthorView]{RedirectURL: display.AuthorsURL}, nil
}
