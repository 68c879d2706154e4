package catalog

import (
	"context"
	"fmt"

	"github.com/mrlokans/library/internal/display"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

type BookInstanceForm struct {
	Title        string                        `json:"title"`
	Instance     *display.BookInstanceView     `json:"instance,omitempty"`
	Books        []display.BookView            `json:"books"`
	Statuses     []entities.BookInstanceStatus `json:"statuses"`
	SelectedBook string                        `json:"selected_book,omitempty"`
	Errors       forms.Errors                  `json:"errors,omitempty"`
}

func (s *Service) ListBookInstances(ctx context.Context) ([]display.BookInstanceView, error) {
	instances, err := s.store.Instances().ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list copies: %w", err)
	}
	return display.BookInstances(instances, s.now()), nil
}

func (s *Service) BookInstanceDetail(ctx context.Context, id string) (display.BookInstanceView, error) {
	instance, err := s.store.Instances().GetInstance(ctx, id)
	if err != nil {
		return display.BookInstanceView{}, fmt.Errorf("get copy %s: %w", id, err)
	}
	return display.BookInstance(*instance, s.now()), nil
}

func (s *Service) BookInstanceCreateForm(ctx context.Context) (BookInstanceForm, error) {
	return s.instanceForm(ctx, "Create Instance (Copy) of Book", nil, nil)
}

// CreateBookInstance saves a new copy of an existing book. Status defaults to
// Maintenance and the due date to the time of creation.
func (s *Service) CreateBookInstance(ctx context.Context, raw forms.Values) (Outcome[BookInstanceForm], error) {
	fields, errs := forms.BookInstance(raw)
	instance := fields.Entity()

	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error
		if errs, err = checkInstanceRefs(ctx, tx, fields, errs); err != nil || len(errs) > 0 {
			return err
		}
		return tx.Instances().CreateInstance(ctx, &instance)
	})
	if err != nil {
		return Outcome[BookInstanceForm]{}, fmt.Errorf("create copy: %w", err)
	}

	if len(errs) > 0 {
		form, err := s.instanceForm(ctx, "Fix Errors in Create New Book Instance", &instance, errs)
		if err != nil {
			return Outcome[BookInstanceForm]{}, err
		}
		return Outcome[BookInstanceForm]{Form: &form}, nil
	}

	s.recorder.Created(ctx, KindBookInstance, instance.ID, instance.Imprint)
	return Outcome[BookInstanceForm]{RedirectURL: display.BookInstanceURL(instance.ID)}, nil
}

func (s *Service) BookInstanceUpdateForm(ctx context.Context, id string) (BookInstanceForm, error) {
	instance, err := s.store.Instances().GetInstance(ctx, id)
	if err != nil {
		return BookInstanceForm{}, fmt.Errorf("get copy %s: %w", id, err)
	}
	title := "Update Book Copy: " + instance.Imprint
	if instance.Book != nil {
		title = "Update Book: " + instance.Book.Title + ", Copy: " + instance.Imprint
	}
	return s.instanceForm(ctx, title, instance, nil)
}

// UpdateBookInstance applies the submitted fields to the stored copy. An
// empty status or due date keeps the stored value.
func (s *Service) UpdateBookInstance(ctx context.Context, id string, raw forms.Values) (Outcome[BookInstanceForm], error) {
	stored, err := s.store.Instances().GetInstance(ctx, id)
	if err != nil {
		return Outcome[BookInstanceForm]{}, fmt.Errorf("get copy %s: %w", id, err)
	}

	fields, errs := forms.BookInstance(raw)
	merged := fields.Merge(*stored)

	err = s.store.Atomic(ctx, func(tx Store) error {
		var err error
		if errs, err = checkInstanceRefs(ctx, tx, fields, errs); err != nil || len(errs) > 0 {
			return err
		}
		return tx.Instances().UpdateInstance(ctx, id, fields.Changes())
	})
	if err != nil {
		return Outcome[BookInstanceForm]{}, fmt.Errorf("update copy %s: %w", id, err)
	}

	if len(errs) > 0 {
		form, err := s.instanceForm(ctx, "Fix Errors in Update Book Copy", &merged, errs)
		if err != nil {
			return Outcome[BookInstanceForm]{}, err
		}
		return Outcome[BookInstanceForm]{Form: &form}, nil
	}

	s.recorder.Updated(ctx, KindBookInstance, id, merged.Imprint)
	return Outcome[BookInstanceForm]{RedirectURL: display.BookInstanceURL(id)}, nil
}

func (s *Service) BookInstanceDeleteForm(ctx context.Context, id string) (DeleteOutcome[display.BookInstanceView], error) {
	instance, err := s.store.Instances().GetInstance(ctx, id)
	if isNotFound(err) {
		return DeleteOutcome[display.BookInstanceView]{RedirectURL: display.BookInstancesURL}, nil
	}
	if err != nil {
		return DeleteOutcome[display.BookInstanceView]{}, fmt.Errorf("get copy %s: %w", id, err)
	}

	view := display.BookInstance(*instance, s.now())
	title := "Delete Copy: " + instance.ID
	if instance.Book != nil {
		title = "Delete Book: " + instance.Book.Title + ", Copy: " + instance.ID
	}
	return DeleteOutcome[display.BookInstanceView]{Title: title, Record: &view}, nil
}

// DeleteBookInstance removes the copy. Copies have no dependents.
func (s *Service) DeleteBookInstance(ctx context.Context, id string, raw forms.Values) (DeleteOutcome[display.BookInstanceView], error) {
	target := deleteTarget(KindBookInstance, id, raw)

	var instance *entities.BookInstance
	verdict, err := s.guardedDelete(ctx, KindBookInstance, target,
		func(tx Store) (err error) {
			instance, err = tx.Instances().GetInstance(ctx, target)
			return err
		},
		func(tx Store) error {
			return tx.Instances().DeleteInstance(ctx, target)
		},
	)
	if err != nil {
		return DeleteOutcome[display.BookInstanceView]{}, err
	}
	if !verdict.Absent {
		s.recorder.Deleted(ctx, KindBookInstance, target, instance.Imprint)
	}
	return DeleteOutcome[display.BookInstanceView]{RedirectURL: display.BookInstancesURL}, nil
}

func (s *Service) instanceForm(ctx context.Context, title string, instance *entities.BookInstance, errs forms.Errors) (BookInstanceForm, error) {
	books, err := s.store.Books().ListBooks(ctx)
	if err != nil {
		return BookInstanceForm{}, fmt.Errorf("list books: %w", err)
	}

	now := s.now()
	form := BookInstanceForm{
		Title:    title,
		Books:    display.Books(books, now),
		Statuses: entities.Statuses(),
		Errors:   errs,
	}
	if instance != nil {
		bi := *instance
		if bi.DueBack.IsZero() {
			bi.DueBack = now
		}
		view := display.BookInstance(bi, now)
		form.Instance = &view
		form.SelectedBook = bi.BookID
	}
	return form, nil
}

func checkInstanceRefs(ctx context.Context, store Store, fields forms.BookInstanceFields, errs forms.Errors) (forms.Errors, error) {
	if errs.Has(forms.FieldBook) {
		return errs, nil
	}
	_, err := store.Books().GetBook(ctx, fields.Book)
	if isNotFound(err) {
		return append(errs, forms.FieldError{Field: forms.FieldBook, Message: "Book not found"}), nil
	}
	if err != nil {
		return errs, fmt.Errorf("get book %s: %w", fields.Book, err)
	}
	return errs, nil
}
