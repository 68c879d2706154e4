package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/library/internal/entities"
)

// Dependents are the records that reference a record about to be deleted.
type Dependents struct {
	Books     []entities.Book
	Instances []entities.BookInstance
}

func (d Dependents) Len() int {
	return len(d.Books) + len(d.Instances)
}

// Verdict is the result of a delete check. Absent means the target no longer
// exists and should be treated as already deleted.
type Verdict struct {
	Absent     bool
	Blocked    bool
	Dependents Dependents
}

// CanDelete checks whether the record can be removed without leaving dangling
// references. An author is blocked by its books and a book by its copies;
// genres and copies are never blocked.
//
// Run it inside Store.Atomic together with the delete so that no dependent can
// appear between the check and the write.
func CanDelete(ctx context.Context, store Store, kind Kind, id string) (Verdict, error) {
	var v Verdict

	exists, err := recordExists(ctx, store, kind, id)
	if err != nil {
		return v, err
	}
	if !exists {
		v.Absent = true
		return v, nil
	}

	switch kind {
	case KindAuthor:
		books, err := store.Books().ListBooksByAuthor(ctx, id)
		if err != nil {
			return v, fmt.Errorf("list books by author: %w", err)
		}
		v.Dependents.Books = books
	case KindBook:
		instances, err := store.Instances().ListInstancesByBook(ctx, id)
		if err != nil {
			return v, fmt.Errorf("list copies by book: %w", err)
		}
		v.Dependents.Instances = instances
	}

	v.Blocked = v.Dependents.Len() > 0
	return v, nil
}

func recordExists(ctx context.Context, store Store, kind Kind, id string) (bool, error) {
	var err error
	switch kind {
	case KindAuthor:
		_, err = store.Authors().GetAuthor(ctx, id)
	case KindGenre:
		_, err = store.Genres().GetGenre(ctx, id)
	case KindBook:
		_, err = store.Books().GetBook(ctx, id)
	case KindBookInstance:
		_, err = store.Instances().GetInstance(ctx, id)
	default:
		return false, fmt.Errorf("unknown record kind %q", kind)
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", kind, err)
	}
	return true, nil
}
