package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/library/internal/display"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

// Recorder receives a note of every catalog mutation. Implementations must
// not fail the request; errors are theirs to log.
type Recorder interface {
	Created(ctx context.Context, kind Kind, id, label string)
	Updated(ctx context.Context, kind Kind, id, label string)
	Deleted(ctx context.Context, kind Kind, id, label string)
	DeleteBlocked(ctx context.Context, kind Kind, id, label string, dependents int)
}

type nopRecorder struct{}

func (nopRecorder) Created(context.Context, Kind, string, string)            {}
func (nopRecorder) Updated(context.Context, Kind, string, string)            {}
func (nopRecorder) Deleted(context.Context, Kind, string, string)            {}
func (nopRecorder) DeleteBlocked(context.Context, Kind, string, string, int) {}

// Service runs the catalog workflows. Store failures are returned wrapped;
// validation failures and blocked deletes are ordinary outcomes.
type Service struct {
	store    Store
	recorder Recorder
	now      func() time.Time
}

// NewService creates a catalog service. A nil recorder discards mutation
// notes.
func NewService(store Store, recorder Recorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		store:    store,
		recorder: recorder,
		now:      time.Now,
	}
}

// Outcome is the result of a create or update submission: either a form to
// redisplay with errors, or the URL of the saved record.
type Outcome[F any] struct {
	Form        *F     `json:"form,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Invalid reports whether the submission was rejected.
func (o Outcome[F]) Invalid() bool {
	return o.Form != nil
}

// DeleteOutcome is the result of a delete request or its confirmation view.
// A non-empty RedirectURL means there is nothing left to show.
type DeleteOutcome[R any] struct {
	Title       string         `json:"title,omitempty"`
	Blocked     bool           `json:"blocked"`
	Record      *R             `json:"record,omitempty"`
	Dependents  DependentsView `json:"dependents"`
	RedirectURL string         `json:"redirect_url,omitempty"`
}

type DependentsView struct {
	Books     []display.BookView         `json:"books,omitempty"`
	Instances []display.BookInstanceView `json:"instances,omitempty"`
}

func (s *Service) dependentsView(d Dependents) DependentsView {
	now := s.now()
	return DependentsView{
		Books:     display.Books(d.Books, now),
		Instances: display.BookInstances(d.Instances, now),
	}
}

// Summary holds the record counts shown on the catalog home page.
type Summary struct {
	Books              int64 `json:"book_count"`
	Instances          int64 `json:"book_instance_count"`
	AvailableInstances int64 `json:"book_instance_available_count"`
	Authors            int64 `json:"author_count"`
	Genres             int64 `json:"genre_count"`
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	var err error

	if sum.Books, err = s.store.Books().CountBooks(ctx); err != nil {
		return sum, fmt.Errorf("count books: %w", err)
	}
	if sum.Instances, err = s.store.Instances().CountInstances(ctx); err != nil {
		return sum, fmt.Errorf("count copies: %w", err)
	}
	if sum.AvailableInstances, err = s.store.Instances().CountInstancesByStatus(ctx, entities.StatusAvailable); err != nil {
		return sum, fmt.Errorf("count available copies: %w", err)
	}
	if sum.Authors, err = s.store.Authors().CountAuthors(ctx); err != nil {
		return sum, fmt.Errorf("count authors: %w", err)
	}
	if sum.Genres, err = s.store.Genres().CountGenres(ctx); err != nil {
		return sum, fmt.Errorf("count genres: %w", err)
	}
	return sum, nil
}

// deleteTarget picks the record id of a delete submission. The form carries
// it in a hidden "<kind>id" field; the path id is used when it is missing.
func deleteTarget(kind Kind, id string, raw forms.Values) string {
	if v := raw.Get(string(kind) + "id"); v != "" {
		return v
	}
	return id
}

// guardedDelete checks dependents, loads the record and deletes it inside one
// transaction. load runs for blocked deletes too so callers can show the
// record; remove runs only when nothing depends on it.
func (s *Service) guardedDelete(ctx context.Context, kind Kind, id string, load, remove func(Store) error) (Verdict, error) {
	var verdict Verdict
	err := s.store.Atomic(ctx, func(tx Store) error {
		var err error
		verdict, err = CanDelete(ctx, tx, kind, id)
		if err != nil || verdict.Absent {
			return err
		}
		if err := load(tx); err != nil {
			return err
		}
		if verdict.Blocked {
			return nil
		}
		return remove(tx)
	})
	if err != nil {
		return verdict, fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	return verdict, nil
}
