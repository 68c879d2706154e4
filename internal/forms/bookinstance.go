package forms

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/library/internal/entities"
)

const (
	FieldBook    = "book"
	FieldImprint = "imprint"
	FieldStatus  = "status"
	FieldDueBack = "due_back"
)

// BookInstanceFields is a sanitized copy submission. Empty Status and nil
// DueBack mean "not provided".
type BookInstanceFields struct {
	Book    string
	Imprint string
	Status  entities.BookInstanceStatus
	DueBack *time.Time

	submitted fieldSet
}

// BookInstance validates and sanitizes a book copy form.
func BookInstance(raw Values) (BookInstanceFields, Errors) {
	book := strings.TrimSpace(raw.first(FieldBook))
	imprint := strings.TrimSpace(raw.first(FieldImprint))
	status := strings.TrimSpace(raw.first(FieldStatus))
	dueBack := strings.TrimSpace(raw.first(FieldDueBack))

	errs := collect(validation.Errors{
		FieldBook:    validation.Validate(book, validation.Required.Error("Book must be specified")),
		FieldImprint: validation.Validate(imprint, validation.Required.Error("Imprint must be specified (Publisher, Year)")),
		FieldStatus:  validation.Validate(status, validation.By(knownStatus)),
		FieldDueBack: validation.Validate(dueBack, dateRule("Invalid return date")),
	}, FieldBook, FieldImprint, FieldStatus, FieldDueBack)

	return BookInstanceFields{
		Book:      Escape(book),
		Imprint:   Escape(imprint),
		Status:    entities.BookInstanceStatus(Escape(status)),
		DueBack:   toDate(dueBack),
		submitted: raw.submitted(FieldBook, FieldImprint, FieldStatus, FieldDueBack),
	}, errs
}

// knownStatus accepts an empty status, which means "not provided".
func knownStatus(value any) error {
	s, _ := value.(string)
	if s == "" || entities.BookInstanceStatus(s).Valid() {
		return nil
	}
	return validation.NewError("validation_status_invalid", "Invalid status")
}

// Entity builds a new copy; status and due date defaults are filled in when
// the record is created.
func (f BookInstanceFields) Entity() entities.BookInstance {
	bi := entities.BookInstance{
		BookID:  f.Book,
		Imprint: f.Imprint,
		Status:  f.Status,
	}
	if f.DueBack != nil {
		bi.DueBack = *f.DueBack
	}
	return bi
}

// Changes returns the columns to write on update. Status and due date keep
// their stored values unless a non-empty value was submitted.
func (f BookInstanceFields) Changes() map[string]any {
	changes := map[string]any{}
	if f.submitted[FieldBook] {
		changes["book_id"] = f.Book
	}
	if f.submitted[FieldImprint] {
		changes["imprint"] = f.Imprint
	}
	if f.Status != "" {
		changes["status"] = f.Status
	}
	if f.DueBack != nil {
		changes["due_back"] = *f.DueBack
	}
	return changes
}

func (f BookInstanceFields) Merge(bi entities.BookInstance) entities.BookInstance {
	if f.submitted[FieldBook] {
		bi.BookID = f.Book
	}
	if f.submitted[FieldImprint] {
		bi.Imprint = f.Imprint
	}
	if f.Status != "" {
		bi.Status = f.Status
	}
	if f.DueBack != nil {
		bi.DueBack = *f.DueBack
	}
	return bi
}
