package forms

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/library/internal/entities"
)

const FieldName = "name"

// MinGenreNameLength is the shortest accepted genre name.
const MinGenreNameLength = 3

const genreNameMessage = "Genre name can not be empty or less than 3 characters"

// GenreFields is a sanitized genre submission.
type GenreFields struct {
	Name string

	submitted fieldSet
}

// Genre validates and sanitizes a genre form.
func Genre(raw Values) (GenreFields, Errors) {
	name := strings.TrimSpace(raw.first(FieldName))

	errs := collect(validation.Errors{
		FieldName: validation.Validate(name,
			validation.Required.Error(genreNameMessage),
			validation.RuneLength(MinGenreNameLength, 0).Error(genreNameMessage),
		),
	}, FieldName)

	return GenreFields{
		Name:      Escape(name),
		submitted: raw.submitted(FieldName),
	}, errs
}

func (f GenreFields) Entity() entities.Genre {
	return entities.Genre{Name: f.Name}
}

func (f GenreFields) Changes() map[string]any {
	changes := map[string]any{}
	if f.submitted[FieldName] {
		changes["name"] = f.Name
	}
	return changes
}

func (f GenreFields) Merge(g entities.Genre) entities.Genre {
	if f.submitted[FieldName] {
		g.Name = f.Name
	}
	return g
}
