package forms

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mrlokans/library/internal/entities"
)

const (
	FieldFirstName   = "first_name"
	FieldFamilyName  = "family_name"
	FieldDateOfBirth = "date_of_birth"
	FieldDateOfDeath = "date_of_death"
)

// MaxNameLength bounds first and family names.
const MaxNameLength = 100

// AuthorFields is a sanitized author submission.
type AuthorFields struct {
	FirstName   string
	FamilyName  string
	DateOfBirth *time.Time
	DateOfDeath *time.Time

	submitted fieldSet
}

// Author validates and sanitizes an author form.
func Author(raw Values) (AuthorFields, Errors) {
	firstName := strings.TrimSpace(raw.first(FieldFirstName))
	familyName := strings.TrimSpace(raw.first(FieldFamilyName))
	born := strings.TrimSpace(raw.first(FieldDateOfBirth))
	died := strings.TrimSpace(raw.first(FieldDateOfDeath))

	errs := collect(validation.Errors{
		FieldFirstName:   validation.Validate(firstName, nameRules("First name")...),
		FieldFamilyName:  validation.Validate(familyName, nameRules("Family name")...),
		FieldDateOfBirth: validation.Validate(born, dateRule("Invalid Date of Birth")),
		FieldDateOfDeath: validation.Validate(died, dateRule("Invalid Date of Death")),
	}, FieldFirstName, FieldFamilyName, FieldDateOfBirth, FieldDateOfDeath)

	return AuthorFields{
		FirstName:   Escape(firstName),
		FamilyName:  Escape(familyName),
		DateOfBirth: toDate(born),
		DateOfDeath: toDate(died),
		submitted:   raw.submitted(FieldFirstName, FieldFamilyName, FieldDateOfBirth, FieldDateOfDeath),
	}, errs
}

func nameRules(label string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(label + " must be specified"),
		validation.RuneLength(0, MaxNameLength).Error(label + " must be at most 100 characters"),
		is.Alphanumeric.Error(label + " has non-alphanumeric characters"),
	}
}

// Entity builds a new author from the submission.
func (f AuthorFields) Entity() entities.Author {
	return entities.Author{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: f.DateOfBirth,
		DateOfDeath: f.DateOfDeath,
	}
}

// Changes returns the columns to write on update. Only submitted fields are
// included; a submitted empty date clears the stored one.
func (f AuthorFields) Changes() map[string]any {
	changes := map[string]any{}
	if f.submitted[FieldFirstName] {
		changes["first_name"] = f.FirstName
	}
	if f.submitted[FieldFamilyName] {
		changes["family_name"] = f.FamilyName
	}
	if f.submitted[FieldDateOfBirth] {
		changes["date_of_birth"] = f.DateOfBirth
	}
	if f.submitted[FieldDateOfDeath] {
		changes["date_of_death"] = f.DateOfDeath
	}
	return changes
}

// Merge applies the submitted fields onto a stored author.
func (f AuthorFields) Merge(a entities.Author) entities.Author {
	if f.submitted[FieldFirstName] {
		a.FirstName = f.FirstName
	}
	if f.submitted[FieldFamilyName] {
		a.FamilyName = f.FamilyName
	}
	if f.submitted[FieldDateOfBirth] {
		a.DateOfBirth = f.DateOfBirth
	}
	if f.submitted[FieldDateOfDeath] {
		a.DateOfDeath = f.DateOfDeath
	}
	return a
}
