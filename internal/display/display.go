// Package display computes presentation-only values from catalog records:
// author full name and lifespan, canonical URLs, and formatted dates.
//
// Nothing here is stored. Every function is pure and takes the record by
// value; callers recompute projections on each read.
package display

import (
	"strconv"
	"time"

	"github.com/mrlokans/library/internal/entities"
)

// Root is the path prefix of every catalog URL.
const Root = "/catalog"

// unknownDate is shown for dates that were never recorded.
const unknownDate = "?"

const (
	longDateLayout   = "02 January 2006"
	pickerDateLayout = "2006-01-02"
	dateTimeLayout   = "3 PM, 02 Jan 2006"
)

func AuthorURL(id string) string       { return recordURL("author", id) }
func GenreURL(id string) string        { return recordURL("genre", id) }
func BookURL(id string) string         { return recordURL("book", id) }
func BookInstanceURL(id string) string { return recordURL("bookinstance", id) }

// recordURL is empty for records that have not been saved yet.
func recordURL(kind, id string) string {
	if id == "" {
		return ""
	}
	return Root + "/" + kind + "/" + id
}

const (
	AuthorsURL       = Root + "/authors"
	GenresURL        = Root + "/genres"
	BooksURL         = Root + "/books"
	BookInstancesURL = Root + "/bookinstances"
)

// AuthorName returns "Family, First", or an empty string unless both names
// are present.
func AuthorName(a entities.Author) string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan is the difference of calendar years, not of full dates, so it can
// be one year more than the exact age near birthdays.
func Lifespan(a entities.Author, now time.Time) string {
	if a.DateOfBirth == nil {
		return "Unknown"
	}
	if a.DateOfDeath != nil {
		return strconv.Itoa(a.DateOfDeath.Year() - a.DateOfBirth.Year())
	}
	return strconv.Itoa(now.Year() - a.DateOfBirth.Year())
}

// LongDate formats an optional date as "05 June 2020".
func LongDate(t *time.Time) string {
	if t == nil {
		return unknownDate
	}
	return t.Format(longDateLayout)
}

// PickerDate formats an optional date for a date input (YYYY-MM-DD).
func PickerDate(t *time.Time) string {
	if t == nil {
		return unknownDate
	}
	return t.Format(pickerDateLayout)
}

// OrdinalDate formats a date as "June 5th, 2020".
func OrdinalDate(t time.Time) string {
	return t.Format("January") + " " + ordinal(t.Day()) + ", " + strconv.Itoa(t.Year())
}

// DateTime formats a timestamp as "3 PM, 05 Jun 2020".
func DateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
