package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/library/internal/entities"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAuthorName(t *testing.T) {
	assert.Equal(t, "Austen, Jane", AuthorName(entities.Author{FirstName: "Jane", FamilyName: "Austen"}))
	assert.Equal(t, "", AuthorName(entities.Author{FirstName: "Jane"}))
	assert.Equal(t, "", AuthorName(entities.Author{FamilyName: "Austen"}))
}

func TestLifespan(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		author entities.Author
		want   string
	}{
		{"both dates", entities.Author{DateOfBirth: date(1900, 1, 1), DateOfDeath: date(1950, 6, 1)}, "50"},
		{"calendar years only", entities.Author{DateOfBirth: date(1900, 12, 31), DateOfDeath: date(1950, 1, 1)}, "50"},
		{"still alive", entities.Author{DateOfBirth: date(1990, 5, 5)}, "34"},
		{"no birth", entities.Author{}, "Unknown"},
		{"death without birth", entities.Author{DateOfDeath: date(1950, 1, 1)}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lifespan(tt.author, now))
		})
	}
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/catalog/author/a1", AuthorURL("a1"))
	assert.Equal(t, "/catalog/genre/g1", GenreURL("g1"))
	assert.Equal(t, "/catalog/book/b1", BookURL("b1"))
	assert.Equal(t, "/catalog/bookinstance/i1", BookInstanceURL("i1"))
	assert.Equal(t, "/catalog/authors", AuthorsURL)
	assert.Empty(t, BookURL(""))
}

func TestDates(t *testing.T) {
	assert.Equal(t, "05 June 2020", LongDate(date(2020, 6, 5)))
	assert.Equal(t, "?", LongDate(nil))
	assert.Equal(t, "2020-06-05", PickerDate(date(2020, 6, 5)))
	assert.Equal(t, "?", PickerDate(nil))

	due := time.Date(2020, time.June, 2, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "June 2nd, 2020", OrdinalDate(due))
	assert.Equal(t, "3 PM, 02 Jun 2020", DateTime(due))
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 23: "23rd", 31: "31st"}
	for n, want := range cases {
		assert.Equal(t, want, ordinal(n))
	}
}

func TestBookView(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	author := entities.Author{ID: "a1", FirstName: "Jane", FamilyName: "Austen"}
	book := entities.Book{
		ID:     "b1",
		Title:  "Emma",
		Author: &author,
		Genres: []entities.Genre{{ID: "g1", Name: "Romance"}},
	}

	view := Book(book, now)
	assert.Equal(t, "/catalog/book/b1", view.URL)
	if assert.NotNil(t, view.Author) {
		assert.Equal(t, "Austen, Jane", view.Author.Name)
		assert.Equal(t, "/catalog/author/a1", view.Author.URL)
	}
	if assert.Len(t, view.Genres, 1) {
		assert.Equal(t, "/catalog/genre/g1", view.Genres[0].URL)
	}

	instance := BookInstance(entities.BookInstance{ID: "i1", Book: &book, DueBack: now}, now)
	assert.Equal(t, "/catalog/bookinstance/i1", instance.URL)
	assert.Equal(t, "January 1st, 2024", instance.DueBackFormatted)
	assert.Equal(t, "2024-01-01", instance.DueBackPicker)
	if assert.NotNil(t, instance.Book) {
		assert.Equal(t, "Emma", instance.Book.Title)
	}
}
