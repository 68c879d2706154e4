package display

import (
	"time"

	"github.com/mrlokans/library/internal/entities"
)

type AuthorView struct {
	entities.Author
	Name                 string `json:"name"`
	Lifespan             string `json:"lifespan"`
	URL                  string `json:"url"`
	DateOfBirthFormatted string `json:"date_of_birth_formatted"`
	DateOfDeathFormatted string `json:"date_of_death_formatted"`
	DateOfBirthPicker    string `json:"date_of_birth_picker"`
	DateOfDeathPicker    string `json:"date_of_death_picker"`
}

type GenreView struct {
	entities.Genre
	URL string `json:"url"`
}

// BookView shadows the record's Author and Genres with their projections.
type BookView struct {
	entities.Book
	URL    string      `json:"url"`
	Author *AuthorView `json:"author,omitempty"`
	Genres []GenreView `json:"genres"`
}

// BookInstanceView shadows the record's Book with its projection.
type BookInstanceView struct {
	entities.BookInstance
	URL              string    `json:"url"`
	Book             *BookView `json:"book,omitempty"`
	DueBackFormatted string    `json:"due_back_formatted"`
	DueBackPicker    string    `json:"due_back_picker"`
	DueBackDateTime  string    `json:"due_back_date_time"`
}

func Author(a entities.Author, now time.Time) AuthorView {
	return AuthorView{
		Author:               a,
		Name:                 AuthorName(a),
		Lifespan:             Lifespan(a, now),
		URL:                  AuthorURL(a.ID),
		DateOfBirthFormatted: LongDate(a.DateOfBirth),
		DateOfDeathFormatted: LongDate(a.DateOfDeath),
		DateOfBirthPicker:    PickerDate(a.DateOfBirth),
		DateOfDeathPicker:    PickerDate(a.DateOfDeath),
	}
}

func Authors(as []entities.Author, now time.Time) []AuthorView {
	views := make([]AuthorView, 0, len(as))
	for _, a := range as {
		views = append(views, Author(a, now))
	}
	return views
}

func Genre(g entities.Genre) GenreView {
	return GenreView{Genre: g, URL: GenreURL(g.ID)}
}

func Genres(gs []entities.Genre) []GenreView {
	views := make([]GenreView, 0, len(gs))
	for _, g := range gs {
		views = append(views, Genre(g))
	}
	return views
}

// Book projects a book together with whatever related records were resolved.
func Book(b entities.Book, now time.Time) BookView {
	view := BookView{
		Book:   b,
		URL:    BookURL(b.ID),
		Genres: Genres(b.Genres),
	}
	if b.Author != nil {
		av := Author(*b.Author, now)
		view.Author = &av
	}
	return view
}

func Books(bs []entities.Book, now time.Time) []BookView {
	views := make([]BookView, 0, len(bs))
	for _, b := range bs {
		views = append(views, Book(b, now))
	}
	return views
}

func BookInstance(bi entities.BookInstance, now time.Time) BookInstanceView {
	view := BookInstanceView{
		BookInstance:     bi,
		URL:              BookInstanceURL(bi.ID),
		DueBackFormatted: OrdinalDate(bi.DueBack),
		DueBackPicker:    bi.DueBack.Format(pickerDateLayout),
		DueBackDateTime:  DateTime(bi.DueBack),
	}
	if bi.Book != nil {
		bv := Book(*bi.Book, now)
		view.Book = &bv
	}
	return view
}

func BookInstances(bis []entities.BookInstance, now time.Time) []BookInstanceView {
	views := make([]BookInstanceView, 0, len(bis))
	for _, bi := range bis {
		views = append(views, BookInstance(bi, now))
	}
	return views
}
