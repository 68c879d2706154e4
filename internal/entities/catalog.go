package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookInstanceStatus string

const (
	StatusAvailable   BookInstanceStatus = "Available"
	StatusMaintenance BookInstanceStatus = "Maintenance"
	StatusLoaned      BookInstanceStatus = "Loaned"
	StatusReserved    BookInstanceStatus = "Reserved"
)

// Statuses lists every copy status in display order.
func Statuses() []BookInstanceStatus {
	return []BookInstanceStatus{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}
}

// Valid reports whether s is one of the known copy statuses.
func (s BookInstanceStatus) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

type Author struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	FamilyName  string     `gorm:"index;size:100;not null" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

type Genre struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"index;type:text;not null" json:"name"`
}

type Book struct {
	ID       string  `gorm:"primaryKey;size:36" json:"id"`
	Title    string  `gorm:"type:text;not null" json:"title"`
	AuthorID string  `gorm:"index;size:36;not null" json:"author_id"`
	Summary  string  `gorm:"type:text;not null" json:"summary"`
	ISBN     string  `gorm:"type:text;not null" json:"isbn"`
	Author   *Author `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"author,omitempty"`

	// GenreIDs is the ordered reference list as submitted; Genres holds the
	// resolved records in the same order. Both are maintained by the books
	// repository through the book_genres table.
	GenreIDs []string `gorm:"-" json:"genre_ids"`
	Genres   []Genre  `gorm:"-" json:"genres,omitempty"`
}

// BookGenre links a book to one of its genres, keeping the submitted order.
type BookGenre struct {
	BookID   string `gorm:"primaryKey;size:36"`
	GenreID  string `gorm:"primaryKey;size:36;index"`
	Position int    `gorm:"not null"`
}

type BookInstance struct {
	ID      string             `gorm:"primaryKey;size:36" json:"id"`
	BookID  string             `gorm:"index;size:36;not null" json:"book_id"`
	Imprint string             `gorm:"type:text;not null" json:"imprint"`
	Status  BookInstanceStatus `gorm:"index;size:20;not null" json:"status"`
	DueBack time.Time          `json:"due_back"`
	Book    *Book              `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT" json:"book,omitempty"`
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}

func (Book) TableName() string {
	return "books"
}

func (BookGenre) TableName() string {
	return "book_genres"
}

func (BookInstance) TableName() string {
	return "book_instances"
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns the id and fills the status and due date defaults.
func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == "" {
		bi.ID = uuid.NewString()
	}
	if bi.Status == "" {
		bi.Status = StatusMaintenance
	}
	if bi.DueBack.IsZero() {
		bi.DueBack = time.Now()
	}
	return nil
}
