package model

import (
	"time"

	"github.com/google/uuid"
)

// Loan records a client borrowing copies of a book, handled by a
// librarian. Stock moves the moment the loan is created and moves back
// when it is returned (or deleted while still open).
type Loan struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ClientID    uuid.UUID  `json:"client_id" db:"client_id"`
	LibrarianID uuid.UUID  `json:"librarian_id" db:"librarian_id"`
	BookID      uuid.UUID  `json:"book_id" db:"book_id"`
	Quantity    int        `json:"quantity" db:"quantity"`
	BorrowDate  time.Time  `json:"borrow_date" db:"borrow_date"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	ReturnDate  *time.Time `json:"return_date" db:"return_date"`
	Returned    bool       `json:"returned" db:"returned"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

func (l *Loan) IsOverdue(asOf time.Time) bool {
	return !l.Returned && asOf.After(l.DueDate)
}

// LoanDetail is the read projection with the joined names the list and
// detail endpoints show.
type LoanDetail struct {
	Loan
	ClientName      string `json:"client_name" db:"client_name"`
	LibrarianName   string `json:"librarian_name" db:"librarian_name"`
	BookTitle       string `json:"book_title" db:"book_title"`
	AuthorFirstName string `json:"author_first_name" db:"author_first_name"`
	AuthorLastName  string `json:"author_last_name" db:"author_last_name"`
}

type LoanFilter struct {
	ClientID uuid.UUID
	BookID   uuid.UUID
	Returned *bool
	Overdue  bool
	Limit    int
	Offset   int
}
