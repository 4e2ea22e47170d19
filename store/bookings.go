package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evdbrink/networth"
)

// InsertLine stores an imported transaction line. Lines that match an
// already imported one (same own account, date, amount, counterparty and
// description) are silently skipped, so re-importing an export is harmless.
// Reports whether the line was actually inserted.
func (s *Store) InsertLine(l *networth.TransactionLine) (bool, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO transaction_lines
			(id, date, own_account, contra_account, contra_name, description, amount, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Date.String(), l.OwnAccount, l.ContraAccount, l.ContraName, l.Description,
		l.Amount.String(), l.Currency)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Line returns one transaction line by id.
func (s *Store) Line(id string) (networth.TransactionLine, error) {
	lines, err := s.loadLines(`WHERE l.id = ?`, id)
	if err != nil {
		return networth.TransactionLine{}, err
	}
	if len(lines) == 0 {
		return networth.TransactionLine{}, fmt.Errorf("transaction line %q not found", id)
	}
	return lines[0], nil
}

// Lines lists every imported transaction line, oldest first.
func (s *Store) Lines() ([]networth.TransactionLine, error) {
	return s.loadLines("")
}

// UnbookedLines lists the lines that have no booking yet.
func (s *Store) UnbookedLines() ([]networth.TransactionLine, error) {
	return s.loadLines(`WHERE NOT EXISTS (SELECT 1 FROM bookings b WHERE b.line_id = l.id)`)
}

func (s *Store) loadLines(where string, args ...any) ([]networth.TransactionLine, error) {
	rows, err := s.db.Query(`
		SELECT l.id, l.date, l.own_account, l.contra_account, l.contra_name, l.description, l.amount, l.currency
		FROM transaction_lines l `+where+` ORDER BY l.date, l.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []networth.TransactionLine
	for rows.Next() {
		var l networth.TransactionLine
		var date, amount string
		if err := rows.Scan(&l.ID, &date, &l.OwnAccount, &l.ContraAccount, &l.ContraName, &l.Description, &amount, &l.Currency); err != nil {
			return nil, err
		}
		if l.Date, err = networth.ParseDate(date); err != nil {
			return nil, err
		}
		if l.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("line %s: bad amount %q: %w", l.ID, amount, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// SaveBooking writes a booking and replaces its lines in one transaction.
func (s *Store) SaveBooking(b *networth.Booking) error {
	if b.ID == "" {
		return errors.New("booking id is missing")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO bookings (id, date, reference, line_id, created_at, requires_review, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date            = excluded.date,
			reference       = excluded.reference,
			line_id         = excluded.line_id,
			requires_review = excluded.requires_review,
			reviewed_at     = excluded.reviewed_at
	`, b.ID, b.Date.String(), b.Reference, b.LineID, b.CreatedAt.Format(time.RFC3339),
		boolInt(b.RequiresReview), timePtr(b.ReviewedAt))
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM booking_lines WHERE booking_id = ?`, b.ID); err != nil {
		return err
	}
	for i := range b.Lines {
		l := &b.Lines[i]
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.BookingID = b.ID
		_, err := tx.Exec(`
			INSERT INTO booking_lines
				(id, booking_id, number, ledger_id, debit, credit, currency, description, rule_id, requires_review, reviewed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, l.ID, b.ID, l.Number, l.LedgerID, l.Debit.String(), l.Credit.String(),
			l.Currency, l.Description, l.RuleID, boolInt(l.RequiresReview), timePtr(l.ReviewedAt))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Booking returns one booking with its lines.
func (s *Store) Booking(id string) (*networth.Booking, error) {
	bookings, err := s.loadBookings(`WHERE b.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("booking %q not found", id)
	}
	return bookings[0], nil
}

// BookingForLine returns the booking created from the given transaction
// line, if any.
func (s *Store) BookingForLine(lineID string) (*networth.Booking, bool, error) {
	bookings, err := s.loadBookings(`WHERE b.line_id = ?`, lineID)
	if err != nil || len(bookings) == 0 {
		return nil, false, err
	}
	return bookings[0], true, nil
}

// Bookings lists every booking with its lines, oldest first.
func (s *Store) Bookings() ([]*networth.Booking, error) {
	return s.loadBookings("")
}

func (s *Store) loadBookings(where string, args ...any) ([]*networth.Booking, error) {
	rows, err := s.db.Query(`
		SELECT b.id, b.date, b.reference, b.line_id, b.created_at, b.requires_review, b.reviewed_at
		FROM bookings b `+where+` ORDER BY b.date, b.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*networth.Booking
	index := make(map[string]*networth.Booking)
	for rows.Next() {
		b := &networth.Booking{}
		var date, created string
		var review int
		var reviewed sql.NullString
		if err := rows.Scan(&b.ID, &date, &b.Reference, &b.LineID, &created, &review, &reviewed); err != nil {
			return nil, err
		}
		if b.Date, err = networth.ParseDate(date); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, err
		}
		b.RequiresReview = review == 1
		if b.ReviewedAt, err = parseTimePtr(reviewed); err != nil {
			return nil, err
		}
		index[b.ID] = b
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := s.db.Query(`
		SELECT id, booking_id, number, ledger_id, debit, credit, currency, description, rule_id, requires_review, reviewed_at
		FROM booking_lines ORDER BY booking_id, number`)
	if err != nil {
		return nil, err
	}
	defer lines.Close()
	for lines.Next() {
		var l networth.BookingLine
		var debit, credit string
		var review int
		var reviewed sql.NullString
		if err := lines.Scan(&l.ID, &l.BookingID, &l.Number, &l.LedgerID, &debit, &credit,
			&l.Currency, &l.Description, &l.RuleID, &review, &reviewed); err != nil {
			return nil, err
		}
		b, ok := index[l.BookingID]
		if !ok {
			continue
		}
		if l.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, err
		}
		if l.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, err
		}
		l.RequiresReview = review == 1
		if l.ReviewedAt, err = parseTimePtr(reviewed); err != nil {
			return nil, err
		}
		b.Lines = append(b.Lines, l)
	}
	return bookings, lines.Err()
}

// MarkReviewed stamps the booking and all its lines with the given time.
// The caller is expected to have consulted networth.CanMarkReviewed first.
func (s *Store) MarkReviewed(bookingID string, at time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stamp := at.Format(time.RFC3339)
	res, err := tx.Exec(`UPDATE bookings SET reviewed_at = ? WHERE id = ?`, stamp, bookingID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("booking %q not found", bookingID)
	}
	if _, err := tx.Exec(`UPDATE booking_lines SET reviewed_at = ? WHERE booking_id = ?`, stamp, bookingID); err != nil {
		return err
	}
	return tx.Commit()
}

func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
