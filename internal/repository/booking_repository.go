package repository

import (
	"context"
	"database/sql"

	"github.com/rzazoo/zoo-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings. Ownership-sensitive
// writes (update, delete) re-check the owning user inside the same
// transaction that mutates the row.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = "id,user_id,name,email,visit_date,tickets,ticket_type,created_at"

func scanBooking(row *sql.Row) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Email, &b.VisitDate,
		&b.Tickets, &b.TicketType, &b.CreatedAt)
	return b, err
}

// Create inserts a new booking and populates the generated ID.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookings (user_id, name, email, visit_date, tickets, ticket_type) VALUES (?,?,?,?,?,?)",
		b.UserID, b.Name, b.Email, b.VisitDate.Format("2006-01-02"), b.Tickets, b.TicketType)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a single booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	return scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id))
}

// ListAll returns every booking ordered by visit date. Shown on the
// public home page.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingCols+" FROM bookings ORDER BY visit_date, id")
}

// ListByUser returns the bookings owned by one account.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY visit_date, id", userID)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Email, &b.VisitDate,
			&b.Tickets, &b.TicketType, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListWithOwners joins every booking with its owner's username for the
// admin dashboard.
func (r *BookingRepo) ListWithOwners(ctx context.Context) ([]model.BookingWithOwner, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.name, b.email, b.visit_date, b.tickets, b.ticket_type, b.created_at, u.username
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		ORDER BY b.visit_date, b.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingWithOwner
	for rows.Next() {
		var b model.BookingWithOwner
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Email, &b.VisitDate,
			&b.Tickets, &b.TicketType, &b.CreatedAt, &b.Username); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateOwned overwrites a booking's editable fields. The owner row is
// locked and re-checked inside the transaction; a caller who neither owns
// the booking nor is admin gets ErrForbidden and the row is untouched.
// A missing booking surfaces as sql.ErrNoRows.
func (r *BookingRepo) UpdateOwned(ctx context.Context, b *model.Booking, callerID uint64, callerAdmin bool) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ownerID, err := checkOwner(ctx, tx, b.ID, callerID, callerAdmin)
	if err != nil {
		return err
	}
	b.UserID = ownerID
	_, err = tx.ExecContext(ctx,
		"UPDATE bookings SET name=?, email=?, visit_date=?, tickets=?, ticket_type=? WHERE id=?",
		b.Name, b.Email, b.VisitDate.Format("2006-01-02"), b.Tickets, b.TicketType, b.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteOwned removes a booking with the same ownership discipline as
// UpdateOwned. Deletion is a hard row removal.
func (r *BookingRepo) DeleteOwned(ctx context.Context, id, callerID uint64, callerAdmin bool) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := checkOwner(ctx, tx, id, callerID, callerAdmin); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func checkOwner(ctx context.Context, tx *sql.Tx, bookingID, callerID uint64, callerAdmin bool) (uint64, error) {
	var ownerID uint64
	err := tx.QueryRowContext(ctx,
		"SELECT user_id FROM bookings WHERE id=? FOR UPDATE", bookingID).Scan(&ownerID)
	if err != nil {
		return 0, err
	}
	if ownerID != callerID && !callerAdmin {
		return 0, ErrForbidden
	}
	return ownerID, nil
}
