// Package repository contains data access logic separated from HTTP handlers.
// This file implements TransferStore on top of database/sql.  The queries
// only use `?` placeholders and portable SQL so the same repository serves
// both the MySQL and the SQLite drivers opened by the database package.
package repository

import (
	"context"      // context carries deadlines and cancellation to DB operations
	"database/sql" // sql provides generic database operations
	"errors"

	"github.com/iliyamo/flight-transfer-admin/internal/model"
)

// TransferRepo encapsulates all database queries related to transfers.  It
// depends on a sql.DB connection which should be configured elsewhere.
type TransferRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewTransferRepo constructs a TransferRepo with the provided DB handle.
func NewTransferRepo(db *sql.DB) *TransferRepo {
	return &TransferRepo{db: db}
}

const transferColumns = `id, flight_code, transfer_date, transfer_time,
	destination_pickup, destination_dropoff, guest_name, guest_count, notes`

// List returns all transfers ordered by transfer_date descending.  Ties are
// broken by id so the order is stable between calls.
func (r *TransferRepo) List(ctx context.Context) ([]model.Transfer, error) {
	q := `SELECT ` + transferColumns + ` FROM transfers ORDER BY transfer_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, wrap(OpList, err)
	}
	defer rows.Close()

	out := make([]model.Transfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, wrap(OpList, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(OpList, err)
	}
	return out, nil
}

// Insert adds a new transfer.  The id of the returned transfer is the
// auto-generated primary key.
func (r *TransferRepo) Insert(ctx context.Context, f model.TransferFields) (model.Transfer, error) {
	const q = `INSERT INTO transfers (flight_code, transfer_date, transfer_time,
	           destination_pickup, destination_dropoff, guest_name, guest_count, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.FlightCode, f.TransferDate, f.TransferTime,
		f.DestinationPickup, f.DestinationDropoff, f.GuestName, f.GuestCount, nullable(f.Notes))
	if err != nil {
		return model.Transfer{}, wrap(OpInsert, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Transfer{}, wrap(OpInsert, err)
	}
	return model.Transfer{ID: uint64(id), TransferFields: f}, nil
}

// Update overwrites every column of the transfer with the given id.  It
// returns ErrTransferNotFound when no row matches.
func (r *TransferRepo) Update(ctx context.Context, id uint64, f model.TransferFields) error {
	const q = `UPDATE transfers
	           SET flight_code = ?, transfer_date = ?, transfer_time = ?,
	               destination_pickup = ?, destination_dropoff = ?,
	               guest_name = ?, guest_count = ?, notes = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		f.FlightCode, f.TransferDate, f.TransferTime,
		f.DestinationPickup, f.DestinationDropoff, f.GuestName, f.GuestCount, nullable(f.Notes), id)
	if err != nil {
		return wrap(OpUpdate, err)
	}
	// MySQL reports matched rather than changed rows because the DSN sets
	// clientFoundRows, so an unchanged row still counts as found.
	if n, _ := res.RowsAffected(); n == 0 {
		return wrap(OpUpdate, ErrTransferNotFound)
	}
	return nil
}

// Delete removes the transfer with the given id or returns
// ErrTransferNotFound.
func (r *TransferRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transfers WHERE id = ?`, id)
	if err != nil {
		return wrap(OpDelete, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return wrap(OpDelete, ErrTransferNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransfer(s rowScanner) (model.Transfer, error) {
	var (
		t     model.Transfer
		notes sql.NullString
	)
	err := s.Scan(&t.ID, &t.FlightCode, &t.TransferDate, &t.TransferTime,
		&t.DestinationPickup, &t.DestinationDropoff, &t.GuestName, &t.GuestCount, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transfer{}, ErrTransferNotFound
	}
	if err != nil {
		return model.Transfer{}, err
	}
	t.Notes = notes.String
	return t, nil
}

// nullable stores empty notes as NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
