package repository

import (
	"context"

	"github.com/iliyamo/flight-transfer-admin/internal/model"
)

// TransferStore is the CRUD backend holding the transfers table.  Every
// driver returns failures as *StoreError; Update and Delete wrap
// ErrTransferNotFound when the id is unknown.
type TransferStore interface {
	// List returns every transfer ordered by transfer date, newest first.
	List(ctx context.Context) ([]model.Transfer, error)
	// Insert persists a new transfer and returns it with its assigned id.
	Insert(ctx context.Context, f model.TransferFields) (model.Transfer, error)
	// Update replaces all fields of the transfer with the given id.
	Update(ctx context.Context, id uint64, f model.TransferFields) error
	// Delete removes the transfer with the given id.
	Delete(ctx context.Context, id uint64) error
}

// Find fetches the full list and returns the transfer with the given id.
// It returns ErrTransferNotFound when the id is absent.
func Find(ctx context.Context, s TransferStore, id uint64) (model.Transfer, error) {
	items, err := s.List(ctx)
	if err != nil {
		return model.Transfer{}, err
	}
	for _, t := range items {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Transfer{}, ErrTransferNotFound
}
