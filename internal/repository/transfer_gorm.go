package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/iliyamo/flight-transfer-admin/internal/model"
)

// transferRow is the gorm mapping of the transfers table.  Notes is a
// pointer so that empty notes are written as NULL like the sql driver does.
type transferRow struct {
	ID                 uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	FlightCode         string  `gorm:"column:flight_code;not null"`
	TransferDate       string  `gorm:"column:transfer_date;size:10;not null;index"`
	TransferTime       string  `gorm:"column:transfer_time;size:5;not null"`
	DestinationPickup  string  `gorm:"column:destination_pickup;not null"`
	DestinationDropoff string  `gorm:"column:destination_dropoff;not null"`
	GuestName          string  `gorm:"column:guest_name;not null"`
	GuestCount         int     `gorm:"column:guest_count;not null;default:1"`
	Notes              *string `gorm:"column:notes"`
}

func (transferRow) TableName() string { return "transfers" }

func rowFromFields(f model.TransferFields) transferRow {
	r := transferRow{
		FlightCode:         f.FlightCode,
		TransferDate:       f.TransferDate,
		TransferTime:       f.TransferTime,
		DestinationPickup:  f.DestinationPickup,
		DestinationDropoff: f.DestinationDropoff,
		GuestName:          f.GuestName,
		GuestCount:         f.GuestCount,
	}
	if f.Notes != "" {
		notes := f.Notes
		r.Notes = &notes
	}
	return r
}

func (r transferRow) toModel() model.Transfer {
	t := model.Transfer{
		ID: r.ID,
		TransferFields: model.TransferFields{
			FlightCode:         r.FlightCode,
			TransferDate:       r.TransferDate,
			TransferTime:       r.TransferTime,
			DestinationPickup:  r.DestinationPickup,
			DestinationDropoff: r.DestinationDropoff,
			GuestName:          r.GuestName,
			GuestCount:         r.GuestCount,
		},
	}
	if r.Notes != nil {
		t.Notes = *r.Notes
	}
	return t
}

// GormTransferRepo implements TransferStore with gorm.  It backs the
// postgres driver.
type GormTransferRepo struct {
	db *gorm.DB
}

// NewGormTransferRepo creates a gorm backed transfer repository.
func NewGormTransferRepo(db *gorm.DB) *GormTransferRepo {
	return &GormTransferRepo{db: db}
}

// AutoMigrate creates or updates the transfers table.
func (r *GormTransferRepo) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&transferRow{})
}

// List returns all transfers, newest transfer date first.
func (r *GormTransferRepo) List(ctx context.Context) ([]model.Transfer, error) {
	var rows []transferRow
	if err := r.db.WithContext(ctx).Order("transfer_date DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, wrap(OpList, err)
	}
	out := make([]model.Transfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// Insert creates a transfer and returns it with the id assigned by postgres.
func (r *GormTransferRepo) Insert(ctx context.Context, f model.TransferFields) (model.Transfer, error) {
	row := rowFromFields(f)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.Transfer{}, wrap(OpInsert, err)
	}
	return row.toModel(), nil
}

// Update overwrites every column, including a NULL notes value.
func (r *GormTransferRepo) Update(ctx context.Context, id uint64, f model.TransferFields) error {
	row := rowFromFields(f)
	res := r.db.WithContext(ctx).Model(&transferRow{}).Where("id = ?", id).Updates(map[string]any{
		"flight_code":         row.FlightCode,
		"transfer_date":       row.TransferDate,
		"transfer_time":       row.TransferTime,
		"destination_pickup":  row.DestinationPickup,
		"destination_dropoff": row.DestinationDropoff,
		"guest_name":          row.GuestName,
		"guest_count":         row.GuestCount,
		"notes":               sql.NullString{String: f.Notes, Valid: f.Notes != ""},
	})
	if res.Error != nil {
		return wrap(OpUpdate, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap(OpUpdate, ErrTransferNotFound)
	}
	return nil
}

// Delete removes the transfer with the given id.
func (r *GormTransferRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&transferRow{}, id)
	if res.Error != nil {
		return wrap(OpDelete, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap(OpDelete, ErrTransferNotFound)
	}
	return nil
}
