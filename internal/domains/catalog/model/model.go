package model

import "clinic/shared/model"

const (
	TableName  = "catalog_items"
	EntityName = "item"

	FieldID           = "id"
	FieldName         = "name"
	FieldPrice        = "price"
	FieldDurationDays = "duration_days"
)

// CatalogItem is a purchasable clinic service. Price is in minor currency
// units; DurationDays drives the expected completion date of a booking.
type CatalogItem struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Price        int64  `db:"price"`
	DurationDays int    `db:"duration_days"`
	model.Metadata
}
