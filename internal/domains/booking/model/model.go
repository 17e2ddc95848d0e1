package model

import (
	"fmt"
	"time"

	"clinic/shared/model"
)

const (
	TableName  = "card_items"
	EntityName = "booking"

	FieldID         = "id"
	FieldCardID     = "card_id"
	FieldItemID     = "item_id"
	FieldDoctorID   = "doctor_id"
	FieldFromDate   = "from_date"
	FieldToDate     = "to_date"
	FieldExpectedAt = "expected_at"
	FieldStatus     = "status"
)

// Booking ties one catalog item to one doctor for one patient card. It is
// created IN_PROCESS holding the doctor's slot for from_date, and setting
// to_date closes it to DONE.
type Booking struct {
	ID         string     `db:"id"`
	CardID     string     `db:"card_id"`
	ItemID     string     `db:"item_id"`
	DoctorID   string     `db:"doctor_id"`
	FromDate   time.Time  `db:"from_date"`
	ToDate     *time.Time `db:"to_date"`
	ExpectedAt time.Time  `db:"expected_at"`
	Status     string     `db:"status"`

	ItemName      string  `db:"item_name"      table:"catalog_items"   column:"name"`
	ItemPrice     int64   `db:"item_price"     table:"catalog_items"   column:"price"`
	DoctorName    string  `db:"doctor_name"    table:"users"           column:"full_name"`
	PatientID     string  `db:"patient_id"     table:"cards"           column:"patient_id"`
	AmountPaid    *int64  `db:"amount_paid"    table:"payment_records" column:"amount_paid"`
	PaymentStatus *string `db:"payment_status" table:"payment_records" column:"status"`

	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return fmt.Sprintf(
		"LEFT JOIN catalog_items ON catalog_items.id = %[1]s.%[2]s "+
			"LEFT JOIN users ON users.id = %[1]s.%[3]s "+
			"LEFT JOIN cards ON cards.id = %[1]s.%[4]s "+
			"LEFT JOIN payment_records ON payment_records.booking_id = %[1]s.%[5]s AND payment_records.deleted = false",
		TableName, FieldItemID, FieldDoctorID, FieldCardID, FieldID,
	)
}
