package model

import (
	"fmt"

	gModel "clinic/shared/model"
)

const (
	PaymentTableName  = "payment_records"
	PaymentEntityName = "payment"

	FieldPaymentID     = "id"
	FieldBookingID     = "booking_id"
	FieldAmountPaid    = "amount_paid"
	FieldMethod        = "method"
	FieldPaymentStatus = "status"
)

// PaymentRecord accumulates the partial payments made against one booking.
// AmountPaid only grows, and status is PAID exactly when it reaches the
// item price. At most one live record exists per booking, enforced by a
// partial unique index on booking_id.
type PaymentRecord struct {
	ID         string `db:"id"`
	BookingID  string `db:"booking_id"`
	AmountPaid int64  `db:"amount_paid"`
	Method     string `db:"method"`
	Status     string `db:"status"`
	ItemName   string `db:"item_name"  table:"catalog_items" column:"name"`
	PatientID  string `db:"patient_id" table:"cards"         column:"patient_id"`
	gModel.Metadata
}

func (PaymentRecord) GetJoinQuery() string {
	return fmt.Sprintf(
		"LEFT JOIN card_items ON card_items.id = %s.%s LEFT JOIN catalog_items ON catalog_items.id = card_items.item_id LEFT JOIN cards ON cards.id = card_items.card_id",
		PaymentTableName, FieldBookingID,
	)
}
