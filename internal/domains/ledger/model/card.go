package model

import (
	"clinic/shared/model"
)

const (
	CardTableName  = "cards"
	CardEntityName = "card"

	FieldCardID     = "id"
	FieldPatientID  = "patient_id"
	FieldCardNumber = "card_number"
	FieldBalance    = "balance"
	FieldCardStatus = "status"
)

// Card is a patient's funded balance. One live card per patient; the card
// number is globally unique among live cards. Balance is kept in minor
// currency units and never goes below zero.
type Card struct {
	ID         string `db:"id"`
	PatientID  string `db:"patient_id"`
	CardNumber string `db:"card_number"`
	Balance    int64  `db:"balance"`
	Status     string `db:"status"`
	model.Metadata
}
