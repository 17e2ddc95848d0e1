package dto

import (
	"clinic/internal/domains/ledger/model"
	"clinic/shared/constant"
	"clinic/shared/timezone"
)

type TopUpRequest struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

type ChargeRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Amount    int64  `json:"amount"     validate:"required,gt=0"`
	Method    string `json:"method"     validate:"required,max=50"`
}

type CardResponse struct {
	CardNumber string `json:"card_number"`
	Balance    int64  `json:"balance"`
	Status     string `json:"status"`
}

func (r *CardResponse) FromModel(model model.Card) {
	r.CardNumber = model.CardNumber
	r.Balance = model.Balance
	r.Status = model.Status
}

type PaymentResponse struct {
	ItemName string `json:"item_name"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status"`
	Date     string `json:"date"`
}

func (r *PaymentResponse) FromModel(model model.PaymentRecord) {
	r.ItemName = model.ItemName
	r.Amount = model.AmountPaid
	r.Status = model.Status
	r.Date = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type MyPaymentsResponse struct {
	PatientName string            `json:"patient_name"`
	Payments    []PaymentResponse `json:"payments"`
	TotalPaid   int64             `json:"total_paid"`
}

func (r *MyPaymentsResponse) FromModels(patientName string, models []model.PaymentRecord) {
	r.PatientName = patientName

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
		r.TotalPaid += mod.AmountPaid
	}
}
