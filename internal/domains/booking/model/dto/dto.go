package dto

import (
	"time"

	"github.com/google/uuid"

	"clinic/internal/domains/booking/model"
	"clinic/shared"
	"clinic/shared/constant"
	gDto "clinic/shared/dto"
	gModel "clinic/shared/model"
	"clinic/shared/timezone"
)

type CreateBookingRequest struct {
	ItemID   string `json:"item_id"   validate:"required,uuid"`
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	FromDate int64  `json:"from_date" validate:"required,gt=0"`
}

func (c *CreateBookingRequest) ToModel(cardID, actor string, expectedAt time.Time) model.Booking {
	return model.Booking{
		ID:         uuid.NewString(),
		CardID:     cardID,
		ItemID:     c.ItemID,
		DoctorID:   c.DoctorID,
		FromDate:   timezone.DateFromMillis(c.FromDate),
		ExpectedAt: expectedAt,
		Status:     constant.BookingStatusInProcess,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

// UpdateBookingRequest patches a booking. Setting to_date closes it.
type UpdateBookingRequest struct {
	FromDate *int64 `json:"from_date" validate:"omitempty,gt=0"`
	ItemID   string `json:"item_id"   validate:"omitempty,uuid"`
	ToDate   *int64 `json:"to_date"   validate:"omitempty,gt=0"`
}

type CreateBookingResponse struct {
	ID string `json:"id"`
}

type BookingResponse struct {
	ID            string `json:"id"`
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	ItemPrice     int64  `json:"item_price"`
	DoctorID      string `json:"doctor_id"`
	DoctorName    string `json:"doctor_name"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date,omitempty"`
	ExpectedAt    string `json:"expected_at"`
	Status        string `json:"status"`
	AmountPaid    int64  `json:"amount_paid"`
	PaymentStatus string `json:"payment_status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ItemID = model.ItemID
	r.ItemName = model.ItemName
	r.ItemPrice = model.ItemPrice
	r.DoctorID = model.DoctorID
	r.DoctorName = model.DoctorName
	r.FromDate = timezone.Format(model.FromDate, constant.CalendarDayFormat)
	r.ExpectedAt = timezone.Format(model.ExpectedAt, constant.CalendarDayFormat)
	r.Status = model.Status
	r.PaymentStatus = constant.PaymentStatusNotPaid

	if model.ToDate != nil {
		r.ToDate = timezone.Format(*model.ToDate, constant.CalendarDayFormat)
	}

	if model.AmountPaid != nil {
		r.AmountPaid = *model.AmountPaid
	}

	if model.PaymentStatus != nil {
		r.PaymentStatus = *model.PaymentStatus
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// MyBookingsResponse is the patient view: their card plus every booking on it.
type MyBookingsResponse struct {
	CardNumber string            `json:"card_number"`
	Balance    int64             `json:"balance"`
	Bookings   []BookingResponse `json:"bookings"`
}

func (r *MyBookingsResponse) FromModels(cardNumber string, balance int64, models []model.Booking) {
	r.CardNumber = cardNumber
	r.Balance = balance

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
