package dto

import (
	"github.com/google/uuid"

	"clinic/internal/domains/schedule/model"
	"clinic/shared"
	"clinic/shared/constant"
	gDto "clinic/shared/dto"
	"clinic/shared/failure"
	gModel "clinic/shared/model"
	"clinic/shared/timezone"
)

type CreateScheduleRequest struct {
	SlotDate   int64  `json:"slot_date"   validate:"required,gt=0"`
	StartTime  string `json:"start_time"  validate:"required"`
	FinishTime string `json:"finish_time" validate:"required"`
	BreakStart string `json:"break_start" validate:"omitempty"`
	BreakEnd   string `json:"break_end"   validate:"omitempty"`
}

// Validate checks the time-of-day ordering: the working window must be
// forward and the break, when present, must sit inside it.
func (c *CreateScheduleRequest) Validate() error {
	start, err := timezone.Parse(constant.TimeOfDayFormat, c.StartTime)
	if err != nil {
		return failure.BadRequestFromString("start_time must be in HH:MM format")
	}

	finish, err := timezone.Parse(constant.TimeOfDayFormat, c.FinishTime)
	if err != nil {
		return failure.BadRequestFromString("finish_time must be in HH:MM format")
	}

	if !start.Before(finish) {
		return failure.BadRequestFromString("finish_time must be after start_time")
	}

	if (c.BreakStart == constant.Empty) != (c.BreakEnd == constant.Empty) {
		return failure.BadRequestFromString("break_start and break_end must be set together")
	}

	if c.BreakStart == constant.Empty {
		return nil
	}

	breakStart, err := timezone.Parse(constant.TimeOfDayFormat, c.BreakStart)
	if err != nil {
		return failure.BadRequestFromString("break_start must be in HH:MM format")
	}

	breakEnd, err := timezone.Parse(constant.TimeOfDayFormat, c.BreakEnd)
	if err != nil {
		return failure.BadRequestFromString("break_end must be in HH:MM format")
	}

	if breakEnd.Before(breakStart) {
		return failure.BadRequestFromString("break_end cannot be before break_start")
	}

	if breakStart.Before(start) || finish.Before(breakEnd) {
		return failure.BadRequestFromString("break must be inside the working window")
	}

	return nil
}

func (c *CreateScheduleRequest) ToModel(doctorID string) model.ScheduleSlot {
	var breakStart, breakEnd *string
	if c.BreakStart != constant.Empty {
		breakStart = &c.BreakStart
		breakEnd = &c.BreakEnd
	}

	return model.ScheduleSlot{
		ID:         uuid.NewString(),
		DoctorID:   doctorID,
		SlotDate:   timezone.DateFromMillis(c.SlotDate),
		StartTime:  c.StartTime,
		FinishTime: c.FinishTime,
		BreakStart: breakStart,
		BreakEnd:   breakEnd,
		Occupancy:  constant.OccupancyFree,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  doctorID,
			ModifiedBy: doctorID,
		},
	}
}

type ScheduleResponse struct {
	ID         string  `json:"id"`
	DoctorID   string  `json:"doctor_id"`
	DoctorName string  `json:"doctor_name"`
	SlotDate   string  `json:"slot_date"`
	StartTime  string  `json:"start_time"`
	FinishTime string  `json:"finish_time"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
	Occupancy  string  `json:"occupancy"`
	gDto.Metadata
}

func (r *ScheduleResponse) FromModel(model model.ScheduleSlot) {
	r.ID = model.ID
	r.DoctorID = model.DoctorID
	r.DoctorName = model.DoctorName
	r.SlotDate = timezone.Format(model.SlotDate, constant.CalendarDayFormat)
	r.StartTime = model.StartTime
	r.FinishTime = model.FinishTime
	r.BreakStart = model.BreakStart
	r.BreakEnd = model.BreakEnd
	r.Occupancy = model.Occupancy
	r.Metadata.FromModel(model.Metadata)
}

type GetSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetSchedulesResponse) FromModels(models []model.ScheduleSlot, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Schedules = make([]ScheduleResponse, len(models))
	for i, mod := range models {
		r.Schedules[i].FromModel(mod)
	}
}
