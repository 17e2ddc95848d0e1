package model

import (
	"fmt"
	"time"

	"clinic/shared/model"
)

const (
	TableName  = "schedule_slots"
	EntityName = "schedule"

	FieldID         = "id"
	FieldDoctorID   = "doctor_id"
	FieldSlotDate   = "slot_date"
	FieldStartTime  = "start_time"
	FieldFinishTime = "finish_time"
	FieldBreakStart = "break_start"
	FieldBreakEnd   = "break_end"
	FieldOccupancy  = "occupancy"
)

// ScheduleSlot is one working day of one doctor. A doctor has at most one
// live slot per calendar date, and a slot serves at most one booking at a
// time (occupancy flips to OCCUPIED while a booking holds it).
type ScheduleSlot struct {
	ID         string    `db:"id"`
	DoctorID   string    `db:"doctor_id"`
	SlotDate   time.Time `db:"slot_date"`
	StartTime  string    `db:"start_time"`
	FinishTime string    `db:"finish_time"`
	BreakStart *string   `db:"break_start"`
	BreakEnd   *string   `db:"break_end"`
	Occupancy  string    `db:"occupancy"`
	DoctorName string    `db:"doctor_name" table:"users" column:"full_name"`
	model.Metadata
}

func (ScheduleSlot) GetJoinQuery() string {
	return fmt.Sprintf("LEFT JOIN users ON users.id = %s.%s", TableName, FieldDoctorID)
}
