package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"clinic/config"
	"clinic/infras/otel/mocks"
	pgMocks "clinic/infras/postgres/mocks"
	bookingMocks "clinic/internal/domains/booking/mocks"
	"clinic/internal/domains/booking/model"
	"clinic/internal/domains/booking/model/dto"
	"clinic/internal/domains/booking/service"
	catalogMocks "clinic/internal/domains/catalog/mocks"
	catalogModel "clinic/internal/domains/catalog/model"
	ledgerMocks "clinic/internal/domains/ledger/mocks"
	ledgerModel "clinic/internal/domains/ledger/model"
	scheduleMocks "clinic/internal/domains/schedule/mocks"
	scheduleModel "clinic/internal/domains/schedule/model"
	cacheMocks "clinic/shared/cache/mocks"
	"clinic/shared/constant"
	"clinic/shared/failure"
	"clinic/shared/timezone"
)

type bookingMockSet struct {
	repo     *bookingMocks.MockBooking
	card     *ledgerMocks.MockCard
	catalog  *catalogMocks.MockCatalog
	schedule *scheduleMocks.MockScheduleService
}

func newBookingService(ctrl *gomock.Controller) (service.Booking, bookingMockSet) {
	m := bookingMockSet{
		repo:     bookingMocks.NewMockBooking(ctrl),
		card:     ledgerMocks.NewMockCard(ctrl),
		catalog:  catalogMocks.NewMockCatalog(ctrl),
		schedule: scheduleMocks.NewMockScheduleService(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.card, m.catalog, m.schedule, pgMocks.NewTxRunner(), cfg, mockCache, mocks.NewOtel())

	return svc, m
}

func roleCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	card := ledgerModel.Card{ID: "card-id", PatientID: "patient-id"}
	item := catalogModel.CatalogItem{ID: "item-id", Name: "Dental Cleaning", Price: 500, DurationDays: 3}

	req := dto.CreateBookingRequest{
		ItemID:   item.ID,
		DoctorID: "doctor-id",
		FromDate: timezone.Now().UnixMilli(),
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "booking created with expected date from item duration",
			setupMock: func() {
				m.card.EXPECT().
					EnsureTx(gomock.Any(), gomock.Any(), "patient-id").
					Return(card, nil)

				m.schedule.EXPECT().
					ReserveTx(gomock.Any(), gomock.Any(), req.DoctorID, gomock.Any()).
					Return(scheduleModel.ScheduleSlot{ID: "slot-id", Occupancy: constant.OccupancyOccupied}, nil)

				m.catalog.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(item, nil)

				m.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, card.ID, booking.CardID)
						assert.Equal(t, constant.BookingStatusInProcess, booking.Status)
						assert.Equal(t, booking.FromDate.AddDate(0, 0, item.DurationDays), booking.ExpectedAt)

						return nil
					})
			},
			wantErr: nil,
		},
		{
			name: "doctor day already taken",
			setupMock: func() {
				m.card.EXPECT().
					EnsureTx(gomock.Any(), gomock.Any(), "patient-id").
					Return(card, nil)

				m.schedule.EXPECT().
					ReserveTx(gomock.Any(), gomock.Any(), req.DoctorID, gomock.Any()).
					Return(scheduleModel.ScheduleSlot{}, failure.ScheduleNotAvailable)
			},
			wantErr: failure.ScheduleNotAvailable,
		},
		{
			name: "item does not exist",
			setupMock: func() {
				m.card.EXPECT().
					EnsureTx(gomock.Any(), gomock.Any(), "patient-id").
					Return(card, nil)

				m.schedule.EXPECT().
					ReserveTx(gomock.Any(), gomock.Any(), req.DoctorID, gomock.Any()).
					Return(scheduleModel.ScheduleSlot{ID: "slot-id"}, nil)

				m.catalog.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(catalogModel.CatalogItem{}, nil)
			},
			wantErr: failure.ItemNotFound,
		},
		{
			name: "card cannot be ensured",
			setupMock: func() {
				m.card.EXPECT().
					EnsureTx(gomock.Any(), gomock.Any(), "patient-id").
					Return(ledgerModel.Card{}, errors.New("database error"))
			},
			wantErr: errors.New("failed to ensure card: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(roleCtx("patient-id", constant.RolePatient), req)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.ID)
			}
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	open := model.Booking{
		ID:       "booking-id",
		CardID:   "card-id",
		ItemID:   "item-id",
		DoctorID: "doctor-id",
		FromDate: timezone.DateFromMillis(timezone.Now().UnixMilli()),
		Status:   constant.BookingStatusInProcess,
	}

	item := catalogModel.CatalogItem{ID: "new-item-id", Name: "Root Canal", Price: 900, DurationDays: 7}

	fromMillis := timezone.Now().UnixMilli()
	closeMillis := timezone.Now().AddDate(0, 0, 5).UnixMilli()
	pastMillis := timezone.Now().AddDate(0, 0, -5).UnixMilli()
	sameDayMillis := open.FromDate.UnixMilli()

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateBookingRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "rebinding the item recomputes the expected date",
			ctx:  roleCtx("doctor-id", constant.RoleDoctor),
			req:  dto.UpdateBookingRequest{ItemID: item.ID},
			setupMock: func() {
				m.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(open, nil)

				m.catalog.EXPECT().
					GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(item, nil)

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, item.ID, fields[model.FieldItemID])
						assert.Equal(t, open.FromDate.AddDate(0, 0, item.DurationDays), fields[model.FieldExpectedAt])
						assert.NotContains(t, fields, model.FieldStatus)

						return nil
					})
			},
			wantErr: nil,
		},
		{
			name: "setting to_date closes the booking and frees the slot",
			ctx:  roleCtx("director-id", constant.RoleDirector),
			req:  dto.UpdateBookingRequest{ToDate: &closeMillis},
			setupMock: func() {
				m.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(open, nil)

				m.schedule.EXPECT().
					ReleaseTx(gomock.Any(), gomock.Any(), open.DoctorID, open.FromDate).
					Return(nil)

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, constant.BookingStatusDone, fields[model.FieldStatus])

						return nil
					})
			},
			wantErr: nil,
		},
		{
			name: "to_date equal to from_date closes the booking",
			ctx:  roleCtx("doctor-id", constant.RoleDoctor),
			req:  dto.UpdateBookingRequest{ToDate: &sameDayMillis},
			setupMock: func() {
				m.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(open, nil)

				m.schedule.EXPECT().
					ReleaseTx(gomock.Any(), gomock.Any(), open.DoctorID, open.FromDate).
					Return(nil)

				m.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, constant.BookingStatusDone, fields[model.FieldStatus])
						assert.Equal(t, open.FromDate, fields[model.FieldToDate])

						return nil
					})
			},
			wantErr: nil,
		},
		{
			name:      "empty patch rejected",
			ctx:       roleCtx("doctor-id", constant.RoleDoctor),
			req:       dto.UpdateBookingRequest{},
			setupMock: func() {},
			wantErr:   failure.BadRequestFromString("update request cannot be empty"),
		},
		{
			name: "booking not found",
			ctx:  roleCtx("doctor-id", constant.RoleDoctor),
			req:  dto.UpdateBookingRequest{FromDate: &fromMillis},
			setupMock: func() {
				m.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: failure.BookingNotFound,
		},
		{
			name: "unassigned doctor has no permission",
			ctx:  roleCtx("other-doctor", constant.RoleDoctor),
			req:  dto.UpdateBookingRequest{FromDate: &fromMillis},
			setupMock: func() {
				m.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(open, nil)
			},
			wantErr: failure.NoPermission,
		},
		{
			name: "patient cannot update bookings",
			ctx:  roleCtx("patient-id", constant.RolePatient),
			req:  dto.UpdateBookingRequest{FromDate: &fromMillis},
			setupMock: func() {
				m.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(open, nil)
			},
			wantErr: failure.NoPermission,
		},
		{
			name: "closed booking stays closed",
			ctx:  roleCtx("doctor-id", constant.RoleDoctor),
			req:  dto.UpdateBookingRequest{ToDate: &closeMillis},
			setupMock: func() {
				done := open
				done.Status = constant.BookingStatusDone

				m.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(done, nil)
			},
			wantErr: failure.Conflict("booking is already closed"),
		},
		{
			name: "to_date before from_date rejected",
			ctx:  roleCtx("doctor-id", constant.RoleDoctor),
			req:  dto.UpdateBookingRequest{ToDate: &pastMillis},
			setupMock: func() {
				m.repo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(open, nil)
			},
			wantErr: failure.InvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(tt.ctx, tt.req, open.ID)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "booking found",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{
						ID:       "booking-id",
						ItemName: "Dental Cleaning",
						Status:   constant.BookingStatusInProcess,
					}, nil)
			},
			wantErr: nil,
		},
		{
			name: "booking not found",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: failure.BookingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(roleCtx("doctor-id", constant.RoleDoctor), "booking-id")

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "booking-id", res.ID)
				assert.Equal(t, constant.PaymentStatusNotPaid, res.PaymentStatus)
			}
		})
	}
}

func TestBookingService_MyBookings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	card := ledgerModel.Card{
		ID:         "card-id",
		PatientID:  "patient-id",
		CardNumber: "12345678901234567",
		Balance:    1200,
	}

	amountPaid := int64(300)
	paid := constant.PaymentStatusNotPaid

	bookings := []model.Booking{
		{
			ID:            "booking-1",
			CardID:        card.ID,
			ItemName:      "Dental Cleaning",
			ItemPrice:     500,
			DoctorName:    "Dr. Strange",
			Status:        constant.BookingStatusInProcess,
			AmountPaid:    &amountPaid,
			PaymentStatus: &paid,
		},
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "card and bookings composed",
			setupMock: func() {
				m.card.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(card, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(bookings, nil)
			},
			wantErr: nil,
		},
		{
			name: "patient without a card",
			setupMock: func() {
				m.card.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ledgerModel.Card{}, nil)
			},
			wantErr: failure.CardNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.MyBookings(roleCtx("patient-id", constant.RolePatient))

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, card.CardNumber, res.CardNumber)
				assert.Equal(t, card.Balance, res.Balance)
				assert.Len(t, res.Bookings, 1)
				assert.Equal(t, amountPaid, res.Bookings[0].AmountPaid)
			}
		})
	}
}
