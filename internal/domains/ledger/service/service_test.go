package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"clinic/infras/otel/mocks"
	pgMocks "clinic/infras/postgres/mocks"
	bookingMocks "clinic/internal/domains/booking/mocks"
	bookingModel "clinic/internal/domains/booking/model"
	catalogMocks "clinic/internal/domains/catalog/mocks"
	catalogModel "clinic/internal/domains/catalog/model"
	ledgerMocks "clinic/internal/domains/ledger/mocks"
	"clinic/internal/domains/ledger/model"
	"clinic/internal/domains/ledger/model/dto"
	"clinic/internal/domains/ledger/service"
	userMocks "clinic/internal/domains/user/mocks"
	userModel "clinic/internal/domains/user/model"
	"clinic/shared/constant"
	"clinic/shared/failure"
	gModel "clinic/shared/model"
	"clinic/shared/timezone"
)

type ledgerMockSet struct {
	card    *ledgerMocks.MockCard
	payment *ledgerMocks.MockPayment
	booking *bookingMocks.MockBooking
	catalog *catalogMocks.MockCatalog
	user    *userMocks.MockUser
}

func newLedgerService(ctrl *gomock.Controller) (service.Ledger, ledgerMockSet) {
	m := ledgerMockSet{
		card:    ledgerMocks.NewMockCard(ctrl),
		payment: ledgerMocks.NewMockPayment(ctrl),
		booking: bookingMocks.NewMockBooking(ctrl),
		catalog: catalogMocks.NewMockCatalog(ctrl),
		user:    userMocks.NewMockUser(ctrl),
	}

	svc := service.New(m.card, m.payment, m.booking, m.catalog, m.user, pgMocks.NewTxRunner(), mocks.NewOtel())

	return svc, m
}

func patientCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RolePatient)
}

func TestLedgerService_TopUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newLedgerService(ctrl)

	tests := []struct {
		name      string
		req       dto.TopUpRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "credit lands on the ensured card",
			req:  dto.TopUpRequest{Amount: 500},
			setupMock: func() {
				m.card.EXPECT().
					EnsureTx(gomock.Any(), gomock.Any(), "patient-id").
					Return(model.Card{ID: "card-id", PatientID: "patient-id", Balance: 100}, nil)

				m.card.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, int64(600), fields[model.FieldBalance])

						return nil
					})
			},
			wantErr: nil,
		},
		{
			name: "zero amount still ensures the card",
			req:  dto.TopUpRequest{Amount: 0},
			setupMock: func() {
				m.card.EXPECT().
					EnsureTx(gomock.Any(), gomock.Any(), "patient-id").
					Return(model.Card{ID: "card-id", PatientID: "patient-id"}, nil)

				m.card.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: nil,
		},
		{
			name:      "negative amount rejected",
			req:       dto.TopUpRequest{Amount: -1},
			setupMock: func() {},
			wantErr:   failure.BadRequestFromString("top up amount cannot be negative"),
		},
		{
			name: "ensure failure surfaces",
			req:  dto.TopUpRequest{Amount: 500},
			setupMock: func() {
				m.card.EXPECT().
					EnsureTx(gomock.Any(), gomock.Any(), "patient-id").
					Return(model.Card{}, errors.New("database error"))
			},
			wantErr: errors.New("failed to ensure card: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.TopUp(patientCtx("patient-id"), tt.req)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedgerService_Charge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newLedgerService(ctrl)

	booking := bookingModel.Booking{
		ID:     "booking-id",
		CardID: "card-id",
		ItemID: "item-id",
		Status: constant.BookingStatusInProcess,
	}

	card := model.Card{
		ID:        "card-id",
		PatientID: "patient-id",
		Balance:   1000,
		Status:    constant.CardStatusActive,
	}

	item := catalogModel.CatalogItem{
		ID:    "item-id",
		Name:  "Tooth Extraction",
		Price: 500,
	}

	req := dto.ChargeRequest{BookingID: booking.ID, Amount: 200, Method: "cash"}

	lockHappyPath := func() {
		m.booking.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.card.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(card, nil)

		m.catalog.EXPECT().
			GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(item, nil)
	}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.ChargeRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "first partial payment stays open",
			ctx:  patientCtx("patient-id"),
			req:  req,
			setupMock: func() {
				lockHappyPath()

				m.payment.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.PaymentRecord{}, nil)

				m.payment.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, record model.PaymentRecord) error {
						assert.Equal(t, int64(200), record.AmountPaid)
						assert.Equal(t, constant.PaymentStatusNotPaid, record.Status)

						return nil
					})

				m.card.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, int64(800), fields[model.FieldBalance])

						return nil
					})
			},
			wantErr: nil,
		},
		{
			name: "payment matching the price closes as paid",
			ctx:  patientCtx("patient-id"),
			req:  dto.ChargeRequest{BookingID: booking.ID, Amount: 500, Method: "cash"},
			setupMock: func() {
				lockHappyPath()

				m.payment.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.PaymentRecord{}, nil)

				m.payment.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, record model.PaymentRecord) error {
						assert.Equal(t, constant.PaymentStatusPaid, record.Status)

						return nil
					})

				m.card.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "second payment accumulates into the record",
			ctx:  patientCtx("patient-id"),
			req:  dto.ChargeRequest{BookingID: booking.ID, Amount: 300, Method: "card"},
			setupMock: func() {
				lockHappyPath()

				m.payment.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.PaymentRecord{
						ID:         "payment-id",
						BookingID:  booking.ID,
						AmountPaid: 200,
						Status:     constant.PaymentStatusNotPaid,
					}, nil)

				m.payment.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
						assert.Equal(t, int64(500), fields[model.FieldAmountPaid])
						assert.Equal(t, constant.PaymentStatusPaid, fields[model.FieldPaymentStatus])

						return nil
					})

				m.card.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: nil,
		},
		{
			name:      "non-positive amount rejected",
			ctx:       patientCtx("patient-id"),
			req:       dto.ChargeRequest{BookingID: booking.ID, Amount: 0},
			setupMock: func() {},
			wantErr:   failure.BadRequestFromString("payment amount must be positive"),
		},
		{
			name: "booking not found",
			ctx:  patientCtx("patient-id"),
			req:  req,
			setupMock: func() {
				m.booking.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(bookingModel.Booking{}, nil)
			},
			wantErr: failure.BookingNotFound,
		},
		{
			name: "card not found",
			ctx:  patientCtx("patient-id"),
			req:  req,
			setupMock: func() {
				m.booking.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.card.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Card{}, nil)
			},
			wantErr: failure.CardNotFound,
		},
		{
			name: "patient cannot pay with someone else's card",
			ctx:  patientCtx("other-patient"),
			req:  req,
			setupMock: func() {
				m.booking.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.card.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(card, nil)
			},
			wantErr: failure.NoPermission,
		},
		{
			name: "balance below the payment amount",
			ctx:  patientCtx("patient-id"),
			req:  dto.ChargeRequest{BookingID: booking.ID, Amount: 2000, Method: "cash"},
			setupMock: func() {
				m.booking.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.card.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(card, nil)
			},
			wantErr: failure.InsufficientFunds,
		},
		{
			name: "first payment above the price",
			ctx:  patientCtx("patient-id"),
			req:  dto.ChargeRequest{BookingID: booking.ID, Amount: 600, Method: "cash"},
			setupMock: func() {
				lockHappyPath()

				m.payment.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.PaymentRecord{}, nil)
			},
			wantErr: failure.OverpaymentNotAllowed,
		},
		{
			name: "payment above the remaining price",
			ctx:  patientCtx("patient-id"),
			req:  dto.ChargeRequest{BookingID: booking.ID, Amount: 400, Method: "cash"},
			setupMock: func() {
				lockHappyPath()

				m.payment.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.PaymentRecord{
						ID:         "payment-id",
						BookingID:  booking.ID,
						AmountPaid: 200,
						Status:     constant.PaymentStatusNotPaid,
					}, nil)
			},
			wantErr: failure.OverpaymentNotAllowed,
		},
		{
			name: "fully paid booking takes no further payments",
			ctx:  patientCtx("patient-id"),
			req:  req,
			setupMock: func() {
				lockHappyPath()

				m.payment.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.PaymentRecord{
						ID:         "payment-id",
						BookingID:  booking.ID,
						AmountPaid: 500,
						Status:     constant.PaymentStatusPaid,
					}, nil)
			},
			wantErr: failure.AlreadyFullyPaid,
		},
		{
			name: "director can charge any card",
			ctx: context.WithValue(
				context.WithValue(context.Background(), constant.ContextKeyUserID, "director-id"),
				constant.ContextKeyUserRole, constant.RoleDirector,
			),
			req: req,
			setupMock: func() {
				lockHappyPath()

				m.payment.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.PaymentRecord{}, nil)

				m.payment.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.card.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Charge(tt.ctx, tt.req)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedgerService_MyCard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newLedgerService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
		wantRes   dto.CardResponse
	}{
		{
			name: "card found",
			setupMock: func() {
				m.card.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Card{
						ID:         "card-id",
						PatientID:  "patient-id",
						CardNumber: "12345678901234567",
						Balance:    750,
						Status:     constant.CardStatusActive,
					}, nil)
			},
			wantRes: dto.CardResponse{
				CardNumber: "12345678901234567",
				Balance:    750,
				Status:     constant.CardStatusActive,
			},
		},
		{
			name: "no card yet",
			setupMock: func() {
				m.card.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Card{}, nil)
			},
			wantErr: failure.CardNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.MyCard(patientCtx("patient-id"))

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantRes, res)
			}
		})
	}
}

func TestLedgerService_MyPayments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newLedgerService(ctrl)

	patient := userModel.User{
		ID:       "patient-id",
		FullName: "Jane Roe",
		Role:     constant.RolePatient,
	}

	payments := []model.PaymentRecord{
		{
			ID:         "payment-1",
			BookingID:  "booking-1",
			AmountPaid: 300,
			Status:     constant.PaymentStatusNotPaid,
			ItemName:   "Tooth Extraction",
			Metadata:   gModel.Metadata{CreatedAt: timezone.Now()},
		},
		{
			ID:         "payment-2",
			BookingID:  "booking-2",
			AmountPaid: 500,
			Status:     constant.PaymentStatusPaid,
			ItemName:   "Dental Cleaning",
			Metadata:   gModel.Metadata{CreatedAt: timezone.Now()},
		},
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
		check     func(res dto.MyPaymentsResponse)
	}{
		{
			name: "payments summed across bookings",
			setupMock: func() {
				m.user.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(patient, nil)

				m.payment.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(payments, nil)
			},
			check: func(res dto.MyPaymentsResponse) {
				assert.Equal(t, "Jane Roe", res.PatientName)
				assert.Len(t, res.Payments, 2)
				assert.Equal(t, int64(800), res.TotalPaid)
			},
		},
		{
			name: "no payments yet",
			setupMock: func() {
				m.user.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(patient, nil)

				m.payment.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.PaymentRecord{}, nil)
			},
			check: func(res dto.MyPaymentsResponse) {
				assert.Empty(t, res.Payments)
				assert.Zero(t, res.TotalPaid)
			},
		},
		{
			name: "patient not found",
			setupMock: func() {
				m.user.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr: failure.PatientNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.MyPayments(patientCtx(patient.ID))

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				tt.check(res)
			}
		})
	}
}
