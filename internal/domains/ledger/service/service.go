package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"clinic/infras/otel"
	"clinic/infras/postgres"
	bookingModel "clinic/internal/domains/booking/model"
	bookingRepository "clinic/internal/domains/booking/repository"
	catalogModel "clinic/internal/domains/catalog/model"
	catalogRepository "clinic/internal/domains/catalog/repository"
	"clinic/internal/domains/ledger/model"
	"clinic/internal/domains/ledger/model/dto"
	"clinic/internal/domains/ledger/repository"
	userModel "clinic/internal/domains/user/model"
	userRepository "clinic/internal/domains/user/repository"
	"clinic/shared"
	"clinic/shared/constant"
	gDto "clinic/shared/dto"
	"clinic/shared/failure"
	gModel "clinic/shared/model"
	"clinic/shared/timezone"
)

// Ledger tracks each patient's funded card and the payments applied to
// bookings. Reads are served straight from the database: a balance must
// never be a stale cached value.
type Ledger interface {
	TopUp(ctx context.Context, req dto.TopUpRequest) error
	Charge(ctx context.Context, req dto.ChargeRequest) error
	MyCard(ctx context.Context) (dto.CardResponse, error)
	MyPayments(ctx context.Context) (dto.MyPaymentsResponse, error)
}

type serviceImpl struct {
	cardRepo    repository.Card
	paymentRepo repository.Payment
	bookingRepo bookingRepository.Booking
	catalogRepo catalogRepository.Catalog
	userRepo    userRepository.User
	tx          postgres.TxRunner
	otel        otel.Otel
}

func New(
	cardRepo repository.Card,
	paymentRepo repository.Payment,
	bookingRepo bookingRepository.Booking,
	catalogRepo catalogRepository.Catalog,
	userRepo userRepository.User,
	tx postgres.TxRunner,
	otel otel.Otel,
) Ledger {
	return &serviceImpl{
		cardRepo:    cardRepo,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		tx:          tx,
		otel:        otel,
	}
}

func balanceFields(balance int64, actor string) map[string]any {
	return map[string]any{
		model.FieldBalance:       balance,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}
}

func (s *serviceImpl) TopUp(ctx context.Context, req dto.TopUpRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TopUp")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Amount < 0 {
		return failure.BadRequestFromString("top up amount cannot be negative")
	}

	patientID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	err = s.tx.WithinTx(ctx, func(sqltx *sqlx.Tx) error {
		card, err := s.cardRepo.EnsureTx(ctx, sqltx, patientID)
		if err != nil {
			return fmt.Errorf("failed to ensure card: %w", err)
		}

		err = s.cardRepo.UpdateTx(ctx, sqltx, balanceFields(card.Balance+req.Amount, patientID), shared.FilterByID(card.ID, model.FieldCardID, model.CardTableName))
		if err != nil {
			return fmt.Errorf("failed to credit card: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("patientID", patientID).Msg("failed to top up card")

		return err
	}

	return nil
}

// Charge applies a partial payment to a booking. Everything runs in one
// transaction with the booking, card and payment rows locked, so a
// concurrent charge cannot overdraw the balance or overshoot the price.
func (s *serviceImpl) Charge(ctx context.Context, req dto.ChargeRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Charge")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Amount <= 0 {
		return failure.BadRequestFromString("payment amount must be positive")
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	err = s.tx.WithinTx(ctx, func(sqltx *sqlx.Tx) error {
		booking, err := s.bookingRepo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.BookingNotFound
		}

		card, err := s.cardRepo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(booking.CardID, model.FieldCardID, model.CardTableName))
		if err != nil {
			return fmt.Errorf("failed to lock card: %w", err)
		}

		if card.ID == constant.Empty {
			return failure.CardNotFound
		}

		if role == constant.RolePatient && card.PatientID != actor {
			return failure.NoPermission
		}

		if card.Balance < req.Amount {
			return failure.InsufficientFunds
		}

		item, err := s.catalogRepo.GetTx(ctx, sqltx, shared.FilterByID(booking.ItemID, catalogModel.FieldID, catalogModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get item: %w", err)
		}

		if item.ID == constant.Empty {
			return failure.ItemNotFound
		}

		if err = s.applyPaymentTx(ctx, sqltx, booking.ID, item.Price, req, actor); err != nil {
			return err
		}

		err = s.cardRepo.UpdateTx(ctx, sqltx, balanceFields(card.Balance-req.Amount, actor), shared.FilterByID(card.ID, model.FieldCardID, model.CardTableName))
		if err != nil {
			return fmt.Errorf("failed to debit card: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", req.BookingID).Msg("failed to charge booking")

		return err
	}

	return nil
}

func (s *serviceImpl) applyPaymentTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string, price int64, req dto.ChargeRequest, actor string) error {
	payment, err := s.paymentRepo.GetForUpdateTx(ctx, sqltx, shared.FilterByField(model.FieldBookingID, model.PaymentTableName, bookingID))
	if err != nil {
		return fmt.Errorf("failed to lock payment: %w", err)
	}

	if payment.ID == constant.Empty {
		if req.Amount > price {
			return failure.OverpaymentNotAllowed
		}

		record := model.PaymentRecord{
			ID:         uuid.NewString(),
			BookingID:  bookingID,
			AmountPaid: req.Amount,
			Method:     req.Method,
			Status:     paymentStatus(req.Amount, price),
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  actor,
				ModifiedBy: actor,
			},
		}

		if err = s.paymentRepo.InsertTx(ctx, sqltx, record); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Constraint == constant.ConstraintPaymentBookingUnique {
				return failure.Conflict("a payment for this booking was just recorded, retry the charge")
			}

			return fmt.Errorf("failed to insert payment: %w", err)
		}

		return nil
	}

	if payment.Status == constant.PaymentStatusPaid {
		return failure.AlreadyFullyPaid
	}

	if req.Amount > price-payment.AmountPaid {
		return failure.OverpaymentNotAllowed
	}

	total := payment.AmountPaid + req.Amount

	fields := map[string]any{
		model.FieldAmountPaid:    total,
		model.FieldMethod:        req.Method,
		model.FieldPaymentStatus: paymentStatus(total, price),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	err = s.paymentRepo.UpdateTx(ctx, sqltx, fields, shared.FilterByID(payment.ID, model.FieldPaymentID, model.PaymentTableName))
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	return nil
}

func paymentStatus(amountPaid, price int64) string {
	if amountPaid == price {
		return constant.PaymentStatusPaid
	}

	return constant.PaymentStatusNotPaid
}

func (s *serviceImpl) MyCard(ctx context.Context) (res dto.CardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MyCard")
	defer scope.End()
	defer scope.TraceIfError(err)

	patientID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	card, err := s.cardRepo.Get(ctx, shared.FilterByField(model.FieldPatientID, model.CardTableName, patientID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get card")

		return res, fmt.Errorf("failed to get card: %w", err)
	}

	if card.ID == constant.Empty {
		return res, failure.CardNotFound
	}

	res.FromModel(card)

	return res, nil
}

func (s *serviceImpl) MyPayments(ctx context.Context) (res dto.MyPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MyPayments")
	defer scope.End()
	defer scope.TraceIfError(err)

	patientID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	patient, err := s.userRepo.Get(ctx, shared.FilterByID(patientID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get patient")

		return res, fmt.Errorf("failed to get patient: %w", err)
	}

	if patient.ID == constant.Empty {
		return res, failure.PatientNotFound
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "card_patient_id",
				Field:    model.FieldPatientID,
				Value:    patientID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.CardTableName,
			},
			shared.FilterNotDeleted(model.PaymentTableName),
		},
	}

	payments, err := s.paymentRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(patient.FullName, payments)

	return res, nil
}
