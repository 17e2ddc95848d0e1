package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"clinic/config"
	"clinic/infras/otel"
	"clinic/infras/postgres"
	"clinic/internal/domains/booking/model"
	"clinic/internal/domains/booking/model/dto"
	"clinic/internal/domains/booking/repository"
	catalogModel "clinic/internal/domains/catalog/model"
	catalogRepository "clinic/internal/domains/catalog/repository"
	ledgerModel "clinic/internal/domains/ledger/model"
	ledgerRepository "clinic/internal/domains/ledger/repository"
	scheduleService "clinic/internal/domains/schedule/service"
	"clinic/shared"
	"clinic/shared/cache"
	"clinic/shared/constant"
	gDto "clinic/shared/dto"
	"clinic/shared/failure"
	"clinic/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

// Booking drives the booking lifecycle. Creation reserves the doctor's slot
// and lazily opens the patient's card inside one transaction; closing
// releases the slot in the same transaction that marks the booking DONE.
type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	MyBookings(ctx context.Context) (dto.MyBookingsResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	cardRepo    ledgerRepository.Card
	catalogRepo catalogRepository.Catalog
	schedule    scheduleService.Schedule
	tx          postgres.TxRunner
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	cardRepo ledgerRepository.Card,
	catalogRepo catalogRepository.Catalog,
	schedule scheduleService.Schedule,
	tx postgres.TxRunner,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		cardRepo:    cardRepo,
		catalogRepo: catalogRepo,
		schedule:    schedule,
		tx:          tx,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	patientID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fromDate := timezone.DateFromMillis(req.FromDate)

	err = s.tx.WithinTx(ctx, func(sqltx *sqlx.Tx) error {
		card, err := s.cardRepo.EnsureTx(ctx, sqltx, patientID)
		if err != nil {
			return fmt.Errorf("failed to ensure card: %w", err)
		}

		if _, err = s.schedule.ReserveTx(ctx, sqltx, req.DoctorID, fromDate); err != nil {
			return err
		}

		item, err := s.catalogRepo.GetTx(ctx, sqltx, shared.FilterByID(req.ItemID, catalogModel.FieldID, catalogModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get item: %w", err)
		}

		if item.ID == constant.Empty {
			return failure.ItemNotFound
		}

		booking := req.ToModel(card.ID, patientID, fromDate.AddDate(0, 0, item.DurationDays))

		if err = s.repo.InsertTx(ctx, sqltx, booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		res.ID = booking.ID

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("patientID", patientID).Msg("failed to create booking")

		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return res, nil
}

// Update patches a booking. Only the assigned doctor or a director may do
// it. A to_date in the patch closes the booking: the status flips to DONE
// and the doctor's slot for the booking's date is released, atomically.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	err = s.tx.WithinTx(ctx, func(sqltx *sqlx.Tx) error {
		booking, err := s.repo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.BookingNotFound
		}

		if role != constant.RoleDirector && (role != constant.RoleDoctor || booking.DoctorID != actor) {
			return failure.NoPermission
		}

		if booking.Status == constant.BookingStatusDone {
			return failure.Conflict("booking is already closed")
		}

		fields := map[string]any{
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: actor,
		}

		fromDate := booking.FromDate
		if req.FromDate != nil {
			fromDate = timezone.DateFromMillis(*req.FromDate)
			fields[model.FieldFromDate] = fromDate
		}

		itemID := booking.ItemID
		if req.ItemID != constant.Empty {
			itemID = req.ItemID
			fields[model.FieldItemID] = itemID
		}

		if req.FromDate != nil || req.ItemID != constant.Empty {
			item, err := s.catalogRepo.GetTx(ctx, sqltx, shared.FilterByID(itemID, catalogModel.FieldID, catalogModel.TableName))
			if err != nil {
				return fmt.Errorf("failed to get item: %w", err)
			}

			if item.ID == constant.Empty {
				return failure.ItemNotFound
			}

			fields[model.FieldExpectedAt] = fromDate.AddDate(0, 0, item.DurationDays)
		}

		if req.ToDate != nil {
			toDate := timezone.DateFromMillis(*req.ToDate)
			if toDate.Before(fromDate) {
				return failure.InvalidDateRange
			}

			fields[model.FieldToDate] = toDate
			fields[model.FieldStatus] = constant.BookingStatusDone

			if err := s.schedule.ReleaseTx(ctx, sqltx, booking.DoctorID, fromDate); err != nil {
				return err
			}
		}

		err = s.repo.UpdateTx(ctx, sqltx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to update booking")

		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.BookingNotFound
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// MyBookings is the patient composition: card number, live balance and the
// bookings on the card. It reads straight from the database so the balance
// is never stale.
func (s *serviceImpl) MyBookings(ctx context.Context) (res dto.MyBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MyBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	patientID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	card, err := s.cardRepo.Get(ctx, shared.FilterByField(ledgerModel.FieldPatientID, ledgerModel.CardTableName, patientID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get card")

		return res, fmt.Errorf("failed to get card: %w", err)
	}

	if card.ID == constant.Empty {
		return res, failure.CardNotFound
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCardID,
				Value:    card.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			shared.FilterNotDeleted(model.TableName),
		},
	}

	// sort column is table qualified: the join carries several created_at columns
	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + constant.DefaultValueSortBy,
		SortDir: constant.DefaultValueSortDir,
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(card.CardNumber, card.Balance, bookings)

	return res, nil
}
