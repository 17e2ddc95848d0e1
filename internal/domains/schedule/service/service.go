package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Schedule=MockScheduleService

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"clinic/config"
	"clinic/infras/otel"
	"clinic/internal/domains/schedule/model"
	"clinic/internal/domains/schedule/model/dto"
	"clinic/internal/domains/schedule/repository"
	userModel "clinic/internal/domains/user/model"
	userRepository "clinic/internal/domains/user/repository"
	"clinic/shared"
	"clinic/shared/cache"
	"clinic/shared/constant"
	gDto "clinic/shared/dto"
	"clinic/shared/failure"
	"clinic/shared/timezone"
)

const (
	cacheGetSchedule    = "schedule:get"
	cacheGetAllSchedule = "schedule:gets"
	cacheCountSchedule  = "schedule:count"
)

// Schedule owns the doctors' daily slots and their occupancy. ReserveTx and
// ReleaseTx run on a caller-owned transaction so the booking workflow can
// commit the slot flip together with its own writes.
type Schedule interface {
	Create(ctx context.Context, req dto.CreateScheduleRequest) error
	ReserveTx(ctx context.Context, sqltx *sqlx.Tx, doctorID string, date time.Time) (model.ScheduleSlot, error)
	ReleaseTx(ctx context.Context, sqltx *sqlx.Tx, doctorID string, date time.Time) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSchedulesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ScheduleResponse, error)
	Trash(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Schedule
	userRepo userRepository.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Schedule, userRepo userRepository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Schedule {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func filterByDoctorAndDate(doctorID string, date time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldDoctorID,
				Value:    doctorID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldSlotDate,
				Value:    date.Format(constant.CalendarDayFormat),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			shared.FilterNotDeleted(model.TableName),
		},
	}
}

func filterFreeSlot(doctorID string, date time.Time) gDto.FilterGroup {
	filter := filterByDoctorAndDate(doctorID, date)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldOccupancy,
		Value:    constant.OccupancyFree,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	return filter
}

func occupancyFields(occupancy, actor string) map[string]any {
	return map[string]any{
		model.FieldOccupancy:     occupancy,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateScheduleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleDoctor {
		return failure.NoPermission
	}

	if err = req.Validate(); err != nil {
		return err
	}

	doctorID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	slot := req.ToModel(doctorID)

	exist, err := s.repo.Exist(ctx, filterByDoctorAndDate(doctorID, slot.SlotDate))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if schedule exists")

		return fmt.Errorf("failed to check if schedule exists: %w", err)
	}

	if exist {
		return failure.SlotAlreadyExists
	}

	if err = s.repo.Insert(ctx, slot); err != nil {
		log.Error().Err(err).Msg("failed to create schedule")

		return fmt.Errorf("failed to create schedule: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSchedule)
		shared.InvalidateCaches(c, s.cache, cacheCountSchedule)
	}()

	return nil
}

// ReserveTx locks the doctor's free slot for the given day and flips it to
// OCCUPIED. Two concurrent reservations of the same (doctor, date) serialize
// on the row lock: the loser re-runs the occupancy predicate after the winner
// commits, finds no row, and gets ScheduleNotAvailable.
func (s *serviceImpl) ReserveTx(ctx context.Context, sqltx *sqlx.Tx, doctorID string, date time.Time) (slot model.ScheduleSlot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReserveTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	doctor, err := s.userRepo.Get(ctx, shared.FilterByID(doctorID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get doctor")

		return slot, fmt.Errorf("failed to get doctor: %w", err)
	}

	if doctor.ID == constant.Empty {
		return slot, failure.UserNotFound
	}

	if doctor.Role != constant.RoleDoctor {
		return slot, failure.NoPermission
	}

	slot, err = s.repo.GetForUpdateTx(ctx, sqltx, filterFreeSlot(doctorID, date))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock schedule slot")

		return slot, fmt.Errorf("failed to lock schedule slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return slot, failure.ScheduleNotAvailable
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	err = s.repo.UpdateTx(ctx, sqltx, occupancyFields(constant.OccupancyOccupied, actor), shared.FilterByID(slot.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to occupy schedule slot")

		return slot, fmt.Errorf("failed to occupy schedule slot: %w", err)
	}

	slot.Occupancy = constant.OccupancyOccupied

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSchedule)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSchedule, slot.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete schedule from cache")
		}
	}()

	return slot, nil
}

// ReleaseTx flips the doctor's slot for the given day back to FREE. A missing
// slot is not an error: the slot may have been trashed since the booking was
// made, and closing the booking must still succeed.
func (s *serviceImpl) ReleaseTx(ctx context.Context, sqltx *sqlx.Tx, doctorID string, date time.Time) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReleaseTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	slot, err := s.repo.GetForUpdateTx(ctx, sqltx, filterByDoctorAndDate(doctorID, date))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock schedule slot")

		return fmt.Errorf("failed to lock schedule slot: %w", err)
	}

	if slot.ID == constant.Empty || slot.Occupancy == constant.OccupancyFree {
		return nil
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	err = s.repo.UpdateTx(ctx, sqltx, occupancyFields(constant.OccupancyFree, actor), shared.FilterByID(slot.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to free schedule slot")

		return fmt.Errorf("failed to free schedule slot: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSchedule)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSchedule, slot.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete schedule from cache")
		}
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSchedulesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSchedule, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for schedules")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count schedules")

		return res, fmt.Errorf("failed to count schedules: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedules")

		return res, fmt.Errorf("failed to get schedules: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save schedules to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountSchedule, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for schedule count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count schedules")

		return res, fmt.Errorf("failed to count schedules: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save schedule count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSchedule, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for schedule")

		return res, nil
	}

	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedule")

		return res, fmt.Errorf("failed to get schedule: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound("schedule not found")
	}

	res.FromModel(slot)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save schedule to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Trash(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Trash")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	slot, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedule")

		return fmt.Errorf("failed to get schedule: %w", err)
	}

	if slot.ID == constant.Empty {
		return failure.NotFound("schedule not found")
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if role != constant.RoleDirector && slot.DoctorID != actor {
		return failure.NoPermission
	}

	if slot.Occupancy == constant.OccupancyOccupied {
		return failure.Conflict("cannot delete an occupied schedule slot")
	}

	if err := s.repo.Trash(ctx, actor, filter); err != nil {
		log.Error().Err(err).Msg("failed to trash schedule")

		return fmt.Errorf("failed to trash schedule: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSchedule, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete schedule from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllSchedule)
		shared.InvalidateCaches(c, s.cache, cacheCountSchedule)
	}()

	return nil
}
