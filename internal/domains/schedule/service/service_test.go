package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"clinic/config"
	"clinic/infras/otel/mocks"
	scheduleMocks "clinic/internal/domains/schedule/mocks"
	"clinic/internal/domains/schedule/model"
	"clinic/internal/domains/schedule/model/dto"
	"clinic/internal/domains/schedule/service"
	userMocks "clinic/internal/domains/user/mocks"
	userModel "clinic/internal/domains/user/model"
	cacheMocks "clinic/shared/cache/mocks"
	"clinic/shared/constant"
	"clinic/shared/failure"
	gModel "clinic/shared/model"
	"clinic/shared/timezone"
)

func doctorCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleDoctor)
}

// relaxedCache never hits and silently absorbs the asynchronous
// invalidations fired after writes.
func relaxedCache(ctrl *gomock.Controller) *cacheMocks.MockRedisCache {
	m := cacheMocks.NewMockRedisCache(ctrl)
	m.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	m.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return m
}

func TestScheduleService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockSchedule(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := relaxedCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockUserRepo, cfg, mockCache, mockOtel)

	validReq := dto.CreateScheduleRequest{
		SlotDate:   timezone.Now().UnixMilli(),
		StartTime:  "09:00",
		FinishTime: "17:00",
		BreakStart: "12:00",
		BreakEnd:   "13:00",
	}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateScheduleRequest
		setupMock func()
		wantErr   error
	}{
		{
			name:      "successful creation",
			ctx:       doctorCtx("doctor-id"),
			req:       validReq,
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: nil,
		},
		{
			name:      "only doctors can create slots",
			ctx:       context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RolePatient),
			req:       validReq,
			setupMock: func() {},
			wantErr:   failure.NoPermission,
		},
		{
			name: "finish before start",
			ctx:  doctorCtx("doctor-id"),
			req: dto.CreateScheduleRequest{
				SlotDate:   timezone.Now().UnixMilli(),
				StartTime:  "17:00",
				FinishTime: "09:00",
			},
			setupMock: func() {},
			wantErr:   failure.BadRequestFromString("finish_time must be after start_time"),
		},
		{
			name: "break outside working window",
			ctx:  doctorCtx("doctor-id"),
			req: dto.CreateScheduleRequest{
				SlotDate:   timezone.Now().UnixMilli(),
				StartTime:  "09:00",
				FinishTime: "17:00",
				BreakStart: "08:00",
				BreakEnd:   "10:00",
			},
			setupMock: func() {},
			wantErr:   failure.BadRequestFromString("break must be inside the working window"),
		},
		{
			name: "day already taken",
			ctx:  doctorCtx("doctor-id"),
			req:  validReq,
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: failure.SlotAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(tt.ctx, tt.req)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleService_ReserveTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockSchedule(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := relaxedCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockUserRepo, cfg, mockCache, mockOtel)

	doctor := userModel.User{
		ID:       "doctor-id",
		FullName: "Dr. Strange",
		Role:     constant.RoleDoctor,
	}

	freeSlot := model.ScheduleSlot{
		ID:        "slot-id",
		DoctorID:  doctor.ID,
		SlotDate:  timezone.Now(),
		Occupancy: constant.OccupancyFree,
		Metadata:  gModel.Metadata{CreatedBy: doctor.ID},
	}

	date := timezone.Now()

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "slot reserved",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(doctor, nil)

				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(freeSlot, nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "doctor does not exist",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr: failure.UserNotFound,
		},
		{
			name: "target user is not a doctor",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{ID: "patient-id", Role: constant.RolePatient}, nil)
			},
			wantErr: failure.NoPermission,
		},
		{
			name: "no free slot for the day",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(doctor, nil)

				// The occupancy predicate matched no row: either the day has no
				// slot or a concurrent booking took it first.
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.ScheduleSlot{}, nil)
			},
			wantErr: failure.ScheduleNotAvailable,
		},
		{
			name: "lock fails",
			setupMock: func() {
				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(doctor, nil)

				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.ScheduleSlot{}, errors.New("database error"))
			},
			wantErr: errors.New("failed to lock schedule slot: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			slot, err := svc.ReserveTx(doctorCtx("patient-id"), nil, doctor.ID, date)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, constant.OccupancyOccupied, slot.Occupancy)
			}
		})
	}
}

func TestScheduleService_ReleaseTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockSchedule(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := relaxedCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockUserRepo, cfg, mockCache, mockOtel)

	date := timezone.Now()

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "occupied slot freed",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.ScheduleSlot{ID: "slot-id", Occupancy: constant.OccupancyOccupied}, nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "already free is a no-op",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.ScheduleSlot{ID: "slot-id", Occupancy: constant.OccupancyFree}, nil)
			},
			wantErr: false,
		},
		{
			name: "missing slot is a no-op",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.ScheduleSlot{}, nil)
			},
			wantErr: false,
		},
		{
			name: "lock fails",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.ScheduleSlot{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ReleaseTx(doctorCtx("doctor-id"), nil, "doctor-id", date)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleService_Trash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockSchedule(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := relaxedCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockUserRepo, cfg, mockCache, mockOtel)

	ownSlot := model.ScheduleSlot{
		ID:        "slot-id",
		DoctorID:  "doctor-id",
		SlotDate:  time.Now(),
		Occupancy: constant.OccupancyFree,
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   error
	}{
		{
			name: "owning doctor trashes own slot",
			ctx:  doctorCtx("doctor-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownSlot, nil)

				mockRepo.EXPECT().
					Trash(gomock.Any(), "doctor-id", gomock.Any()).
					Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "schedule not found",
			ctx:  doctorCtx("doctor-id"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.ScheduleSlot{}, nil)
			},
			wantErr: failure.NotFound("schedule not found"),
		},
		{
			name: "another doctor has no permission",
			ctx:  doctorCtx("other-doctor"),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(ownSlot, nil)
			},
			wantErr: failure.NoPermission,
		},
		{
			name: "occupied slot cannot be trashed",
			ctx:  doctorCtx("doctor-id"),
			setupMock: func() {
				occupied := ownSlot
				occupied.Occupancy = constant.OccupancyOccupied

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(occupied, nil)
			},
			wantErr: failure.Conflict("cannot delete an occupied schedule slot"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Trash(tt.ctx, "slot-id")

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
