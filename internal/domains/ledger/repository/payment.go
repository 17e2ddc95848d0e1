package repository

//go:generate go run go.uber.org/mock/mockgen -source=./payment.go -destination=../mocks/payment_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"clinic/infras/otel"
	"clinic/infras/postgres"
	"clinic/internal/domains/ledger/model"
	gDto "clinic/shared/dto"
	gRepo "clinic/shared/repository"
)

type Payment interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.PaymentRecord) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.PaymentRecord, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.PaymentRecord, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PaymentRecord, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Trash(ctx context.Context, actor string, filter gDto.FilterGroup) error
}

type paymentRepositoryImpl struct {
	gRepo.Repository[model.PaymentRecord]
	db   *postgres.Connection
	otel otel.Otel
}

func NewPayment(db *postgres.Connection, otel otel.Otel) Payment {
	return &paymentRepositoryImpl{
		Repository: gRepo.NewRepository[model.PaymentRecord](model.PaymentEntityName, model.PaymentTableName, model.FieldPaymentID, db, otel),
		db:         db,
		otel:       otel,
	}
}
