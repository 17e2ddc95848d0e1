package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"clinic/infras/otel"
	"clinic/infras/postgres"
	"clinic/internal/domains/catalog/model"
	gDto "clinic/shared/dto"
	gRepo "clinic/shared/repository"
)

type Catalog interface {
	Insert(ctx context.Context, model model.CatalogItem) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.CatalogItem, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.CatalogItem, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.CatalogItem, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Trash(ctx context.Context, actor string, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.CatalogItem]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Catalog {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.CatalogItem](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
