package repository

//go:generate go run go.uber.org/mock/mockgen -source=./card.go -destination=../mocks/card_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"clinic/infras/otel"
	"clinic/infras/postgres"
	"clinic/internal/domains/ledger/model"
	"clinic/shared"
	"clinic/shared/constant"
	gDto "clinic/shared/dto"
	gModel "clinic/shared/model"
	gRepo "clinic/shared/repository"
	"clinic/shared/timezone"
)

// How many fresh card numbers to try before giving up on number collisions.
const cardNumberAttempts = 5

type Card interface {
	EnsureTx(ctx context.Context, sqltx *sqlx.Tx, patientID string) (model.Card, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Card, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Card, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Trash(ctx context.Context, actor string, filter gDto.FilterGroup) error
}

type cardRepositoryImpl struct {
	gRepo.Repository[model.Card]
	db   *postgres.Connection
	otel otel.Otel
}

func NewCard(db *postgres.Connection, otel otel.Otel) Card {
	return &cardRepositoryImpl{
		Repository: gRepo.NewRepository[model.Card](model.CardEntityName, model.CardTableName, model.FieldCardID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// EnsureTx returns the patient's live card, creating it with a freshly
// generated card number when none exists yet. The existing card is read
// FOR UPDATE, so callers hold the row lock for the rest of the transaction.
// Number collisions are retried under a savepoint: a failed INSERT would
// otherwise poison the surrounding transaction.
func (repo *cardRepositoryImpl) EnsureTx(ctx context.Context, sqltx *sqlx.Tx, patientID string) (model.Card, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".card.EnsureTx")
	defer scope.End()

	filter := shared.FilterByField(model.FieldPatientID, model.CardTableName, patientID)

	card, err := repo.GetForUpdateTx(ctx, sqltx, filter)
	if err != nil {
		return card, err //nolint:wrapcheck
	}

	if card.ID != constant.Empty {
		return card, nil
	}

	if _, err = sqltx.ExecContext(ctx, "SAVEPOINT ensure_card"); err != nil {
		scope.TraceError(err)

		return card, fmt.Errorf("failed to create savepoint (card): %w", err)
	}

	for attempt := 0; attempt < cardNumberAttempts; attempt++ {
		card = newCard(patientID)

		err = repo.InsertTx(ctx, sqltx, card)
		if err == nil {
			return card, nil
		}

		var pqErr *pq.Error
		if !errors.As(err, &pqErr) || string(pqErr.Code) != constant.PqErrorCodeUniqueViolation {
			return model.Card{}, err //nolint:wrapcheck
		}

		if _, rbErr := sqltx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT ensure_card"); rbErr != nil {
			scope.TraceError(rbErr)

			return model.Card{}, fmt.Errorf("failed to roll back savepoint (card): %w", rbErr)
		}

		if pqErr.Constraint == constant.ConstraintCardNumberUnique {
			continue
		}

		// The patient uniqueness lost a race: another transaction created
		// the card first. Wait on its row lock and reuse its card.
		card, err = repo.GetForUpdateTx(ctx, sqltx, filter)
		if err != nil {
			return card, err //nolint:wrapcheck
		}

		if card.ID != constant.Empty {
			return card, nil
		}
	}

	scope.TraceError(err)

	return model.Card{}, fmt.Errorf("failed to ensure card for patient %s: %w", patientID, err)
}

func newCard(patientID string) model.Card {
	return model.Card{
		ID:         uuid.NewString(),
		PatientID:  patientID,
		CardNumber: generateCardNumber(),
		Balance:    0,
		Status:     constant.CardStatusActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  patientID,
			ModifiedBy: patientID,
		},
	}
}

func generateCardNumber() string {
	number := constant.CardNumberMin + rand.Int63n(constant.CardNumberMax-constant.CardNumberMin)

	return strconv.FormatInt(number, 10)
}
