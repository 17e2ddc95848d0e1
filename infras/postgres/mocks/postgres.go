package mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"clinic/infras/postgres"
)

type txRunnerImpl struct {
}

// WithinTx implements postgres.TxRunner. The callback runs with a nil
// transaction: repository calls are mocked in tests, so the handle is never
// dereferenced.
func (t *txRunnerImpl) WithinTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func NewTxRunner() postgres.TxRunner {
	return &txRunnerImpl{}
}
