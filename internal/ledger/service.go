package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Service mutates the single cash balance column on users. Debits are
// conditional at the SQL level so concurrent purchases cannot overdraw.
type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

func (s *Service) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.pool.QueryRow(ctx, "SELECT balance FROM users WHERE id = $1", userID).Scan(&balance)
	return balance, err
}

// CreditTx adds amount to the user's balance and returns the new balance.
func (s *Service) CreditTx(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errors.New("amount must be positive")
	}
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `
		UPDATE users
		SET balance = balance + $1
		WHERE id = $2
		RETURNING balance
	`, amount, userID).Scan(&balance)
	return balance, err
}

// DebitTx subtracts amount only when the balance covers it. A no-row result
// means the guard failed and the surrounding transaction must roll back.
func (s *Service) DebitTx(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errors.New("amount must be positive")
	}
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `
		UPDATE users
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`, amount, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrInsufficientBalance
	}
	return balance, err
}

// TopUp credits outside of a trade, for the balance top-up endpoint.
func (s *Service) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx)
	balance, err := s.CreditTx(ctx, tx, userID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
