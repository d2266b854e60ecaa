package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("invoice not found")

type Store struct {
	pool *pgxpool.Pool
}

type Invoice struct {
	ID      int64           `json:"id"`
	OrderID int64           `json:"orderId"`
	Number  string          `json:"invoiceNumber"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
	Date    time.Time       `json:"date"`
}

// BillTo is the billing identity returned with a single invoice.
type BillTo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Number builds the canonical invoice number for an order.
func Number(orderID int64, issuedAt time.Time) string {
	return fmt.Sprintf("%d-%d", orderID, issuedAt.UnixMilli())
}

// CreateTx writes the invoice row inside the trade transaction, so every
// committed order has exactly one invoice.
func (s *Store) CreateTx(ctx context.Context, tx pgx.Tx, orderID int64, number string, amount decimal.Decimal, issuedAt time.Time) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO invoices (order_id, number, amount, issued_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, orderID, number, amount, issuedAt).Scan(&id)
	return id, err
}

func (s *Store) ListByUser(ctx context.Context, userID int64, limit int) ([]Invoice, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.order_id, i.number, i.amount, o.status, i.issued_at
		FROM invoices i
		JOIN orders o ON o.id = i.order_id
		WHERE o.user_id = $1
		ORDER BY i.issued_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Invoice, 0, limit)
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.OrderID, &inv.Number, &inv.Amount, &inv.Status, &inv.Date); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Get returns an invoice the user owns, with the billing identity.
func (s *Store) Get(ctx context.Context, userID, invoiceID int64) (Invoice, BillTo, error) {
	var inv Invoice
	var bill BillTo
	err := s.pool.QueryRow(ctx, `
		SELECT i.id, i.order_id, i.number, i.amount, o.status, i.issued_at,
			u.first_name, u.last_name, u.email, u.address
		FROM invoices i
		JOIN orders o ON o.id = i.order_id
		JOIN users u ON u.id = o.user_id
		WHERE i.id = $1 AND o.user_id = $2
	`, invoiceID, userID).Scan(
		&inv.ID, &inv.OrderID, &inv.Number, &inv.Amount, &inv.Status, &inv.Date,
		&bill.FirstName, &bill.LastName, &bill.Email, &bill.Address,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, BillTo{}, ErrNotFound
		}
		return Invoice{}, BillTo{}, err
	}
	return inv, bill, nil
}
