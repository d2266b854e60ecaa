package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNoPrice = errors.New("no price available")

// Store reads and writes the posted kWh price series. The series is keyed by
// day; the current price is the most recent row.
type Store struct {
	pool *pgxpool.Pool
}

type PricePoint struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	return currentPrice(ctx, s.pool)
}

// CurrentPriceTx reads the price inside a trade transaction so a concurrent
// upsert cannot change it mid-trade.
func (s *Store) CurrentPriceTx(ctx context.Context, tx pgx.Tx) (decimal.Decimal, error) {
	return currentPrice(ctx, tx)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func currentPrice(ctx context.Context, q queryRower) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := q.QueryRow(ctx, "SELECT price FROM electricity_prices ORDER BY day DESC LIMIT 1").Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrNoPrice
	}
	return price, err
}

func (s *Store) ListPrices(ctx context.Context) ([]PricePoint, error) {
	rows, err := s.pool.Query(ctx, "SELECT day, price FROM electricity_prices ORDER BY day ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PricePoint, 0, 32)
	for rows.Next() {
		var day time.Time
		var p PricePoint
		if err := rows.Scan(&day, &p.Price); err != nil {
			return nil, err
		}
		p.Date = day.Format("2006-01-02")
		out = append(out, p)
	}
	return out, rows.Err()
}

// Upsert posts the price for a day, last writer wins.
func (s *Store) Upsert(ctx context.Context, day string, price decimal.Decimal) error {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return errors.New("price must be positive")
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO electricity_prices (day, price)
		VALUES ($1, $2)
		ON CONFLICT (day)
		DO UPDATE SET price = EXCLUDED.price
	`, d, price)
	return err
}
