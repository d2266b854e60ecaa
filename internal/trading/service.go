package trading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elekable/internal/invoices"
	"elekable/internal/ledger"
	"elekable/internal/pricing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Product id 1 is the single traded product, one kilowatt-hour.
const kwhProductID = 1

var commissionRate = decimal.NewFromFloat(0.05)

type Service struct {
	pool     *pgxpool.Pool
	prices   *pricing.Store
	ledger   *ledger.Service
	invoices *invoices.Store
}

func NewService(pool *pgxpool.Pool, prices *pricing.Store, ledgerSvc *ledger.Service, invoiceStore *invoices.Store) *Service {
	return &Service{pool: pool, prices: prices, ledger: ledgerSvc, invoices: invoiceStore}
}

type Purchase struct {
	ID                int64           `json:"id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Quantity          decimal.Decimal `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	Date              time.Time       `json:"date"`
	PaymentMethod     string          `json:"paymentMethod"`
	AmountFromBalance decimal.Decimal `json:"amountFromBalance"`
	AmountFromCard    decimal.Decimal `json:"amountFromCard"`
}

type Sale struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	Date       time.Time       `json:"date"`
}

type BuyResult struct {
	Transaction   Purchase        `json:"transaction"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

type SellResult struct {
	Transaction   Sale            `json:"transaction"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

// quoteBuy converts a spend amount into whole kWh units. The total is
// recomputed from the floored quantity, so only whole units are charged.
func quoteBuy(amount, price decimal.Decimal) (quantity, total decimal.Decimal, err error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, errors.New("amount must be positive")
	}
	quantity = amount.Div(price).Floor()
	if quantity.LessThan(decimal.NewFromInt(1)) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("minimum purchase amount is %s for 1 kWh", price.StringFixed(2))
	}
	total = quantity.Mul(price).Round(2)
	return quantity, total, nil
}

// quoteSell prices a kWh sale. Gross, commission and net are each rounded to
// cents independently.
func quoteSell(quantity, price decimal.Decimal) (gross, commission, net decimal.Decimal, err error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, decimal.Zero, errors.New("amount must be positive")
	}
	gross = quantity.Mul(price).Round(2)
	commission = gross.Mul(commissionRate).Round(2)
	net = gross.Sub(commission).Round(2)
	return gross, commission, net, nil
}

// Buy spends amount of currency on whole kWh units at the current price. Order,
// line item, payment, invoice and the balance debit commit atomically.
func (s *Service) Buy(ctx context.Context, userID int64, amount decimal.Decimal, useCard bool) (BuyResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return BuyResult{}, err
	}
	defer tx.Rollback(ctx)

	price, err := s.prices.CurrentPriceTx(ctx, tx)
	if err != nil {
		return BuyResult{}, err
	}
	quantity, total, err := quoteBuy(amount, price)
	if err != nil {
		return BuyResult{}, err
	}

	orderID, createdAt, err := insertOrder(ctx, tx, userID, "purchase", total)
	if err != nil {
		return BuyResult{}, err
	}
	if err := insertItem(ctx, tx, orderID, quantity, price); err != nil {
		return BuyResult{}, err
	}

	method := "balance"
	amountFromBalance := total
	amountFromCard := decimal.Zero
	var balance decimal.Decimal
	if useCard {
		method = "card"
		amountFromBalance = decimal.Zero
		amountFromCard = total
		if err := tx.QueryRow(ctx, "SELECT balance FROM users WHERE id = $1", userID).Scan(&balance); err != nil {
			return BuyResult{}, err
		}
	} else {
		balance, err = s.ledger.DebitTx(ctx, tx, userID, total)
		if err != nil {
			return BuyResult{}, err
		}
	}

	if err := insertPayment(ctx, tx, orderID, method, total); err != nil {
		return BuyResult{}, err
	}
	number := invoices.Number(orderID, createdAt)
	if _, err := s.invoices.CreateTx(ctx, tx, orderID, number, total, createdAt); err != nil {
		return BuyResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return BuyResult{}, err
	}

	return BuyResult{
		Transaction: Purchase{
			ID:                orderID,
			Type:              "purchase",
			Amount:            total,
			Quantity:          quantity,
			Price:             price,
			Date:              createdAt,
			PaymentMethod:     method,
			AmountFromBalance: amountFromBalance,
			AmountFromCard:    amountFromCard,
		},
		InvoiceNumber: number,
		Balance:       balance,
	}, nil
}

// Sell trades quantity kWh at the current price, keeps a 5% commission and
// credits the net proceeds. Same all-or-nothing shape as Buy.
func (s *Service) Sell(ctx context.Context, userID int64, quantity decimal.Decimal) (SellResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return SellResult{}, err
	}
	defer tx.Rollback(ctx)

	price, err := s.prices.CurrentPriceTx(ctx, tx)
	if err != nil {
		return SellResult{}, err
	}
	_, commission, net, err := quoteSell(quantity, price)
	if err != nil {
		return SellResult{}, err
	}

	orderID, createdAt, err := insertOrder(ctx, tx, userID, "sale", net)
	if err != nil {
		return SellResult{}, err
	}
	if err := insertItem(ctx, tx, orderID, quantity, price); err != nil {
		return SellResult{}, err
	}
	balance, err := s.ledger.CreditTx(ctx, tx, userID, net)
	if err != nil {
		return SellResult{}, err
	}
	if err := insertPayment(ctx, tx, orderID, "sale", net); err != nil {
		return SellResult{}, err
	}
	number := invoices.Number(orderID, createdAt)
	if _, err := s.invoices.CreateTx(ctx, tx, orderID, number, net, createdAt); err != nil {
		return SellResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return SellResult{}, err
	}

	return SellResult{
		Transaction: Sale{
			ID:         orderID,
			Type:       "sale",
			Amount:     net,
			Quantity:   quantity,
			Price:      price,
			Commission: commission,
			Date:       createdAt,
		},
		InvoiceNumber: number,
		Balance:       balance,
	}, nil
}

type HistoryEntry struct {
	ID            int64           `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod string          `json:"paymentMethod"`
	Date          time.Time       `json:"date"`
}

func (s *Service) History(ctx context.Context, userID int64, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT o.id, o.kind, o.total, oi.quantity, oi.unit_price, p.method, o.created_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN payments p ON p.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Amount, &e.Quantity, &e.Price, &e.PaymentMethod, &e.Date); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func insertOrder(ctx context.Context, tx pgx.Tx, userID int64, kind string, total decimal.Decimal) (int64, time.Time, error) {
	var id int64
	var createdAt time.Time
	err := tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, kind, status, total)
		VALUES ($1, $2, 'paid', $3)
		RETURNING id, created_at
	`, userID, kind, total).Scan(&id, &createdAt)
	return id, createdAt, err
}

func insertItem(ctx context.Context, tx pgx.Tx, orderID int64, quantity, unitPrice decimal.Decimal) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
	`, orderID, kwhProductID, quantity, unitPrice)
	return err
}

func insertPayment(ctx context.Context, tx pgx.Tx, orderID int64, method string, amount decimal.Decimal) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO payments (order_id, method, amount, status)
		VALUES ($1, $2, $3, 'success')
	`, orderID, method, amount)
	return err
}
