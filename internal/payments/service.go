package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("payment method not found")

type Service struct {
	pool *pgxpool.Pool
}

type Method struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	CardNumber string    `json:"cardNumber"`
	CardHolder string    `json:"cardHolder"`
	ExpiryDate string    `json:"expiryDate"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MethodInput struct {
	Type       string
	CardNumber string
	CardHolder string
	ExpiryDate string
	IsDefault  bool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// List returns the user's stored cards with numbers masked. The full number
// never leaves the store after creation.
func (s *Service) List(ctx context.Context, userID int64) ([]Method, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, type, card_number, card_holder, expiry_date, is_default, created_at
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Method, 0, 4)
	for rows.Next() {
		var m Method
		if err := rows.Scan(&m.ID, &m.Type, &m.CardNumber, &m.CardHolder, &m.ExpiryDate, &m.IsDefault, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.CardNumber = MaskCardNumber(m.CardNumber)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Service) Create(ctx context.Context, userID int64, in MethodInput) (int64, error) {
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.CardNumber) == "" ||
		strings.TrimSpace(in.CardHolder) == "" || strings.TrimSpace(in.ExpiryDate) == "" {
		return 0, errors.New("type, cardNumber, cardHolder and expiryDate are required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if in.IsDefault {
		if _, err := tx.Exec(ctx, "UPDATE payment_methods SET is_default = FALSE WHERE user_id = $1", userID); err != nil {
			return 0, err
		}
	}
	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO payment_methods (user_id, type, card_number, card_holder, expiry_date, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, userID, in.Type, in.CardNumber, in.CardHolder, in.ExpiryDate, in.IsDefault).Scan(&id)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// SetDefault flags one card and resets the rest inside the same transaction,
// keeping at most one default per user.
func (s *Service) SetDefault(ctx context.Context, userID, methodID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE payment_methods
		SET is_default = TRUE
		WHERE id = $1 AND user_id = $2
	`, methodID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `
		UPDATE payment_methods
		SET is_default = FALSE
		WHERE user_id = $1 AND id <> $2
	`, userID, methodID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) Delete(ctx context.Context, userID, methodID int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM payment_methods WHERE id = $1 AND user_id = $2", methodID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MaskCardNumber keeps the first and last four digits visible, grouped in
// blocks of four.
func MaskCardNumber(cardNumber string) string {
	cleaned := strings.ReplaceAll(cardNumber, " ", "")
	if len(cleaned) <= 8 {
		return cleaned
	}
	masked := strings.Repeat("X", len(cleaned)-8)
	full := cleaned[:4] + masked + cleaned[len(cleaned)-4:]
	var b strings.Builder
	for i, r := range full {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
