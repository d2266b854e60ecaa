package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("user not found")

type Service struct {
	pool *pgxpool.Pool
}

type Profile struct {
	ID        int64           `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	BirthDate string          `json:"birthDate"`
	Balance   decimal.Decimal `json:"balance"`
}

type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
	BirthDate string
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

func (s *Service) Get(ctx context.Context, userID int64) (Profile, error) {
	var p Profile
	var birthDate *time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, phone, address, birth_date, balance
		FROM users
		WHERE id = $1
	`, userID).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Address, &birthDate, &p.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	if birthDate != nil {
		p.BirthDate = birthDate.Format("2006-01-02")
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, userID int64, in ProfileUpdate) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return errors.New("firstName and lastName are required")
	}
	var birthDate *time.Time
	if strings.TrimSpace(in.BirthDate) != "" {
		d, err := time.Parse("2006-01-02", in.BirthDate)
		if err != nil {
			return errors.New("birthDate must be YYYY-MM-DD")
		}
		birthDate = &d
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, address = $4, birth_date = $5
		WHERE id = $6
	`, in.FirstName, in.LastName, in.Phone, in.Address, birthDate, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
