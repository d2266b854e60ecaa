package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"elekable/internal/config"
	"elekable/internal/db"
	"elekable/internal/pricing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Seed creates the schema, a week of electricity prices and a demo user with a
// default card. Safe to run more than once.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	prices := pricing.NewStore(pool)
	week := []float64{0.1756, 0.1823, 0.1795, 0.1812, 0.1867, 0.1834, 0.1842}
	today := time.Now().UTC()
	for i, p := range week {
		day := today.AddDate(0, 0, i-len(week)+1).Format("2006-01-02")
		if err := prices.Upsert(ctx, day, decimal.NewFromFloat(p)); err != nil {
			log.Fatalf("seed price for %s: %v", day, err)
		}
	}

	var userID int64
	err = pool.QueryRow(ctx, "SELECT id FROM users WHERE email = 'jean.dupont@example.fr'").Scan(&userID)
	if err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash demo password: %v", err)
		}
		err = pool.QueryRow(ctx, `
			INSERT INTO users (email, password_hash, first_name, last_name, phone, address, birth_date, balance)
			VALUES ('jean.dupont@example.fr', $1, 'Jean', 'Dupont', '0612345678', '123 Rue de l''Exemple, 75000 Paris', '1985-05-15', 500)
			RETURNING id
		`, string(hash)).Scan(&userID)
		if err != nil {
			log.Fatalf("create demo user: %v", err)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO payment_methods (user_id, type, card_number, card_holder, expiry_date, is_default)
			VALUES ($1, 'Visa', '4111111111111111', 'Jean Dupont', '12/25', TRUE)
		`, userID)
		if err != nil {
			log.Fatalf("create demo card: %v", err)
		}
		fmt.Println("created demo user jean.dupont@example.fr (password123)")
	} else {
		fmt.Println("demo user already exists, prices refreshed")
	}
}
