package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

type Service struct {
	pool       *pgxpool.Pool
	issuer     string
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Address         string
	BirthDate       string
}

type Claims struct {
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

func NewService(pool *pgxpool.Pool, issuer string, secret []byte, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{pool: pool, issuer: issuer, secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return User{}, errors.New("firstName, lastName, email, password and confirmPassword are required")
	}
	if in.Password != in.ConfirmPassword {
		return User{}, errors.New("passwords do not match")
	}
	var birthDate *time.Time
	if strings.TrimSpace(in.BirthDate) != "" {
		d, err := time.Parse("2006-01-02", in.BirthDate)
		if err != nil {
			return User{}, errors.New("birthDate must be YYYY-MM-DD")
		}
		birthDate = &d
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, address, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, in.Email, string(hash), in.FirstName, in.LastName, in.Phone, in.Address, birthDate).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return User{ID: id, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, errors.New("email and password are required")
	}
	var u User
	var hash string
	err := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return errors.New("currentPassword and newPassword are required")
	}
	var hash string
	err := s.pool.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", userID).Scan(&hash)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)); err != nil {
		return ErrWrongPassword
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", string(newHash), userID)
	return err
}

// AccessToken signs a short-lived token used on every request.
func (s *Service) AccessToken(userID int64) (string, error) {
	return s.sign(userID, TokenUseAccess, s.accessTTL)
}

// RefreshToken signs the longer-lived token accepted only by Refresh. Both
// lifetimes are finite: an expired token of either kind is never renewed.
func (s *Service) RefreshToken(userID int64) (string, error) {
	return s.sign(userID, TokenUseRefresh, s.refreshTTL)
}

func (s *Service) sign(userID int64, use string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// ParseToken validates signature, issuer, expiry and token use, and returns the
// user id carried in the subject.
func (s *Service) ParseToken(token, wantUse string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Issuer != s.issuer || claims.TokenUse != wantUse {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	userID, err := s.ParseToken(refreshToken, TokenUseRefresh)
	if err != nil {
		return "", err
	}
	return s.AccessToken(userID)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
