package repo

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueCode = "23505"

// sqlite extended result codes for PRIMARY KEY and UNIQUE constraint failures.
const (
	sqlitePrimaryKeyCode = 1555
	sqliteUniqueCode     = 2067
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrDuplicateProduct    = errors.New("product id already exists")
	ErrConcurrencyConflict = errors.New("concurrency conflict: row was modified or removed")
	ErrDuplicateUserName   = errors.New("user name already taken")
	ErrUserNotFound        = errors.New("user not found")
	ErrRoleNotFound        = errors.New("role not found")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueCode
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		code := coded.Code()
		if code == sqlitePrimaryKeyCode || code == sqliteUniqueCode {
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
