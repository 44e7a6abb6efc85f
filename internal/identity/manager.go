package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/products_api/internal/hash"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/repo"
)

const RoleAdmin = "Admin"

const (
	CodeDefault                         = "DefaultError"
	CodeInvalidUserName                 = "InvalidUserName"
	CodeDuplicateUserName               = "DuplicateUserName"
	CodeInvalidEmail                    = "InvalidEmail"
	CodePasswordTooShort                = "PasswordTooShort"
	CodePasswordTooLong                 = "PasswordTooLong"
	CodePasswordRequiresNonAlphanumeric = "PasswordRequiresNonAlphanumeric"
	CodePasswordRequiresDigit           = "PasswordRequiresDigit"
	CodePasswordRequiresLower           = "PasswordRequiresLower"
	CodePasswordRequiresUpper           = "PasswordRequiresUpper"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Result struct {
	Succeeded bool
	Errors    []Error
}

func Success() Result { return Result{Succeeded: true} }

func Failed(errs ...Error) Result { return Result{Errors: errs} }

type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByName(ctx context.Context, normalizedName string) (*models.User, error)
	FindRoleByName(ctx context.Context, normalizedName string) (*models.Role, error)
	CreateRole(ctx context.Context, role *models.Role) error
	AddUserToRole(ctx context.Context, userID, roleID string) error
	IsInRole(ctx context.Context, userID, normalizedRole string) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) bool
}

type Manager struct {
	Store    Store
	Password PasswordOptions
	Hasher   PasswordHasher
}

func NewManager(store Store) *Manager {
	return &Manager{
		Store:    store,
		Password: DefaultPasswordOptions(),
		Hasher:   hash.Bcrypt{Cost: bcrypt.DefaultCost},
	}
}

func Normalize(name string) string {
	return strings.ToUpper(name)
}

// CreateUser validates the user name, email and password, hashes the
// password and stores the user. Validation failures are returned in the
// Result; the error is reserved for store failures.
func (m *Manager) CreateUser(ctx context.Context, userName, email, password string) (*models.User, Result, error) {
	errs := collect(userName, userNameRules(userName))
	if len(errs) == 0 {
		_, err := m.Store.FindUserByName(ctx, Normalize(userName))
		switch {
		case err == nil:
			errs = append(errs, duplicateUserName(userName))
		case !errors.Is(err, repo.ErrUserNotFound):
			return nil, Result{}, err
		}
	}
	if email != "" {
		errs = append(errs, collect(email, emailRules(email))...)
	}
	errs = append(errs, collect(password, passwordRules(m.Password))...)
	if len(errs) > 0 {
		return nil, Failed(errs...), nil
	}

	pwHash, err := m.Hasher.Hash(password)
	if err != nil {
		if errors.Is(err, hash.ErrPasswordTooLong) {
			return nil, Failed(Error{
				Code:        CodePasswordTooLong,
				Description: fmt.Sprintf("Passwords must be at most %d bytes.", hash.MaxPasswordBytes),
			}), nil
		}
		return nil, Result{}, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:                 uuid.NewString(),
		UserName:           userName,
		NormalizedUserName: Normalize(userName),
		Email:              email,
		PasswordHash:       pwHash,
	}
	if err := m.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateUserName) {
			return nil, Failed(duplicateUserName(userName)), nil
		}
		return nil, Result{}, err
	}
	return user, Success(), nil
}

func duplicateUserName(userName string) Error {
	return Error{
		Code:        CodeDuplicateUserName,
		Description: fmt.Sprintf("Username '%s' is already taken.", userName),
	}
}

func (m *Manager) FindByName(ctx context.Context, userName string) (*models.User, error) {
	return m.Store.FindUserByName(ctx, Normalize(userName))
}

// CheckPasswordSignIn verifies the credentials. Unknown users and wrong
// passwords are both reported as ErrInvalidCredentials.
func (m *Manager) CheckPasswordSignIn(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := m.FindByName(ctx, userName)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !m.Hasher.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (m *Manager) RoleExists(ctx context.Context, name string) (bool, error) {
	_, err := m.Store.FindRoleByName(ctx, Normalize(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repo.ErrRoleNotFound) {
		return false, nil
	}
	return false, err
}

func (m *Manager) CreateRole(ctx context.Context, name string) error {
	return m.Store.CreateRole(ctx, &models.Role{
		ID:             uuid.NewString(),
		Name:           name,
		NormalizedName: Normalize(name),
	})
}

func (m *Manager) AddToRole(ctx context.Context, user *models.User, roleName string) error {
	role, err := m.Store.FindRoleByName(ctx, Normalize(roleName))
	if err != nil {
		return fmt.Errorf("add %s to role %s: %w", user.UserName, roleName, err)
	}
	return m.Store.AddUserToRole(ctx, user.ID, role.ID)
}

func (m *Manager) IsInRole(ctx context.Context, userID, roleName string) (bool, error) {
	return m.Store.IsInRole(ctx, userID, Normalize(roleName))
}
