package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sbelyaev/blogsite/internal/common"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
)

func NewUserService(db *sql.DB) *UserService {
	return &UserService{
		m: newUserModel(db),
	}
}

// Register creates a new user account. The first account ever registered
// becomes the administrator; everyone after that is a regular user.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	validateName(v, name)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Email:    email,
		Name:     name,
		Password: Password{Plain: password},
	}

	// Set the password hash
	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, err
	}

	// Insert the user into the database
	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// Authenticate checks the email and password pair. An unknown email and a
// wrong password are deliberately indistinguishable: both come back as
// ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, ErrInvalidCredentials
	}

	user, err := s.m.getUserByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	if !user.Password.compare(password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID loads a user fresh from the database. The session middleware
// calls this on every request so row edits are visible immediately.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, ErrNotFound
	}

	return s.m.getUserByID(ctx, id)
}
