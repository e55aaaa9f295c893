package emby

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUserNotFound is returned when no user matches a requested name.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoAdmin is returned when the server has no administrator account.
	ErrNoAdmin = errors.New("No admin user found")
)

// UserLookupError names the user that could not be resolved.
type UserLookupError struct {
	Name string
}

func (e *UserLookupError) Error() string {
	return fmt.Sprintf("User '%s' not found", e.Name)
}

func (e *UserLookupError) Unwrap() error {
	return ErrUserNotFound
}

// ResolveUserID returns the ID of the user called name, compared
// case-insensitively. An empty name selects the first administrator.
func (c *Client) ResolveUserID(ctx context.Context, name string) (string, error) {
	users, err := c.Users(ctx)
	if err != nil {
		return "", err
	}
	return FindUserID(users, name)
}

// FindUserID applies the ResolveUserID rules to an already fetched user list.
func FindUserID(users []User, name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, u := range users {
		if u.ID == nil {
			continue
		}
		if name != "" {
			if strings.EqualFold(String(u.Name, ""), name) {
				return *u.ID, nil
			}
			continue
		}
		if u.IsAdmin() {
			return *u.ID, nil
		}
	}
	if name != "" {
		return "", &UserLookupError{Name: name}
	}
	return "", ErrNoAdmin
}
