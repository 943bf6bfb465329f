// Package auth stores a bearer credential override in the system keyring.
package auth

import (
	"errors"

	"github.com/spacedl/spacedl/constant"
	"github.com/zalando/go-keyring"
)

const user = "bearer"

// SetBearer stores token as the bearer override.
func SetBearer(token string) error {
	return keyring.Set(constant.App, user, token)
}

// GetBearer returns the stored bearer override.
func GetBearer() (string, error) {
	return keyring.Get(constant.App, user)
}

// DeleteBearer removes the bearer override.
func DeleteBearer() error {
	return keyring.Delete(constant.App, user)
}

// Bearer returns the override when one is stored, the built-in credential otherwise.
func Bearer() string {
	token, err := GetBearer()
	if err != nil || token == "" {
		return constant.BearerToken
	}
	return token
}

// IsMissing reports whether err means no override is stored.
func IsMissing(err error) bool {
	return errors.Is(err, keyring.ErrNotFound)
}
