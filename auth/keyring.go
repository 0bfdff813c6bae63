// Package auth provides a high-level API for persisting and retrieving service credentials from the system keyring.
package auth

import (
	"github.com/zalando/go-keyring"
)

const (
	service = "vidra-cli"
	user    = "hosted-policy-key"
)

// SetPolicyKey persists the hosted-video service policy key to the system keyring.
func SetPolicyKey(token string) error {
	return keyring.Set(service, user, token)
}

// GetPolicyKey retrieves the hosted-video service policy key from the system keyring.
func GetPolicyKey() (string, error) {
	return keyring.Get(service, user)
}

// DeletePolicyKey removes the hosted-video service policy key from the system keyring.
func DeletePolicyKey() error {
	return keyring.Delete(service, user)
}
