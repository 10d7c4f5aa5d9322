package services

import (
	"errors"
	"fmt"
)

// NotFoundError reports a record that must exist for a mutation to proceed
// but does not. Read paths swallow absence into empty results; mutation
// paths surface this typed error with both identifiers embedded.
type NotFoundError struct {
	Kind      string // "account", "device", "device group"
	AccountID string
	ID        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist: %s/%s", e.Kind, e.AccountID, e.ID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func deviceNotFound(accountID, deviceID string) error {
	return &NotFoundError{Kind: "device", AccountID: accountID, ID: deviceID}
}

func groupNotFound(accountID, groupID string) error {
	return &NotFoundError{Kind: "device group", AccountID: accountID, ID: groupID}
}
