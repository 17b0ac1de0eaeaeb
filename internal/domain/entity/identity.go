package entity

import (
	"strconv"

	"socialgraph/internal/errors"
)

// ErrMalformedIdentity is returned when an identity does not hold a numeric user id.
var ErrMalformedIdentity = errors.New("identity is not a numeric user id")

// Identity is the authenticated subject of a request: the decimal form of a user id.
// It is carried in session tokens and never persisted.
type Identity string

// NewIdentity builds the identity for a user id.
func NewIdentity(userID int64) Identity {
	return Identity(strconv.FormatInt(userID, 10))
}

// UserID parses the identity back into a user id.
func (i Identity) UserID() (int64, error) {
	id, err := strconv.ParseInt(string(i), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMalformedIdentity
	}

	return id, nil
}

// String implements fmt.Stringer.
func (i Identity) String() string {
	return string(i)
}
