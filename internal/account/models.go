// Package account provides the minimal account record the deletion
// lifecycle consults. Account creation and profile management live in a
// separate system; this package only answers "does this account exist"
// and supplies the locale and summary fields the lifecycle needs.
package account

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrAccountNotFound = errors.New("account not found")
)

// Account represents an account as seen by the deletion lifecycle.
type Account struct {
	// ID is the unique account identifier (format: acc_XXXX).
	ID string

	// Email is the account's contact address, used by the notification
	// collaborator.
	Email string

	// DisplayName is the human-readable name shown in operator views.
	DisplayName string

	// Locale is the account's preferred language/region (BCP 47 format,
	// e.g. "nl-NL"), used to render the scheduled deletion date.
	Locale string

	// CreatedAt is when the account was created.
	CreatedAt time.Time

	// UpdatedAt is when the account was last updated.
	UpdatedAt time.Time
}
