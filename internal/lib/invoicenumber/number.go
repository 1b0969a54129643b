// Package invoicenumber generates the human-readable invoice tokens
// printed on invoices.
package invoicenumber

import (
	"strings"

	"github.com/google/uuid"
)

// Prefix for every generated invoice number.
const Prefix = "INV-"

// New returns a fresh invoice number in the form INV-XXXXXXXX, where the
// suffix is the first eight characters of a random UUID, uppercased.
// Uniqueness is ultimately enforced by the ledger's unique index.
func New() string {
	return Prefix + strings.ToUpper(uuid.New().String()[:8])
}
