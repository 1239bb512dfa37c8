package service

import (
	"fmt"
	"time"
)

// Soft delete never frees a row, only its business code: the code mutates to a
// retired form so the unique index lets a new row claim the original, and the
// name gains a visible marker. Both transforms live here so they can be
// asserted independently of the delete path.

// RetireCode mutates a business code into its retired form.
func RetireCode(codice string, at time.Time) string {
	return fmt.Sprintf("%s_DEL_%d", codice, at.Unix())
}

// RetireName marks a display name as belonging to a soft-deleted row.
func RetireName(nome string) string {
	return nome + " (ELIMINATO)"
}
