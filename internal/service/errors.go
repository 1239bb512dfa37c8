package service

import (
	"errors"
	"fmt"
)

// ErrNonTrovato is returned whenever an id resolves to nothing; handlers map
// it to 404.
var ErrNonTrovato = errors.New("risorsa non trovata")

// CodiceDuplicatoError reports a business-code collision. Only the colliding
// record fails; the caller resolves by resubmitting with another code.
type CodiceDuplicatoError struct {
	Codice string
}

func (e *CodiceDuplicatoError) Error() string {
	return fmt.Sprintf("codice già in uso: %s", e.Codice)
}
