package expensing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate        = errors.New("data inválida, use yyyy-mm-dd")
	ErrInvalidValue       = errors.New("valor deve ser maior que zero")
	ErrCreativeNotFound   = errors.New("criativo não encontrado")
	ErrEntryNotFound      = errors.New("lançamento não encontrado")
	ErrDescriptionMissing = errors.New("descrição é obrigatória")
	ErrDatabaseOperation  = errors.New("erro ao realizar operação no banco de dados")
)

type LedgerError struct {
	Err     error
	Code    string
	Details string
}

func (e *LedgerError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

func NewLedgerError(err error, code string, details string) *LedgerError {
	return &LedgerError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
