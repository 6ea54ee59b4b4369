package reporting

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrAttendantNotFound = errors.New("atendente não encontrado")
	ErrInvalidPeriod     = errors.New("período inválido, use mm-yyyy")
	ErrSnapshotNotFound  = errors.New("fechamento mensal não encontrado")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

type ReportError struct {
	Err     error
	Code    string
	Details string
}

func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

func NewReportError(err error, code string, details string) *ReportError {
	return &ReportError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
