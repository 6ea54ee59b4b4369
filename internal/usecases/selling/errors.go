package selling

import (
	"errors"
	"fmt"
)

var (
	ErrSaleNotFound       = errors.New("venda não encontrada")
	ErrNoFieldsToUpdate   = errors.New("nenhum campo informado para atualização")
	ErrUnrecognizedStatus = errors.New("status de venda não reconhecido")
	ErrInvalidPaymentDate = errors.New("data de pagamento inválida")
	ErrAttendantNotFound  = errors.New("atendente não encontrado no tenant")
	ErrCreativeNotFound   = errors.New("criativo não encontrado no tenant")
	ErrKitNotFound        = errors.New("kit não encontrado no tenant")
	ErrSaleLocked         = errors.New("venda em processamento")
	ErrDatabaseOperation  = errors.New("erro ao realizar operação no banco de dados")
)

// SaleError é o erro da edição manual com o código da API.
type SaleError struct {
	Err     error
	Code    string
	SaleID  string
	Details string
}

func (e *SaleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

func NewSaleError(err error, code string, saleID string, details string) *SaleError {
	return &SaleError{
		Err:     err,
		Code:    code,
		SaleID:  saleID,
		Details: details,
	}
}
