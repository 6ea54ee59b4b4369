package reconciling

import (
	"errors"
	"fmt"
)

var (
	// Erros de validação
	ErrTenantRequired     = errors.New("tenant_id é obrigatório")
	ErrOrderIDRequired    = errors.New("order_id é obrigatório")
	ErrUnrecognizedStatus = errors.New("status de venda não reconhecido")
	ErrInvalidPaymentDate = errors.New("data de pagamento inválida")

	// Erros de acesso
	ErrTenantNotFound       = errors.New("tenant não encontrado")
	ErrTenantDisabled       = errors.New("tenant desativado")
	ErrInvalidWebhookSecret = errors.New("segredo do webhook inválido")

	// Erros de configuração do tenant
	ErrNoKitsConfigured = errors.New("nenhum kit configurado para o tenant")
	ErrKitNotFound      = errors.New("produto não corresponde a nenhum kit do tenant")

	// Erros de infraestrutura
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
	ErrSaleLocked        = errors.New("pedido em processamento por outra notificação")
)

// SaleError carrega o código da API e o pedido envolvido.
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

func NewSaleError(err error, code string, details string) *SaleError {
	return &SaleError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewSaleErrorWithID(err error, code string, saleID string, details string) *SaleError {
	return &SaleError{
		Err:     err,
		Code:    code,
		SaleID:  saleID,
		Details: details,
	}
}
