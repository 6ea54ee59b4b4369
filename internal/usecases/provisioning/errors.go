package provisioning

import (
	"errors"
	"fmt"
)

var (
	// Erros de validação
	ErrMissingRequiredData = errors.New("dados obrigatórios ausentes")
	ErrKitNotFound         = errors.New("kit da regra de comissão não encontrado")
	ErrCreativeNotFound    = errors.New("criativo autorizado não encontrado")

	// Erros de conflito
	ErrEmailAlreadyUsed = errors.New("email já cadastrado")
	ErrCodeAlreadyUsed  = errors.New("código de atendente já usado no tenant")

	ErrTenantNotFound    = errors.New("tenant não encontrado")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// ProvisioningError carrega o código da API para o handler.
type ProvisioningError struct {
	Err     error
	Code    string
	Details string
}

func (e *ProvisioningError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

func NewProvisioningError(err error, code string, details string) *ProvisioningError {
	return &ProvisioningError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
