package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/isacLima251/MeuPainel0.2/infrastructure/database/postgres"
	"github.com/isacLima251/MeuPainel0.2/internal/domain"
)

// ErrDuplicateKey indica violação de unicidade (email, código de atendente, pedido).
var ErrDuplicateKey = errors.New("registro duplicado")

type scanner interface {
	Scan(dest ...interface{}) error
}

func wrapExecError(action string, err error) error {
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", action, ErrDuplicateKey, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// applyWindow restringe a coluna de data ao intervalo inclusivo da janela.
func applyWindow(query squirrel.SelectBuilder, column string, window domain.MetricsWindow) squirrel.SelectBuilder {
	start, end := window.Bounds()

	if start != nil {
		query = query.Where(squirrel.GtOrEq{column: *start})
	}

	if end != nil {
		query = query.Where(squirrel.LtOrEq{column: *end})
	}

	return query
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
