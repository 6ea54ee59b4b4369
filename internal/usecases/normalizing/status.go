package normalizing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"golang.org/x/text/unicode/norm"
)

var ErrUnrecognizedStatus = errors.New("status de venda não reconhecido")

// Formas conhecidas já normalizadas: minúsculas, sem acento e com underscore.
var statusSynonyms = map[string]domain.SaleStatus{
	"pago":               domain.SaleStatusPaid,
	"paga":               domain.SaleStatusPaid,
	"paid":               domain.SaleStatusPaid,
	"aprovado":           domain.SaleStatusPaid,
	"approved":           domain.SaleStatusPaid,
	"pagamento_aprovado": domain.SaleStatusPaid,
	"completed":          domain.SaleStatusPaid,

	"aguardando_pagamento": domain.SaleStatusAwaitingPayment,
	"aguardando":           domain.SaleStatusAwaitingPayment,
	"waiting_payment":      domain.SaleStatusAwaitingPayment,
	"awaiting_payment":     domain.SaleStatusAwaitingPayment,
	"pending":              domain.SaleStatusAwaitingPayment,
	"pendente":             domain.SaleStatusAwaitingPayment,

	"agendado":  domain.SaleStatusScheduled,
	"agendada":  domain.SaleStatusScheduled,
	"scheduled": domain.SaleStatusScheduled,

	"pagamento_atrasado": domain.SaleStatusLatePayment,
	"atrasado":           domain.SaleStatusLatePayment,
	"late":               domain.SaleStatusLatePayment,
	"late_payment":       domain.SaleStatusLatePayment,
	"overdue":            domain.SaleStatusLatePayment,

	"cancelada":  domain.SaleStatusCanceled,
	"cancelado":  domain.SaleStatusCanceled,
	"canceled":   domain.SaleStatusCanceled,
	"cancelled":  domain.SaleStatusCanceled,
	"estornado":  domain.SaleStatusCanceled,
	"refunded":   domain.SaleStatusCanceled,
	"chargeback": domain.SaleStatusCanceled,

	"frustrado":  domain.SaleStatusFrustrated,
	"frustrada":  domain.SaleStatusFrustrated,
	"frustrated": domain.SaleStatusFrustrated,
	"recusado":   domain.SaleStatusFrustrated,
	"rejected":   domain.SaleStatusFrustrated,
	"failed":     domain.SaleStatusFrustrated,
}

// Normalize converte o status recebido para o enum interno. Valores fora da
// tabela e do enum são rejeitados, nunca trocados por um padrão.
func Normalize(raw string) (domain.SaleStatus, error) {
	key := normalizeKey(raw)
	if key == "" {
		return "", fmt.Errorf("%w: vazio", ErrUnrecognizedStatus)
	}

	if status, ok := statusSynonyms[key]; ok {
		return status, nil
	}

	candidate := domain.SaleStatus(strings.ToUpper(key))
	for _, status := range domain.SaleStatuses {
		if status == candidate {
			return status, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnrecognizedStatus, raw)
}

func normalizeKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(removeAccents(raw)))

	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	}), "_")
}

func removeAccents(s string) string {
	t := norm.NFD.String(s)

	result := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, t)

	return norm.NFC.String(result)
}
