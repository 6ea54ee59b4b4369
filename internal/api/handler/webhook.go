package handler

import (
	"net/http"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/reconciling"
	"github.com/isacLima251/MeuPainel0.2/pkg/log"
)

const webhookSecretHeader = "X-Webhook-Secret"

// ReceiveBraipWebhook recebe a notificação de pedido e reconcilia a venda.
// Responde 201 quando a venda é criada e 200 quando é atualizada.
func ReceiveBraipWebhook(service reconciling.Reconciler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload domain.WebhookPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		payload.WebhookSecret = r.Header.Get(webhookSecretHeader)

		ctx := r.Context()
		if payload.TenantID != "" {
			ctx = log.WithTenant(ctx, payload.TenantID)
		}

		log.ForContext(ctx).WithFields(log.Fields{
			"external_id": payload.OrderID,
			"status":      payload.Status,
		}).Info("webhook: notificação recebida")

		result, err := service.Reconcile(ctx, &payload)
		if err != nil {
			writeServiceError(w, r.WithContext(ctx), err, "Erro ao processar notificação")
			return
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		writeJSON(w, r, status, result)
	})
}
