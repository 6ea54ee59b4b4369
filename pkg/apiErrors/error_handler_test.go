package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		expectedStatus int
	}{
		{"Kit não encontrado vira 400", ErrKitNotFound, http.StatusBadRequest},
		{"Segredo inválido vira 401", ErrInvalidWebhookSecret, http.StatusUnauthorized},
		{"Tenant desativado vira 403", ErrTenantDisabled, http.StatusForbidden},
		{"Venda inexistente vira 404", ErrResourceNotFound, http.StatusNotFound},
		{"Código desconhecido vira 500", "XYZ_999", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.code, "mensagem", nil)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "mensagem", body.Message)
		})
	}
}
