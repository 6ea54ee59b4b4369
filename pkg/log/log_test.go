package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	logrus.SetOutput(buf)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	L = &logger{entry: logrus.NewEntry(logrus.StandardLogger())}

	t.Cleanup(func() {
		SetupTestLogger()
	})

	return buf
}

func TestForContext_IncluiCorrelacaoETenant(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	buf := captureOutput(t)

	ctx, correlationID := WithCorrelationID(context.Background())
	ctx = WithTenant(ctx, "tenant-1")

	ForContext(ctx).Info("venda processada")

	out := buf.String()
	assert.Contains(t, out, correlationID)
	assert.Contains(t, out, "tenant_id=tenant-1")
	assert.Equal(t, correlationID, GetCorrelationID(ctx))
}

func TestWithFields_FiltraCamposEmDesenvolvimento(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	buf := captureOutput(t)

	L.WithFields(Fields{"sale_id": "S1", "payload_size": 42}).Info("teste")

	out := buf.String()
	assert.Contains(t, out, "sale_id=S1")
	assert.NotContains(t, out, "payload_size")
}
