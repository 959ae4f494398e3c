package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func TestLogger_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}).Named("recorder")

	log.Debug().Msg("descartado")
	log.Info().Str("invoice_number", "INV-000001").Msg("venta registrada")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug queda por debajo del nivel")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "recorder", entry["component"])
	assert.Equal(t, "INV-000001", entry["invoice_number"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestLogger_NivelPorDefectoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "desconocido", Output: &buf})

	log.Debug().Msg("no")
	log.Warn().Msg("si")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Named("x").Error().Msg("nada") })
}
