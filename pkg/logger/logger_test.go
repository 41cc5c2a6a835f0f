package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("no-existe"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf}).Component("products")

	l.Debug().Msg("descartado")
	l.Info().Str("product_id", "p1").Msg("producto aprobado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "debe haber exactamente una línea JSON")
	assert.Equal(t, "products", entry["component"])
	assert.Equal(t, "p1", entry["product_id"])
	assert.Equal(t, "producto aprobado", entry["message"])
}

func TestSlog_MismoDestino(t *testing.T) {
	var buf bytes.Buffer
	sl := New(Config{Env: "production", Level: "info", Output: &buf}).Component("migrator").Slog()

	sl.Debug("descartado")
	sl.With("db", "mk").WithGroup("m").Info("Applied migration", "version", 3, "description", "Product Category")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "migrator", entry["component"])
	assert.Equal(t, "mk", entry["db"])
	assert.Equal(t, float64(3), entry["m.version"])
	assert.Equal(t, "Product Category", entry["m.description"])
	assert.Equal(t, "Applied migration", entry["message"])
}
