package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, false, true)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	log.Debug().Msg("hidden")
	log.Info().Str("room", "1234").Msg("room created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "room created", line["message"])
	assert.Equal(t, "1234", line["room"])
	assert.Equal(t, "info", line["level"])
}

func TestSetupWriterVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, true, false)

	log.Debug().Msg("tick")
	assert.Contains(t, buf.String(), "tick")
}
