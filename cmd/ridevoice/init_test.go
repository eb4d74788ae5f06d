package main

import (
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDefaultEnv(t *testing.T) {
	content, err := renderDefaultEnv()
	require.NoError(t, err)

	vars, err := godotenv.Unmarshal(content)
	require.NoError(t, err)

	assert.Equal(t, "annu_kumar", vars["RIDE_USER_ID"])
	assert.Equal(t, "agent", vars["RIDE_WAKE_WORD"])
	assert.Equal(t, "10", vars["RIDE_HISTORY_LIMIT"])
	assert.Equal(t, "azure", vars["LLM_PROVIDER"])
	assert.Equal(t, "hi-IN,te-IN,ta-IN", vars["SPEECH_ALTERNATIVE_LANGUAGES"])
	assert.Equal(t, "localhost:6379", vars["REDIS_ADDR"])
}

func TestOverlayEnv(t *testing.T) {
	content, err := renderDefaultEnv()
	require.NoError(t, err)

	out, err := overlayEnv(content, map[string]string{
		"LLM_PROVIDER":   "openai",
		"OPENAI_API_KEY": "sk-test",
	})
	require.NoError(t, err)

	vars, err := godotenv.Unmarshal(out)
	require.NoError(t, err)
	assert.Equal(t, "openai", vars["LLM_PROVIDER"])
	assert.Equal(t, "sk-test", vars["OPENAI_API_KEY"])
	assert.Equal(t, "agent", vars["RIDE_WAKE_WORD"])
}
