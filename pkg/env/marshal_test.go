package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	WakeWord  string        `env:"RIDE_WAKE_WORD" envDefault:"agent"`
	UserID    string        `env:"RIDE_USER_ID,required"`
	Limit     int           `env:"RIDE_HISTORY_LIMIT" envDefault:"10"`
	Debug     bool          `env:"RIDE_DEBUG"`
	Langs     []string      `env:"SPEECH_ALTERNATIVE_LANGUAGES" envSeparator:","`
	Timeout   time.Duration `env:"RIDE_TIMEOUT"`
	Greeting  string        `env:"RIDE_GREETING"`
	untagged  string
	NoEnvTag  string
}

func TestMarshalEnv(t *testing.T) {
	cfg := &sample{
		UserID:   "annu_kumar",
		Langs:    []string{"hi-IN", "ta-IN"},
		Timeout:  2 * time.Second,
		Greeting: "hello there",
		untagged: "x",
		NoEnvTag: "y",
	}

	out, err := MarshalEnv(cfg)
	require.NoError(t, err)

	assert.Equal(t,
		"RIDE_WAKE_WORD=agent\n"+
			"RIDE_USER_ID=annu_kumar\n"+
			"RIDE_HISTORY_LIMIT=10\n"+
			"SPEECH_ALTERNATIVE_LANGUAGES=hi-IN,ta-IN\n"+
			"RIDE_TIMEOUT=2s\n"+
			"RIDE_GREETING=\"hello there\"\n",
		out)
}

func TestMarshalEnv_RejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}

func TestMarshalEnv_Empty(t *testing.T) {
	type empty struct {
		Value string `env:"VALUE"`
	}
	out, err := MarshalEnv(&empty{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
