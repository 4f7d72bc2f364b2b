package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Path    string        `env:"SAMPLE_PATH" envDefault:".sample"`
	Token   string        `env:"SAMPLE_TOKEN,required"`
	Limit   int           `env:"SAMPLE_LIMIT" envDefault:"6"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT"`
	Ratio   float64       `env:"SAMPLE_RATIO"`
	skipped string        `env:"SAMPLE_SKIPPED"`
	NoTag   string
}

func TestMarshalEnv(t *testing.T) {
	cfg := &sampleConfig{
		Limit:   10,
		Timeout: 1500 * time.Millisecond,
		Ratio:   0.78,
		skipped: "x",
		NoTag:   "y",
	}

	out, err := MarshalEnv(cfg)
	require.NoError(t, err)

	expected := "# sampleConfig\n" +
		"SAMPLE_PATH=.sample\n" +
		"# SAMPLE_TOKEN=\n" +
		"SAMPLE_LIMIT=10\n" +
		"SAMPLE_TIMEOUT=1.5s\n" +
		"SAMPLE_RATIO=0.78\n"
	assert.Equal(t, expected, out)
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv("nope")
	assert.Error(t, err)
}
