package env

import (
	"strings"
	"testing"
	"time"

	cenv "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string        `env:"APP_NAME"`
	Token    string        `env:"APP_TOKEN,required"`
	Port     int           `env:"APP_PORT"`
	Ratio    float32       `env:"APP_RATIO"`
	Debug    bool          `env:"APP_DEBUG"`
	Timeout  time.Duration `env:"APP_TIMEOUT"`
	Chats    []int64       `env:"APP_CHATS"`
	Empty    string        `env:"APP_EMPTY"`
	Untagged string
	hidden   string `env:"APP_HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	in := &sample{
		Name:    "teammem",
		Token:   "123:abc",
		Port:    8000,
		Ratio:   0.3,
		Debug:   true,
		Timeout: 1500 * time.Millisecond,
		Chats:   []int64{-100, 42},
		hidden:  "x",
	}

	out, err := MarshalEnv(in)
	require.NoError(t, err)
	assert.Equal(t, `APP_NAME=teammem
APP_TOKEN=123:abc
APP_PORT=8000
APP_RATIO=0.3
APP_DEBUG=true
APP_TIMEOUT=1.5s
APP_CHATS=-100,42
`, out)
}

func TestMarshalEnv_RoundTrip(t *testing.T) {
	in := &sample{Token: "t", Timeout: 10 * time.Second, Chats: []int64{7, 8}, Port: 1}
	out, err := MarshalEnv(in)
	require.NoError(t, err)

	vars := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		k, v, _ := strings.Cut(line, "=")
		vars[k] = v
	}

	var back sample
	require.NoError(t, cenv.ParseWithOptions(&back, cenv.Options{Environment: vars}))
	assert.Equal(t, in.Timeout, back.Timeout)
	assert.Equal(t, in.Chats, back.Chats)
	assert.Equal(t, in.Port, back.Port)
}

func TestMarshalEnv_Multiple(t *testing.T) {
	type a struct {
		X string `env:"X"`
	}
	type b struct {
		Y int `env:"Y"`
	}
	out, err := MarshalEnv(&a{X: "1"}, &b{Y: 2})
	require.NoError(t, err)
	assert.Equal(t, "X=1\nY=2\n", out)

	_, err = MarshalEnv(a{})
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	in := "TEAMMEM_LLM_API_KEY=sk-abcdef1234\nTEAMMEM_TELEGRAM_TOKEN=abc\nTEAMMEM_HTTP_ADDR=:8000\n"
	assert.Equal(t,
		"TEAMMEM_LLM_API_KEY=****1234\nTEAMMEM_TELEGRAM_TOKEN=****\nTEAMMEM_HTTP_ADDR=:8000\n",
		Redact(in))
}
