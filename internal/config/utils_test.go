package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CFG_NAME", "  Kafka ")
	t.Setenv("CFG_BLANK", "   ")
	t.Setenv("CFG_CODE", " eur")
	t.Setenv("CFG_INT", "x")
	t.Setenv("CFG_DURATION", "90s")
	t.Setenv("CFG_LIST", " a, ,b ,")

	assert.Equal(t, "kafka", getEnvAsName("CFG_NAME", "noop"))
	assert.Equal(t, "noop", getEnvAsName("CFG_BLANK", "noop"))
	assert.Equal(t, "EUR", getEnvAsCode("CFG_CODE", "usd"))
	assert.Equal(t, "USD", getEnvAsCode("CFG_UNSET", "usd"))
	assert.Equal(t, 7, getEnvAsInt("CFG_INT", 7))
	assert.Equal(t, 90*time.Second, getEnvAsDuration("CFG_DURATION", time.Second))
	assert.Equal(t, []string{"a", "b"}, getEnvAsStringSlice("CFG_LIST", nil))
	assert.Equal(t, "", getEnv("CFG_BLANK_UNSET", ""))
}
