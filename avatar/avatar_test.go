package avatar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	url := Generate("4f7a2c1e-0000-4000-8000-000000000001", "acme")
	assert.True(t, strings.HasPrefix(url, BaseURL+"/"))
	assert.True(t, strings.HasSuffix(url, "/A.png"))

	assert.Equal(t, url, Generate("4f7a2c1e-0000-4000-8000-000000000001", "acme"), "deterministic")
	assert.NotEqual(t, url, Generate("4f7a2c1e-0000-4000-8000-000000000002", "acme"))

	assert.True(t, strings.HasSuffix(Generate("id", ""), "/?.png"))
	assert.True(t, strings.HasSuffix(Generate("id", "  émile"), "/É.png"))
}
