package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertMapEnv(t *testing.T) {
	assert.Equal(
		t,
		[]string{"A=1", "B=", "C=x=y"},
		ConvertMapEnv(map[string]string{"C": "x=y", "A": "1", "B": ""}),
	)
	assert.Empty(t, ConvertMapEnv(nil))
}
