package banner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	s := GetString()
	assert.Contains(t, s, Tagline)
	assert.Contains(t, s, `|_|\_\`)
}
