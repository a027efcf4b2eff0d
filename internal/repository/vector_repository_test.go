package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorLiteral(t *testing.T) {
	assert.Equal(t, "[]", vectorLiteral(nil))
	assert.Equal(t, "[0.5,-1,2.25]", vectorLiteral([]float32{0.5, -1, 2.25}))
}
