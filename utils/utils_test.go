package utils_test

import (
	"testing"

	"github.com/rami3l/loxvm/utils"
	"github.com/stretchr/testify/assert"
)

func TestBoolInt(t *testing.T) {
	t.Parallel()
	assert.Equal(t, uint8(1), utils.BoolToInt[uint8](true))
	assert.Equal(t, 0, utils.BoolToInt[int](false))
	assert.True(t, utils.IntToBool(uint8(2)))
	assert.False(t, utils.IntToBool(0))
}
