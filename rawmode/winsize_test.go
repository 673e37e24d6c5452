package rawmode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	cols, rows := Winsize{Row: 40, Col: 120}.Fit()
	assert.Equal(t, 120, cols)
	assert.Equal(t, 40, rows)

	cols, rows = Winsize{}.Fit()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}

func TestRestoreNil(t *testing.T) {
	assert.NoError(t, Restore(nil))
}
