package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemMonotonic(t *testing.T) {
	c := NewSystem()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, b, a)
}

func TestManual(t *testing.T) {
	c := NewManual(100)
	assert.Equal(t, int64(100), c.Now())

	c.Advance(15 * time.Millisecond)
	assert.Equal(t, int64(15100), c.Now())

	c.Advance(-time.Second) // ignored
	assert.Equal(t, int64(15100), c.Now())
}
