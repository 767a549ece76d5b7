package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayShiftsNow(t *testing.T) {
	c := New()
	assert.Equal(t, time.Duration(0), c.Delay())

	c.SetDelay(30 * time.Second)
	diff := time.Now().UTC().Sub(c.Now())
	assert.InDelta(t, (30 * time.Second).Seconds(), diff.Seconds(), 1.0)
}

func TestAdjustDelayClampsAtZero(t *testing.T) {
	c := New()
	c.SetDelay(5 * time.Second)
	c.AdjustDelay(-10 * time.Second)
	assert.Equal(t, time.Duration(0), c.Delay())
}
