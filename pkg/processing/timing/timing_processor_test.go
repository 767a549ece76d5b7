//nolint:lll // test payloads
package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedIndexLazySlots(t *testing.T) {
	p := NewProcessor()

	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"Line":1,"GapToLeader":""},"1":{"Line":2}}}`)))

	laps := p.Laps()
	assert.Equal(t, []int{1}, laps)

	lap1, ok := p.Lap(1)
	require.True(t, ok)
	assert.Len(t, lap1, 2)
	assert.Equal(t, 1, *lap1["44"].Line)

	_, ok = p.Lap(2)
	assert.False(t, ok)
}

func TestDerivedIndexAppendOnly(t *testing.T) {
	p := NewProcessor()

	// driver 44 completes lap 1 with a 92.5s lap
	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"NumberOfLaps":0,"LastLapTime":{"Value":""}}}}`)))
	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"NumberOfLaps":1,"LastLapTime":{"Value":"1:32.500"}}}}`)))

	lap2, ok := p.Lap(2)
	require.True(t, ok)
	assert.Equal(t, "1:32.500", *lap2["44"].LastLapTime.Value)

	// updates while on lap 3 must not touch the sealed lap 2 slot
	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"NumberOfLaps":2,"LastLapTime":{"Value":"1:31.900"}}}}`)))
	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"GapToLeader":"+2.1"}}}`)))

	lap2, ok = p.Lap(2)
	require.True(t, ok)
	assert.Equal(t, "1:32.500", *lap2["44"].LastLapTime.Value)
	assert.Nil(t, lap2["44"].GapToLeader)

	lap3, ok := p.Lap(3)
	require.True(t, ok)
	assert.Equal(t, "+2.1", *lap3["44"].GapToLeader)
}

func TestDerivedIndexSparseLaps(t *testing.T) {
	p := NewProcessor()

	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"NumberOfLaps":4}}}`)))
	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"NumberOfLaps":9}}}`)))

	assert.Equal(t, []int{5, 10}, p.Laps())
}

func TestUntouchedDriversStayOut(t *testing.T) {
	p := NewProcessor()

	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"NumberOfLaps":1},"1":{"NumberOfLaps":1}}}`)))
	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"NumberOfLaps":2}}}`)))

	lap3, ok := p.Lap(3)
	require.True(t, ok)
	_, has44 := lap3["44"]
	_, has1 := lap3["1"]
	assert.True(t, has44)
	assert.False(t, has1)
}

func TestShapeErrorLeavesIndexIntact(t *testing.T) {
	p := NewProcessor()

	require.NoError(t, p.Apply([]byte(`{"Lines":{"44":{"NumberOfLaps":1}}}`)))
	err := p.Apply([]byte(`{"Lines":"garbage"}`))
	require.Error(t, err)

	assert.Equal(t, []int{2}, p.Laps())
	assert.NotNil(t, p.Latest().Lines["44"].NumberOfLaps)
}
