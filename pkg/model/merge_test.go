//nolint:lll // test payloads
package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestTrackStatusScenario(t *testing.T) {
	var snap TrackStatus

	snap = snap.Merge(TrackStatus{Status: strPtr("2"), Message: strPtr("Yellow")})
	assert.Equal(t, "2", *snap.Status)
	assert.Equal(t, "Yellow", *snap.Message)

	snap = snap.Merge(TrackStatus{Status: strPtr("1")})
	assert.Equal(t, "1", *snap.Status)
	assert.Equal(t, "Yellow", *snap.Message, "message must be retained")
}

func TestLapCountScenario(t *testing.T) {
	var snap LapCount
	snap = snap.Merge(LapCount{CurrentLap: intPtr(3), TotalLaps: intPtr(71)})
	snap = snap.Merge(LapCount{CurrentLap: intPtr(4)})
	assert.Equal(t, 4, *snap.CurrentLap)
	assert.Equal(t, 71, *snap.TotalLaps)
}

func TestMergeIdempotence(t *testing.T) {
	var base TimingData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":{"44":{"Line":1,"Sectors":{"0":{"Value":"26.1"}}}}}`), &base))

	var update TimingData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":{"44":{"NumberOfLaps":3,"Sectors":{"1":{"Value":"31.4"}}}}}`), &update))

	once := base.Merge(update)
	twice := once.Merge(update)
	assert.Empty(t, cmp.Diff(once, twice))
}

func TestNullPreservation(t *testing.T) {
	var snap TimingData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":{"44":{"Line":1,"GapToLeader":"+1.2","InPit":false,"LastLapTime":{"Value":"1:30.1"}}},"SessionPart":2}`), &snap))

	empty := TimingData{}
	merged := snap.Merge(empty)
	assert.Empty(t, cmp.Diff(snap, merged))
}

func TestKeyUnionLaw(t *testing.T) {
	var snap TimingData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":{"44":{"Line":1,"GapToLeader":"+0.0"}}}`), &snap))

	// new key added without disturbing existing keys
	var addKey TimingData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":{"1":{"Line":2}}}`), &addKey))
	snap = snap.Merge(addKey)
	assert.Len(t, snap.Lines, 2)
	assert.Equal(t, "+0.0", *snap.Lines["44"].GapToLeader)

	// existing key: only touched sub-fields change
	var touch TimingData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":{"44":{"GapToLeader":"+1.5"}}}`), &touch))
	snap = snap.Merge(touch)
	assert.Equal(t, "+1.5", *snap.Lines["44"].GapToLeader)
	assert.Equal(t, 1, *snap.Lines["44"].Line)
	assert.Equal(t, 2, *snap.Lines["1"].Line)
}

func TestOrderSensitivityLastAppliedWins(t *testing.T) {
	base := TrackStatus{Message: strPtr("AllClear")}

	a := TrackStatus{Status: strPtr("4")}
	b := TrackStatus{Status: strPtr("1")}

	afterAB := base.Merge(a).Merge(b)
	afterB := base.Merge(b)
	assert.Equal(t, *afterB.Status, *afterAB.Status)
}

func TestMergeDoesNotMutatePriorSnapshot(t *testing.T) {
	var v1 TimingData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":{"44":{"Line":1,"Sectors":{"0":{"Value":"26.1"}}}}}`), &v1))

	var update TimingData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":{"44":{"Line":2,"Sectors":{"0":{"Value":"25.9"}}},"1":{"Line":1}}}`), &update))

	v2 := v1.Merge(update)

	// v1 stays what it was; a reader holding it must not see v2's values
	assert.Len(t, v1.Lines, 1)
	assert.Equal(t, 1, *v1.Lines["44"].Line)
	assert.Equal(t, "26.1", *v1.Lines["44"].Sectors["0"].Value)
	assert.Equal(t, 2, *v2.Lines["44"].Line)
}

func TestSequencesReplacedWholesale(t *testing.T) {
	var snap TopThree
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":[{"Tla":"VER"},{"Tla":"LEC"},{"Tla":"NOR"}]}`), &snap))

	var update TopThree
	require.NoError(t, json.Unmarshal(
		[]byte(`{"Lines":[{"Tla":"LEC"},{"Tla":"VER"},{"Tla":"NOR"}]}`), &update))

	// an incoming list replaces the current one, no element-wise merge
	snap = snap.Merge(update)
	require.Len(t, snap.Lines, 3)
	assert.Equal(t, "LEC", *snap.Lines[0].Tla)
	assert.Nil(t, snap.Lines[0].LapTime)

	// an update without the list leaves it untouched
	snap = snap.Merge(TopThree{})
	require.Len(t, snap.Lines, 3)
	assert.Equal(t, "LEC", *snap.Lines[0].Tla)
}

func TestKeyedSeriesAccumulate(t *testing.T) {
	var snap SessionData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"StatusSeries":{"0":{"TrackStatus":"Yellow"}}}`), &snap))

	var update SessionData
	require.NoError(t, json.Unmarshal(
		[]byte(`{"StatusSeries":{"1":{"TrackStatus":"AllClear"}}}`), &update))

	snap = snap.Merge(update)
	assert.Len(t, snap.StatusSeries, 2)
}

func TestDriverListSkipsBookkeepingKeys(t *testing.T) {
	var dl DriverList
	require.NoError(t, json.Unmarshal(
		[]byte(`{"44":{"Tla":"HAM","TeamColour":"00D2BE"},"_kf":true}`), &dl))
	require.Len(t, dl, 1)
	assert.Equal(t, "HAM", *dl["44"].Tla)

	update := DriverList{"44": {Line: intPtr(3)}}
	dl = dl.Merge(update)
	assert.Equal(t, "HAM", *dl["44"].Tla)
	assert.Equal(t, 3, *dl["44"].Line)
}

func TestNestedAdoptionKeepsRecursiveNulls(t *testing.T) {
	var snap TimingLine
	update := TimingLine{LastLapTime: &LapTimeValue{Value: strPtr("1:29.9")}}
	snap = snap.Merge(update)
	require.NotNil(t, snap.LastLapTime)
	assert.Equal(t, "1:29.9", *snap.LastLapTime.Value)
	assert.Nil(t, snap.LastLapTime.OverallFastest)

	second := TimingLine{LastLapTime: &LapTimeValue{OverallFastest: func() *bool { b := true; return &b }()}}
	snap = snap.Merge(second)
	assert.Equal(t, "1:29.9", *snap.LastLapTime.Value)
	assert.True(t, *snap.LastLapTime.OverallFastest)
}

func TestCategoryParsing(t *testing.T) {
	assert.Equal(t, CategoryTimingData, ParseCategory("TimingData"))
	assert.Equal(t, CategoryCarData, ParseCategory("CarData.z"))
	assert.Equal(t, CategoryUnknown, ParseCategory("NotACategory"))
	assert.True(t, CategoryPosition.Compressed())
	assert.False(t, CategoryTimingData.Compressed())
	assert.Equal(t, "CarData.z", CategoryCarData.Topic())
	assert.Len(t, AllCategories(), 20)
}
