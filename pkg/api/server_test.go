package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitlane-dev/pitlane/pkg/model"
	"github.com/pitlane-dev/pitlane/pkg/session"
)

func newTestServer(t *testing.T) (*session.Registry, *httptest.Server) {
	t.Helper()
	registry := session.NewRegistry()
	ts := httptest.NewServer(NewServer("", registry).routes())
	t.Cleanup(func() {
		ts.Close()
		registry.Close()
	})
	return registry, ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test url
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestCategoriesEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var names []string
	status := getJSON(t, ts.URL+"/api/categories", &names)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, names, len(model.AllCategories()))
	assert.Contains(t, names, "TimingData")
	assert.Contains(t, names, "TrackStatus")
}

func TestCategorySnapshot(t *testing.T) {
	registry, ts := newTestServer(t)
	require.NoError(t, registry.Route(model.CategoryTrackStatus,
		`{"Status":"4","Message":"SCDeployed"}`))

	var status model.TrackStatus
	code := getJSON(t, ts.URL+"/api/TrackStatus", &status)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, status.Status)
	assert.Equal(t, "4", *status.Status)

	var errResp map[string]string
	code = getJSON(t, ts.URL+"/api/NoSuchCategory", &errResp)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, errResp["error"], "NoSuchCategory")
}

func TestLapEndpoints(t *testing.T) {
	registry, ts := newTestServer(t)
	require.NoError(t, registry.Route(model.CategoryTimingData,
		`{"Lines":{"1":{"NumberOfLaps":1,"LastLapTime":{"Value":"1:31.044"}}}}`))

	var laps []int
	code := getJSON(t, ts.URL+"/api/timing/laps", &laps)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []int{2}, laps)

	var lines map[string]model.TimingLine
	code = getJSON(t, ts.URL+"/api/timing/laps/2", &lines)
	assert.Equal(t, http.StatusOK, code)
	require.Contains(t, lines, "1")

	var errResp map[string]string
	code = getJSON(t, ts.URL+"/api/timing/laps/99", &errResp)
	assert.Equal(t, http.StatusNotFound, code)

	code = getJSON(t, ts.URL+"/api/timing/laps/abc", &errResp)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTeamRadioUnknownCapture(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/teamradio/nope/download", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClockDelayRoundTrip(t *testing.T) {
	registry, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/clock/delay",
		strings.NewReader(`{"delayMs":30000}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 30*time.Second, registry.Clock().Delay())

	var clk struct {
		DelayMs int64 `json:"delayMs"`
	}
	code := getJSON(t, ts.URL+"/api/clock", &clk)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(30000), clk.DelayMs)
}

func TestEventsStream(t *testing.T) {
	registry, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.NoError(t, registry.Route(model.CategoryLapCount, `{"CurrentLap":1}`))

	buf := make([]byte, 256)
	deadline := time.Now().Add(2 * time.Second)
	var received string
	for time.Now().Before(deadline) && !strings.Contains(received, "LapCount") {
		n, rerr := resp.Body.Read(buf)
		received += string(buf[:n])
		if rerr != nil {
			break
		}
	}
	assert.Contains(t, received, fmt.Sprintf("data: %s", model.CategoryLapCount))
}
