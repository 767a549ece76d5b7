package model

import "strings"

// Category identifies the kind of data carried by a live timing message.
// The set is closed; values match the topic names used by the upstream feed.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryHeartbeat
	CategoryCarData
	CategoryPosition
	CategoryExtrapolatedClock
	CategoryTopThree
	CategoryRcmSeries
	CategoryTimingStats
	CategoryTimingAppData
	CategoryWeatherData
	CategoryTrackStatus
	CategoryDriverList
	CategoryRaceControlMessages
	CategorySessionInfo
	CategorySessionData
	CategoryLapCount
	CategoryTimingData
	CategoryChampionshipPrediction
	CategoryTeamRadio
	CategoryTyreStintSeries
	CategoryPitStopSeries
)

var categoryNames = map[Category]string{
	CategoryHeartbeat:              "Heartbeat",
	CategoryCarData:                "CarData",
	CategoryPosition:               "Position",
	CategoryExtrapolatedClock:      "ExtrapolatedClock",
	CategoryTopThree:               "TopThree",
	CategoryRcmSeries:              "RcmSeries",
	CategoryTimingStats:            "TimingStats",
	CategoryTimingAppData:          "TimingAppData",
	CategoryWeatherData:            "WeatherData",
	CategoryTrackStatus:            "TrackStatus",
	CategoryDriverList:             "DriverList",
	CategoryRaceControlMessages:    "RaceControlMessages",
	CategorySessionInfo:            "SessionInfo",
	CategorySessionData:            "SessionData",
	CategoryLapCount:               "LapCount",
	CategoryTimingData:             "TimingData",
	CategoryChampionshipPrediction: "ChampionshipPrediction",
	CategoryTeamRadio:              "TeamRadio",
	CategoryTyreStintSeries:        "TyreStintSeries",
	CategoryPitStopSeries:          "PitStopSeries",
}

var categoriesByName = func() map[string]Category {
	ret := make(map[string]Category, len(categoryNames))
	for k, v := range categoryNames {
		ret[v] = k
	}
	return ret
}()

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Compressed reports whether the upstream feed delivers this category
// base64+deflate compressed (".z" suffixed topics).
func (c Category) Compressed() bool {
	return c == CategoryCarData || c == CategoryPosition
}

// Topic returns the upstream subscription topic for the category.
func (c Category) Topic() string {
	if c.Compressed() {
		return c.String() + ".z"
	}
	return c.String()
}

// ParseCategory resolves a topic or category name. A trailing ".z" marker
// is accepted. Unknown names yield CategoryUnknown.
func ParseCategory(name string) Category {
	name = strings.TrimSuffix(name, ".z")
	if c, ok := categoriesByName[name]; ok {
		return c
	}
	return CategoryUnknown
}

// AllCategories lists every known category in declaration order.
func AllCategories() []Category {
	ret := make([]Category, 0, len(categoryNames))
	for c := CategoryHeartbeat; c <= CategoryPitStopSeries; c++ {
		ret = append(ret, c)
	}
	return ret
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	*c = ParseCategory(string(text))
	return nil
}
