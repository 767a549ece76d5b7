package model

import (
	"encoding/json"
	"strings"
)

type Driver struct {
	RacingNumber  *string `json:"RacingNumber,omitempty"`
	BroadcastName *string `json:"BroadcastName,omitempty"`
	FullName      *string `json:"FullName,omitempty"`
	Tla           *string `json:"Tla,omitempty"`
	Line          *int    `json:"Line,omitempty"`
	TeamName      *string `json:"TeamName,omitempty"`
	TeamColour    *string `json:"TeamColour,omitempty"`
	FirstName     *string `json:"FirstName,omitempty"`
	LastName      *string `json:"LastName,omitempty"`
	Reference     *string `json:"Reference,omitempty"`
	CountryCode   *string `json:"CountryCode,omitempty"`
	HeadshotURL   *string `json:"HeadshotUrl,omitempty"`
}

func (d Driver) Merge(in Driver) Driver {
	d.RacingNumber = mergeScalar(d.RacingNumber, in.RacingNumber)
	d.BroadcastName = mergeScalar(d.BroadcastName, in.BroadcastName)
	d.FullName = mergeScalar(d.FullName, in.FullName)
	d.Tla = mergeScalar(d.Tla, in.Tla)
	d.Line = mergeScalar(d.Line, in.Line)
	d.TeamName = mergeScalar(d.TeamName, in.TeamName)
	d.TeamColour = mergeScalar(d.TeamColour, in.TeamColour)
	d.FirstName = mergeScalar(d.FirstName, in.FirstName)
	d.LastName = mergeScalar(d.LastName, in.LastName)
	d.Reference = mergeScalar(d.Reference, in.Reference)
	d.CountryCode = mergeScalar(d.CountryCode, in.CountryCode)
	d.HeadshotURL = mergeScalar(d.HeadshotURL, in.HeadshotURL)
	return d
}

// DriverList maps racing numbers to driver entries. The feed delivers it as
// a top level object whose keys are racing numbers, with bookkeeping keys
// starting with "_" mixed in.
type DriverList map[string]Driver

func (d DriverList) Merge(in DriverList) DriverList {
	return mergeMap(d, in)
}

func (d *DriverList) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(DriverList, len(raw))
	for k, v := range raw {
		if strings.HasPrefix(k, "_") {
			continue
		}
		var drv Driver
		if err := json.Unmarshal(v, &drv); err != nil {
			return err
		}
		out[k] = drv
	}
	*d = out
	return nil
}

type RaceControlMessage struct {
	Utc          *string `json:"Utc,omitempty"`
	Lap          *int    `json:"Lap,omitempty"`
	Category     *string `json:"Category,omitempty"`
	Flag         *string `json:"Flag,omitempty"`
	Scope        *string `json:"Scope,omitempty"`
	Sector       *int    `json:"Sector,omitempty"`
	Status       *string `json:"Status,omitempty"`
	Message      *string `json:"Message,omitempty"`
	RacingNumber *string `json:"RacingNumber,omitempty"`
}

func (d RaceControlMessage) Merge(in RaceControlMessage) RaceControlMessage {
	d.Utc = mergeScalar(d.Utc, in.Utc)
	d.Lap = mergeScalar(d.Lap, in.Lap)
	d.Category = mergeScalar(d.Category, in.Category)
	d.Flag = mergeScalar(d.Flag, in.Flag)
	d.Scope = mergeScalar(d.Scope, in.Scope)
	d.Sector = mergeScalar(d.Sector, in.Sector)
	d.Status = mergeScalar(d.Status, in.Status)
	d.Message = mergeScalar(d.Message, in.Message)
	d.RacingNumber = mergeScalar(d.RacingNumber, in.RacingNumber)
	return d
}

// RaceControlMessages accumulates messages from race control. Updates key new
// entries by their ordinal position, so existing entries are never dropped.
type RaceControlMessages struct {
	Messages map[string]RaceControlMessage `json:"Messages,omitempty"`
}

func (d RaceControlMessages) Merge(in RaceControlMessages) RaceControlMessages {
	d.Messages = mergeMap(d.Messages, in.Messages)
	return d
}

type TopThreeLine struct {
	Position        *string `json:"Position,omitempty"`
	RacingNumber    *string `json:"RacingNumber,omitempty"`
	FullName        *string `json:"FullName,omitempty"`
	Tla             *string `json:"Tla,omitempty"`
	Team            *string `json:"Team,omitempty"`
	TeamColour      *string `json:"TeamColour,omitempty"`
	LapTime         *string `json:"LapTime,omitempty"`
	LapState        *int    `json:"LapState,omitempty"`
	DiffToAhead     *string `json:"DiffToAhead,omitempty"`
	DiffToLeader    *string `json:"DiffToLeader,omitempty"`
	OverallFastest  *bool   `json:"OverallFastest,omitempty"`
	PersonalFastest *bool   `json:"PersonalFastest,omitempty"`
}

// TopThree carries the full podium-candidate list. Lines is a plain
// sequence: the feed resends all three lines whenever any of them changes,
// so an incoming list replaces the current one wholesale.
type TopThree struct {
	Lines []TopThreeLine `json:"Lines,omitempty"`
}

func (d TopThree) Merge(in TopThree) TopThree {
	d.Lines = mergeSlice(d.Lines, in.Lines)
	return d
}

type ChampionshipLine struct {
	RacingNumber    *string  `json:"RacingNumber,omitempty"`
	TeamName        *string  `json:"TeamName,omitempty"`
	Position        *int     `json:"Position,omitempty"`
	Points          *float64 `json:"Points,omitempty"`
	PredictedPoints *float64 `json:"PredictedPoints,omitempty"`
}

func (d ChampionshipLine) Merge(in ChampionshipLine) ChampionshipLine {
	d.RacingNumber = mergeScalar(d.RacingNumber, in.RacingNumber)
	d.TeamName = mergeScalar(d.TeamName, in.TeamName)
	d.Position = mergeScalar(d.Position, in.Position)
	d.Points = mergeScalar(d.Points, in.Points)
	d.PredictedPoints = mergeScalar(d.PredictedPoints, in.PredictedPoints)
	return d
}

type ChampionshipPrediction struct {
	Drivers map[string]ChampionshipLine `json:"Drivers,omitempty"`
	Teams   map[string]ChampionshipLine `json:"Teams,omitempty"`
}

func (d ChampionshipPrediction) Merge(in ChampionshipPrediction) ChampionshipPrediction {
	d.Drivers = mergeMap(d.Drivers, in.Drivers)
	d.Teams = mergeMap(d.Teams, in.Teams)
	return d
}
