package model

// Heartbeat is sent by the feed to signal liveness.
// Sample: {"Utc": "2024-05-26T13:00:01.123Z", "_kf": true}
type Heartbeat struct {
	Utc *string `json:"Utc,omitempty"`
}

func (d Heartbeat) Merge(in Heartbeat) Heartbeat {
	d.Utc = mergeScalar(d.Utc, in.Utc)
	return d
}

// TrackStatus describes the global flag state of the track.
// Sample: {"Status": "2", "Message": "Yellow", "_kf": true}
type TrackStatus struct {
	Status  *string `json:"Status,omitempty"`
	Message *string `json:"Message,omitempty"`
}

func (d TrackStatus) Merge(in TrackStatus) TrackStatus {
	d.Status = mergeScalar(d.Status, in.Status)
	d.Message = mergeScalar(d.Message, in.Message)
	return d
}

// LapCount is only sent for race sessions.
// Sample: {"CurrentLap": 3, "TotalLaps": 71, "_kf": true}
type LapCount struct {
	CurrentLap *int `json:"CurrentLap,omitempty"`
	TotalLaps  *int `json:"TotalLaps,omitempty"`
}

func (d LapCount) Merge(in LapCount) LapCount {
	d.CurrentLap = mergeScalar(d.CurrentLap, in.CurrentLap)
	d.TotalLaps = mergeScalar(d.TotalLaps, in.TotalLaps)
	return d
}

// ExtrapolatedClock carries the session countdown.
type ExtrapolatedClock struct {
	Utc           *string `json:"Utc,omitempty"`
	Remaining     *string `json:"Remaining,omitempty"`
	Extrapolating *bool   `json:"Extrapolating,omitempty"`
}

func (d ExtrapolatedClock) Merge(in ExtrapolatedClock) ExtrapolatedClock {
	d.Utc = mergeScalar(d.Utc, in.Utc)
	d.Remaining = mergeScalar(d.Remaining, in.Remaining)
	d.Extrapolating = mergeScalar(d.Extrapolating, in.Extrapolating)
	return d
}

type WeatherData struct {
	AirTemp       *string `json:"AirTemp,omitempty"`
	Humidity      *string `json:"Humidity,omitempty"`
	Pressure      *string `json:"Pressure,omitempty"`
	Rainfall      *string `json:"Rainfall,omitempty"`
	TrackTemp     *string `json:"TrackTemp,omitempty"`
	WindDirection *string `json:"WindDirection,omitempty"`
	WindSpeed     *string `json:"WindSpeed,omitempty"`
}

func (d WeatherData) Merge(in WeatherData) WeatherData {
	d.AirTemp = mergeScalar(d.AirTemp, in.AirTemp)
	d.Humidity = mergeScalar(d.Humidity, in.Humidity)
	d.Pressure = mergeScalar(d.Pressure, in.Pressure)
	d.Rainfall = mergeScalar(d.Rainfall, in.Rainfall)
	d.TrackTemp = mergeScalar(d.TrackTemp, in.TrackTemp)
	d.WindDirection = mergeScalar(d.WindDirection, in.WindDirection)
	d.WindSpeed = mergeScalar(d.WindSpeed, in.WindSpeed)
	return d
}

type Meeting struct {
	Key          *int     `json:"Key,omitempty"`
	Name         *string  `json:"Name,omitempty"`
	OfficialName *string  `json:"OfficialName,omitempty"`
	Location     *string  `json:"Location,omitempty"`
	Country      *Country `json:"Country,omitempty"`
}

func (d Meeting) Merge(in Meeting) Meeting {
	d.Key = mergeScalar(d.Key, in.Key)
	d.Name = mergeScalar(d.Name, in.Name)
	d.OfficialName = mergeScalar(d.OfficialName, in.OfficialName)
	d.Location = mergeScalar(d.Location, in.Location)
	d.Country = mergeNested(d.Country, in.Country)
	return d
}

type Country struct {
	Key  *int    `json:"Key,omitempty"`
	Code *string `json:"Code,omitempty"`
	Name *string `json:"Name,omitempty"`
}

func (d Country) Merge(in Country) Country {
	d.Key = mergeScalar(d.Key, in.Key)
	d.Code = mergeScalar(d.Code, in.Code)
	d.Name = mergeScalar(d.Name, in.Name)
	return d
}

// SessionInfo identifies the current session. Path is the prefix used to
// address static session assets (team radio audio, recorded streams).
// ArchiveStatus reports whether the session archive is complete or still
// generating.
type ArchiveStatus struct {
	Status *string `json:"Status,omitempty"`
}

func (d ArchiveStatus) Merge(in ArchiveStatus) ArchiveStatus {
	d.Status = mergeScalar(d.Status, in.Status)
	return d
}

type SessionInfo struct {
	Meeting       *Meeting       `json:"Meeting,omitempty"`
	ArchiveStatus *ArchiveStatus `json:"ArchiveStatus,omitempty"`
	Key           *int           `json:"Key,omitempty"`
	Type          *string        `json:"Type,omitempty"`
	Name          *string        `json:"Name,omitempty"`
	StartDate     *string        `json:"StartDate,omitempty"`
	EndDate       *string        `json:"EndDate,omitempty"`
	GmtOffset     *string        `json:"GmtOffset,omitempty"`
	Path          *string        `json:"Path,omitempty"`
}

func (d SessionInfo) Merge(in SessionInfo) SessionInfo {
	d.Meeting = mergeNested(d.Meeting, in.Meeting)
	d.ArchiveStatus = mergeNested(d.ArchiveStatus, in.ArchiveStatus)
	d.Key = mergeScalar(d.Key, in.Key)
	d.Type = mergeScalar(d.Type, in.Type)
	d.Name = mergeScalar(d.Name, in.Name)
	d.StartDate = mergeScalar(d.StartDate, in.StartDate)
	d.EndDate = mergeScalar(d.EndDate, in.EndDate)
	d.GmtOffset = mergeScalar(d.GmtOffset, in.GmtOffset)
	d.Path = mergeScalar(d.Path, in.Path)
	return d
}

type StatusSeriesEntry struct {
	Utc           *string `json:"Utc,omitempty"`
	TrackStatus   *string `json:"TrackStatus,omitempty"`
	SessionStatus *string `json:"SessionStatus,omitempty"`
}

func (d StatusSeriesEntry) Merge(in StatusSeriesEntry) StatusSeriesEntry {
	d.Utc = mergeScalar(d.Utc, in.Utc)
	d.TrackStatus = mergeScalar(d.TrackStatus, in.TrackStatus)
	d.SessionStatus = mergeScalar(d.SessionStatus, in.SessionStatus)
	return d
}

type SeriesEntry struct {
	Utc            *string `json:"Utc,omitempty"`
	Lap            *int    `json:"Lap,omitempty"`
	QualifyingPart *int    `json:"QualifyingPart,omitempty"`
}

func (d SeriesEntry) Merge(in SeriesEntry) SeriesEntry {
	d.Utc = mergeScalar(d.Utc, in.Utc)
	d.Lap = mergeScalar(d.Lap, in.Lap)
	d.QualifyingPart = mergeScalar(d.QualifyingPart, in.QualifyingPart)
	return d
}

// SessionData carries keyed history series of lap and status changes.
// The feed keys entries by their ordinal position.
type SessionData struct {
	Series       map[string]SeriesEntry       `json:"Series,omitempty"`
	StatusSeries map[string]StatusSeriesEntry `json:"StatusSeries,omitempty"`
}

func (d SessionData) Merge(in SessionData) SessionData {
	d.Series = mergeMap(d.Series, in.Series)
	d.StatusSeries = mergeMap(d.StatusSeries, in.StatusSeries)
	return d
}

// RawData holds the decoded text of categories whose inner structure is not
// interpreted by the engine (car telemetry and position channels). The latest
// payload always replaces the previous one.
type RawData struct {
	Text *string `json:"Text,omitempty"`
}

func (d RawData) Merge(in RawData) RawData {
	d.Text = mergeScalar(d.Text, in.Text)
	return d
}
