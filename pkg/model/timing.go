package model

// Interval is the gap to the car ahead.
type Interval struct {
	Value    *string `json:"Value,omitempty"`
	Catching *bool   `json:"Catching,omitempty"`
}

func (d Interval) Merge(in Interval) Interval {
	d.Value = mergeScalar(d.Value, in.Value)
	d.Catching = mergeScalar(d.Catching, in.Catching)
	return d
}

// LapTimeValue is a lap time with its best/personal-best markers.
type LapTimeValue struct {
	Value           *string `json:"Value,omitempty"`
	Status          *int    `json:"Status,omitempty"`
	Lap             *int    `json:"Lap,omitempty"`
	OverallFastest  *bool   `json:"OverallFastest,omitempty"`
	PersonalFastest *bool   `json:"PersonalFastest,omitempty"`
}

func (d LapTimeValue) Merge(in LapTimeValue) LapTimeValue {
	d.Value = mergeScalar(d.Value, in.Value)
	d.Status = mergeScalar(d.Status, in.Status)
	d.Lap = mergeScalar(d.Lap, in.Lap)
	d.OverallFastest = mergeScalar(d.OverallFastest, in.OverallFastest)
	d.PersonalFastest = mergeScalar(d.PersonalFastest, in.PersonalFastest)
	return d
}

type Segment struct {
	Status *int `json:"Status,omitempty"`
}

func (d Segment) Merge(in Segment) Segment {
	d.Status = mergeScalar(d.Status, in.Status)
	return d
}

// Sector is one of the (usually three) sector times of a lap, keyed by the
// sector index as a string.
type Sector struct {
	Value           *string            `json:"Value,omitempty"`
	Status          *int               `json:"Status,omitempty"`
	Stopped         *bool              `json:"Stopped,omitempty"`
	OverallFastest  *bool              `json:"OverallFastest,omitempty"`
	PersonalFastest *bool              `json:"PersonalFastest,omitempty"`
	PreviousValue   *string            `json:"PreviousValue,omitempty"`
	Segments        map[string]Segment `json:"Segments,omitempty"`
}

func (d Sector) Merge(in Sector) Sector {
	d.Value = mergeScalar(d.Value, in.Value)
	d.Status = mergeScalar(d.Status, in.Status)
	d.Stopped = mergeScalar(d.Stopped, in.Stopped)
	d.OverallFastest = mergeScalar(d.OverallFastest, in.OverallFastest)
	d.PersonalFastest = mergeScalar(d.PersonalFastest, in.PersonalFastest)
	d.PreviousValue = mergeScalar(d.PreviousValue, in.PreviousValue)
	d.Segments = mergeMap(d.Segments, in.Segments)
	return d
}

// TimingLine is the per-driver row of the timing tower.
type TimingLine struct {
	GapToLeader             *string           `json:"GapToLeader,omitempty"`
	IntervalToPositionAhead *Interval         `json:"IntervalToPositionAhead,omitempty"`
	Line                    *int              `json:"Line,omitempty"`
	Position                *string           `json:"Position,omitempty"`
	ShowPosition            *bool             `json:"ShowPosition,omitempty"`
	RacingNumber            *string           `json:"RacingNumber,omitempty"`
	Retired                 *bool             `json:"Retired,omitempty"`
	InPit                   *bool             `json:"InPit,omitempty"`
	PitOut                  *bool             `json:"PitOut,omitempty"`
	Stopped                 *bool             `json:"Stopped,omitempty"`
	Status                  *int              `json:"Status,omitempty"`
	NumberOfLaps            *int              `json:"NumberOfLaps,omitempty"`
	NumberOfPitStops        *int              `json:"NumberOfPitStops,omitempty"`
	Sectors                 map[string]Sector `json:"Sectors,omitempty"`
	BestLapTime             *LapTimeValue     `json:"BestLapTime,omitempty"`
	LastLapTime             *LapTimeValue     `json:"LastLapTime,omitempty"`
	KnockedOut              *bool             `json:"KnockedOut,omitempty"`
	Cutoff                  *bool             `json:"Cutoff,omitempty"`
}

func (d TimingLine) Merge(in TimingLine) TimingLine {
	d.GapToLeader = mergeScalar(d.GapToLeader, in.GapToLeader)
	d.IntervalToPositionAhead = mergeNested(d.IntervalToPositionAhead, in.IntervalToPositionAhead)
	d.Line = mergeScalar(d.Line, in.Line)
	d.Position = mergeScalar(d.Position, in.Position)
	d.ShowPosition = mergeScalar(d.ShowPosition, in.ShowPosition)
	d.RacingNumber = mergeScalar(d.RacingNumber, in.RacingNumber)
	d.Retired = mergeScalar(d.Retired, in.Retired)
	d.InPit = mergeScalar(d.InPit, in.InPit)
	d.PitOut = mergeScalar(d.PitOut, in.PitOut)
	d.Stopped = mergeScalar(d.Stopped, in.Stopped)
	d.Status = mergeScalar(d.Status, in.Status)
	d.NumberOfLaps = mergeScalar(d.NumberOfLaps, in.NumberOfLaps)
	d.NumberOfPitStops = mergeScalar(d.NumberOfPitStops, in.NumberOfPitStops)
	d.Sectors = mergeMap(d.Sectors, in.Sectors)
	d.BestLapTime = mergeNested(d.BestLapTime, in.BestLapTime)
	d.LastLapTime = mergeNested(d.LastLapTime, in.LastLapTime)
	d.KnockedOut = mergeScalar(d.KnockedOut, in.KnockedOut)
	d.Cutoff = mergeScalar(d.Cutoff, in.Cutoff)
	return d
}

// TimingData is the main timing tower category, keyed by racing number.
type TimingData struct {
	Lines            map[string]TimingLine `json:"Lines,omitempty"`
	SessionPart      *int                  `json:"SessionPart,omitempty"`
	CutOffTime       *string               `json:"CutOffTime,omitempty"`
	CutOffPercentage *string               `json:"CutOffPercentage,omitempty"`
}

func (d TimingData) Merge(in TimingData) TimingData {
	d.Lines = mergeMap(d.Lines, in.Lines)
	d.SessionPart = mergeScalar(d.SessionPart, in.SessionPart)
	d.CutOffTime = mergeScalar(d.CutOffTime, in.CutOffTime)
	d.CutOffPercentage = mergeScalar(d.CutOffPercentage, in.CutOffPercentage)
	return d
}

// Stint describes one tyre stint, keyed by its ordinal within the feed.
type Stint struct {
	Compound        *string `json:"Compound,omitempty"`
	New             *string `json:"New,omitempty"`
	TyresNotChanged *string `json:"TyresNotChanged,omitempty"`
	TotalLaps       *int    `json:"TotalLaps,omitempty"`
	StartLaps       *int    `json:"StartLaps,omitempty"`
	LapTime         *string `json:"LapTime,omitempty"`
	LapNumber       *int    `json:"LapNumber,omitempty"`
	LapFlags        *int    `json:"LapFlags,omitempty"`
}

func (d Stint) Merge(in Stint) Stint {
	d.Compound = mergeScalar(d.Compound, in.Compound)
	d.New = mergeScalar(d.New, in.New)
	d.TyresNotChanged = mergeScalar(d.TyresNotChanged, in.TyresNotChanged)
	d.TotalLaps = mergeScalar(d.TotalLaps, in.TotalLaps)
	d.StartLaps = mergeScalar(d.StartLaps, in.StartLaps)
	d.LapTime = mergeScalar(d.LapTime, in.LapTime)
	d.LapNumber = mergeScalar(d.LapNumber, in.LapNumber)
	d.LapFlags = mergeScalar(d.LapFlags, in.LapFlags)
	return d
}

type TimingAppLine struct {
	RacingNumber *string          `json:"RacingNumber,omitempty"`
	GridPos      *string          `json:"GridPos,omitempty"`
	Line         *int             `json:"Line,omitempty"`
	Stints       map[string]Stint `json:"Stints,omitempty"`
}

func (d TimingAppLine) Merge(in TimingAppLine) TimingAppLine {
	d.RacingNumber = mergeScalar(d.RacingNumber, in.RacingNumber)
	d.GridPos = mergeScalar(d.GridPos, in.GridPos)
	d.Line = mergeScalar(d.Line, in.Line)
	d.Stints = mergeMap(d.Stints, in.Stints)
	return d
}

type TimingAppData struct {
	Lines map[string]TimingAppLine `json:"Lines,omitempty"`
}

func (d TimingAppData) Merge(in TimingAppData) TimingAppData {
	d.Lines = mergeMap(d.Lines, in.Lines)
	return d
}

type PersonalBestLapTime struct {
	Value    *string `json:"Value,omitempty"`
	Lap      *int    `json:"Lap,omitempty"`
	Position *int    `json:"Position,omitempty"`
}

func (d PersonalBestLapTime) Merge(in PersonalBestLapTime) PersonalBestLapTime {
	d.Value = mergeScalar(d.Value, in.Value)
	d.Lap = mergeScalar(d.Lap, in.Lap)
	d.Position = mergeScalar(d.Position, in.Position)
	return d
}

type TimingStatsLine struct {
	RacingNumber        *string                        `json:"RacingNumber,omitempty"`
	Line                *int                           `json:"Line,omitempty"`
	PersonalBestLapTime *PersonalBestLapTime           `json:"PersonalBestLapTime,omitempty"`
	BestSectors         map[string]PersonalBestLapTime `json:"BestSectors,omitempty"`
	BestSpeeds          map[string]PersonalBestLapTime `json:"BestSpeeds,omitempty"`
}

func (d TimingStatsLine) Merge(in TimingStatsLine) TimingStatsLine {
	d.RacingNumber = mergeScalar(d.RacingNumber, in.RacingNumber)
	d.Line = mergeScalar(d.Line, in.Line)
	d.PersonalBestLapTime = mergeNested(d.PersonalBestLapTime, in.PersonalBestLapTime)
	d.BestSectors = mergeMap(d.BestSectors, in.BestSectors)
	d.BestSpeeds = mergeMap(d.BestSpeeds, in.BestSpeeds)
	return d
}

type TimingStats struct {
	Lines map[string]TimingStatsLine `json:"Lines,omitempty"`
}

func (d TimingStats) Merge(in TimingStats) TimingStats {
	d.Lines = mergeMap(d.Lines, in.Lines)
	return d
}
