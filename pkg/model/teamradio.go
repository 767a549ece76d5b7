package model

// Capture is one team radio exchange. Path addresses the audio file relative
// to the session's static path. DownloadedFilePath and Transcription are
// filled locally on demand and never arrive from the feed.
type Capture struct {
	Utc          *string `json:"Utc,omitempty"`
	RacingNumber *string `json:"RacingNumber,omitempty"`
	Path         *string `json:"Path,omitempty"`

	DownloadedFilePath *string `json:"DownloadedFilePath,omitempty"`
	Transcription      *string `json:"Transcription,omitempty"`
}

func (d Capture) Merge(in Capture) Capture {
	d.Utc = mergeScalar(d.Utc, in.Utc)
	d.RacingNumber = mergeScalar(d.RacingNumber, in.RacingNumber)
	d.Path = mergeScalar(d.Path, in.Path)
	d.DownloadedFilePath = mergeScalar(d.DownloadedFilePath, in.DownloadedFilePath)
	d.Transcription = mergeScalar(d.Transcription, in.Transcription)
	return d
}

type TeamRadio struct {
	Captures map[string]Capture `json:"Captures,omitempty"`
}

func (d TeamRadio) Merge(in TeamRadio) TeamRadio {
	d.Captures = mergeMap(d.Captures, in.Captures)
	return d
}

// WithCapture returns a copy of the snapshot with one capture entry replaced.
// The original capture map is left untouched.
func (d TeamRadio) WithCapture(key string, c Capture) TeamRadio {
	out := make(map[string]Capture, len(d.Captures)+1)
	for k, v := range d.Captures {
		out[k] = v
	}
	out[key] = c
	d.Captures = out
	return d
}

// PitStopEntry is one pit stop as reported by the pit stop series.
type PitStopEntry struct {
	Timestamp *string  `json:"Timestamp,omitempty"`
	PitStop   *PitStop `json:"PitStop,omitempty"`
}

func (d PitStopEntry) Merge(in PitStopEntry) PitStopEntry {
	d.Timestamp = mergeScalar(d.Timestamp, in.Timestamp)
	d.PitStop = mergeNested(d.PitStop, in.PitStop)
	return d
}

type PitStop struct {
	RacingNumber *string `json:"RacingNumber,omitempty"`
	PitStopTime  *string `json:"PitStopTime,omitempty"`
	PitLaneTime  *string `json:"PitLaneTime,omitempty"`
	Lap          *string `json:"Lap,omitempty"`
}

func (d PitStop) Merge(in PitStop) PitStop {
	d.RacingNumber = mergeScalar(d.RacingNumber, in.RacingNumber)
	d.PitStopTime = mergeScalar(d.PitStopTime, in.PitStopTime)
	d.PitLaneTime = mergeScalar(d.PitLaneTime, in.PitLaneTime)
	d.Lap = mergeScalar(d.Lap, in.Lap)
	return d
}

// PitStopSeries accumulates pit stops per driver, keyed by racing number and
// then by the entry's ordinal.
type PitStopSeries struct {
	PitTimes map[string]map[string]PitStopEntry `json:"PitTimes,omitempty"`
}

func (d PitStopSeries) Merge(in PitStopSeries) PitStopSeries {
	if in.PitTimes != nil {
		out := make(map[string]map[string]PitStopEntry, len(d.PitTimes)+len(in.PitTimes))
		for k, v := range d.PitTimes {
			out[k] = v
		}
		for k, v := range in.PitTimes {
			out[k] = mergeMap(out[k], v)
		}
		d.PitTimes = out
	}
	return d
}

type TyreStintSeries struct {
	Stints map[string]map[string]Stint `json:"Stints,omitempty"`
}

func (d TyreStintSeries) Merge(in TyreStintSeries) TyreStintSeries {
	if in.Stints != nil {
		out := make(map[string]map[string]Stint, len(d.Stints)+len(in.Stints))
		for k, v := range d.Stints {
			out[k] = v
		}
		for k, v := range in.Stints {
			out[k] = mergeMap(out[k], v)
		}
		d.Stints = out
	}
	return d
}
