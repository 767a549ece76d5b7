// Package timing extends the timing data processor with a per-lap history
// index used for lap-by-lap browsing.
package timing

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/pitlane-dev/pitlane/pkg/model"
	"github.com/pitlane-dev/pitlane/pkg/processing"
)

// Processor merges TimingData updates and derives DriversByLap: for every
// driver touched by an update, the driver's fully merged line is copied into
// the slot of the lap the driver is currently on. Slots are created lazily,
// lap numbers may have gaps, and a slot is only written while its lap is the
// driver's current lap.
type Processor struct {
	*processing.Processor[model.TimingData]

	mu           sync.RWMutex
	driversByLap map[int]map[string]model.TimingLine
}

func NewProcessor() *Processor {
	p := &Processor{
		driversByLap: make(map[int]map[string]model.TimingLine),
	}
	p.Processor = processing.NewProcessor(processing.WithApplyHook(p.recordLap))
	return p
}

// runs inside the writer section of Apply
func (p *Processor) recordLap(partial, merged model.TimingData) {
	if len(partial.Lines) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for num := range partial.Lines {
		line, ok := merged.Lines[num]
		if !ok {
			continue
		}
		// NumberOfLaps counts completed laps, the driver is on the next one
		lap := 1
		if line.NumberOfLaps != nil {
			lap = *line.NumberOfLaps + 1
		}
		slot, ok := p.driversByLap[lap]
		if !ok {
			slot = make(map[string]model.TimingLine)
			p.driversByLap[lap] = slot
		}
		slot[num] = line
	}
}

// Laps returns the populated lap numbers in ascending order.
func (p *Processor) Laps() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	laps := lo.Keys(p.driversByLap)
	sort.Ints(laps)
	return laps
}

// Lap returns a copy of the per-driver lines recorded for the given lap.
func (p *Processor) Lap(lap int) (map[string]model.TimingLine, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	slot, ok := p.driversByLap[lap]
	if !ok {
		return nil, false
	}
	return copyLines(slot), true
}

// DriversByLap returns a copy of the whole derived index.
func (p *Processor) DriversByLap() map[int]map[string]model.TimingLine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[int]map[string]model.TimingLine, len(p.driversByLap))
	for lap, lines := range p.driversByLap {
		out[lap] = copyLines(lines)
	}
	return out
}

func copyLines(lines map[string]model.TimingLine) map[string]model.TimingLine {
	out := make(map[string]model.TimingLine, len(lines))
	for k, v := range lines {
		out[k] = v
	}
	return out
}
