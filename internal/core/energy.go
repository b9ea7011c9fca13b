package core

import "github.com/valter-silva-au/time-optimizer/pkg/models"

// The planning window is [DayStartHour, DayEndHour).
const (
	DayStartHour = 8
	DayEndHour   = 22
)

// EnergyBlock maps an energy tier to a contiguous range of hours [Start, End).
type EnergyBlock struct {
	Energy models.EnergyLevel
	Start  int
	End    int
}

// Hours returns every hour in the block in ascending order.
func (b EnergyBlock) Hours() []int {
	hours := make([]int, 0, b.End-b.Start)
	for h := b.Start; h < b.End; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Contains reports whether hour falls inside the block.
func (b EnergyBlock) Contains(hour int) bool {
	return hour >= b.Start && hour < b.End
}

// BlocksFor returns the fixed energy blocks of the day in visiting order:
// high, medium, low. Tasks get first pick of hours in this order.
func BlocksFor() []EnergyBlock {
	return []EnergyBlock{
		{Energy: models.EnergyHigh, Start: 8, End: 12},
		{Energy: models.EnergyMedium, Start: 12, End: 16},
		{Energy: models.EnergyLow, Start: 16, End: 22},
	}
}

// BlockAt returns the block containing hour, if any.
func BlockAt(hour int) (EnergyBlock, bool) {
	for _, b := range BlocksFor() {
		if b.Contains(hour) {
			return b, true
		}
	}
	return EnergyBlock{}, false
}
