package core

import (
	"testing"

	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

func TestBlocksFor_FixedOrderAndRanges(t *testing.T) {
	blocks := BlocksFor()

	want := []EnergyBlock{
		{Energy: models.EnergyHigh, Start: 8, End: 12},
		{Energy: models.EnergyMedium, Start: 12, End: 16},
		{Energy: models.EnergyLow, Start: 16, End: 22},
	}
	if len(blocks) != len(want) {
		t.Fatalf("BlocksFor() returned %d blocks, want %d", len(blocks), len(want))
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Errorf("block %d = %+v, want %+v", i, blocks[i], want[i])
		}
	}
}

func TestBlocksFor_CoverDayWithoutOverlap(t *testing.T) {
	seen := make(map[int]models.EnergyLevel)
	for _, b := range BlocksFor() {
		for _, h := range b.Hours() {
			if prev, ok := seen[h]; ok {
				t.Errorf("hour %d in both %s and %s", h, prev, b.Energy)
			}
			seen[h] = b.Energy
		}
	}
	for h := DayStartHour; h < DayEndHour; h++ {
		if _, ok := seen[h]; !ok {
			t.Errorf("hour %d not covered by any block", h)
		}
	}
	if len(seen) != DayEndHour-DayStartHour {
		t.Errorf("blocks cover %d hours, want %d", len(seen), DayEndHour-DayStartHour)
	}
}

func TestBlocksFor_ReturnsFreshSlice(t *testing.T) {
	blocks := BlocksFor()
	blocks[0].Start = 0

	if got := BlocksFor()[0].Start; got != 8 {
		t.Errorf("mutating a returned slice changed the catalog: Start = %d", got)
	}
}

func TestBlockAt(t *testing.T) {
	tests := []struct {
		hour   int
		want   models.EnergyLevel
		wantOK bool
	}{
		{7, "", false},
		{8, models.EnergyHigh, true},
		{11, models.EnergyHigh, true},
		{12, models.EnergyMedium, true},
		{15, models.EnergyMedium, true},
		{16, models.EnergyLow, true},
		{21, models.EnergyLow, true},
		{22, "", false},
	}

	for _, tt := range tests {
		b, ok := BlockAt(tt.hour)
		if ok != tt.wantOK {
			t.Errorf("BlockAt(%d) ok = %v, want %v", tt.hour, ok, tt.wantOK)
			continue
		}
		if ok && b.Energy != tt.want {
			t.Errorf("BlockAt(%d) = %s, want %s", tt.hour, b.Energy, tt.want)
		}
	}
}
