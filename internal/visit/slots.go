package visit

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// AllSlotID is the synthetic catch-all slot. It matches every visit
// regardless of hour and is never used to book a concrete window.
const AllSlotID = 0

// TimeSlot is one entry in the daily booking window enumeration.
// FromHour is inclusive, ToHour exclusive.
type TimeSlot struct {
	ID       int    `json:"id" yaml:"id"`
	FromHour int    `json:"from_hour" yaml:"from"`
	ToHour   int    `json:"to_hour" yaml:"to"`
	Label    string `json:"label" yaml:"label"`
}

// DefaultSlots returns the built-in slot catalog: the "All" slot followed by
// the bookable windows sorted ascending by start hour.
func DefaultSlots() []TimeSlot {
	return []TimeSlot{
		{ID: AllSlotID, FromHour: 0, ToHour: 24, Label: "All"},
		{ID: 1, FromHour: 9, ToHour: 12, Label: "Morning"},
		{ID: 2, FromHour: 12, ToHour: 15, Label: "Afternoon"},
		{ID: 3, FromHour: 15, ToHour: 18, Label: "Evening"},
		{ID: 4, FromHour: 18, ToHour: 21, Label: "Night"},
	}
}

// LoadSlots reads a slot catalog from a YAML file. The synthetic "All" slot
// is prepended if the file does not declare one.
func LoadSlots(path string) ([]TimeSlot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading slot catalog: %w", err)
	}

	var catalog struct {
		Slots []TimeSlot `yaml:"slots"`
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing slot catalog: %w", err)
	}

	slots := catalog.Slots
	if len(slots) == 0 || slots[0].ID != AllSlotID {
		slots = append([]TimeSlot{{ID: AllSlotID, FromHour: 0, ToHour: 24, Label: "All"}}, slots...)
	}

	if err := validateSlots(slots); err != nil {
		return nil, fmt.Errorf("slot catalog %s: %w", path, err)
	}
	return slots, nil
}

// validateSlots checks that bookable slots are well-formed, sorted ascending
// by start hour, and non-overlapping.
func validateSlots(slots []TimeSlot) error {
	if len(slots) < 2 {
		return fmt.Errorf("catalog needs at least one bookable slot")
	}

	seen := make(map[int]bool, len(slots))
	bookable := slots[1:]
	for _, s := range slots {
		if seen[s.ID] {
			return fmt.Errorf("duplicate slot id %d", s.ID)
		}
		seen[s.ID] = true
	}

	if !sort.SliceIsSorted(bookable, func(i, j int) bool {
		return bookable[i].FromHour < bookable[j].FromHour
	}) {
		return fmt.Errorf("slots must be sorted ascending by start hour")
	}

	for i, s := range bookable {
		if s.FromHour < 0 || s.ToHour > 24 || s.FromHour >= s.ToHour {
			return fmt.Errorf("slot %d has invalid hour range [%d, %d)", s.ID, s.FromHour, s.ToHour)
		}
		if i > 0 && s.FromHour < bookable[i-1].ToHour {
			return fmt.Errorf("slot %d overlaps slot %d", s.ID, bookable[i-1].ID)
		}
	}

	return nil
}
