package domain

import (
	"time"
)

const (
	LocationTypeGym      = "academia"
	LocationTypeDomicile = "domicilio"
)

type Location struct {
	Type    string `json:"type" validate:"required"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// WorkInterval is a half-open range of whole hours [Start, End).
type WorkInterval struct {
	Start     int        `json:"start"`
	End       int        `json:"end"`
	Locations []Location `json:"locations,omitempty"`
}

type DayConfig struct {
	Day       int            `json:"day"` // 0 = Sunday ... 6 = Saturday
	Intervals []WorkInterval `json:"intervals"`
}

type DefaultLocationConfig struct {
	Locations []Location `json:"locations"`
}

type WeeklySchedule struct {
	ID                    int64                  `json:"id"`
	TrainerID             string                 `json:"trainerId"`
	Days                  []DayConfig            `json:"days"`
	SavedLocations        []Location             `json:"savedLocations"`
	DefaultLocationConfig *DefaultLocationConfig `json:"defaultLocationConfig"`
	UpdatedAt             time.Time              `json:"updatedAt"`
	Version               int32                  `json:"-"`
}

// DayConfig returns the first configuration declared for weekday.
func (s *WeeklySchedule) DayConfig(weekday int) (*DayConfig, bool) {
	for i := range s.Days {
		if s.Days[i].Day == weekday {
			return &s.Days[i], true
		}
	}
	return nil, false
}

type AvailableLocations struct {
	Gyms     []Location `json:"gyms"`
	Domicile bool       `json:"domicile"`
	Others   []Location `json:"others"`
}

// AvailableLocations groups every location the trainer offers, taken from the
// intervals and the default config. Gyms are unique by name, others by name or type.
func (s *WeeklySchedule) AvailableLocations() AvailableLocations {
	all := make([]Location, 0)
	for _, d := range s.Days {
		for _, in := range d.Intervals {
			all = append(all, in.Locations...)
		}
	}
	if s.DefaultLocationConfig != nil {
		all = append(all, s.DefaultLocationConfig.Locations...)
	}

	out := AvailableLocations{Gyms: make([]Location, 0), Others: make([]Location, 0)}
	gymIdx := map[string]int{}
	otherIdx := map[string]int{}
	for _, loc := range all {
		switch loc.Type {
		case LocationTypeGym:
			if i, ok := gymIdx[loc.Name]; ok {
				out.Gyms[i] = loc
				continue
			}
			gymIdx[loc.Name] = len(out.Gyms)
			out.Gyms = append(out.Gyms, loc)
		case LocationTypeDomicile:
			out.Domicile = true
		default:
			key := loc.Name
			if key == "" {
				key = loc.Type
			}
			if i, ok := otherIdx[key]; ok {
				out.Others[i] = loc
				continue
			}
			otherIdx[key] = len(out.Others)
			out.Others = append(out.Others, loc)
		}
	}
	return out
}
