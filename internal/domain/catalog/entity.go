package catalog

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/utils"
)

// TimeSlot is a named daily teaching window such as "Pagi 09:00 - 11:00".
type TimeSlot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsOnline  bool   `json:"is_online"`
}

func (s TimeSlot) TimeRange() string {
	return fmt.Sprintf("%s - %s", s.StartTime, s.EndTime)
}

// Bounds returns the slot's start and end instants on date in loc.
func (s TimeSlot) Bounds(date time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start, err := utils.At(date, s.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.At(date, s.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

type MasterClass struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DefaultMaxIzin int    `json:"default_max_izin"`
}

type Program struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	IsBatchBased bool           `json:"is_batch_based"`
	Classes      []ProgramClass `json:"classes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`

	// Derived
	TotalSessions int `json:"total_sessions"`
}

type ProgramClass struct {
	ID              string  `json:"id"`
	ProgramID       string  `json:"program_id"`
	MasterClassID   string  `json:"master_class_id"`
	Name            *string `json:"name,omitempty"`
	TotalSessions   int     `json:"total_sessions"`
	SessionsPerWeek int     `json:"sessions_per_week"`
	IsBatch         bool    `json:"is_batch"`
	MaxIzin         int     `json:"max_izin"`
	DisplayOrder    int     `json:"display_order"`

	// Join
	MasterClassName string `json:"master_class_name"`
}

// DisplayName prefers the class's own name over the shared master class name.
func (c ProgramClass) DisplayName() string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return c.MasterClassName
}

// TotalSessions sums the session counts of a program's classes.
func TotalSessions(classes []ProgramClass) int {
	total := 0
	for _, c := range classes {
		total += c.TotalSessions
	}
	return total
}

// AllBatch reports whether no class needs per-student weekly scheduling.
func AllBatch(classes []ProgramClass) bool {
	for _, c := range classes {
		if !c.IsBatch {
			return false
		}
	}
	return true
}

type SyllabusItem struct {
	ID             string `json:"id"`
	ProgramClassID string `json:"program_class_id"`
	Topic          string `json:"topic"`
	Description    string `json:"description"`
	Sessions       int    `json:"sessions"`
	DisplayOrder   int    `json:"display_order"`
}

// SyllabusSessions sums the sessions of the given syllabus items.
func SyllabusSessions(items []SyllabusItem) int {
	total := 0
	for _, it := range items {
		total += it.Sessions
	}
	return total
}
