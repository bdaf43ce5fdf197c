// Package progress computes completion statistics for a practice sheet.
// Results are always derived from the loaded tree and never stored, so a
// page render and a toggle response built from the same rows agree.
package progress

import (
	"math"

	"learnboard/internal/models"
)

// Stats counts the tasks of a section (or a whole sheet) and how many of
// them are completed.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

// Report holds the per-section statistics of a sheet keyed by section ID,
// plus the sheet-wide totals.
type Report struct {
	Sections map[int64]Stats `json:"section_progress"`
	Global   Stats           `json:"global_progress"`
}

// Aggregate walks every task of every box of every section. Tasks without
// a progress row count as incomplete.
func Aggregate(sections []models.Section) Report {
	report := Report{Sections: make(map[int64]Stats, len(sections))}

	for _, sec := range sections {
		var s Stats
		for _, box := range sec.Boxes {
			for _, task := range box.Tasks {
				s.Total++
				if task.Completed() {
					s.Completed++
				}
			}
		}
		s.Percent = Percent(s.Completed, s.Total)
		report.Sections[sec.ID] = s

		report.Global.Total += s.Total
		report.Global.Completed += s.Completed
	}

	report.Global.Percent = Percent(report.Global.Completed, report.Global.Total)
	return report
}

// Percent returns completed/total as a whole percentage, rounding halves
// to even. A zero total yields 0.
func Percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(completed) / float64(total) * 100))
}
