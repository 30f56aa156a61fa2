// Package usage aggregates catalog sizes into a storage report.
package usage

import (
	"github.com/docker/go-units"

	"github.com/ngenohkevin/aura-explorer/internal/catalog"
)

// DefaultCapacity is the nominal total capacity (10 GiB)
const DefaultCapacity int64 = 10 * units.GiB

// Slice is one category's share of the used bytes
type Slice struct {
	Category catalog.Category `json:"category"`
	Bytes    int64            `json:"bytes"`
	Human    string           `json:"human"`
	Color    string           `json:"color"`
}

// Report is the storage overview of a collection
type Report struct {
	Slices        []Slice `json:"slices"`
	TotalUsed     int64   `json:"total_used"`
	TotalHuman    string  `json:"total_human"`
	Capacity      int64   `json:"capacity"`
	CapacityHuman string  `json:"capacity_human"`
	Percent       float64 `json:"percent"`
}

// Bytes returns the total of one category, zero when absent
func (r *Report) Bytes(c catalog.Category) int64 {
	for _, s := range r.Slices {
		if s.Category == c {
			return s.Bytes
		}
	}
	return 0
}

// Aggregate sums file sizes per category. Folders contribute nothing, files
// without a category count as "other", and empty categories are left out.
// A non-positive capacity falls back to DefaultCapacity.
func Aggregate(records []catalog.FileRecord, capacity int64) *Report {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	totals := make(map[catalog.Category]int64, len(catalog.Categories)+1)
	var used int64
	for _, r := range records {
		if r.IsFolder() {
			continue
		}
		c := r.Category
		if !c.Valid() {
			c = catalog.CategoryOther
		}
		totals[c] += r.Size
		used += r.Size
	}

	report := &Report{
		Slices:        []Slice{},
		TotalUsed:     used,
		TotalHuman:    HumanSize(used),
		Capacity:      capacity,
		CapacityHuman: HumanSize(capacity),
		Percent:       percent(used, capacity),
	}
	order := append(append([]catalog.Category{}, catalog.Categories...), catalog.CategoryOther)
	for _, c := range order {
		if totals[c] <= 0 {
			continue
		}
		report.Slices = append(report.Slices, Slice{
			Category: c,
			Bytes:    totals[c],
			Human:    HumanSize(totals[c]),
			Color:    c.Color(),
		})
	}
	return report
}

// HumanSize renders bytes with binary units, e.g. "2.93KiB"
func HumanSize(n int64) string {
	return units.BytesSize(float64(n))
}

func percent(used, capacity int64) float64 {
	p := float64(used) / float64(capacity) * 100
	if p > 100 {
		return 100
	}
	return p
}
