// Package fatigue derives fatigue-analysis artifacts from rainflow output:
// cumulative cycle and damage curves, level-crossing distributions and the
// reduction of a full rainflow histogram to a short equivalent block signal.
package fatigue

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// A Table is the columnar rainflow form the builders work on: eight parallel
// columns, one row per closed cycle taken from the input cycle sequences.
type Table struct {
	Range         []float64
	DamageOfCycle []float64
	CumulDamage   []float64
	CycleIndex    []float64
	PercCumDamage []float64
	MaxOfCycle    []float64
	CycleRepets   []float64
	MinOfCycle    []float64

	// Miner sum over all rows, valid after SortByRange.
	TotalDamage float64
}

// NewTable flattens the cycle sequences into the columnar form. rfList holds
// one flattened [peak,valley,...] sequence per signal and repetitions the
// matching repetition counts; every cycle's damage is its repetition-weighted
// range^slope.
func NewTable(rfList [][]float64, repetitions []float64, slope float64) (*Table, error) {
	if len(rfList) != len(repetitions) {
		return nil, errors.Errorf("fatigue.NewTable: %d cycle sequences but %d repetition counts", len(rfList), len(repetitions))
	}
	n := 0
	for i, cycles := range rfList {
		if len(cycles)%2 != 0 {
			return nil, errors.Errorf("fatigue.NewTable: cycle sequence %d has odd length %d", i, len(cycles))
		}
		n += len(cycles) / 2
	}

	t := &Table{
		Range:         make([]float64, 0, n),
		DamageOfCycle: make([]float64, 0, n),
		CumulDamage:   make([]float64, n),
		CycleIndex:    make([]float64, 0, n),
		PercCumDamage: make([]float64, n),
		MaxOfCycle:    make([]float64, 0, n),
		CycleRepets:   make([]float64, 0, n),
		MinOfCycle:    make([]float64, 0, n),
	}
	idx := 0
	for sig, cycles := range rfList {
		reps := repetitions[sig]
		for i := 0; i+1 < len(cycles); i += 2 {
			peak, valley := cycles[i], cycles[i+1]
			rng := math.Abs(valley - peak)
			t.Range = append(t.Range, rng)
			t.DamageOfCycle = append(t.DamageOfCycle, reps*math.Pow(rng, slope))
			t.CycleIndex = append(t.CycleIndex, float64(idx))
			t.MaxOfCycle = append(t.MaxOfCycle, math.Max(peak, valley))
			t.MinOfCycle = append(t.MinOfCycle, math.Min(peak, valley))
			t.CycleRepets = append(t.CycleRepets, reps)
			idx++
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Range) }

// SortByRange orders the rows ascending by range and fills the cumulative
// damage columns in the new order.
func (t *Table) SortByRange() {
	perm := make([]int, t.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return t.Range[perm[a]] < t.Range[perm[b]]
	})
	reorder := func(col []float64) []float64 {
		out := make([]float64, len(col))
		for i, p := range perm {
			out[i] = col[p]
		}
		return out
	}
	t.Range = reorder(t.Range)
	t.DamageOfCycle = reorder(t.DamageOfCycle)
	t.CycleIndex = reorder(t.CycleIndex)
	t.MaxOfCycle = reorder(t.MaxOfCycle)
	t.MinOfCycle = reorder(t.MinOfCycle)
	t.CycleRepets = reorder(t.CycleRepets)

	t.TotalDamage = 0
	for _, d := range t.DamageOfCycle {
		t.TotalDamage += d
	}
	run := 0.0
	for i, d := range t.DamageOfCycle {
		run += d
		t.CumulDamage[i] = run
		if t.TotalDamage != 0 {
			t.PercCumDamage[i] = d / t.TotalDamage
		} else {
			t.PercCumDamage[i] = 0
		}
	}
}

// TotalRepetitions returns the repetition-weighted cycle count of the table.
func (t *Table) TotalRepetitions() float64 {
	var sum float64
	for _, r := range t.CycleRepets {
		sum += r
	}
	return sum
}
