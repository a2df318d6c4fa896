package calc

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Radius derives a cell radius from a coverage area: sqrt(area / pi).
// Inputs are assumed positive; the request schema enforces that upstream.
func Radius(area, pi float64) float64 {
	return math.Sqrt(area / pi)
}

// CellLoad computes the L value for a district: the mean over all station
// occurrences of k * (r0/ri)^2, where r0 is the district radius and ri the
// radius of the station occurrence. Duplicate occurrences count separately.
func CellLoad(k, r0 float64, stationRadii []float64) (float64, error) {
	if len(stationRadii) == 0 {
		return 0, errorf("no station radii to average")
	}
	contributions := make([]float64, len(stationRadii))
	for i, ri := range stationRadii {
		contributions[i] = k * (r0 / ri) * (r0 / ri)
	}
	return stat.Mean(contributions, nil), nil
}

// ClusterSize computes the C value from the three largest station radii:
// with diameters d1 >= d2 >= d3, C = d1^2.5 + d2^1.5 + d3^0.5. Selection is
// by value, so the result does not depend on input order. Fewer than three
// radii is a domain error; this is the authoritative enforcement point for
// the 3-station minimum, independent of the input-shape check.
func ClusterSize(stationRadii []float64) (float64, error) {
	if len(stationRadii) < 3 {
		return 0, errorf("at least 3 stations are required to compute cluster size")
	}
	top := make([]float64, len(stationRadii))
	copy(top, stationRadii)
	sort.Sort(sort.Reverse(sort.Float64Slice(top)))

	d1, d2, d3 := 2*top[0], 2*top[1], 2*top[2]
	return math.Pow(d1, 2.5) + math.Pow(d2, 1.5) + math.Pow(d3, 0.5), nil
}

// HandoverAverage returns the mean handover value over station occurrences.
// A station type referenced twice contributes its value twice; weighting is
// by occurrence, not by distinct type.
func HandoverAverage(stations []int, handovers map[int]int) (float64, error) {
	if len(stations) == 0 {
		return 0, errorf("no stations to average handover values over")
	}
	values := make([]float64, len(stations))
	for i, id := range stations {
		values[i] = float64(handovers[id])
	}
	return stat.Mean(values, nil), nil
}

// RequiresAdjustment reports whether the handover average falls below the
// HandoverMin of any distinct station type present in the district. Note the
// asymmetry with HandoverAverage: the average is occurrence-weighted but the
// threshold check runs over the distinct type set.
func RequiresAdjustment(avg float64, stations []int, types map[int]StationType) bool {
	seen := make(map[int]struct{}, len(stations))
	for _, id := range stations {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if avg < float64(types[id].HandoverMin) {
			return true
		}
	}
	return false
}

// round2 rounds to two decimal places, half to even. This pins the rounding
// convention the result fixtures were produced with.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
