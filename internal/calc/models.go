// Package calc implements the base-station deployment calculation engine:
// per-district cell counts, handover averaging, and cluster sizing.
package calc

import "math"

// StationType describes a category of base station with a fixed coverage
// area and an acceptable handover signal range.
type StationType struct {
	ID           int
	CoverageArea float64
	HandoverMin  int
	HandoverMax  int
}

// HandoverEntry associates a station type with an explicit handover value.
// When the same station type appears more than once, the last entry wins.
type HandoverEntry struct {
	StationTypeID int
	Value         int
}

// DistrictInput is one district to plan coverage for. Stations lists
// station-type ids by occurrence; duplicates are meaningful and each
// occurrence contributes separately to the averages.
type DistrictInput struct {
	ID       string
	Area     float64
	K        float64
	Stations []int
}

// DistrictResult is the computed outcome for a single district.
type DistrictResult struct {
	DistrictID       string
	N                float64
	HandoverAvg      float64
	HandoverAdjusted bool
}

// Request is a validated calculation request. Pi is overridable so tests
// and approximations can pin the constant; zero means DefaultPi.
type Request struct {
	Pi           float64
	StationTypes []StationType
	Handovers    []HandoverEntry
	Districts    []DistrictInput
}

// DefaultPi is used when a request does not override the constant.
const DefaultPi = math.Pi

// Response holds per-district results in input order plus the rounded
// total cell count.
type Response struct {
	DistrictResults []DistrictResult
	TotalN          float64
}
