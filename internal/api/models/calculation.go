// Package models provides request and response models for the CellMesh API.
package models

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cellmesh/cellmesh/internal/calc"
)

// The request models accept two spellings for every multi-word field: the
// lowerCamelCase wire convention and the underlying snake_case name. The
// camelCase key wins when both are present. Responses are emitted in
// camelCase only.

// coalesce returns the primary value when set, otherwise the alias.
func coalesce[T any](primary, alias *T) *T {
	if primary != nil {
		return primary
	}
	return alias
}

// StationType is the wire form of a station-type definition. Pointer fields
// distinguish absent keys from zero values for schema validation.
type StationType struct {
	ID           *int
	CoverageArea *float64
	HandoverMin  *int
	HandoverMax  *int
}

// UnmarshalJSON accepts camelCase keys with snake_case aliases.
func (s *StationType) UnmarshalJSON(data []byte) error {
	var w struct {
		ID                *int     `json:"id"`
		CoverageArea      *float64 `json:"coverageArea"`
		CoverageAreaAlias *float64 `json:"coverage_area"`
		HandoverMin       *int     `json:"handoverMin"`
		HandoverMinAlias  *int     `json:"handover_min"`
		HandoverMax       *int     `json:"handoverMax"`
		HandoverMaxAlias  *int     `json:"handover_max"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.ID = w.ID
	s.CoverageArea = coalesce(w.CoverageArea, w.CoverageAreaAlias)
	s.HandoverMin = coalesce(w.HandoverMin, w.HandoverMinAlias)
	s.HandoverMax = coalesce(w.HandoverMax, w.HandoverMaxAlias)
	return nil
}

// HandoverEntry is the wire form of an explicit handover value.
type HandoverEntry struct {
	StationTypeID *int
	Value         *int
}

// UnmarshalJSON accepts camelCase keys with snake_case aliases.
func (h *HandoverEntry) UnmarshalJSON(data []byte) error {
	var w struct {
		StationTypeID      *int `json:"stationTypeId"`
		StationTypeIDAlias *int `json:"station_type_id"`
		Value              *int `json:"value"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	h.StationTypeID = coalesce(w.StationTypeID, w.StationTypeIDAlias)
	h.Value = w.Value
	return nil
}

// DistrictInput is the wire form of a district. All field names are single
// words, so no aliases are needed.
type DistrictInput struct {
	ID       *string  `json:"id"`
	Area     *float64 `json:"area"`
	K        *float64 `json:"k"`
	Stations []int    `json:"stations"`
}

// CalculationRequest is the wire form of a calculation request.
type CalculationRequest struct {
	Pi           *float64
	StationTypes []StationType
	Handovers    []HandoverEntry
	Districts    []DistrictInput
}

// UnmarshalJSON accepts camelCase keys with snake_case aliases.
func (r *CalculationRequest) UnmarshalJSON(data []byte) error {
	var w struct {
		Pi                *float64        `json:"pi"`
		StationTypes      []StationType   `json:"stationTypes"`
		StationTypesAlias []StationType   `json:"station_types"`
		Handovers         []HandoverEntry `json:"handovers"`
		Districts         []DistrictInput `json:"districts"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Pi = w.Pi
	r.StationTypes = w.StationTypes
	if r.StationTypes == nil {
		r.StationTypes = w.StationTypesAlias
	}
	r.Handovers = w.Handovers
	r.Districts = w.Districts
	return nil
}

// Validate checks the structural shape of the request: required fields,
// positivity constraints, and the 3-station minimum per district. Domain
// rules (duplicate ids, referential integrity, handover resolution) belong
// to the calculation engine, which also decides on empty collections.
func (r *CalculationRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Pi != nil && *r.Pi <= 0 {
		errs = append(errs, FieldError{Field: "pi", Message: "must be greater than 0"})
	}

	for i, st := range r.StationTypes {
		prefix := fmt.Sprintf("stationTypes[%d]", i)
		if st.ID == nil {
			errs = append(errs, FieldError{Field: prefix + ".id", Message: "required"})
		}
		switch {
		case st.CoverageArea == nil:
			errs = append(errs, FieldError{Field: prefix + ".coverageArea", Message: "required"})
		case *st.CoverageArea <= 0:
			errs = append(errs, FieldError{Field: prefix + ".coverageArea", Message: "must be greater than 0"})
		}
		if st.HandoverMin == nil {
			errs = append(errs, FieldError{Field: prefix + ".handoverMin", Message: "required"})
		}
		if st.HandoverMax == nil {
			errs = append(errs, FieldError{Field: prefix + ".handoverMax", Message: "required"})
		}
	}

	for i, h := range r.Handovers {
		prefix := fmt.Sprintf("handovers[%d]", i)
		if h.StationTypeID == nil {
			errs = append(errs, FieldError{Field: prefix + ".stationTypeId", Message: "required"})
		}
		if h.Value == nil {
			errs = append(errs, FieldError{Field: prefix + ".value", Message: "required"})
		}
	}

	for i, d := range r.Districts {
		prefix := fmt.Sprintf("districts[%d]", i)
		if d.ID == nil {
			errs = append(errs, FieldError{Field: prefix + ".id", Message: "required"})
		}
		switch {
		case d.Area == nil:
			errs = append(errs, FieldError{Field: prefix + ".area", Message: "required"})
		case *d.Area <= 0:
			errs = append(errs, FieldError{Field: prefix + ".area", Message: "must be greater than 0"})
		}
		switch {
		case d.K == nil:
			errs = append(errs, FieldError{Field: prefix + ".k", Message: "required"})
		case *d.K <= 0:
			errs = append(errs, FieldError{Field: prefix + ".k", Message: "must be greater than 0"})
		}
		if len(d.Stations) < 3 {
			errs = append(errs, FieldError{Field: prefix + ".stations", Message: "each district must include at least 3 stations"})
		}
	}

	return errs
}

// ToDomain converts a validated wire request into a domain request,
// applying the default pi.
func (r *CalculationRequest) ToDomain() *calc.Request {
	pi := math.Pi
	if r.Pi != nil {
		pi = *r.Pi
	}

	req := &calc.Request{
		Pi:           pi,
		StationTypes: make([]calc.StationType, 0, len(r.StationTypes)),
		Handovers:    make([]calc.HandoverEntry, 0, len(r.Handovers)),
		Districts:    make([]calc.DistrictInput, 0, len(r.Districts)),
	}

	for _, st := range r.StationTypes {
		req.StationTypes = append(req.StationTypes, calc.StationType{
			ID:           *st.ID,
			CoverageArea: *st.CoverageArea,
			HandoverMin:  *st.HandoverMin,
			HandoverMax:  *st.HandoverMax,
		})
	}
	for _, h := range r.Handovers {
		req.Handovers = append(req.Handovers, calc.HandoverEntry{
			StationTypeID: *h.StationTypeID,
			Value:         *h.Value,
		})
	}
	for _, d := range r.Districts {
		req.Districts = append(req.Districts, calc.DistrictInput{
			ID:       *d.ID,
			Area:     *d.Area,
			K:        *d.K,
			Stations: d.Stations,
		})
	}

	return req
}

// DistrictResult is the wire form of one district's outcome.
type DistrictResult struct {
	DistrictID       string  `json:"districtId"`
	N                float64 `json:"n"`
	HandoverAvg      float64 `json:"handoverAvg"`
	HandoverAdjusted bool    `json:"handoverAdjusted"`
}

// CalculationResponse is the wire form of a calculation response.
type CalculationResponse struct {
	DistrictResults []DistrictResult `json:"districtResults"`
	TotalN          float64          `json:"totalN"`
}

// NewCalculationResponse maps a domain response to its wire form.
func NewCalculationResponse(resp *calc.Response) *CalculationResponse {
	out := &CalculationResponse{
		DistrictResults: make([]DistrictResult, 0, len(resp.DistrictResults)),
		TotalN:          resp.TotalN,
	}
	for _, r := range resp.DistrictResults {
		out.DistrictResults = append(out.DistrictResults, DistrictResult{
			DistrictID:       r.DistrictID,
			N:                r.N,
			HandoverAvg:      r.HandoverAvg,
			HandoverAdjusted: r.HandoverAdjusted,
		})
	}
	return out
}
