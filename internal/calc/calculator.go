package calc

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
)

// adjustmentFactor is applied to N when the district's handover average
// falls below any present station type's minimum.
const adjustmentFactor = 1.4

// ServiceConfig holds configuration for the calculation service.
type ServiceConfig struct {
	// Source is the optional external handover lookup. If nil, every
	// station type referenced by a district must have an explicit
	// handover entry.
	Source HandoverSource

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service runs deployment calculations. It is stateless across requests;
// all lookup maps are request-scoped, so a single Service is safe for
// concurrent use by the HTTP layer.
type Service struct {
	source HandoverSource
	logger zerolog.Logger
}

// NewService creates a new calculation service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		source: cfg.Source,
		logger: cfg.Logger,
	}
}

// Calculate validates the request, resolves handover values, evaluates each
// district in input order, and sums the rounded per-district N values into a
// rounded total. The first failure aborts the whole calculation. Districts
// are evaluated sequentially on the calling goroutine: resolution mutates a
// shared request-scoped handover map, and later districts reuse values
// fetched for earlier ones.
func (s *Service) Calculate(ctx context.Context, req *Request) (*Response, error) {
	pi := req.Pi
	if pi == 0 {
		pi = DefaultPi
	}

	types, err := buildStationTypeMap(req.StationTypes)
	if err != nil {
		return nil, err
	}
	handovers := buildHandoverMap(req.Handovers)

	if err := s.validateDistricts(ctx, req.Districts, types, handovers); err != nil {
		return nil, err
	}

	results := make([]DistrictResult, 0, len(req.Districts))
	var total float64
	for _, district := range req.Districts {
		result, err := evaluateDistrict(district, types, handovers, pi)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
		total += result.N
	}

	s.logger.Debug().
		Int("districts", len(results)).
		Float64("total_n", round2(total)).
		Msg("calculation completed")

	return &Response{
		DistrictResults: results,
		TotalN:          round2(total),
	}, nil
}

// buildStationTypeMap indexes station types by id, failing fast on the
// first duplicate.
func buildStationTypeMap(stationTypes []StationType) (map[int]StationType, error) {
	types := make(map[int]StationType, len(stationTypes))
	for _, st := range stationTypes {
		if _, ok := types[st.ID]; ok {
			return nil, errorf("duplicate station type id: %d", st.ID)
		}
		types[st.ID] = st
	}
	if len(types) == 0 {
		return nil, errorf("at least one station type is required")
	}
	return types, nil
}

// validateDistricts checks referential integrity for every district in
// input order and resolves missing handover values before any district is
// evaluated.
func (s *Service) validateDistricts(ctx context.Context, districts []DistrictInput, types map[int]StationType, handovers map[int]int) error {
	if len(districts) == 0 {
		return errorf("no districts provided")
	}

	for _, district := range districts {
		if unknown := unknownStationTypes(district, types); len(unknown) > 0 {
			return errorf("unknown station type ids in district %s: %v", district.ID, unknown)
		}
		if err := resolveMissing(ctx, district, handovers, s.source); err != nil {
			return err
		}
	}
	return nil
}

// unknownStationTypes returns the sorted distinct station ids referenced by
// the district that do not exist in the station type map.
func unknownStationTypes(district DistrictInput, types map[int]StationType) []int {
	var unknown []int
	seen := make(map[int]struct{}, len(district.Stations))
	for _, id := range district.Stations {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := types[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Ints(unknown)
	return unknown
}

// evaluateDistrict produces the result for a single district. All handover
// values are resolved by the time this runs; missing data here is a
// precondition failure, not something to recover from.
func evaluateDistrict(district DistrictInput, types map[int]StationType, handovers map[int]int, pi float64) (DistrictResult, error) {
	r0 := Radius(district.Area, pi)
	stationRadii := make([]float64, len(district.Stations))
	for i, id := range district.Stations {
		stationRadii[i] = Radius(types[id].CoverageArea, pi)
	}

	load, err := CellLoad(district.K, r0, stationRadii)
	if err != nil {
		return DistrictResult{}, err
	}
	cluster, err := ClusterSize(stationRadii)
	if err != nil {
		return DistrictResult{}, err
	}
	n := load / cluster

	avg, err := HandoverAverage(district.Stations, handovers)
	if err != nil {
		return DistrictResult{}, err
	}
	adjusted := RequiresAdjustment(avg, district.Stations, types)
	if adjusted {
		n *= adjustmentFactor
	}

	return DistrictResult{
		DistrictID:       district.ID,
		N:                round2(n),
		HandoverAvg:      round2(avg),
		HandoverAdjusted: adjusted,
	}, nil
}
