package calc

import (
	"context"
	"sort"
)

// HandoverSource is the capability interface for the external handover
// lookup collaborator. Fetch returns the handover value for a station type,
// a *LookupNotFoundError when the collaborator has no value for the id, or
// a transport error which callers must propagate unmodified.
type HandoverSource interface {
	Fetch(ctx context.Context, stationTypeID int) (int, error)

	// Name identifies the source for logging.
	Name() string
}

// buildHandoverMap folds explicit entries into a lookup map. Later entries
// silently overwrite earlier ones for the same station type (last wins).
func buildHandoverMap(entries []HandoverEntry) map[int]int {
	handovers := make(map[int]int, len(entries))
	for _, e := range entries {
		handovers[e.StationTypeID] = e.Value
	}
	return handovers
}

// resolveMissing fills handover values for the given district's station
// references that are absent from the map. With a source configured, each
// missing id is fetched synchronously and inserted into the shared map, so
// later districts referencing the same id reuse the value without another
// round-trip. Without a source, the district id and the sorted missing ids
// are reported as a domain error.
func resolveMissing(ctx context.Context, district DistrictInput, handovers map[int]int, source HandoverSource) error {
	var missing []int
	seen := make(map[int]struct{}, len(district.Stations))
	for _, id := range district.Stations {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := handovers[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Ints(missing)

	if source == nil {
		return errorf("missing handover values for station types in district %s: %v", district.ID, missing)
	}

	for _, id := range missing {
		value, err := source.Fetch(ctx, id)
		if err != nil {
			return err
		}
		handovers[id] = value
	}
	return nil
}
