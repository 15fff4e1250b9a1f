package services

import (
	"cmp"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
)

// ZoneResolver picks the shipping zone for a destination.
//
// Business rules:
//   - inactive zones are ignored
//   - a matching exclusion disqualifies a zone regardless of its inclusions
//   - a zone without inclusions matches any destination it does not exclude
//   - among matching zones the highest priority wins; ties keep the input order
type ZoneResolver struct{}

func NewZoneResolver() ZoneResolver {
	return ZoneResolver{}
}

// Resolve returns the winning zone, or false when no zone covers addr.
// zones is expected in storage order (creation time) so that ties are stable.
func (ZoneResolver) Resolve(zones []*shipping.Zone, addr kernel.Address) (*shipping.Zone, bool) {
	matching := make([]*shipping.Zone, 0, len(zones))
	for _, z := range zones {
		if z == nil || !z.IsActive() {
			continue
		}
		if z.Covers(addr) {
			matching = append(matching, z)
		}
	}
	if len(matching) == 0 {
		return nil, false
	}

	slices.SortStableFunc(matching, func(a, b *shipping.Zone) int {
		return cmp.Compare(b.Priority(), a.Priority())
	})
	return matching[0], true
}
