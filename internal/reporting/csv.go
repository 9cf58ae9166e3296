package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderCSV renders all pair-source records as CSV string.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("pair_id,source,price,active,reserve0,reserve1,last_update\n")

	pairIDs := make([]string, 0, len(r.Pairs))
	for pairID := range r.Pairs {
		pairIDs = append(pairIDs, pairID)
	}
	sort.Strings(pairIDs)

	for _, pairID := range pairIDs {
		bySource := r.Pairs[pairID]
		sources := make([]string, 0, len(bySource))
		for source := range bySource {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		for _, source := range sources {
			entry := bySource[source]
			sb.WriteString(fmt.Sprintf("%s,%s,%.8f,%t,%.4f,%.4f,%s\n",
				pairID,
				source,
				entry.Price,
				entry.Active,
				entry.Reserve0,
				entry.Reserve1,
				entry.LastUpdate.Format(time.RFC3339),
			))
		}
	}

	return sb.String()
}
