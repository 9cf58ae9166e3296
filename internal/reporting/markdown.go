package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Market Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Pairs: %d | Records: %d\n\n", r.PairCount, r.RecordCount))

	// Best Prices
	sb.WriteString("## Best Prices\n\n")
	if len(r.BestPrices) > 0 {
		sb.WriteString("| Pair | Source | Price | Sources | Last Update |\n")
		sb.WriteString("|------|--------|-------|---------|-------------|\n")
		for _, row := range r.BestPrices {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.8f | %d | %s |\n",
				row.PairID, row.Source, row.Price, row.SourceCount,
				row.LastUpdate.Format(time.RFC3339)))
		}
	} else {
		sb.WriteString("No active quotes available.\n")
	}
	sb.WriteString("\n")

	// Per-pair detail
	sb.WriteString("## Pair Detail\n\n")
	if len(r.Pairs) > 0 {
		pairIDs := make([]string, 0, len(r.Pairs))
		for pairID := range r.Pairs {
			pairIDs = append(pairIDs, pairID)
		}
		sort.Strings(pairIDs)

		for _, pairID := range pairIDs {
			sb.WriteString(fmt.Sprintf("### %s\n\n", pairID))
			sb.WriteString("| Source | Price | Active | Reserve0 | Reserve1 | Last Update |\n")
			sb.WriteString("|--------|-------|--------|----------|----------|-------------|\n")

			bySource := r.Pairs[pairID]
			sources := make([]string, 0, len(bySource))
			for source := range bySource {
				sources = append(sources, source)
			}
			sort.Strings(sources)

			for _, source := range sources {
				entry := bySource[source]
				sb.WriteString(fmt.Sprintf("| %s | %.8f | %t | %.4f | %.4f | %s |\n",
					source, entry.Price, entry.Active, entry.Reserve0, entry.Reserve1,
					entry.LastUpdate.Format(time.RFC3339)))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No pairs tracked.\n\n")
	}

	return sb.String()
}
