package db

import (
	"sort"
	"strings"

	"github.com/alexanderramin/charstack/internal/domain"
)

// Decoded tag expressions evaluate an enumeration column the way
// domain.ParseRegion, ParseBucket and ParseStatus decode it: canonical tags
// pass through, legacy aliases map to their canonical tag and anything else
// becomes the fallback. Filtering on these instead of the raw column keeps
// SQL predicates in agreement with the values the engine sees.
var (
	RegionTagExpr = decodedTagExpr("region", domain.AllRegions, nil, domain.RegionBacklog)
	BucketTagExpr = decodedTagExpr("bucket", domain.AllBuckets, domain.LegacyBucketTags, domain.BucketUnassigned)
	StatusTagExpr = decodedTagExpr("status", domain.AllStatuses, domain.LegacyStatusTags, domain.StatusTodo)
)

func decodedTagExpr[T ~string](col string, canonical []T, legacy map[string]T, fallback T) string {
	var b strings.Builder
	b.WriteString("(CASE WHEN " + col + " IN (")
	for i, tag := range canonical {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteTag(string(tag)))
	}
	b.WriteString(") THEN " + col)

	aliases := make([]string, 0, len(legacy))
	for alias := range legacy {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		b.WriteString(" WHEN " + col + " = " + quoteTag(alias) + " THEN " + quoteTag(string(legacy[alias])))
	}

	b.WriteString(" ELSE " + quoteTag(string(fallback)) + " END)")
	return b.String()
}

func quoteTag(tag string) string {
	return "'" + strings.ReplaceAll(tag, "'", "''") + "'"
}
