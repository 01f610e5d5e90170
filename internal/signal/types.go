package signal

import (
	"strings"
	"time"
)

// #region kind

// Kind identifies one of the fixed interaction kinds the catalog knows about.
type Kind string

const (
	KindBriefView       Kind = "brief_view"       // view shorter than 3s
	KindMediumView      Kind = "medium_view"      // view between 3s and 10s
	KindLongView        Kind = "long_view"        // view longer than 10s
	KindLike            Kind = "like"
	KindSave            Kind = "save"
	KindComment         Kind = "comment"
	KindShare           Kind = "share"
	KindRecipeStarted   Kind = "recipe_started"
	KindRecipeCompleted Kind = "recipe_completed"
	KindScrollPast      Kind = "scroll_past" // explicit disinterest
)

// Kinds lists every catalog kind in declaration order.
var Kinds = []Kind{
	KindBriefView,
	KindMediumView,
	KindLongView,
	KindLike,
	KindSave,
	KindComment,
	KindShare,
	KindRecipeStarted,
	KindRecipeCompleted,
	KindScrollPast,
}

// #endregion kind

// #region signal

// Signal is a single discrete user-interaction event.
type Signal struct {
	Kind      Kind
	ContentID string
	Tags      []string
	Timestamp time.Time
}

// #endregion signal

// #region tags

// NormalizeTags lowercases tags, trims whitespace, and drops empties and
// duplicates. Order of first occurrence is preserved.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// #endregion tags
