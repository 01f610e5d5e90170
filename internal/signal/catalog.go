package signal

import (
	"errors"
	"fmt"
)

// #region errors

// ErrUnknownKind is returned when a kind is not in the catalog.
// Callers must reject the signal before mutating any state.
var ErrUnknownKind = errors.New("unknown signal kind")

// #endregion errors

// #region catalog

// weights maps every catalog kind to its declared engagement weight.
// Magnitude encodes commitment level: passive viewing scores low, recipe
// completion scores highest. Scroll-past is the only negative kind.
var weights = map[Kind]int{
	KindBriefView:       2,
	KindMediumView:      5,
	KindLongView:        12,
	KindLike:            15,
	KindSave:            25,
	KindComment:         20,
	KindShare:           30,
	KindRecipeStarted:   35,
	KindRecipeCompleted: 50,
	KindScrollPast:      -3,
}

// WeightOf returns the declared weight for a kind, or ErrUnknownKind for
// anything outside the catalog.
func WeightOf(k Kind) (int, error) {
	w, ok := weights[k]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return w, nil
}

// ParseKind validates a raw string against the catalog.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := weights[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// #endregion catalog
