package progress

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errEmptyAnchor   = errors.New("empty anchor")
	errInvalidAnchor = errors.New("invalid anchor")
	errRelativeStart = errors.New("relative anchor not allowed for start")
)

// Geometry describes a trigger element in document space together with the viewport it scrolls through.
type Geometry struct {
	// ElementTop is the element's top edge measured from the top of the document.
	ElementTop float64
	// ElementHeight is the element's laid-out height.
	ElementHeight float64
	// ViewportHeight is the visible height of the scroller.
	ViewportHeight float64
}

// RegionFromTrigger builds a ScrollRegion from a pair of "<element> <viewport>" anchors.
//
// Each anchor names a point on the element and a point on the viewport; the region boundary is
// the scroll offset at which those two points meet. Points are "top", "center", "bottom", a
// percentage ("20%") or a pixel offset ("120px" or "120"). The end anchor may instead be relative
// to the start: "+=300%" (percent of viewport height) or "+=500" (pixels).
//
// Parameters:
//   - g: element and viewport geometry
//   - start: start anchor, e.g. "top bottom"
//   - end: end anchor, e.g. "bottom top" or "+=300%"
//
// Returns:
//   - ScrollRegion: the absolute scroll boundaries
//   - error: error if an anchor cannot be parsed
func RegionFromTrigger(g Geometry, start, end string) (ScrollRegion, error) {
	s, err := resolveAnchor(g, start, 0, false)
	if err != nil {
		return ScrollRegion{}, fmt.Errorf("start %q: %w", start, err)
	}
	e, err := resolveAnchor(g, end, s, true)
	if err != nil {
		return ScrollRegion{}, fmt.Errorf("end %q: %w", end, err)
	}
	return ScrollRegion{Start: s, End: e}, nil
}

func resolveAnchor(g Geometry, anchor string, from float64, allowRelative bool) (float64, error) {
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return 0, errEmptyAnchor
	}

	if rest, ok := strings.CutPrefix(anchor, "+="); ok {
		if !allowRelative {
			return 0, errRelativeStart
		}
		d, err := parsePoint(rest, g.ViewportHeight)
		if err != nil {
			return 0, err
		}
		return from + d, nil
	}

	fields := strings.Fields(anchor)
	if len(fields) != 2 {
		return 0, fmt.Errorf("%w: expected two points", errInvalidAnchor)
	}

	elem, err := parsePoint(fields[0], g.ElementHeight)
	if err != nil {
		return 0, err
	}
	view, err := parsePoint(fields[1], g.ViewportHeight)
	if err != nil {
		return 0, err
	}
	return g.ElementTop + elem - view, nil
}

// parsePoint resolves a keyword, percentage or pixel value against a length.
func parsePoint(tok string, length float64) (float64, error) {
	switch tok {
	case "top":
		return 0, nil
	case "center":
		return length / 2, nil
	case "bottom":
		return length, nil
	}

	if pct, ok := strings.CutSuffix(tok, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errInvalidAnchor, tok)
		}
		return length * v / 100, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "px"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidAnchor, tok)
	}
	return v, nil
}
