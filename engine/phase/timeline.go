package phase

import (
	"errors"
	"fmt"
	"math"
)

// Validation errors. Validate wraps these with the offending phase names.
var (
	ErrEmptyTimeline   = errors.New("timeline has no phases")
	ErrCoverage        = errors.New("phases do not cover [0, 1]")
	ErrInvertedPhase   = errors.New("phase range is empty or inverted")
	ErrGap             = errors.New("gap between phases")
	ErrOverlap         = errors.New("phases overlap")
	ErrMissingFunc     = errors.New("phase has no interpolation")
	ErrMissingKey      = errors.New("parameter missing across boundary")
	ErrDiscontinuity   = errors.New("parameter jumps at phase boundary")
	ErrNonFiniteOutput = errors.New("phase produced a non-finite value")
)

// boundaryTolerance is the absolute and relative tolerance for boundary comparisons.
const boundaryTolerance = 1e-9

// Timeline is a validated, immutable phase table for one animated subject.
type Timeline struct {
	name   string
	phases []Phase
}

// NewTimeline validates phases and wraps them in a Timeline.
//
// Parameters:
//   - name: subject name used in error messages
//   - phases: ordered phase table
//
// Returns:
//   - *Timeline: the validated timeline
//   - error: every configuration defect found, joined
func NewTimeline(name string, phases ...Phase) (*Timeline, error) {
	if err := Validate(phases); err != nil {
		return nil, fmt.Errorf("timeline %q: %w", name, err)
	}
	cp := make([]Phase, len(phases))
	copy(cp, phases)
	return &Timeline{name: name, phases: cp}, nil
}

// MustTimeline is NewTimeline for static tables that are known to be valid. It panics on error.
func MustTimeline(name string, phases ...Phase) *Timeline {
	tl, err := NewTimeline(name, phases...)
	if err != nil {
		panic(err)
	}
	return tl
}

// Name returns the timeline's subject name.
func (t *Timeline) Name() string {
	return t.name
}

// Phases returns a copy of the phase table.
func (t *Timeline) Phases() []Phase {
	cp := make([]Phase, len(t.phases))
	copy(cp, t.phases)
	return cp
}

// Resolve evaluates the timeline at progress.
func (t *Timeline) Resolve(progress float64) ParameterSet {
	return Resolve(progress, t.phases)
}

// Active returns the name of the phase containing progress.
func (t *Timeline) Active(progress float64) string {
	return t.phases[Locate(progress, t.phases)].Name
}

// Validate checks that phases cover [0, 1] contiguously and that every parameter is continuous
// across each internal boundary. All defects are reported together.
//
// Parameters:
//   - phases: ordered phase table
//
// Returns:
//   - error: nil if the table is valid, otherwise the joined defects
func Validate(phases []Phase) error {
	if len(phases) == 0 {
		return ErrEmptyTimeline
	}

	var errs []error

	if phases[0].Start != 0 {
		errs = append(errs, fmt.Errorf("%w: first phase %q starts at %v", ErrCoverage, phases[0].Name, phases[0].Start))
	}
	if last := phases[len(phases)-1]; last.End != 1 {
		errs = append(errs, fmt.Errorf("%w: last phase %q ends at %v", ErrCoverage, last.Name, last.End))
	}

	for i, p := range phases {
		if p.End <= p.Start {
			errs = append(errs, fmt.Errorf("%w: %q [%v, %v)", ErrInvertedPhase, p.Name, p.Start, p.End))
		}
		if p.Interpolate == nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrMissingFunc, p.Name))
			continue
		}
		for _, local := range []float64{0, 1} {
			for k, v := range p.Interpolate(local) {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					errs = append(errs, fmt.Errorf("%w: %q.%s at local %v", ErrNonFiniteOutput, p.Name, k, local))
				}
			}
		}

		if i == 0 {
			continue
		}
		prev := phases[i-1]
		switch {
		case p.Start > prev.End:
			errs = append(errs, fmt.Errorf("%w: %q ends at %v, %q starts at %v", ErrGap, prev.Name, prev.End, p.Name, p.Start))
		case p.Start < prev.End:
			errs = append(errs, fmt.Errorf("%w: %q ends at %v, %q starts at %v", ErrOverlap, prev.Name, prev.End, p.Name, p.Start))
		}
		if prev.Interpolate != nil {
			errs = append(errs, checkBoundary(prev, p)...)
		}
	}

	return errors.Join(errs...)
}

// checkBoundary compares prev at local 1 with next at local 0, key by key.
func checkBoundary(prev, next Phase) []error {
	var errs []error
	left := prev.Interpolate(1)
	right := next.Interpolate(0)

	for _, k := range left.Keys() {
		r, ok := right[k]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q missing from %q", ErrMissingKey, k, next.Name))
			continue
		}
		l := left[k]
		if !approxEqual(l, r) {
			errs = append(errs, fmt.Errorf("%w: %s is %v at end of %q but %v at start of %q", ErrDiscontinuity, k, l, prev.Name, r, next.Name))
		}
	}
	for _, k := range right.Keys() {
		if _, ok := left[k]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q missing from %q", ErrMissingKey, k, prev.Name))
		}
	}
	return errs
}

func approxEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	scale := max(math.Abs(a), math.Abs(b), 1)
	return diff <= boundaryTolerance*scale
}
