// Package stage ties the scroll pipeline together: each registered subject owns a trigger
// region and a phase timeline, and every scroll update pushes the resolved parameters to a Sink.
package stage

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"sync"

	"github.com/Carmen-Shannon/anima/engine/phase"
	"github.com/Carmen-Shannon/anima/engine/progress"
)

var (
	errNoID           = errors.New("subject has no id")
	errNoTimeline     = errors.New("subject has no timeline")
	errDuplicateID    = errors.New("subject already registered")
	errUnknownSubject = errors.New("unknown subject")
)

// Subject is one animated element: where its trigger sits and how it animates across it.
type Subject struct {
	// ID names the element and is passed to the Sink.
	ID string

	// Start and End are trigger anchors such as "top bottom" and "bottom top" or "+=300%".
	Start string
	End   string

	// Scrub is the progress lag in seconds; 0 follows the scroll position exactly.
	Scrub float64

	Timeline *phase.Timeline
}

// Geometry reports the laid-out position of subjects in document space.
type Geometry interface {
	// Layout returns the trigger geometry for a subject.
	//
	// Parameters:
	//   - id: subject id
	//
	// Returns:
	//   - progress.Geometry: element top, element height and viewport height
	//   - bool: false if the element is not on the page
	Layout(id string) (progress.Geometry, bool)
}

// GeometryMap is a static Geometry keyed by subject id.
type GeometryMap map[string]progress.Geometry

func (m GeometryMap) Layout(id string) (progress.Geometry, bool) {
	g, ok := m[id]
	return g, ok
}

// Sink receives the parameters for each subject on every scroll update.
type Sink interface {
	Apply(id string, params phase.ParameterSet)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(id string, params phase.ParameterSet)

func (f SinkFunc) Apply(id string, params phase.ParameterSet) {
	f(id, params)
}

type entry struct {
	subject  Subject
	region   progress.ScrollRegion
	active   bool
	scrubber *progress.Scrubber
	last     phase.ParameterSet
}

type update struct {
	id     string
	params phase.ParameterSet
}

type stageImpl struct {
	mu *sync.Mutex

	entries []*entry
	byID    map[string]*entry

	flags []*Flag
	sinks []Sink
}

// Stage is the subject registry and scroll dispatcher.
type Stage interface {
	// Register adds a subject. Its region is unresolved until the next Layout.
	//
	// Parameters:
	//   - s: the subject
	//
	// Returns:
	//   - error: error if the id is empty or taken, or the timeline is nil
	Register(s Subject) error

	// Layout resolves every subject's trigger region. A subject whose element is missing is
	// skipped with a warning; a subject whose anchors do not parse is skipped and reported.
	//
	// Parameters:
	//   - g: layout source
	//
	// Returns:
	//   - error: anchor errors for all skipped subjects, joined
	Layout(g Geometry) error

	// Update samples every active subject at the scroll offset, resolves its timeline and
	// sends the result to the sinks in registration order. Flags are updated too.
	//
	// Parameters:
	//   - scroll: document scroll offset in pixels
	//   - dt: seconds since the previous update, used by scrubbed subjects
	Update(scroll, dt float64)

	// Params returns a copy of the last parameters sent for a subject.
	//
	// Parameters:
	//   - id: subject id
	//
	// Returns:
	//   - phase.ParameterSet: the last resolved parameters
	//   - error: error if the subject is unknown or has not been updated yet
	Params(id string) (phase.ParameterSet, error)

	// Region returns a subject's resolved trigger region.
	//
	// Parameters:
	//   - id: subject id
	//
	// Returns:
	//   - progress.ScrollRegion: the region
	//   - bool: false if the subject is unknown or was skipped by Layout
	Region(id string) (progress.ScrollRegion, bool)

	// Subjects returns the registered ids in registration order.
	//
	// Returns:
	//   - []string: subject ids
	Subjects() []string

	// AddSink registers an additional Sink.
	//
	// Parameters:
	//   - sink: the sink
	AddSink(sink Sink)

	// AddFlag registers a scroll threshold flag updated on every Update.
	//
	// Parameters:
	//   - f: the flag
	AddFlag(f *Flag)
}

var _ Stage = &stageImpl{}

// NewStage creates an empty Stage.
//
// Parameters:
//   - options: functional options to configure the stage
//
// Returns:
//   - Stage: the newly created stage
func NewStage(options ...StageBuilderOption) Stage {
	s := &stageImpl{
		mu:   &sync.Mutex{},
		byID: make(map[string]*entry),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *stageImpl) Register(sub Subject) error {
	if sub.ID == "" {
		return errNoID
	}
	if sub.Timeline == nil {
		return fmt.Errorf("%q: %w", sub.ID, errNoTimeline)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[sub.ID]; ok {
		return fmt.Errorf("%q: %w", sub.ID, errDuplicateID)
	}
	e := &entry{subject: sub, scrubber: progress.NewScrubber(sub.Scrub)}
	s.entries = append(s.entries, e)
	s.byID[sub.ID] = e
	return nil
}

func (s *stageImpl) Layout(g Geometry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, e := range s.entries {
		e.active = false
		e.scrubber.Reset()

		geo, ok := g.Layout(e.subject.ID)
		if !ok {
			log.Printf("[Stage] no element for subject %q, skipping", e.subject.ID)
			continue
		}
		region, err := progress.RegionFromTrigger(geo, e.subject.Start, e.subject.End)
		if err != nil {
			log.Printf("[Stage] subject %q has an invalid trigger, skipping: %v", e.subject.ID, err)
			errs = append(errs, fmt.Errorf("subject %q: %w", e.subject.ID, err))
			continue
		}
		e.region = region
		e.active = true
	}
	return errors.Join(errs...)
}

func (s *stageImpl) Update(scroll, dt float64) {
	s.mu.Lock()
	updates := make([]update, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.active {
			continue
		}
		p := e.scrubber.Update(progress.Sample(scroll, e.region), dt)
		params := e.subject.Timeline.Resolve(p)
		e.last = params
		updates = append(updates, update{id: e.subject.ID, params: params})
	}
	flags := make([]*Flag, len(s.flags))
	copy(flags, s.flags)
	sinks := make([]Sink, len(s.sinks))
	copy(sinks, s.sinks)
	s.mu.Unlock()

	for _, u := range updates {
		// every sink gets its own copy, the stage keeps the original for Params
		for _, sink := range sinks {
			sink.Apply(u.id, maps.Clone(u.params))
		}
	}
	for _, f := range flags {
		f.Update(scroll)
	}
}

func (s *stageImpl) Params(id string) (phase.ParameterSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, errUnknownSubject)
	}
	if e.last == nil {
		return nil, fmt.Errorf("subject %q has not been updated", id)
	}
	return maps.Clone(e.last), nil
}

func (s *stageImpl) Region(id string) (progress.ScrollRegion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok || !e.active {
		return progress.ScrollRegion{}, false
	}
	return e.region, true
}

func (s *stageImpl) Subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.subject.ID
	}
	return ids
}

func (s *stageImpl) AddSink(sink Sink) {
	if sink == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

func (s *stageImpl) AddFlag(f *Flag) {
	if f == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = append(s.flags, f)
}
