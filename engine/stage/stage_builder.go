package stage

// StageBuilderOption is a functional option for configuring a Stage.
type StageBuilderOption func(*stageImpl)

// WithSink adds a Sink that receives every subject's parameters.
//
// Parameters:
//   - sink: the sink
//
// Returns:
//   - StageBuilderOption: functional option to add the sink
func WithSink(sink Sink) StageBuilderOption {
	return func(s *stageImpl) {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
}

// WithFlags adds scroll threshold flags.
//
// Parameters:
//   - flags: the flags
//
// Returns:
//   - StageBuilderOption: functional option to add the flags
func WithFlags(flags ...*Flag) StageBuilderOption {
	return func(s *stageImpl) {
		for _, f := range flags {
			if f != nil {
				s.flags = append(s.flags, f)
			}
		}
	}
}
