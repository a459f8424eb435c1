package model

// CheckFunc inspects a parameter map after a job finished and reports whether
// the run should count as successful. It must be a pure function of the map.
type CheckFunc func(params map[string]string) bool

// PostProcessing pairs a parameter map with a check routine that runs once the
// job's terminal Slurm state is observed. A false result downgrades an
// apparently successful run to a failure; it never upgrades a failed one.
type PostProcessing struct {
	params map[string]string
	check  CheckFunc
}

// NewPostProcessing builds a handler from a parameter map and a check routine.
// The map is copied so later mutation by the caller has no effect.
func NewPostProcessing(params map[string]string, check CheckFunc) *PostProcessing {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return &PostProcessing{params: copied, check: check}
}

// NoPostProcessing returns a handler whose check always passes.
func NoPostProcessing() *PostProcessing {
	return &PostProcessing{
		params: map[string]string{},
		check:  func(map[string]string) bool { return true },
	}
}

// Check runs the routine against the captured parameters.
func (p *PostProcessing) Check() bool {
	if p == nil || p.check == nil {
		return true
	}
	return p.check(p.params)
}

// Params returns a copy of the captured parameter map.
func (p *PostProcessing) Params() map[string]string {
	if p == nil {
		return nil
	}
	copied := make(map[string]string, len(p.params))
	for k, v := range p.params {
		copied[k] = v
	}
	return copied
}
