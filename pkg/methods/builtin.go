package methods

// BuiltinClasses returns the eight method classes the executor hosts by
// default.
func BuiltinClasses() []Class {
	return []Class{
		TextMiningClass{},
		CausalClass{},
		BayesnumClass{},
		FinauditClass{},
		TemporalClass{},
		ContradictionClass{},
		SemanticClass{},
		InstitutionalClass{},
	}
}

// NewBuiltinRouter builds a Router pre-loaded with BuiltinClasses.
func NewBuiltinRouter() *Router {
	return NewRouter(BuiltinClasses()...)
}
