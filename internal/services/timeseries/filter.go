package timeseries

// Result is the outcome of running a series through the selection pipeline.
type Result struct {
	Points          Series
	Rule            SelectionRule
	Matched         int
	FallbackApplied bool
}

// Filter is the resolve -> select -> empty-policy pipeline.
type Filter struct {
	resolver *Resolver
	policy   EmptyResultPolicy
}

// NewFilter builds a pipeline. A nil resolver gets the wall clock in UTC and
// an empty policy defaults to ShowAll.
func NewFilter(resolver *Resolver, policy EmptyResultPolicy) *Filter {
	if resolver == nil {
		resolver = NewResolver()
	}
	if policy == "" {
		policy = ShowAll
	}
	return &Filter{resolver: resolver, policy: policy}
}

// Policy is the default empty-result policy.
func (f *Filter) Policy() EmptyResultPolicy { return f.policy }

// Apply runs series through the pipeline with the default policy.
func (f *Filter) Apply(series Series, tok RangeToken) Result {
	return f.ApplyWithPolicy(series, tok, f.policy)
}

// ApplyWithPolicy runs series through the pipeline with an explicit policy.
func (f *Filter) ApplyWithPolicy(series Series, tok RangeToken, policy EmptyResultPolicy) Result {
	if policy == "" {
		policy = f.policy
	}
	rule := f.resolver.Resolve(tok)
	selected := Select(series, rule)
	shown, fellBack := ApplyPolicy(policy, selected, series)
	return Result{
		Points:          shown,
		Rule:            rule,
		Matched:         len(selected),
		FallbackApplied: fellBack,
	}
}
