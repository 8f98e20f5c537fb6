package core

// FilterOp is the comparison operator of a filter predicate.
type FilterOp string

// Filter operator constants.
const (
	// OpEq matches rows whose column equals a single value.
	OpEq FilterOp = "eq"
	// OpIn matches rows whose column is a member of a value set.
	OpIn FilterOp = "in"
)

// FilterPredicate is one filter condition contributed by one producer
// component. A producer has at most one live predicate; absence means
// "no constraint".
type FilterPredicate struct {
	Producer      ComponentIndex `json:"producer_index"`
	DataSourceRef string         `json:"data_source_ref"`
	Column        string         `json:"column"`
	Op            FilterOp       `json:"operator"`
	// Value is set for OpEq.
	Value any `json:"value,omitempty"`
	// Values is set for OpIn.
	Values []any `json:"values,omitempty"`
}

// FilterSet is the conjunction of all currently active predicates. It is an
// immutable snapshot: the propagation engine rebuilds it atomically per pass,
// so consumers never observe a partially-updated set.
type FilterSet struct {
	predicates []FilterPredicate
}

// NewFilterSet builds a snapshot from the given predicates. The slice is
// copied; callers may mutate their copy afterwards.
func NewFilterSet(preds []FilterPredicate) FilterSet {
	if len(preds) == 0 {
		return FilterSet{}
	}
	return FilterSet{predicates: append([]FilterPredicate(nil), preds...)}
}

// Predicates returns the predicates of the set in producer-insertion order.
// The returned slice is a copy.
func (s FilterSet) Predicates() []FilterPredicate {
	if len(s.predicates) == 0 {
		return nil
	}
	return append([]FilterPredicate(nil), s.predicates...)
}

// Empty reports whether the set carries no constraint.
func (s FilterSet) Empty() bool {
	return len(s.predicates) == 0
}

// Len returns the number of active predicates.
func (s FilterSet) Len() int {
	return len(s.predicates)
}

// ForSource returns the predicates constraining the given data source.
func (s FilterSet) ForSource(dataSourceRef string) []FilterPredicate {
	var out []FilterPredicate
	for _, p := range s.predicates {
		if p.DataSourceRef == dataSourceRef {
			out = append(out, p)
		}
	}
	return out
}
