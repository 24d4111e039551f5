package core

// Kernel is the external consistency engine. It keeps interval
// statements mutually consistent and reports the aggregate moments and
// hull of an alternative's outcome under an aggregation rule. This core
// trusts the kernel's numbers; it never checks interval consistency
// itself.
type Kernel interface {
	// Moments returns the raw moment triple for slot under rule.
	// altB is the second alternative for RuleDelta and the subset
	// bitmask for RuleDigamma; it is ignored otherwise.
	Moments(slot int, rule Rule, altA, altB int) (Moments, error)

	// Hull returns the truncated [min,mid,max] outcome range for the
	// same evaluation the moments describe.
	Hull(slot int, rule Rule, altA, altB int) (ResultTriple, error)

	// AlternativeCount returns the number of alternatives.
	AlternativeCount() int

	// CriterionCount returns the number of criteria. Valid positive
	// slots are 1..CriterionCount; valid partial slots are the
	// negated identifiers of intermediate tree nodes.
	CriterionCount() int

	// ChildCriteria returns the direct children of a criteria-tree
	// node, or nil for a leaf. Node 0 is the root.
	ChildCriteria(node int) []int

	// ParentCriterion returns the parent of a criteria-tree node.
	// ok is false for the root.
	ParentCriterion(node int) (parent int, ok bool)
}
