package catalog

import (
	"encoding/json"
	"fmt"
)

// PredicateKind tags the parsed form of a match condition.
type PredicateKind int

const (
	// PredEq matches by equality against a scalar.
	PredEq PredicateKind = iota
	// PredInSet matches by membership in a declared set.
	PredInSet
	// PredRange conjoins any of gte/lte/gt/lt/eq/ne.
	PredRange
)

// Predicate is a parsed match condition. Conditions are authored as a
// scalar (equality), a list (membership) or an operator object; the
// polymorphism is resolved once at catalog load time.
type Predicate struct {
	Kind PredicateKind
	Eq   any
	Set  []any

	GTE *float64
	LTE *float64
	GT  *float64
	LT  *float64
	REq *float64
	RNe *float64
}

var rangeOps = map[string]bool{"gte": true, "lte": true, "gt": true, "lt": true, "eq": true, "ne": true}

// ParsePredicate resolves a raw YAML/JSON condition value into its
// tagged form. Objects must use only the six range operators.
func ParsePredicate(raw json.RawMessage) (Predicate, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Predicate{}, fmt.Errorf("catalog: bad condition: %w", err)
	}
	switch val := v.(type) {
	case []any:
		return Predicate{Kind: PredInSet, Set: val}, nil
	case map[string]any:
		p := Predicate{Kind: PredRange}
		for op, operand := range val {
			if !rangeOps[op] {
				return Predicate{}, fmt.Errorf("catalog: unknown operator %q", op)
			}
			num, ok := asNumber(operand)
			if !ok {
				return Predicate{}, fmt.Errorf("catalog: operator %q needs a numeric operand", op)
			}
			n := num
			switch op {
			case "gte":
				p.GTE = &n
			case "lte":
				p.LTE = &n
			case "gt":
				p.GT = &n
			case "lt":
				p.LT = &n
			case "eq":
				p.REq = &n
			case "ne":
				p.RNe = &n
			}
		}
		return p, nil
	default:
		return Predicate{Kind: PredEq, Eq: v}, nil
	}
}

// Match evaluates the predicate against a discovery answer.
func (p Predicate) Match(answer any) bool {
	switch p.Kind {
	case PredInSet:
		for _, member := range p.Set {
			if looseEqual(member, answer) {
				return true
			}
		}
		return false
	case PredRange:
		n, ok := asNumber(answer)
		if !ok {
			return false
		}
		if p.GTE != nil && !(n >= *p.GTE) {
			return false
		}
		if p.LTE != nil && !(n <= *p.LTE) {
			return false
		}
		if p.GT != nil && !(n > *p.GT) {
			return false
		}
		if p.LT != nil && !(n < *p.LT) {
			return false
		}
		if p.REq != nil && n != *p.REq {
			return false
		}
		if p.RNe != nil && n == *p.RNe {
			return false
		}
		return true
	default:
		return looseEqual(p.Eq, answer)
	}
}

// looseEqual compares scalars across the numeric types JSON and YAML
// decoding produce.
func looseEqual(a, b any) bool {
	if an, ok := asNumber(a); ok {
		bn, bok := asNumber(b)
		return bok && an == bn
	}
	return a == b
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
