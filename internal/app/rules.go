package app

import "amenity_engine/internal/domain"

// classSet tracks which entitlement class currently claims each amenity id.
type classSet map[domain.EntitlementClass]map[int64]struct{}

func newClassSet() classSet {
	return classSet{
		domain.ClassIncluded:  {},
		domain.ClassExtra:     {},
		domain.ClassMandatory: {},
	}
}

func (s classSet) add(c domain.EntitlementClass, id int64)  { s[c][id] = struct{}{} }
func (s classSet) drop(c domain.EntitlementClass, id int64) { delete(s[c], id) }

func (s classSet) has(c domain.EntitlementClass, id int64) bool {
	_, ok := s[c][id]
	return ok
}

func (s classSet) claimed(id int64) bool {
	return s.has(domain.ClassIncluded, id) ||
		s.has(domain.ClassExtra, id) ||
		s.has(domain.ClassMandatory, id)
}

// precedenceRule is one step of an ordered override chain. Rules apply
// first to last: a rule evicts ids from the classes it names, then claims
// them unless a class it cannot evict already holds them. A rule with no
// Evicts is purely additive.
type precedenceRule struct {
	Class  domain.EntitlementClass
	Evicts []domain.EntitlementClass
}

// roomProductRules resolves duplicate assignments inside the room-product
// source: INCLUDED > MANDATORY > EXTRA.
var roomProductRules = []precedenceRule{
	{Class: domain.ClassIncluded, Evicts: []domain.EntitlementClass{domain.ClassMandatory, domain.ClassExtra}},
	{Class: domain.ClassMandatory, Evicts: []domain.EntitlementClass{domain.ClassExtra}},
	{Class: domain.ClassExtra},
}

// combineRules layers the room-product classification over a set seeded
// from the rate-plan result. MANDATORY is applied before INCLUDED so that
// room-product INCLUDED overrides room-product MANDATORY; EXTRA never
// overrides anything.
var combineRules = []precedenceRule{
	{Class: domain.ClassMandatory, Evicts: []domain.EntitlementClass{domain.ClassIncluded, domain.ClassExtra}},
	{Class: domain.ClassIncluded, Evicts: []domain.EntitlementClass{domain.ClassMandatory, domain.ClassExtra}},
	{Class: domain.ClassExtra},
}

// applyRules runs the ordered rule chain over set, feeding each rule the
// ids carrying its class.
func applyRules(set classSet, rules []precedenceRule, ids map[domain.EntitlementClass][]int64) {
	for _, r := range rules {
		for _, id := range ids[r.Class] {
			for _, c := range r.Evicts {
				set.drop(c, id)
			}
			if set.claimed(id) {
				continue
			}
			set.add(r.Class, id)
		}
	}
}
