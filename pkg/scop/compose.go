// Copyright Polyfront Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package scop

// Mode selects how two scops are composed.
type Mode int

const (
	// Sequential composition propagates the first operand's skip-now
	// condition into the second: the second operand only runs when the
	// first did not skip.
	Sequential Mode = iota
	// Parallel composition performs no such propagation; used when the
	// first operand's control effect is scoped away, e.g. across
	// independent branches.
	Parallel
)

// Compose merges two scops into one, consuming both: statements and arrays
// are relocated, implications deduplicated, contexts conjoined, source spans
// merged and skip conditions or-combined.
func Compose(s1 *Scop, s2 *Scop, mode Mode) *Scop {
	s1.live()
	s2.live()
	//
	// An operand without statements still propagates: a bare early exit is
	// modelled as a statement-less scop with a universal skip-now.
	if mode == Sequential && s1.HasSkip(SkipNow) {
		s2 = propagateSkipNow(s1, s2)
	}
	//
	return add(s1, s2)
}

// propagateSkipNow conditions the second operand on the first one not having
// skipped: an affine skip restricts by its zero set, a variable skip filters
// on the recorded test being 0.
func propagateSkipNow(s1 *Scop, s2 *Scop) *Scop {
	skip := s1.GetSkip(SkipNow)
	//
	if skip.IsAffine() {
		zero := skip.Elems[0].ZeroSet().Params()
		return Restrict(s2, zero)
	}
	//
	return Filter(s2, skip, false)
}

// add performs the mode-independent merge.  An operand without statements
// still contributes its skip conditions and source span.
func add(s1 *Scop, s2 *Scop) *Scop {
	if len(s1.Stmts) == 0 {
		return adopt(s2, s1)
	}
	//
	if len(s2.Stmts) == 0 {
		return adopt(s1, s2)
	}
	//
	result := Empty()
	result.Loc = s1.Loc.Union(s2.Loc)
	result.Context = s1.Context.Intersect(s2.Context).Coalesce().RemoveNestedParams()
	result.ContextValue = s1.ContextValue.Intersect(s2.ContextValue)
	result.Stmts = append(s1.Stmts, s2.Stmts...)
	result.Types = append(result.Types, s1.Types...)
	result.Arrays = append(result.Arrays, s1.Arrays...)
	result.Implications = append(result.Implications, s1.Implications...)
	//
	for _, t := range s2.Types {
		result.AddType(t)
	}
	//
	for _, array := range s2.Arrays {
		if !hasArray(result, array) {
			result.Arrays = append(result.Arrays, array)
		}
	}
	//
	for _, imp := range s2.Implications {
		if !hasImplication(result, imp) {
			result.Implications = append(result.Implications, imp)
		}
	}
	//
	for _, t := range []SkipType{SkipNow, SkipLater} {
		result.skips[t] = combineSkip(t, s1.skips[t], s2.skips[t])
	}
	//
	s1.poison()
	s2.poison()
	//
	return result
}

// adopt keeps one operand as the result, folding in the skip conditions and
// source span of an operand without statements.
func adopt(keep *Scop, empty *Scop) *Scop {
	for _, t := range []SkipType{SkipNow, SkipLater} {
		keep.skips[t] = combineSkip(t, keep.skips[t], empty.skips[t])
	}
	//
	keep.Loc = keep.Loc.Union(empty.Loc)
	empty.poison()
	//
	return keep
}

// hasArray reports whether the scop already holds an array of the same
// identity.
func hasArray(p *Scop, array *Array) bool {
	for _, q := range p.Arrays {
		if q.ID() == array.ID() {
			return true
		}
	}
	//
	return false
}

// hasImplication reports whether a structurally equal implication is already
// present.
func hasImplication(p *Scop, imp *Implication) bool {
	for _, q := range p.Implications {
		if q.Equal(imp) {
			return true
		}
	}
	//
	return false
}
