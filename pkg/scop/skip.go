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

import (
	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/expr"
)

// SkipType selects one of the two independent early-exit conditions of a
// scop.
type SkipType int

const (
	// SkipNow aborts the remainder of the current iteration.
	SkipNow SkipType = iota
	// SkipLater suppresses all later iterations.
	SkipLater
)

func (t SkipType) String() string {
	if t == SkipNow {
		return "skip_now"
	}
	//
	return "skip_later"
}

// A skip condition is either absent (nil), affine (an index denoting a 0/1
// valued piecewise affine value over a zero-dimensional domain; nonzero means
// skip) or variable (an access to a boolean virtual array, resolved at run
// time).  Variable skips cannot be combined or restricted.

// HasSkip reports whether the given skip condition is present.
func (p *Scop) HasSkip(t SkipType) bool {
	return p.live().skips[t] != nil
}

// HasAffineSkip reports whether the given skip condition is present and
// affine.
func (p *Scop) HasAffineSkip(t SkipType) bool {
	return p.live().skips[t] != nil && p.skips[t].IsAffine()
}

// HasVarSkip reports whether the given skip condition is present and depends
// on run-time values.
func (p *Scop) HasVarSkip(t SkipType) bool {
	return p.live().skips[t] != nil && !p.skips[t].IsAffine()
}

// HasUniversalSkip reports whether the given skip condition is affine and
// holds for every parameter value.
func (p *Scop) HasUniversalSkip(t SkipType) bool {
	if !p.HasAffineSkip(t) {
		return false
	}
	//
	return paramsIsUniverse(affineSkipNonZero(*p.skips[t]))
}

// GetSkip returns the given skip condition, which must be present.
func (p *Scop) GetSkip(t SkipType) expr.Index {
	if !p.HasSkip(t) {
		panic("skip condition is absent")
	}
	//
	return *p.skips[t]
}

// GetSkipExpr returns the given skip condition as a read access expression.
func (p *Scop) GetSkipExpr(t SkipType) *expr.Expr {
	return expr.FromIndex(p.GetSkip(t))
}

// GetSkipID returns the identity of the virtual array accessed by a variable
// skip condition; the zero identity for an affine one.
func (p *Scop) GetSkipID(t SkipType) affine.Ident {
	return p.GetSkip(t).Array
}

// GetAffineSkipDomain returns the parameter set on which an affine skip
// condition is nonzero.
func (p *Scop) GetAffineSkipDomain(t SkipType) affine.Set {
	if !p.HasAffineSkip(t) {
		panic("skip condition is not affine")
	}
	//
	return affineSkipNonZero(*p.skips[t])
}

// SetSkip installs the given skip condition, replacing any existing one.
func (p *Scop) SetSkip(t SkipType, index expr.Index) *Scop {
	idx := index
	p.live().skips[t] = &idx
	//
	return p
}

// SetSkipFromSet installs an affine skip condition holding exactly on the
// given parameter set.
func (p *Scop) SetSkipFromSet(t SkipType, cond affine.Set) *Scop {
	return p.SetSkip(t, skipFromSet(cond))
}

// ResetSkip clears the given skip condition.
func (p *Scop) ResetSkip(t SkipType) *Scop {
	p.live().skips[t] = nil
	return p
}

// skipFromSet builds the affine skip condition holding exactly on the given
// parameter set, as an indicator over a zero-dimensional universe.
func skipFromSet(cond affine.Set) expr.Index {
	cond = cond.Params()
	//
	dom := affine.UniverseSet(affine.SetSpace(affine.Ident{}, 0, cond.Space.Params...))
	value := affine.Indicator(cond.FromParams(), dom)
	//
	return expr.AffineIndex(value)
}

// affineSkipNonZero extracts the nonzero parameter set of an affine skip.
func affineSkipNonZero(idx expr.Index) affine.Set {
	return idx.Elems[0].NonZeroSet().Params()
}

// combineSkip merges the skip conditions of two operands into one: an absent
// condition yields the other unchanged; two present conditions must both be
// affine and combine by logical or.
func combineSkip(t SkipType, sk1 *expr.Index, sk2 *expr.Index) *expr.Index {
	if sk1 == nil {
		return sk2
	}
	//
	if sk2 == nil {
		return sk1
	}
	//
	if !sk1.IsAffine() || !sk2.IsAffine() {
		panic("cannot combine variable skip conditions")
	}
	//
	merged := skipFromSet(affineSkipNonZero(*sk1).Union(affineSkipNonZero(*sk2)).Coalesce())
	//
	return &merged
}

// restrictSkips applies the restriction rule to both skip conditions.  A
// variable skip cannot be restricted.
func (p *Scop) restrictSkips(cond affine.Set) {
	for _, t := range []SkipType{SkipNow, SkipLater} {
		if p.skips[t] == nil {
			continue
		}
		//
		if !p.skips[t].IsAffine() {
			panic("cannot restrict variable skip condition")
		}
		//
		restricted := skipFromSet(affineSkipNonZero(*p.skips[t]).Intersect(cond).Coalesce())
		p.skips[t] = &restricted
	}
}

// paramsIsUniverse reports whether a parameter set contains every parameter
// value.
func paramsIsUniverse(s affine.Set) bool {
	return affine.UniverseSet(s.Space).IsSubset(s)
}
