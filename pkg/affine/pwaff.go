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
package affine

// PwAffPiece is one case of a piecewise affine expression: an affine value
// row applicable on a condition subset of the domain.
type PwAffPiece struct {
	Cond Set
	Row  []int64
}

// PwAff is an integer piecewise affine expression over a domain space.  The
// pieces are disjoint by construction; points outside every piece are outside
// the expression's definition domain.
type PwAff struct {
	Domain Space
	Pieces []PwAffPiece
}

// PwAffConstant constructs the constant expression k on the whole domain.
func PwAffConstant(domain Space, k int64) PwAff {
	row := make([]int64, 1+len(domain.Params)+domain.TotalDims())
	row[0] = k
	//
	return PwAff{Domain: domain, Pieces: []PwAffPiece{{Cond: UniverseSet(domain), Row: row}}}
}

// PwAffFromAff lifts an affine expression to a piecewise one defined on the
// whole domain.
func PwAffFromAff(aff Aff) PwAff {
	row := make([]int64, len(aff.Row))
	copy(row, aff.Row)
	//
	return PwAff{Domain: aff.Domain, Pieces: []PwAffPiece{{Cond: UniverseSet(aff.Domain), Row: row}}}
}

// Indicator constructs the expression "set ? 1 : 0" on the given definition
// domain.
func Indicator(set Set, dom Set) PwAff {
	domain := dom.Space
	//
	one := make([]int64, 1+len(domain.Params)+domain.TotalDims())
	one[0] = 1
	zero := make([]int64, len(one))
	//
	inside := set.Intersect(dom).Coalesce()
	outside := dom.Subtract(set).Coalesce()
	//
	return PwAff{Domain: domain, Pieces: []PwAffPiece{
		{Cond: inside, Row: one},
		{Cond: outside, Row: zero},
	}}
}

// DomainSet returns the definition domain of this expression.
func (p PwAff) DomainSet() Set {
	result := EmptySet(p.Domain)
	//
	for _, piece := range p.Pieces {
		result = result.Union(piece.Cond)
	}
	//
	return result.Coalesce()
}

// NonZeroSet returns the subset of the domain where the expression is
// non-zero.
func (p PwAff) NonZeroSet() Set {
	result := EmptySet(p.Domain)
	//
	for _, piece := range p.Pieces {
		zero := UniverseSet(piece.Cond.Space).AddConstraint(Equality(piece.Row))
		result = result.Union(piece.Cond.Subtract(zero))
	}
	//
	return result.Coalesce()
}

// ZeroSet returns the subset of the domain where the expression is zero.
func (p PwAff) ZeroSet() Set {
	result := EmptySet(p.Domain)
	//
	for _, piece := range p.Pieces {
		zero := UniverseSet(piece.Cond.Space).AddConstraint(Equality(piece.Row))
		result = result.Union(piece.Cond.Intersect(zero))
	}
	//
	return result.Coalesce()
}

// InsertDims inserts n unconstrained dimensions at the given position of the
// domain, leaving the value untouched.
func (p PwAff) InsertDims(pos int, n int) PwAff {
	domain := Space{Params: cloneIdents(p.Domain.Params), Tuples: cloneTuples(p.Domain.Tuples)}
	domain.Tuples[0].N += n
	domain.Tuples[0].Wraps = nil
	//
	col := 1 + len(p.Domain.Params) + pos
	pieces := make([]PwAffPiece, len(p.Pieces))
	//
	for i, piece := range p.Pieces {
		row := make([]int64, 0, len(piece.Row)+n)
		row = append(row, piece.Row[:col]...)
		row = append(row, make([]int64, n)...)
		row = append(row, piece.Row[col:]...)
		//
		pieces[i] = PwAffPiece{Cond: piece.Cond.InsertDims(pos, n), Row: row}
	}
	//
	return PwAff{Domain: domain, Pieces: pieces}
}

// ExtendDomain reinterprets this expression over a wider set space whose
// leading dimensions coincide with the current domain.
func (p PwAff) ExtendDomain(space Space) PwAff {
	extra := space.TotalDims() - p.Domain.TotalDims()
	if extra < 0 {
		panic("cannot shrink piecewise affine domain")
	}
	//
	out := p.InsertDims(p.Domain.TotalDims(), extra)
	out.Domain = space
	//
	for i := range out.Pieces {
		cond := out.Pieces[i].Cond
		cond.Space = Space{Params: cond.Space.Params, Tuples: cloneTuples(space.Tuples)}
		out.Pieces[i].Cond = cond
	}
	//
	return out
}

// AlignParams re-expresses this expression over the given parameter list.
func (p PwAff) AlignParams(params []Ident) PwAff {
	merged := mergeParams(params, p.Domain.Params)
	domain := Space{Params: merged, Tuples: cloneTuples(p.Domain.Tuples)}
	perm := paramPerm(p.Domain, domain)
	width := 1 + len(merged) + domain.TotalDims()
	//
	pieces := make([]PwAffPiece, len(p.Pieces))
	//
	for i, piece := range p.Pieces {
		row := make([]int64, width)
		for j, v := range piece.Row {
			row[perm[j]] = v
		}
		//
		pieces[i] = PwAffPiece{Cond: piece.Cond.AlignParams(merged), Row: row}
	}
	//
	return PwAff{Domain: domain, Pieces: pieces}
}

// Equal reports structural equality of two piecewise affine expressions.
func (p PwAff) Equal(other PwAff) bool {
	if !p.Domain.Equal(other.Domain) || len(p.Pieces) != len(other.Pieces) {
		return false
	}
	//
	for i := range p.Pieces {
		if !p.Pieces[i].Cond.Equal(other.Pieces[i].Cond) {
			return false
		}
		//
		for j := range p.Pieces[i].Row {
			if p.Pieces[i].Row[j] != other.Pieces[i].Row[j] {
				return false
			}
		}
	}
	//
	return true
}

// Anonymize strips external identity tags from the expression's space.
func (p PwAff) Anonymize() PwAff {
	pieces := make([]PwAffPiece, len(p.Pieces))
	for i, piece := range p.Pieces {
		pieces[i] = PwAffPiece{Cond: piece.Cond.Anonymize(), Row: piece.Row}
	}
	//
	return PwAff{Domain: p.Domain.anonymize(), Pieces: pieces}
}
