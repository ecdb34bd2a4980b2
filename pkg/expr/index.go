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
package expr

import "github.com/polyfront/go-scop/pkg/affine"

// Index is an index expression: a piecewise affine map from an iteration
// domain to the element of an array being accessed.  An index without an
// array identity denotes a plain (piecewise) affine value, such as the result
// of a comparison.
type Index struct {
	Domain affine.Space
	Array  affine.Ident
	Elems  []affine.PwAff
}

// AffineIndex constructs an index expression denoting a plain affine value.
func AffineIndex(value affine.PwAff) Index {
	return Index{Domain: value.Domain, Elems: []affine.PwAff{value}}
}

// ArrayIndex constructs an index expression into the given array.
func ArrayIndex(domain affine.Space, array affine.Ident, elems ...affine.PwAff) Index {
	return Index{Domain: domain, Array: array, Elems: elems}
}

// IsAffine reports whether this index denotes a plain affine value rather
// than an array element.
func (p Index) IsAffine() bool {
	return p.Array.IsZero()
}

// IsVirtualArray reports whether this index references a virtual array.
func (p Index) IsVirtualArray() bool {
	return p.Array.IsVirtual()
}

// Access derives the access relation of this index expression: the relation
// from the iteration domain to the accessed array elements.
func (p Index) Access() affine.Map {
	out := affine.Tuple{ID: p.Array, N: len(p.Elems)}
	if p.IsAffine() {
		out.ID = affine.Ident{}
	}
	//
	space := affine.MapSpace(p.Domain.Tuples[0], out, p.Domain.Params...)
	result := affine.EmptyMap(space)
	//
	if len(p.Elems) == 0 {
		return affine.UniverseMap(space)
	}
	// Build one piece per combination of element cases.  In practice each
	// element is a single-piece expression, so this stays small.
	partial := []affine.Map{affine.UniverseMap(space)}
	//
	for i, elem := range p.Elems {
		var next []affine.Map
		//
		for _, piece := range elem.Pieces {
			for _, m := range partial {
				restricted := m.IntersectDomain(pieceCondAsSet(p.Domain, piece))
				restricted = restricted.AddConstraint(outEquals(restricted, i, piece.Row))
				next = append(next, restricted)
			}
		}
		//
		partial = next
	}
	//
	for _, m := range partial {
		result = result.Union(m)
	}
	//
	return result.Coalesce()
}

// pieceCondAsSet reinterprets a piece condition over the index domain.
func pieceCondAsSet(domain affine.Space, piece affine.PwAffPiece) affine.Set {
	cond := piece.Cond
	cond.Space = affine.Space{Params: cond.Space.Params, Tuples: domain.Tuples}
	//
	return cond
}

// outEquals builds the constraint out[pos] == row over the map's space, where
// row is laid out over the input domain.
func outEquals(m affine.Map, pos int, row []int64) affine.Constraint {
	var (
		nP    = len(m.Space.Params)
		in    = m.Space.InDims()
		width = 1 + nP + in + m.Space.OutDims()
		out   = make([]int64, width)
	)
	// row covers [1 | params' | in]; params' is a prefix-compatible list
	// since conditions and map were aligned from the same domain.
	for j := 0; j < len(row) && j < 1+nP+in; j++ {
		out[j] = -row[j]
	}
	//
	out[1+nP+in+pos] = 1
	//
	return affine.Equality(out)
}

// InsertDims inserts unconstrained leading dimensions into the domain of the
// index expression.
func (p Index) InsertDims(pos int, n int) Index {
	elems := make([]affine.PwAff, len(p.Elems))
	for i, elem := range p.Elems {
		elems[i] = elem.InsertDims(pos, n)
	}
	//
	domain := p.Domain
	if len(elems) > 0 {
		domain = elems[0].Domain
	} else {
		domain = affine.UniverseSet(p.Domain).InsertDims(pos, n).Space
	}
	//
	return Index{Domain: domain, Array: p.Array, Elems: elems}
}

// AlignParams re-expresses the index over the given parameter list.
func (p Index) AlignParams(params []affine.Ident) Index {
	elems := make([]affine.PwAff, len(p.Elems))
	domain := p.Domain
	//
	for i, elem := range p.Elems {
		elems[i] = elem.AlignParams(params)
		domain = elems[i].Domain
	}
	//
	if len(p.Elems) == 0 {
		domain = affine.Space{Params: affine.ParamSpace(params...).Params, Tuples: p.Domain.Tuples}
	}
	//
	return Index{Domain: domain, Array: p.Array, Elems: elems}
}

// Equal reports structural equality of two index expressions.
func (p Index) Equal(other Index) bool {
	if p.Array != other.Array || len(p.Elems) != len(other.Elems) {
		return false
	}
	//
	if !p.Domain.Equal(other.Domain) {
		return false
	}
	//
	for i := range p.Elems {
		if !p.Elems[i].Equal(other.Elems[i]) {
			return false
		}
	}
	//
	return true
}

// Anonymize strips external identity tags from the index expression.
func (p Index) Anonymize() Index {
	elems := make([]affine.PwAff, len(p.Elems))
	for i, elem := range p.Elems {
		elems[i] = elem.Anonymize()
	}
	//
	domain := affine.UniverseSet(p.Domain).Anonymize().Space
	//
	return Index{Domain: domain, Array: p.Array.Anonymize(), Elems: elems}
}
