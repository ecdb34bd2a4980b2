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

// Map is a union of convex pieces of integer tuple pairs (a relation) over a
// shared space.  Like sets, maps are immutable.
type Map struct {
	Space  Space
	Pieces []Basic
}

// UniverseMap constructs the relation containing every pair of the space.
func UniverseMap(space Space) Map {
	return Map{Space: space, Pieces: []Basic{{}}}
}

// EmptyMap constructs the relation containing no pair of the space.
func EmptyMap(space Space) Map {
	return Map{Space: space}
}

// MapFromDomain constructs the relation from the given set to the
// zero-dimensional anonymous tuple.
func MapFromDomain(dom Set) Map {
	space := MapSpace(dom.Space.Tuples[0], Tuple{}, cloneIdents(dom.Space.Params)...)
	return Map{Space: space, Pieces: clonePieces(dom.Pieces)}
}

// MapFromDomainAndRange constructs the relation pairing every point of "dom"
// with every point of "ran".
func MapFromDomainAndRange(dom Set, ran Set) Map {
	wrapped := dom.FlatProduct(ran)
	space := MapSpace(dom.Space.Tuples[0], ran.Space.Tuples[0], cloneIdents(wrapped.Space.Params)...)
	//
	return Map{Space: space, Pieces: clonePieces(wrapped.Pieces)}
}

// MapFromAff constructs the single-output relation defined by an affine
// expression over its domain.
func MapFromAff(aff Aff) Map {
	space := MapSpace(aff.Domain.Tuples[0], Tuple{N: 1}, cloneIdents(aff.Domain.Params)...)
	result := UniverseMap(space)
	// out0 = aff(in)
	row := make([]int64, result.width())
	row[0] = aff.Row[0]
	//
	for i := range aff.Domain.Params {
		row[1+i] = aff.Row[1+i]
	}
	//
	for d := 0; d < aff.Domain.TotalDims(); d++ {
		row[1+len(space.Params)+d] = aff.Row[1+len(aff.Domain.Params)+d]
	}
	//
	row[1+len(space.Params)+space.InDims()] = -1
	//
	return result.AddConstraint(Equality(row))
}

func (p Map) width() int {
	return 1 + len(p.Space.Params) + p.Space.TotalDims()
}

func (p Map) inCol(i int) int {
	return 1 + len(p.Space.Params) + i
}

func (p Map) outCol(j int) int {
	return 1 + len(p.Space.Params) + p.Space.InDims() + j
}

// Wrap turns this relation into the set wrapping it.
func (p Map) Wrap() Set {
	return Set{Space: p.Space.Wrap(), Pieces: clonePieces(p.Pieces)}
}

// Domain projects this relation onto its input tuple.
func (p Map) Domain() Set {
	set := Set{Space: p.Space.Wrap(), Pieces: clonePieces(p.Pieces)}
	set = set.ProjectOutDims(p.Space.InDims(), p.Space.OutDims())
	set.Space = Space{Params: set.Space.Params, Tuples: []Tuple{p.Space.Tuples[0]}}
	//
	return set
}

// Range projects this relation onto its output tuple.
func (p Map) Range() Set {
	set := Set{Space: p.Space.Wrap(), Pieces: clonePieces(p.Pieces)}
	set = set.ProjectOutDims(0, p.Space.InDims())
	set.Space = Space{Params: set.Space.Params, Tuples: []Tuple{p.Space.Tuples[1]}}
	//
	return set
}

// Params projects this relation onto its parameter space.
func (p Map) Params() Set {
	return p.Wrap().Params()
}

// AddConstraint intersects this relation with a single constraint.
func (p Map) AddConstraint(c Constraint) Map {
	set := Set{Space: p.Space.Wrap(), Pieces: p.Pieces}.AddConstraint(c)
	return Map{Space: p.Space, Pieces: set.Pieces}
}

// Intersect returns the intersection of two relations.
func (p Map) Intersect(other Map) Map {
	res := p.Wrap().Intersect(other.Wrap())
	space := Space{Params: res.Space.Params, Tuples: cloneTuples(p.Space.Tuples)}
	//
	return Map{Space: space, Pieces: res.Pieces}
}

// Union returns the union of two relations.
func (p Map) Union(other Map) Map {
	res := p.Wrap().Union(other.Wrap())
	space := Space{Params: res.Space.Params, Tuples: cloneTuples(p.Space.Tuples)}
	//
	return Map{Space: space, Pieces: res.Pieces}
}

// IsEmpty reports whether this relation contains no pair.
func (p Map) IsEmpty() bool {
	return p.Wrap().IsEmpty()
}

// IsSubset reports whether this relation is contained in the other.
func (p Map) IsSubset(other Map) bool {
	return p.Wrap().IsSubset(other.Wrap())
}

// Equal reports whether two relations contain the same pairs of the same
// space.
func (p Map) Equal(other Map) bool {
	if !spacesCompatible(p.Space, other.Space) {
		return false
	}
	//
	return p.Wrap().IsSubset(other.Wrap()) && other.Wrap().IsSubset(p.Wrap())
}

// spacesCompatible checks tuple structure equality modulo parameter order.
func spacesCompatible(a Space, b Space) bool {
	if len(a.Tuples) != len(b.Tuples) {
		return false
	}
	//
	for i := range a.Tuples {
		if !a.Tuples[i].equal(b.Tuples[i]) {
			return false
		}
	}
	//
	return true
}

// Coalesce simplifies the piece representation of this relation.
func (p Map) Coalesce() Map {
	res := p.Wrap().Coalesce()
	return Map{Space: p.Space, Pieces: res.Pieces}
}

// InsertInDims inserts n unconstrained input dimensions at position pos.
func (p Map) InsertInDims(pos int, n int) Map {
	space := Space{Params: cloneIdents(p.Space.Params), Tuples: cloneTuples(p.Space.Tuples)}
	space.Tuples[0].N += n
	space.Tuples[0].Wraps = nil
	//
	pieces := make([]Basic, len(p.Pieces))
	for i, piece := range p.Pieces {
		pieces[i] = piece.insertCols(p.inCol(pos), n)
	}
	//
	return Map{Space: space, Pieces: pieces}
}

// InsertOutDims inserts n unconstrained output dimensions at position pos.
func (p Map) InsertOutDims(pos int, n int) Map {
	space := Space{Params: cloneIdents(p.Space.Params), Tuples: cloneTuples(p.Space.Tuples)}
	space.Tuples[1].N += n
	space.Tuples[1].Wraps = nil
	//
	pieces := make([]Basic, len(p.Pieces))
	for i, piece := range p.Pieces {
		pieces[i] = piece.insertCols(p.outCol(pos), n)
	}
	//
	return Map{Space: space, Pieces: pieces}
}

// AddOutDims appends n unconstrained trailing output dimensions.
func (p Map) AddOutDims(n int) Map {
	return p.InsertOutDims(p.Space.OutDims(), n)
}

// EquateInOut equates input dimension i with output dimension j.
func (p Map) EquateInOut(i int, j int) Map {
	row := make([]int64, p.width())
	row[p.inCol(i)] = 1
	row[p.outCol(j)] = -1
	//
	return p.AddConstraint(Equality(row))
}

// FixOutDim constrains output dimension pos to a constant value.
func (p Map) FixOutDim(pos int, val int64) Map {
	row := make([]int64, p.width())
	row[0] = -val
	row[p.outCol(pos)] = 1
	//
	return p.AddConstraint(Equality(row))
}

// FlatProduct concatenates inputs with inputs and outputs with outputs.
func (p Map) FlatProduct(other Map) Map {
	lhs, rhs := p.Wrap(), other.Wrap()
	lhsAligned, rhsAligned := alignSets(lhs, rhs)
	//
	var (
		nP   = len(lhsAligned.Space.Params)
		in1  = p.Space.InDims()
		out1 = p.Space.OutDims()
		in2  = other.Space.InDims()
		out2 = other.Space.OutDims()
	)
	//
	space := MapSpace(Tuple{N: in1 + in2}, Tuple{N: out1 + out2},
		cloneIdents(lhsAligned.Space.Params)...)
	//
	var pieces []Basic
	//
	for _, a := range lhsAligned.Pieces {
		// in1 stays; gap for in2; out1 shifts past in2; gap for out2.
		ea := a.insertCols(1+nP+in1, in2)
		ea = ea.insertCols(1+nP+in1+in2+out1, out2)
		//
		for _, b := range rhsAligned.Pieces {
			eb := b.insertCols(1+nP, in1)
			eb = eb.insertCols(1+nP+in1+in2, out1)
			//
			merged := Basic{Cs: append(append([]Constraint{}, ea.Cs...), eb.Cs...)}
			if simplified, ok := simplifyBasic(merged); ok {
				pieces = append(pieces, simplified)
			}
		}
	}
	//
	return Map{Space: space, Pieces: pieces}
}

// FlatDomainProduct concatenates the input tuples of two relations sharing an
// output tuple, constraining the output by both.
func (p Map) FlatDomainProduct(other Map) Map {
	if p.Space.OutDims() != other.Space.OutDims() {
		panic("flat domain product requires matching output arity")
	}
	//
	lhsAligned, rhsAligned := alignSets(p.Wrap(), other.Wrap())
	//
	var (
		nP  = len(lhsAligned.Space.Params)
		in1 = p.Space.InDims()
		in2 = other.Space.InDims()
	)
	//
	space := MapSpace(Tuple{N: in1 + in2}, p.Space.Tuples[1],
		cloneIdents(lhsAligned.Space.Params)...)
	//
	var pieces []Basic
	//
	for _, a := range lhsAligned.Pieces {
		ea := a.insertCols(1+nP+in1, in2)
		//
		for _, b := range rhsAligned.Pieces {
			eb := b.insertCols(1+nP, in1)
			//
			merged := Basic{Cs: append(append([]Constraint{}, ea.Cs...), eb.Cs...)}
			if simplified, ok := simplifyBasic(merged); ok {
				pieces = append(pieces, simplified)
			}
		}
	}
	//
	return Map{Space: space, Pieces: pieces}
}

// ApplyRange composes this relation A -> B with another B -> C, giving
// A -> C.
func (p Map) ApplyRange(other Map) Map {
	if p.Space.OutDims() != other.Space.InDims() {
		panic("relation composition requires matching arity")
	}
	//
	var (
		params = mergeParams(p.Space.Params, other.Space.Params)
		nP     = len(params)
		inA    = p.Space.InDims()
		mid    = p.Space.OutDims()
		outC   = other.Space.OutDims()
	)
	// Rows over [inA | mid | outC]; eliminate mid afterwards.
	wide := Space{Params: params, Tuples: []Tuple{{N: inA + mid + outC}}}
	//
	lhs := p.Wrap().AlignParams(params)
	rhs := other.Wrap().AlignParams(params)
	//
	var pieces []Basic
	//
	for _, a := range lhs.Pieces {
		ea := a.insertCols(1+nP+inA+mid, outC)
		//
		for _, b := range rhs.Pieces {
			eb := b.insertCols(1+nP, inA)
			//
			merged := Basic{Cs: append(append([]Constraint{}, ea.Cs...), eb.Cs...)}
			if simplified, ok := simplifyBasic(merged); ok {
				pieces = append(pieces, simplified)
			}
		}
	}
	//
	joined := Set{Space: wide, Pieces: pieces}
	joined = joined.ProjectOutDims(inA, mid)
	//
	space := MapSpace(p.Space.Tuples[0], other.Space.Tuples[1], params...)
	//
	return Map{Space: space, Pieces: joined.Pieces}
}

// ApplyDomain composes this relation A -> B with another A -> C, giving
// C -> B.
func (p Map) ApplyDomain(other Map) Map {
	return other.Reverse().ApplyRange(p)
}

// Reverse swaps the input and output tuples of this relation.
func (p Map) Reverse() Map {
	var (
		nP  = len(p.Space.Params)
		in  = p.Space.InDims()
		out = p.Space.OutDims()
	)
	//
	space := MapSpace(p.Space.Tuples[1], p.Space.Tuples[0], cloneIdents(p.Space.Params)...)
	perm := make([]int, 1+nP+in+out)
	perm[0] = 0
	//
	for i := 0; i < nP; i++ {
		perm[1+i] = 1 + i
	}
	//
	for i := 0; i < in; i++ {
		perm[1+nP+i] = 1 + nP + out + i
	}
	//
	for j := 0; j < out; j++ {
		perm[1+nP+in+j] = 1 + nP + j
	}
	//
	pieces := make([]Basic, len(p.Pieces))
	for i, piece := range p.Pieces {
		pieces[i] = piece.permuteCols(perm, 1+nP+in+out)
	}
	//
	return Map{Space: space, Pieces: pieces}
}

// IntersectDomain restricts this relation to inputs contained in "dom".
func (p Map) IntersectDomain(dom Set) Map {
	ext := MapFromDomainAndRange(dom, UniverseSet(p.Space.Range()))
	ext.Space = Space{Params: ext.Space.Params, Tuples: cloneTuples(p.Space.Tuples)}
	//
	return p.Intersect(ext)
}

// IntersectRange restricts this relation to outputs contained in "ran".
func (p Map) IntersectRange(ran Set) Map {
	ext := MapFromDomainAndRange(UniverseSet(p.Space.Domain()), ran)
	ext.Space = Space{Params: ext.Space.Params, Tuples: cloneTuples(p.Space.Tuples)}
	//
	return p.Intersect(ext)
}

// IntersectParams intersects this relation with parameter constraints.
func (p Map) IntersectParams(context Set) Map {
	res := p.Wrap().IntersectParams(context)
	return Map{Space: Space{Params: res.Space.Params, Tuples: cloneTuples(p.Space.Tuples)}, Pieces: res.Pieces}
}

// GistDomain simplifies this relation given that its inputs are known to lie
// in "dom".
func (p Map) GistDomain(dom Set) Map {
	context := MapFromDomainAndRange(dom, UniverseSet(p.Space.Range()))
	res := p.Wrap().Gist(context.Wrap())
	//
	return Map{Space: Space{Params: res.Space.Params, Tuples: cloneTuples(p.Space.Tuples)}, Pieces: res.Pieces}
}

// SetInTupleID renames the input tuple.
func (p Map) SetInTupleID(id Ident) Map {
	space := Space{Params: cloneIdents(p.Space.Params), Tuples: cloneTuples(p.Space.Tuples)}
	space.Tuples[0].ID = id
	//
	return Map{Space: space, Pieces: clonePieces(p.Pieces)}
}

// SetOutTupleID renames the output tuple.
func (p Map) SetOutTupleID(id Ident) Map {
	space := Space{Params: cloneIdents(p.Space.Params), Tuples: cloneTuples(p.Space.Tuples)}
	space.Tuples[1].ID = id
	//
	return Map{Space: space, Pieces: clonePieces(p.Pieces)}
}

// InTupleID returns the identity of the input tuple.
func (p Map) InTupleID() Ident { return p.Space.Tuples[0].ID }

// OutTupleID returns the identity of the output tuple.
func (p Map) OutTupleID() Ident { return p.Space.Tuples[1].ID }

// HasOutTupleID reports whether the output tuple carries an identity.
func (p Map) HasOutTupleID() bool { return !p.Space.Tuples[1].ID.IsZero() }

// RangeIsWrapping reports whether the output tuple wraps a relation.
func (p Map) RangeIsWrapping() bool { return p.Space.Tuples[1].Wraps != nil }

// DomainMap returns the relation from the wrapped pairs of this relation to
// their input component: [A -> B] -> A.
func (p Map) DomainMap() Map {
	in := p.Space.InDims()
	//
	result := UniverseMap(MapSpace(p.Space.Wrap().Tuples[0], p.Space.Tuples[0],
		cloneIdents(p.Space.Params)...))
	// Constrain the wrapped input component to equal the output.
	for i := 0; i < in; i++ {
		result = result.EquateInOut(i, i)
	}
	// Restrict to pairs actually in the relation.
	return result.IntersectDomain(p.Wrap())
}

// ProjectOutParam existentially quantifies the parameter at the given
// position.
func (p Map) ProjectOutParam(pos int) Map {
	res := p.Wrap().ProjectOutParam(pos)
	space := Space{Params: res.Space.Params, Tuples: cloneTuples(p.Space.Tuples)}
	//
	return Map{Space: space, Pieces: res.Pieces}
}

// AlignParams re-expresses this relation over the given parameter list.
func (p Map) AlignParams(params []Ident) Map {
	res := p.Wrap().AlignParams(params)
	space := Space{Params: res.Space.Params, Tuples: cloneTuples(p.Space.Tuples)}
	//
	return Map{Space: space, Pieces: res.Pieces}
}

// Anonymize strips all external identity tags from this relation's space.
func (p Map) Anonymize() Map {
	return Map{Space: p.Space.anonymize(), Pieces: clonePieces(p.Pieces)}
}
