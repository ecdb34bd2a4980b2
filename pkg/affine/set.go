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

import "sort"

// Set is a union of convex pieces of integer tuples over a shared space.
// Sets are immutable: every operation returns a fresh set and never mutates
// its operands, making structural sharing safe.
type Set struct {
	Space  Space
	Pieces []Basic
}

// UniverseSet constructs the set containing every point of the given space.
func UniverseSet(space Space) Set {
	return Set{Space: space, Pieces: []Basic{{}}}
}

// EmptySet constructs the set containing no point of the given space.
func EmptySet(space Space) Set {
	return Set{Space: space}
}

// width returns the row width for constraints over this set's space.
func (p Set) width() int {
	return 1 + len(p.Space.Params) + p.Space.TotalDims()
}

// Intersect returns the intersection of two sets over aligned parameters.
func (p Set) Intersect(other Set) Set {
	lhs, rhs := alignSets(p, other)
	//
	var pieces []Basic
	//
	for _, a := range lhs.Pieces {
		for _, b := range rhs.Pieces {
			merged := Basic{Cs: append(append([]Constraint{}, a.Cs...), b.Cs...)}
			//
			if simplified, ok := simplifyBasic(merged); ok {
				pieces = append(pieces, simplified)
			}
		}
	}
	//
	return Set{Space: lhs.Space, Pieces: pieces}
}

// Union returns the union of two sets over aligned parameters.
func (p Set) Union(other Set) Set {
	lhs, rhs := alignSets(p, other)
	pieces := append(append([]Basic{}, lhs.Pieces...), rhs.Pieces...)
	//
	return Set{Space: lhs.Space, Pieces: pieces}
}

// Subtract returns the points of this set not contained in the other.
func (p Set) Subtract(other Set) Set {
	lhs, rhs := alignSets(p, other)
	return lhs.Intersect(rhs.Complement())
}

// Complement returns the complement of this set within its space.
func (p Set) Complement() Set {
	result := UniverseSet(p.Space)
	//
	for _, piece := range p.Pieces {
		result = result.Intersect(complementPiece(p.Space, piece))
	}
	//
	return result
}

// complementPiece computes the complement of a single conjunction as the
// disjoint union over its constraints: the i-th part affirms the first i-1
// constraints and negates the i-th.
func complementPiece(space Space, piece Basic) Set {
	var pieces []Basic
	//
	for i, c := range piece.Cs {
		for _, neg := range c.negate() {
			part := Basic{Cs: append([]Constraint{}, piece.Cs[:i]...)}
			part.Cs = append(part.Cs, neg)
			//
			if simplified, ok := simplifyBasic(part); ok {
				pieces = append(pieces, simplified)
			}
		}
	}
	//
	return Set{Space: space, Pieces: pieces}
}

// IsEmpty reports whether this set contains no integer point.
func (p Set) IsEmpty() bool {
	for _, piece := range p.Pieces {
		if !basicIsEmpty(piece, p.width()) {
			return false
		}
	}
	//
	return true
}

// IsSubset reports whether every point of this set lies in the other.
func (p Set) IsSubset(other Set) bool {
	return p.Subtract(other).IsEmpty()
}

// Equal reports whether the two sets contain exactly the same points of the
// same space.
func (p Set) Equal(other Set) bool {
	lhs, rhs := alignSets(p, other)
	//
	if !lhs.Space.Equal(rhs.Space) {
		return false
	}
	//
	return lhs.IsSubset(rhs) && rhs.IsSubset(lhs)
}

// PlainIsUniverse reports whether this set is syntactically the universe.
func (p Set) PlainIsUniverse() bool {
	for _, piece := range p.Pieces {
		if len(piece.Cs) == 0 {
			return true
		}
	}
	//
	return false
}

// Coalesce merges the representation into fewer pieces: empty pieces,
// duplicates and pieces contained in other pieces are dropped.  The contents
// are unchanged.
func (p Set) Coalesce() Set {
	var nonEmpty []Basic
	//
	for _, piece := range p.Pieces {
		if basicIsEmpty(piece, p.width()) {
			continue
		}
		//
		dup := false
		//
		for _, k := range nonEmpty {
			if k.equal(piece) {
				dup = true
				break
			}
		}
		//
		if !dup {
			nonEmpty = append(nonEmpty, piece)
		}
	}
	//
	var kept []Basic
	//
	for i, piece := range nonEmpty {
		contained := false
		//
		for j, other := range nonEmpty {
			if i == j {
				continue
			}
			//
			if p.pieceSubset(piece, other) && (j < i || !p.pieceSubset(other, piece)) {
				contained = true
				break
			}
		}
		//
		if !contained {
			kept = append(kept, piece)
		}
	}
	//
	return Set{Space: p.Space, Pieces: kept}
}

// pieceSubset checks containment of one convex piece in another.
func (p Set) pieceSubset(a Basic, b Basic) bool {
	lhs := Set{Space: p.Space, Pieces: []Basic{a}}
	rhs := Set{Space: p.Space, Pieces: []Basic{b}}
	//
	return lhs.IsSubset(rhs)
}

// Params projects this set onto its parameter space.
func (p Set) Params() Set {
	n := p.Space.TotalDims()
	cols := make([]int, n)
	//
	for i := 0; i < n; i++ {
		cols[i] = 1 + len(p.Space.Params) + i
	}
	//
	return p.eliminate(cols, p.Space.ParamsOnly())
}

// FromParams lifts a parameter set to a zero-dimensional set space.
func (p Set) FromParams() Set {
	if !p.Space.IsParams() {
		panic("set does not live in a parameter space")
	}
	//
	return Set{
		Space:  SetSpace(Ident{}, 0, cloneIdents(p.Space.Params)...),
		Pieces: clonePieces(p.Pieces),
	}
}

// AddDims appends n unconstrained trailing dimensions to the set tuple.
func (p Set) AddDims(n int) Set {
	return p.InsertDims(p.Space.SetDims(), n)
}

// InsertDims inserts n unconstrained dimensions at the given tuple position.
func (p Set) InsertDims(pos int, n int) Set {
	space := Space{Params: cloneIdents(p.Space.Params), Tuples: cloneTuples(p.Space.Tuples)}
	space.Tuples[0].N += n
	space.Tuples[0].Wraps = nil
	//
	col := 1 + len(p.Space.Params) + pos
	pieces := make([]Basic, len(p.Pieces))
	//
	for i, piece := range p.Pieces {
		pieces[i] = piece.insertCols(col, n)
	}
	//
	return Set{Space: space, Pieces: pieces}
}

// ProjectOutParam existentially quantifies the parameter at the given
// position.
func (p Set) ProjectOutParam(pos int) Set {
	return p.eliminate([]int{1 + pos}, p.Space.DropParam(pos))
}

// ProjectOutDims existentially quantifies n dimensions starting at first.
func (p Set) ProjectOutDims(first int, n int) Set {
	cols := make([]int, n)
	for i := 0; i < n; i++ {
		cols[i] = 1 + len(p.Space.Params) + first + i
	}
	//
	space := Space{Params: cloneIdents(p.Space.Params), Tuples: cloneTuples(p.Space.Tuples)}
	space.Tuples[0].N -= n
	space.Tuples[0].Wraps = nil
	//
	return p.eliminate(cols, space)
}

// RemoveNestedParams projects out any nested-expression parameters, keeping
// the set free of internal bookkeeping identities.
func (p Set) RemoveNestedParams() Set {
	out := p
	//
	for {
		pos := -1
		//
		for i, q := range out.Space.Params {
			if q.IsNested() {
				pos = i
				break
			}
		}
		//
		if pos < 0 {
			return out
		}
		//
		out = out.ProjectOutParam(pos)
	}
}

// eliminate projects out the given row columns, placing the result in the
// given space.  Columns must be in ascending order.
func (p Set) eliminate(cols []int, space Space) Set {
	sorted := append([]int{}, cols...)
	sort.Ints(sorted)
	//
	var pieces []Basic
	//
	for _, piece := range p.Pieces {
		if out, ok := eliminateCols(piece, sorted); ok {
			pieces = append(pieces, out)
		}
	}
	//
	return Set{Space: space, Pieces: pieces}
}

// AddConstraint intersects this set with a single constraint.
func (p Set) AddConstraint(c Constraint) Set {
	pieces := make([]Basic, 0, len(p.Pieces))
	//
	for _, piece := range p.Pieces {
		merged := piece.clone()
		merged.Cs = append(merged.Cs, c.clone())
		//
		if simplified, ok := simplifyBasic(merged); ok {
			pieces = append(pieces, simplified)
		}
	}
	//
	return Set{Space: p.Space, Pieces: pieces}
}

// FixDim constrains the dimension at the given position to a constant value.
func (p Set) FixDim(pos int, val int64) Set {
	row := make([]int64, p.width())
	row[0] = -val
	row[1+len(p.Space.Params)+pos] = 1
	//
	return p.AddConstraint(Equality(row))
}

// LowerBoundDim constrains the dimension at the given position from below.
func (p Set) LowerBoundDim(pos int, val int64) Set {
	row := make([]int64, p.width())
	row[0] = -val
	row[1+len(p.Space.Params)+pos] = 1
	//
	return p.AddConstraint(Inequality(row))
}

// UpperBoundDim constrains the dimension at the given position from above.
func (p Set) UpperBoundDim(pos int, val int64) Set {
	row := make([]int64, p.width())
	row[0] = val
	row[1+len(p.Space.Params)+pos] = -1
	//
	return p.AddConstraint(Inequality(row))
}

// EquateParamDim equates the parameter at paramPos with the dimension at
// dimPos.
func (p Set) EquateParamDim(paramPos int, dimPos int) Set {
	row := make([]int64, p.width())
	row[1+paramPos] = 1
	row[1+len(p.Space.Params)+dimPos] = -1
	//
	return p.AddConstraint(Equality(row))
}

// DimFixedVal reports whether the dimension at the given position is fixed to
// a single constant value across the whole set, and if so which.
func (p Set) DimFixedVal(pos int) (int64, bool) {
	var (
		val   int64
		found bool
		col   = 1 + len(p.Space.Params) + pos
	)
	//
	for _, piece := range p.Pieces {
		fixed := false
		//
		for _, c := range piece.Cs {
			if !c.Eq || (c.Row[col] != 1 && c.Row[col] != -1) {
				continue
			}
			// Only a plain binding dim = constant is recognised.
			plain := true
			//
			for j := 1; j < len(c.Row); j++ {
				if j != col && c.Row[j] != 0 {
					plain = false
					break
				}
			}
			//
			if !plain {
				continue
			}
			//
			v := -c.Row[0] * c.Row[col]
			//
			if found && v != val {
				return 0, false
			}
			//
			val, found, fixed = v, true, true
			//
			break
		}
		//
		if !fixed {
			return 0, false
		}
	}
	//
	return val, found
}

// FlatProduct concatenates the dimensions of two sets into a single
// anonymous tuple.
func (p Set) FlatProduct(other Set) Set {
	lhs, rhs := alignSets(p, other)
	//
	n1, n2 := lhs.Space.SetDims(), rhs.Space.SetDims()
	space := SetSpace(Ident{}, n1+n2, cloneIdents(lhs.Space.Params)...)
	//
	var pieces []Basic
	//
	for _, a := range lhs.Pieces {
		ea := a.insertCols(1+len(lhs.Space.Params)+n1, n2)
		//
		for _, b := range rhs.Pieces {
			eb := b.insertCols(1+len(lhs.Space.Params), n1)
			merged := Basic{Cs: append(append([]Constraint{}, ea.Cs...), eb.Cs...)}
			//
			if simplified, ok := simplifyBasic(merged); ok {
				pieces = append(pieces, simplified)
			}
		}
	}
	//
	return Set{Space: space, Pieces: pieces}
}

// SetTupleID renames the tuple of this set.
func (p Set) SetTupleID(id Ident) Set {
	space := Space{Params: cloneIdents(p.Space.Params), Tuples: cloneTuples(p.Space.Tuples)}
	space.Tuples[0].ID = id
	//
	return Set{Space: space, Pieces: clonePieces(p.Pieces)}
}

// TupleID returns the identity of this set's tuple.
func (p Set) TupleID() Ident {
	return p.Space.Tuples[0].ID
}

// HasTupleID reports whether this set's tuple carries an identity.
func (p Set) HasTupleID() bool {
	return p.Space.IsSet() && !p.Space.Tuples[0].ID.IsZero()
}

// IsWrapping reports whether this set wraps a relation.
func (p Set) IsWrapping() bool {
	return p.Space.IsWrapping()
}

// Unwrap recovers the relation wrapped by this set.
func (p Set) Unwrap() Map {
	return Map{Space: p.Space.Unwrap(), Pieces: clonePieces(p.Pieces)}
}

// Identity returns the identity relation on this set.
func (p Set) Identity() Map {
	n := p.Space.SetDims()
	space := MapSpace(p.Space.Tuples[0], p.Space.Tuples[0], cloneIdents(p.Space.Params)...)
	//
	result := Map{Space: space}
	//
	for _, piece := range p.Pieces {
		result.Pieces = append(result.Pieces, piece.insertCols(1+len(p.Space.Params)+n, n))
	}
	//
	for i := 0; i < n; i++ {
		row := make([]int64, 1+len(p.Space.Params)+2*n)
		row[1+len(p.Space.Params)+i] = 1
		row[1+len(p.Space.Params)+n+i] = -1
		result = result.AddConstraint(Equality(row))
	}
	//
	return result
}

// PreimageMultiAff returns the preimage of this set under the given affine
// map, i.e. the points of the map's domain whose image lies in this set.
func (p Set) PreimageMultiAff(ma MultiAff) Set {
	if len(ma.Affs) != p.Space.SetDims() {
		panic("affine map arity does not match set dimension")
	}
	//
	params := mergeParams(ma.Domain.Params, p.Space.Params)
	space := Space{Params: params, Tuples: cloneTuples(ma.Domain.Tuples)}
	//
	var pieces []Basic
	//
	for _, piece := range p.Pieces {
		out := Basic{}
		ok := true
		//
		for _, c := range piece.Cs {
			row := substituteDims(c.Row, p.Space, ma, space)
			//
			nc, feasible := Constraint{Eq: c.Eq, Row: row}.normalise()
			if !feasible || nc.isConflict() {
				ok = false
				break
			}
			//
			if !nc.isTrivial() {
				out.Cs = append(out.Cs, nc)
			}
		}
		//
		if ok {
			pieces = append(pieces, out)
		}
	}
	//
	return Set{Space: space, Pieces: pieces}
}

// substituteDims rewrites a constraint row over the output space of "ma" into
// a row over its domain space (with parameters aligned to "target").
func substituteDims(row []int64, from Space, ma MultiAff, target Space) []int64 {
	out := make([]int64, 1+len(target.Params)+target.TotalDims())
	// Constant column carries over.
	out[0] = row[0]
	// Original parameter columns carry over by name.
	for i, q := range from.Params {
		out[1+target.FindParam(q)] += row[1+i]
	}
	// Each dimension is replaced by its defining affine expression.
	for j := 0; j < from.TotalDims(); j++ {
		coeff := row[1+len(from.Params)+j]
		if coeff == 0 {
			continue
		}
		//
		aff := ma.Affs[j]
		out[0] += coeff * aff.Row[0]
		//
		for i, q := range aff.Domain.Params {
			out[1+target.FindParam(q)] += coeff * aff.Row[1+i]
		}
		//
		for d := 0; d < aff.Domain.TotalDims(); d++ {
			out[1+len(target.Params)+d] += coeff * aff.Row[1+len(aff.Domain.Params)+d]
		}
	}
	//
	return out
}

// Gist returns the simplest set equal to this one within "context": any
// constraint already implied by the context is dropped.
func (p Set) Gist(context Set) Set {
	lhs, ctx := alignSets(p, context)
	//
	var pieces []Basic
	//
	for _, piece := range lhs.Pieces {
		kept := Basic{}
		//
		for i, c := range piece.Cs {
			// Test whether the context, restricted to the remaining
			// constraints, already implies c.
			rest := Basic{Cs: append([]Constraint{}, piece.Cs[:i]...)}
			rest.Cs = append(rest.Cs, kept.Cs...)
			//
			implied := true
			//
			for _, neg := range c.negate() {
				test := Basic{Cs: append(append([]Constraint{}, rest.Cs...), neg)}
				//
				for _, cp := range ctx.Pieces {
					full := Basic{Cs: append(append([]Constraint{}, test.Cs...), cp.Cs...)}
					if !basicIsEmpty(full, lhs.width()) {
						implied = false
						break
					}
				}
				//
				if !implied {
					break
				}
			}
			//
			if !implied {
				kept.Cs = append(kept.Cs, c)
			}
		}
		//
		pieces = append(pieces, kept)
	}
	//
	return Set{Space: lhs.Space, Pieces: pieces}.Coalesce()
}

// GistParams simplifies this set relative to a parameter-space context.
func (p Set) GistParams(context Set) Set {
	return p.Gist(context.extendTo(p.Space))
}

// IntersectParams intersects this set with constraints on its parameters.
func (p Set) IntersectParams(context Set) Set {
	return p.Intersect(context.extendTo(p.Space))
}

// extendTo reinterprets a parameter set over a larger space by leaving all
// dimensions unconstrained.
func (p Set) extendTo(space Space) Set {
	if !p.Space.IsParams() {
		panic("cannot extend non-parameter set")
	}
	//
	params := mergeParams(space.Params, p.Space.Params)
	target := Space{Params: params, Tuples: cloneTuples(space.Tuples)}
	perm := paramPerm(p.Space, target)
	//
	var pieces []Basic
	for _, piece := range p.Pieces {
		pieces = append(pieces, piece.permuteCols(perm, 1+len(params)+target.TotalDims()))
	}
	//
	return Set{Space: target, Pieces: pieces}
}

// AlignParams re-expresses this set over the given parameter list, which must
// contain every parameter the set references.
func (p Set) AlignParams(params []Ident) Set {
	merged := mergeParams(params, p.Space.Params)
	target := Space{Params: merged, Tuples: cloneTuples(p.Space.Tuples)}
	perm := paramPerm(p.Space, target)
	//
	var pieces []Basic
	for _, piece := range p.Pieces {
		pieces = append(pieces, piece.permuteCols(perm, 1+len(merged)+target.TotalDims()))
	}
	//
	return Set{Space: target, Pieces: pieces}
}

// Anonymize strips all external identity tags from this set's space.
func (p Set) Anonymize() Set {
	return Set{Space: p.Space.anonymize(), Pieces: clonePieces(p.Pieces)}
}

// alignSets brings two sets over a common merged parameter list.
func alignSets(a Set, b Set) (Set, Set) {
	if paramsEqual(a.Space.Params, b.Space.Params) {
		return a, b
	}
	//
	merged := mergeParams(a.Space.Params, b.Space.Params)
	//
	return a.AlignParams(merged), b.AlignParams(merged)
}

// paramPerm computes the column permutation taking rows over "from" to rows
// over "to", where "to" contains all of "from"'s parameters and tuples of the
// same total arity.
func paramPerm(from Space, to Space) []int {
	width := 1 + len(from.Params) + from.TotalDims()
	perm := make([]int, width)
	perm[0] = 0
	//
	for i, q := range from.Params {
		pos := to.FindParam(q)
		if pos < 0 {
			panic("parameter lost during alignment")
		}
		//
		perm[1+i] = 1 + pos
	}
	//
	for d := 0; d < from.TotalDims(); d++ {
		perm[1+len(from.Params)+d] = 1 + len(to.Params) + d
	}
	//
	return perm
}

func paramsEqual(a []Ident, b []Ident) bool {
	if len(a) != len(b) {
		return false
	}
	//
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	//
	return true
}

func clonePieces(pieces []Basic) []Basic {
	out := make([]Basic, len(pieces))
	for i, piece := range pieces {
		out[i] = piece.clone()
	}
	//
	return out
}
