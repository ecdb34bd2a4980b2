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

// Constraint is a single affine constraint over a space.  The row is laid out
// as [constant, parameter coefficients..., dimension coefficients...], where
// the dimensions of all tuples are flattened in order.  An equality constrains
// the row to be zero; an inequality constrains it to be non-negative.
type Constraint struct {
	Eq  bool
	Row []int64
}

// Equality constructs an equality constraint from the given row.
func Equality(row []int64) Constraint {
	return Constraint{Eq: true, Row: row}
}

// Inequality constructs a non-negativity constraint from the given row.
func Inequality(row []int64) Constraint {
	return Constraint{Eq: false, Row: row}
}

func (p Constraint) clone() Constraint {
	row := make([]int64, len(p.Row))
	copy(row, p.Row)
	//
	return Constraint{Eq: p.Eq, Row: row}
}

// negate returns the integer negation of this constraint as one or two
// inequalities.  For an inequality e >= 0 this is -e - 1 >= 0; for an
// equality e = 0 it is the pair e - 1 >= 0 and -e - 1 >= 0.
func (p Constraint) negate() []Constraint {
	if p.Eq {
		pos := p.clone()
		pos.Eq = false
		pos.Row[0]--
		//
		neg := p.clone()
		neg.Eq = false
		negateRow(neg.Row)
		neg.Row[0]--
		//
		return []Constraint{pos, neg}
	}
	//
	neg := p.clone()
	negateRow(neg.Row)
	neg.Row[0]--
	//
	return []Constraint{neg}
}

func (p Constraint) equal(other Constraint) bool {
	if p.Eq != other.Eq || len(p.Row) != len(other.Row) {
		return false
	}
	//
	for i := range p.Row {
		if p.Row[i] != other.Row[i] {
			return false
		}
	}
	//
	return true
}

// isTrivial reports whether this constraint holds for every point (i.e. has
// no variable coefficients and an acceptable constant).
func (p Constraint) isTrivial() bool {
	for _, c := range p.Row[1:] {
		if c != 0 {
			return false
		}
	}
	//
	if p.Eq {
		return p.Row[0] == 0
	}
	//
	return p.Row[0] >= 0
}

// isConflict reports whether this constraint holds for no point.
func (p Constraint) isConflict() bool {
	for _, c := range p.Row[1:] {
		if c != 0 {
			return false
		}
	}
	//
	if p.Eq {
		return p.Row[0] != 0
	}
	//
	return p.Row[0] < 0
}

// Basic is a conjunction of affine constraints (a convex piece of a set or
// relation).
type Basic struct {
	Cs []Constraint
}

func (p Basic) clone() Basic {
	cs := make([]Constraint, len(p.Cs))
	for i, c := range p.Cs {
		cs[i] = c.clone()
	}
	//
	return Basic{Cs: cs}
}

func (p Basic) equal(other Basic) bool {
	if len(p.Cs) != len(other.Cs) {
		return false
	}
	//
	for i := range p.Cs {
		if !p.Cs[i].equal(other.Cs[i]) {
			return false
		}
	}
	//
	return true
}

// insertCols inserts n zero columns at the given column position in every
// constraint (position counted over the full row, including the constant).
func (p Basic) insertCols(pos int, n int) Basic {
	cs := make([]Constraint, len(p.Cs))
	//
	for i, c := range p.Cs {
		row := make([]int64, 0, len(c.Row)+n)
		row = append(row, c.Row[:pos]...)
		row = append(row, make([]int64, n)...)
		row = append(row, c.Row[pos:]...)
		cs[i] = Constraint{Eq: c.Eq, Row: row}
	}
	//
	return Basic{Cs: cs}
}

// permuteCols rearranges every row according to perm, where perm[i] gives the
// destination column of source column i.  The resulting rows have width n.
func (p Basic) permuteCols(perm []int, n int) Basic {
	cs := make([]Constraint, len(p.Cs))
	//
	for i, c := range p.Cs {
		row := make([]int64, n)
		for j, v := range c.Row {
			row[perm[j]] = v
		}
		//
		cs[i] = Constraint{Eq: c.Eq, Row: row}
	}
	//
	return Basic{Cs: cs}
}

func negateRow(row []int64) {
	for i := range row {
		row[i] = -row[i]
	}
}

func gcd64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	//
	if b < 0 {
		b = -b
	}
	//
	for b != 0 {
		a, b = b, a%b
	}
	//
	return a
}

// normalise divides the row through by the gcd of its coefficients.  For an
// inequality the constant is rounded towards negative infinity, which is the
// integer tightening step; for an equality a non-dividing constant marks the
// constraint (and hence the piece) as infeasible.
func (p Constraint) normalise() (Constraint, bool) {
	var g int64
	//
	for _, c := range p.Row[1:] {
		g = gcd64(g, c)
	}
	//
	if g == 0 || g == 1 {
		return p, true
	}
	//
	out := p.clone()
	//
	if p.Eq {
		if p.Row[0]%g != 0 {
			return p, false
		}
		//
		out.Row[0] = p.Row[0] / g
	} else {
		out.Row[0] = floorDiv(p.Row[0], g)
	}
	//
	for i := 1; i < len(out.Row); i++ {
		out.Row[i] = p.Row[i] / g
	}
	//
	return out, true
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	//
	return q
}
