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

// Aff is an integer affine expression over the dimensions and parameters of a
// domain space, laid out as [constant, parameter coefficients..., dimension
// coefficients...].
type Aff struct {
	Domain Space
	Row    []int64
}

// AffConstant constructs the constant expression k over the given domain.
func AffConstant(domain Space, k int64) Aff {
	row := make([]int64, 1+len(domain.Params)+domain.TotalDims())
	row[0] = k
	//
	return Aff{Domain: domain, Row: row}
}

// AffVarOnDomain constructs the expression returning the dimension at the
// given position of the domain.
func AffVarOnDomain(domain Space, pos int) Aff {
	row := make([]int64, 1+len(domain.Params)+domain.TotalDims())
	row[1+len(domain.Params)+pos] = 1
	//
	return Aff{Domain: domain, Row: row}
}

// Scale multiplies this expression by a constant.
func (p Aff) Scale(k int64) Aff {
	row := make([]int64, len(p.Row))
	for i, v := range p.Row {
		row[i] = k * v
	}
	//
	return Aff{Domain: p.Domain, Row: row}
}

// AddConstant adds a constant to this expression.
func (p Aff) AddConstant(k int64) Aff {
	row := make([]int64, len(p.Row))
	copy(row, p.Row)
	row[0] += k
	//
	return Aff{Domain: p.Domain, Row: row}
}

// Compose1 treats this expression as a map over a one-dimensional domain and
// composes it with "arg", i.e. computes p(arg(x)) over arg's domain.
func (p Aff) Compose1(arg Aff) Aff {
	if p.Domain.TotalDims() != 1 {
		panic("composition requires a one-dimensional domain")
	}
	//
	params := mergeParams(arg.Domain.Params, p.Domain.Params)
	domain := Space{Params: params, Tuples: cloneTuples(arg.Domain.Tuples)}
	row := make([]int64, 1+len(params)+domain.TotalDims())
	//
	coeff := p.Row[len(p.Row)-1]
	row[0] = p.Row[0] + coeff*arg.Row[0]
	//
	for i, q := range p.Domain.Params {
		row[1+domain.FindParam(q)] += p.Row[1+i]
	}
	//
	for i, q := range arg.Domain.Params {
		row[1+domain.FindParam(q)] += coeff * arg.Row[1+i]
	}
	//
	for d := 0; d < arg.Domain.TotalDims(); d++ {
		row[1+len(params)+d] = coeff * arg.Row[1+len(arg.Domain.Params)+d]
	}
	//
	return Aff{Domain: domain, Row: row}
}

// EvalConstraint builds the constraint "param[pos] == p" over the given set
// space, whose leading dimensions correspond to this expression's domain.
func (p Aff) EvalConstraint(space Space, pos int) Constraint {
	row := make([]int64, 1+len(space.Params)+space.TotalDims())
	row[1+pos] = 1
	// subtract the affine expression
	row[0] -= p.Row[0]
	//
	for i, q := range p.Domain.Params {
		target := space.FindParam(q)
		if target < 0 {
			panic("unaligned parameter in affine expression")
		}
		//
		row[1+target] -= p.Row[1+i]
	}
	//
	for d := 0; d < p.Domain.TotalDims(); d++ {
		row[1+len(space.Params)+d] -= p.Row[1+len(p.Domain.Params)+d]
	}
	//
	return Equality(row)
}

// Equal reports structural equality of two affine expressions.
func (p Aff) Equal(other Aff) bool {
	if !p.Domain.Equal(other.Domain) || len(p.Row) != len(other.Row) {
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

// MultiAff is a tuple of affine expressions sharing one domain, defining an
// affine map from that domain into the given output tuple.
type MultiAff struct {
	Domain Space
	Out    Tuple
	Affs   []Aff
}

// MultiAffIdentity constructs the identity map on the given set space.
func MultiAffIdentity(space Space) MultiAff {
	n := space.SetDims()
	affs := make([]Aff, n)
	//
	for i := 0; i < n; i++ {
		affs[i] = AffVarOnDomain(space, i)
	}
	//
	return MultiAff{Domain: space, Out: space.Tuples[0], Affs: affs}
}

// PrefixProjection constructs the affine map projecting the given set space
// onto its first n dimensions.
func PrefixProjection(space Space, n int) MultiAff {
	affs := make([]Aff, n)
	//
	for i := 0; i < n; i++ {
		affs[i] = AffVarOnDomain(space, i)
	}
	//
	return MultiAff{Domain: space, Out: Tuple{N: n}, Affs: affs}
}
