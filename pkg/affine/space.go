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

import (
	"fmt"
	"strings"
)

// Tuple describes one dimension tuple of a space: an optional identity, an
// arity and, for wrapped tuples, the relation space being wrapped.  A wrapped
// tuple flattens the dimensions of the wrapped relation (domain dimensions
// first).
type Tuple struct {
	ID    Ident
	N     int
	Wraps *Space
}

// Space describes the shape every set, relation and affine expression is
// defined over: an ordered list of named symbolic parameters followed by zero
// (parameter space), one (set space) or two (relation space) dimension tuples.
type Space struct {
	Params []Ident
	Tuples []Tuple
}

// ParamSpace constructs a space holding only the given parameters.
func ParamSpace(params ...Ident) Space {
	return Space{Params: params}
}

// SetSpace constructs a set space with the given tuple identity and arity.
func SetSpace(id Ident, n int, params ...Ident) Space {
	return Space{Params: params, Tuples: []Tuple{{ID: id, N: n}}}
}

// MapSpace constructs a relation space from the given input and output tuples.
func MapSpace(in Tuple, out Tuple, params ...Ident) Space {
	return Space{Params: params, Tuples: []Tuple{in, out}}
}

// IsParams reports whether this is a pure parameter space.
func (p Space) IsParams() bool { return len(p.Tuples) == 0 }

// IsSet reports whether this is a set space.
func (p Space) IsSet() bool { return len(p.Tuples) == 1 }

// IsMap reports whether this is a relation space.
func (p Space) IsMap() bool { return len(p.Tuples) == 2 }

// IsWrapping reports whether this is a set space wrapping a relation space.
func (p Space) IsWrapping() bool {
	return p.IsSet() && p.Tuples[0].Wraps != nil
}

// TotalDims returns the number of flattened dimensions across all tuples.
func (p Space) TotalDims() int {
	n := 0
	for _, t := range p.Tuples {
		n += t.N
	}

	return n
}

// InDims returns the arity of the input tuple of a relation space.
func (p Space) InDims() int {
	if !p.IsMap() {
		panic("space is not a relation space")
	}

	return p.Tuples[0].N
}

// OutDims returns the arity of the output tuple of a relation space.
func (p Space) OutDims() int {
	if !p.IsMap() {
		panic("space is not a relation space")
	}

	return p.Tuples[1].N
}

// SetDims returns the arity of the tuple of a set space.
func (p Space) SetDims() int {
	if !p.IsSet() {
		panic("space is not a set space")
	}

	return p.Tuples[0].N
}

// Wrap turns a relation space into the set space wrapping it.
func (p Space) Wrap() Space {
	if !p.IsMap() {
		panic("cannot wrap non-relation space")
	}
	//
	inner := Space{Params: cloneIdents(p.Params), Tuples: cloneTuples(p.Tuples)}
	//
	return Space{
		Params: cloneIdents(p.Params),
		Tuples: []Tuple{{N: p.TotalDims(), Wraps: &inner}},
	}
}

// Unwrap recovers the relation space wrapped by this set space.
func (p Space) Unwrap() Space {
	if !p.IsWrapping() {
		panic("cannot unwrap non-wrapping space")
	}
	//
	w := *p.Tuples[0].Wraps
	//
	return Space{Params: cloneIdents(p.Params), Tuples: cloneTuples(w.Tuples)}
}

// Domain returns the set space corresponding to the input tuple.
func (p Space) Domain() Space {
	if !p.IsMap() {
		panic("space is not a relation space")
	}

	return Space{Params: cloneIdents(p.Params), Tuples: []Tuple{p.Tuples[0]}}
}

// Range returns the set space corresponding to the output tuple.
func (p Space) Range() Space {
	if !p.IsMap() {
		panic("space is not a relation space")
	}

	return Space{Params: cloneIdents(p.Params), Tuples: []Tuple{p.Tuples[1]}}
}

// ParamsOnly projects this space onto its parameters.
func (p Space) ParamsOnly() Space {
	return Space{Params: cloneIdents(p.Params)}
}

// FindParam returns the position of the given parameter identity, or -1.
func (p Space) FindParam(id Ident) int {
	for i, q := range p.Params {
		if q == id {
			return i
		}
	}

	return -1
}

// DropParam removes the parameter at the given position.
func (p Space) DropParam(pos int) Space {
	params := make([]Ident, 0, len(p.Params)-1)
	params = append(params, p.Params[:pos]...)
	params = append(params, p.Params[pos+1:]...)
	//
	return Space{Params: params, Tuples: cloneTuples(p.Tuples)}
}

// Equal reports whether the two spaces have identical parameters and tuples.
func (p Space) Equal(other Space) bool {
	if len(p.Params) != len(other.Params) || len(p.Tuples) != len(other.Tuples) {
		return false
	}
	//
	for i := range p.Params {
		if p.Params[i] != other.Params[i] {
			return false
		}
	}
	//
	for i := range p.Tuples {
		if !p.Tuples[i].equal(other.Tuples[i]) {
			return false
		}
	}
	//
	return true
}

func (p Tuple) equal(other Tuple) bool {
	if p.ID != other.ID || p.N != other.N {
		return false
	}
	//
	if (p.Wraps == nil) != (other.Wraps == nil) {
		return false
	}
	//
	if p.Wraps != nil && !p.Wraps.Equal(*other.Wraps) {
		return false
	}
	//
	return true
}

func (p Space) String() string {
	var builder strings.Builder
	//
	if len(p.Params) > 0 {
		builder.WriteString("[")
		//
		for i, q := range p.Params {
			if i != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(q.Name)
		}
		//
		builder.WriteString("] -> ")
	}
	//
	builder.WriteString("{ ")
	//
	for i, t := range p.Tuples {
		if i != 0 {
			builder.WriteString(" -> ")
		}
		//
		builder.WriteString(t.String())
	}
	//
	builder.WriteString(" }")
	//
	return builder.String()
}

func (p Tuple) String() string {
	if p.Wraps != nil {
		return fmt.Sprintf("[%s]", p.Wraps.String())
	}
	//
	return fmt.Sprintf("%s[%d]", p.ID.Name, p.N)
}

// anonymize strips external tags from all identities in this space.
func (p Space) anonymize() Space {
	params := make([]Ident, len(p.Params))
	for i, q := range p.Params {
		params[i] = q.Anonymize()
	}
	//
	tuples := make([]Tuple, len(p.Tuples))
	//
	for i, t := range p.Tuples {
		tuples[i] = Tuple{ID: t.ID.Anonymize(), N: t.N}
		if t.Wraps != nil {
			w := t.Wraps.anonymize()
			tuples[i].Wraps = &w
		}
	}
	//
	return Space{Params: params, Tuples: tuples}
}

func cloneIdents(ids []Ident) []Ident {
	if ids == nil {
		return nil
	}
	//
	out := make([]Ident, len(ids))
	copy(out, ids)
	//
	return out
}

func cloneTuples(ts []Tuple) []Tuple {
	out := make([]Tuple, len(ts))
	//
	for i, t := range ts {
		out[i] = t
		if t.Wraps != nil {
			w := Space{Params: cloneIdents(t.Wraps.Params), Tuples: cloneTuples(t.Wraps.Tuples)}
			out[i].Wraps = &w
		}
	}
	//
	return out
}

// mergeParams returns the union of two parameter lists, preserving the order
// of the first and appending any parameters only present in the second.
func mergeParams(lhs []Ident, rhs []Ident) []Ident {
	merged := cloneIdents(lhs)
	//
	for _, q := range rhs {
		found := false
		//
		for _, p := range merged {
			if p == q {
				found = true
				break
			}
		}
		//
		if !found {
			merged = append(merged, q)
		}
	}
	//
	return merged
}
