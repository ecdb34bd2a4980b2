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

// UnionSet is a collection of sets living in distinct spaces.
type UnionSet struct {
	Sets []Set
}

// EmptyUnionSet constructs a union over no spaces.
func EmptyUnionSet() UnionSet {
	return UnionSet{}
}

// Add merges one more set into the union, unioning with any existing set of
// the same space.
func (p UnionSet) Add(set Set) UnionSet {
	for i, s := range p.Sets {
		if spacesCompatible(s.Space, set.Space) && s.Space.Tuples[0].ID == set.Space.Tuples[0].ID {
			out := UnionSet{Sets: append([]Set{}, p.Sets...)}
			out.Sets[i] = s.Union(set)
			//
			return out
		}
	}
	//
	return UnionSet{Sets: append(append([]Set{}, p.Sets...), set)}
}

// IsEmpty reports whether every member set is empty.
func (p UnionSet) IsEmpty() bool {
	for _, s := range p.Sets {
		if !s.IsEmpty() {
			return false
		}
	}
	//
	return true
}

// UnionMap is a collection of relations living in distinct spaces.
type UnionMap struct {
	Maps []Map
}

// EmptyUnionMap constructs a union over no spaces.
func EmptyUnionMap() UnionMap {
	return UnionMap{}
}

// Add merges one more relation into the union.
func (p UnionMap) Add(m Map) UnionMap {
	for i, q := range p.Maps {
		if spacesCompatible(q.Space, m.Space) &&
			q.InTupleID() == m.InTupleID() && q.OutTupleID() == m.OutTupleID() {
			out := UnionMap{Maps: append([]Map{}, p.Maps...)}
			out.Maps[i] = q.Union(m)
			//
			return out
		}
	}
	//
	return UnionMap{Maps: append(append([]Map{}, p.Maps...), m)}
}

// Union merges two unions.
func (p UnionMap) Union(other UnionMap) UnionMap {
	out := p
	for _, m := range other.Maps {
		out = out.Add(m)
	}
	//
	return out
}

// IntersectRange restricts each member relation to outputs contained in a
// matching member of "ranges"; relations without a matching member are
// dropped.
func (p UnionMap) IntersectRange(ranges UnionSet) UnionMap {
	out := EmptyUnionMap()
	//
	for _, m := range p.Maps {
		for _, s := range ranges.Sets {
			if m.Space.Tuples[1].equal(s.Space.Tuples[0]) {
				out = out.Add(m.IntersectRange(s))
				break
			}
		}
	}
	//
	return out
}

// ApplyRange composes each member with every member of "other" whose input
// tuple matches its output tuple.
func (p UnionMap) ApplyRange(other UnionMap) UnionMap {
	out := EmptyUnionMap()
	//
	for _, m := range p.Maps {
		for _, q := range other.Maps {
			if m.Space.Tuples[1].equal(q.Space.Tuples[0]) {
				out = out.Add(m.ApplyRange(q))
			}
		}
	}
	//
	return out
}

// IsEmpty reports whether every member relation is empty.
func (p UnionMap) IsEmpty() bool {
	for _, m := range p.Maps {
		if !m.IsEmpty() {
			return false
		}
	}
	//
	return true
}

// Equal reports whether the two unions contain the same pairs: every member
// of each must be contained in the union of matching members of the other.
func (p UnionMap) Equal(other UnionMap) bool {
	return p.subsetOf(other) && other.subsetOf(p)
}

func (p UnionMap) subsetOf(other UnionMap) bool {
	for _, m := range p.Maps {
		rest := m
		found := false
		//
		for _, q := range other.Maps {
			if m.Space.Tuples[0].equal(q.Space.Tuples[0]) &&
				m.Space.Tuples[1].equal(q.Space.Tuples[1]) {
				found = true
				//
				if !rest.IsSubset(q) {
					// Accumulate: containment may be split across members.
					rest = Map{Space: rest.Space, Pieces: rest.Wrap().Subtract(q.Wrap()).Pieces}
				} else {
					rest = EmptyMap(rest.Space)
					break
				}
			}
		}
		//
		if !found && !m.IsEmpty() {
			return false
		}
		//
		if !rest.IsEmpty() {
			return false
		}
	}
	//
	return true
}
