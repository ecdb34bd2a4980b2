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

// String renders this set in a compact mathematical notation, e.g.
// "[n] -> { S_0[i0] : i0 >= 0 and -i0 + n - 1 >= 0 }".
func (p Set) String() string {
	return renderPieces(p.Space, p.Pieces)
}

// String renders this relation in the same notation, with input and output
// tuples separated by an arrow.
func (p Map) String() string {
	return renderPieces(p.Space, p.Pieces)
}

// String renders every member set, one per line.
func (p UnionSet) String() string {
	lines := make([]string, len(p.Sets))
	for i, s := range p.Sets {
		lines[i] = s.String()
	}
	//
	return strings.Join(lines, "\n")
}

// String renders every member relation, one per line.
func (p UnionMap) String() string {
	lines := make([]string, len(p.Maps))
	for i, m := range p.Maps {
		lines[i] = m.String()
	}
	//
	return strings.Join(lines, "\n")
}

func renderPieces(space Space, pieces []Basic) string {
	var builder strings.Builder
	//
	if len(space.Params) > 0 {
		builder.WriteString("[")
		//
		for i, q := range space.Params {
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
	if len(pieces) == 0 {
		builder.WriteString(renderTuples(space))
		builder.WriteString(" : false }")
		//
		return builder.String()
	}
	//
	for i, piece := range pieces {
		if i != 0 {
			builder.WriteString("; ")
		}
		//
		builder.WriteString(renderTuples(space))
		//
		if len(piece.Cs) > 0 {
			builder.WriteString(" : ")
			//
			for j, c := range piece.Cs {
				if j != 0 {
					builder.WriteString(" and ")
				}
				//
				builder.WriteString(renderConstraint(space, c))
			}
		}
	}
	//
	builder.WriteString(" }")
	//
	return builder.String()
}

func renderTuples(space Space) string {
	var parts []string
	//
	offset := 0
	//
	for _, t := range space.Tuples {
		names := make([]string, t.N)
		for i := range names {
			names[i] = dimName(offset + i)
		}
		//
		parts = append(parts, fmt.Sprintf("%s[%s]", t.ID.Name, strings.Join(names, ", ")))
		offset += t.N
	}
	//
	return strings.Join(parts, " -> ")
}

func renderConstraint(space Space, c Constraint) string {
	var terms []string
	//
	if c.Row[0] != 0 {
		terms = append(terms, fmt.Sprintf("%d", c.Row[0]))
	}
	//
	for i, q := range space.Params {
		terms = appendTerm(terms, c.Row[1+i], q.Name)
	}
	//
	for d := 0; d < space.TotalDims(); d++ {
		terms = appendTerm(terms, c.Row[1+len(space.Params)+d], dimName(d))
	}
	//
	if len(terms) == 0 {
		terms = append(terms, "0")
	}
	//
	op := ">="
	if c.Eq {
		op = "="
	}
	//
	return fmt.Sprintf("%s %s 0", strings.Join(terms, " + "), op)
}

func appendTerm(terms []string, coeff int64, name string) []string {
	switch coeff {
	case 0:
		return terms
	case 1:
		return append(terms, name)
	case -1:
		return append(terms, "-"+name)
	}
	//
	return append(terms, fmt.Sprintf("%d%s", coeff, name))
}

func dimName(i int) string {
	return fmt.Sprintf("i%d", i)
}
