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
package nest

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/util/sexp"
)

// collectIdents accumulates the identities of all non-literal symbols
// appearing in an affine term, skipping duplicates and operator heads.
func collectIdents(ids []affine.Ident, term sexp.SExp) []affine.Ident {
	if sym := term.AsSymbol(); sym != nil {
		if _, err := strconv.ParseInt(sym.Value, 10, 64); err == nil {
			return ids
		}
		//
		if isOperator(sym.Value) {
			return ids
		}
		//
		id := ident(sym.Value)
		//
		for _, q := range ids {
			if q == id {
				return ids
			}
		}
		//
		return append(ids, id)
	}
	//
	if list := term.AsList(); list != nil {
		for _, e := range list.Elements {
			ids = collectIdents(ids, e)
		}
	}
	//
	return ids
}

// isName reports whether a symbol is a plausible variable or array name:
// letters, digits and underscores, not starting with a digit.
func isName(name string) bool {
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	//
	return name != ""
}

func isOperator(name string) bool {
	switch name {
	case "+", "-", "*", "<", "<=", ">", ">=", "==", "and", "or":
		return true
	}
	//
	return false
}

// affRow translates an affine term into a coefficient row over the given
// space.  The row layout is [constant | parameters | dimensions].
func affRow(term sexp.SExp, space affine.Space) ([]int64, error) {
	width := 1 + len(space.Params) + space.TotalDims()
	//
	if sym := term.AsSymbol(); sym != nil {
		row := make([]int64, width)
		//
		if k, err := strconv.ParseInt(sym.Value, 10, 64); err == nil {
			row[0] = k
			return row, nil
		}
		//
		pos := space.FindParam(ident(sym.Value))
		if pos < 0 {
			return nil, fmt.Errorf("unknown symbol %s", sym.Value)
		}
		//
		row[1+pos] = 1
		//
		return row, nil
	}
	//
	list := term.AsList()
	if list == nil || list.Len() != 3 || list.Get(0).AsSymbol() == nil {
		return nil, fmt.Errorf("expected affine term, found %s", term.String(true))
	}
	//
	lhs, err := affRow(list.Get(1), space)
	if err != nil {
		return nil, err
	}
	//
	rhs, err := affRow(list.Get(2), space)
	if err != nil {
		return nil, err
	}
	//
	switch op := list.Get(0).AsSymbol().Value; op {
	case "+":
		return addRow(lhs, rhs), nil
	case "-":
		return subRow(lhs, rhs), nil
	case "*":
		// One operand must be constant.
		if k, ok := constantRow(lhs); ok {
			return scaleRow(rhs, k), nil
		}
		//
		if k, ok := constantRow(rhs); ok {
			return scaleRow(lhs, k), nil
		}
		//
		return nil, fmt.Errorf("non-affine product %s", term.String(true))
	default:
		return nil, fmt.Errorf("unknown operator %s", op)
	}
}

// condSet translates a comparison or boolean combination into the set of
// parameter values satisfying it.
func condSet(term sexp.SExp) (affine.Set, error) {
	list := term.AsList()
	if list == nil || list.Len() < 2 || list.Get(0).AsSymbol() == nil {
		return affine.Set{}, fmt.Errorf("expected condition, found %s", term.String(true))
	}
	//
	op := list.Get(0).AsSymbol().Value
	// Boolean combinations recurse.
	if op == "and" || op == "or" {
		result, err := condSet(list.Get(1))
		if err != nil {
			return affine.Set{}, err
		}
		//
		for _, e := range list.Elements[2:] {
			operand, err := condSet(e)
			if err != nil {
				return affine.Set{}, err
			}
			//
			if op == "and" {
				result = result.Intersect(operand)
			} else {
				result = result.Union(operand)
			}
		}
		//
		return result, nil
	}
	//
	if list.Len() != 3 {
		return affine.Set{}, fmt.Errorf("malformed condition %s", term.String(true))
	}
	//
	space := affine.ParamSpace(collectIdents(nil, list)...)
	//
	lhs, err := affRow(list.Get(1), space)
	if err != nil {
		return affine.Set{}, err
	}
	//
	rhs, err := affRow(list.Get(2), space)
	if err != nil {
		return affine.Set{}, err
	}
	//
	universe := affine.UniverseSet(space)
	//
	switch op {
	case "<=":
		return universe.AddConstraint(affine.Inequality(subRow(rhs, lhs))), nil
	case "<":
		return universe.AddConstraint(affine.Inequality(subRow(subRow(rhs, lhs), constRow(space, 1)))), nil
	case ">=":
		return universe.AddConstraint(affine.Inequality(subRow(lhs, rhs))), nil
	case ">":
		return universe.AddConstraint(affine.Inequality(subRow(subRow(lhs, rhs), constRow(space, 1)))), nil
	case "==":
		return universe.AddConstraint(affine.Equality(subRow(lhs, rhs))), nil
	default:
		return affine.Set{}, fmt.Errorf("unknown comparison %s", op)
	}
}

func addRow(lhs []int64, rhs []int64) []int64 {
	out := make([]int64, len(lhs))
	for i := range lhs {
		out[i] = lhs[i] + rhs[i]
	}
	//
	return out
}

func subRow(lhs []int64, rhs []int64) []int64 {
	out := make([]int64, len(lhs))
	for i := range lhs {
		out[i] = lhs[i] - rhs[i]
	}
	//
	return out
}

func scaleRow(row []int64, k int64) []int64 {
	out := make([]int64, len(row))
	for i := range row {
		out[i] = k * row[i]
	}
	//
	return out
}

// constantRow checks whether a row denotes a constant and, if so, returns it.
func constantRow(row []int64) (int64, bool) {
	for _, c := range row[1:] {
		if c != 0 {
			return 0, false
		}
	}
	//
	return row[0], true
}

// constRow constructs the row denoting the given constant over a space.
func constRow(space affine.Space, k int64) []int64 {
	row := make([]int64, 1+len(space.Params)+space.TotalDims())
	row[0] = k
	//
	return row
}

// dimRow constructs the row selecting the given dimension of a space.
func dimRow(space affine.Space, pos int) []int64 {
	row := make([]int64, 1+len(space.Params)+space.TotalDims())
	row[1+len(space.Params)+pos] = 1
	//
	return row
}
