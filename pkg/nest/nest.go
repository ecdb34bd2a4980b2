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

// Package nest is a small front end driving the scop construction operations
// from a textual loop nest description, e.g.
//
//	(for i 0 n
//	  (assign (A i) (+ (B i) 1))
//	  (when (<= i 5)
//	    (assign (C i) (A i))))
//
// Loops embed, conditionals restrict, and siblings compose sequentially with
// schedule prefixing, mirroring how a compiler front end walks its AST
// bottom-up.
package nest

import (
	"fmt"
	"strconv"

	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/expr"
	"github.com/polyfront/go-scop/pkg/scop"
	"github.com/polyfront/go-scop/pkg/util/sexp"
	log "github.com/sirupsen/logrus"
)

// Builder incrementally translates loop nest descriptions into scops.
type Builder struct {
	nextStmt int
	// arrays records the arity of every array referenced so far, in first
	// reference order.
	arrays map[affine.Ident]int
	order  []affine.Ident
}

// NewBuilder constructs an empty builder.
func NewBuilder() *Builder {
	return &Builder{arrays: make(map[affine.Ident]int)}
}

// Build translates a parsed loop nest into a complete scop: the nest is
// walked bottom-up, then the result is aligned and extended with the arrays
// referenced.
func Build(term sexp.SExp) (*scop.Scop, error) {
	b := NewBuilder()
	//
	result, err := b.buildNode(term)
	if err != nil {
		return nil, err
	}
	//
	result = result.AlignParams()
	//
	for _, id := range b.order {
		result.AddArray(&scop.Array{
			Context:     affine.UniverseSet(affine.ParamSpace()),
			Extent:      affine.UniverseSet(affine.SetSpace(id, b.arrays[id])),
			ElementType: "int",
		})
	}
	//
	return result, nil
}

// BuildString parses and translates a loop nest description.
func BuildString(text string) (*scop.Scop, error) {
	term, err := sexp.Parse(text)
	if err != nil {
		return nil, err
	}
	//
	return Build(term)
}

func (b *Builder) buildNode(term sexp.SExp) (*scop.Scop, error) {
	list := term.AsList()
	if list == nil || list.Len() == 0 || list.Get(0).AsSymbol() == nil {
		return nil, fmt.Errorf("expected construct, found %s", term.String(true))
	}
	//
	switch list.Get(0).AsSymbol().Value {
	case "for":
		return b.buildFor(list)
	case "when":
		return b.buildWhen(list)
	case "assign", "kill":
		return b.buildStmt(list)
	case "seq":
		return b.buildSeq(list.Elements[1:])
	}
	//
	return nil, fmt.Errorf("unknown construct %s", list.Get(0).String(true))
}

// buildSeq composes sibling nodes sequentially, prefixing each child's
// schedule with its position.
func (b *Builder) buildSeq(terms []sexp.SExp) (*scop.Scop, error) {
	if len(terms) == 0 {
		return scop.Empty(), nil
	}
	//
	if len(terms) == 1 {
		return b.buildNode(terms[0])
	}
	//
	var result *scop.Scop
	//
	for i, term := range terms {
		child, err := b.buildNode(term)
		if err != nil {
			return nil, err
		}
		//
		child = child.Prefix(i)
		//
		if result == nil {
			result = child
		} else {
			result = scop.Compose(result, child, scop.Sequential)
		}
	}
	//
	return result, nil
}

// buildFor embeds its body under one more loop level.  Inside the body the
// iterator is an ordinary parameter; embedding internalizes it into the new
// leading domain dimension.
func (b *Builder) buildFor(list *sexp.List) (*scop.Scop, error) {
	if list.Len() < 5 || list.Get(1).AsSymbol() == nil {
		return nil, fmt.Errorf("malformed loop %s", list.String(true))
	}
	//
	name := list.Get(1).AsSymbol().Value
	if !isName(name) {
		return nil, fmt.Errorf("expected iterator name, found %s", name)
	}
	//
	iv := ident(name)
	//
	log.Debugf("embedding loop over %s", name)
	//
	body, err := b.buildSeq(list.Elements[4:])
	if err != nil {
		return nil, err
	}
	//
	params := collectIdents(nil, list.Get(2))
	params = collectIdents(params, list.Get(3))
	//
	space := affine.SetSpace(affine.Ident{}, 1, params...)
	//
	lo, err := affRow(list.Get(2), space)
	if err != nil {
		return nil, err
	}
	//
	hi, err := affRow(list.Get(3), space)
	if err != nil {
		return nil, err
	}
	// lo <= d < hi
	dom := affine.UniverseSet(space)
	dom = dom.AddConstraint(affine.Inequality(subRow(dimRow(space, 0), lo)))
	dom = dom.AddConstraint(affine.Inequality(subRow(subRow(hi, dimRow(space, 0)), constRow(space, 1))))
	//
	sched := affine.AffVarOnDomain(space, 0)
	ivMap := affine.AffVarOnDomain(affine.SetSpace(affine.Ident{}, 1), 0)
	//
	return scop.Embed(body, dom, sched, ivMap, iv), nil
}

// buildWhen restricts its body to parameter values satisfying the condition.
func (b *Builder) buildWhen(list *sexp.List) (*scop.Scop, error) {
	if list.Len() < 3 {
		return nil, fmt.Errorf("malformed conditional %s", list.String(true))
	}
	//
	cond, err := condSet(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("restricting by %s", cond.String())
	//
	body, err := b.buildSeq(list.Elements[2:])
	if err != nil {
		return nil, err
	}
	//
	return scop.Restrict(body, cond), nil
}

// buildStmt constructs a single-statement scop for an assignment or kill.
func (b *Builder) buildStmt(list *sexp.List) (*scop.Scop, error) {
	kind := list.Get(0).AsSymbol().Value
	//
	var body *expr.Expr
	//
	switch {
	case kind == "assign" && list.Len() == 3:
		lhs, err := b.buildAccess(list.Get(1), false, true)
		if err != nil {
			return nil, err
		}
		//
		rhs, err := b.buildValue(list.Get(2))
		if err != nil {
			return nil, err
		}
		//
		body = expr.NewOp(expr.OpAssign, lhs, rhs)
	case kind == "kill" && list.Len() == 2:
		victim, err := b.buildAccess(list.Get(1), false, true)
		if err != nil {
			return nil, err
		}
		//
		body = expr.NewOp(expr.OpKill, victim)
	default:
		return nil, fmt.Errorf("malformed statement %s", list.String(true))
	}
	//
	id := b.nextStmt
	b.nextStmt++
	//
	stmt := scop.NewStmt(scop.NewLoc(id, id+1, id, ""), "", id, body)
	//
	return scop.FromStmt(stmt), nil
}

// buildAccess constructs an access to a named array with affine indices.
func (b *Builder) buildAccess(term sexp.SExp, read bool, write bool) (*expr.Expr, error) {
	list := term.AsList()
	if list == nil || list.Len() == 0 || list.Get(0).AsSymbol() == nil {
		return nil, fmt.Errorf("expected access, found %s", term.String(true))
	}
	//
	name := list.Get(0).AsSymbol().Value
	if !isName(name) {
		return nil, fmt.Errorf("expected array name, found %s", name)
	}
	//
	array := ident(name)
	//
	var params []affine.Ident
	for _, idx := range list.Elements[1:] {
		params = collectIdents(params, idx)
	}
	//
	space := affine.SetSpace(affine.Ident{}, 0, params...)
	elems := make([]affine.PwAff, list.Len()-1)
	//
	for i, idx := range list.Elements[1:] {
		row, err := affRow(idx, space)
		if err != nil {
			return nil, err
		}
		//
		elems[i] = affine.PwAffFromAff(affine.Aff{Domain: space, Row: row})
	}
	//
	if _, ok := b.arrays[array]; !ok {
		b.arrays[array] = len(elems)
		b.order = append(b.order, array)
	}
	//
	return expr.NewAccess(expr.ArrayIndex(space, array, elems...), read, write), nil
}

// buildValue constructs a value expression: an integer literal, a parameter
// read, an array read or an arithmetic combination thereof.
func (b *Builder) buildValue(term sexp.SExp) (*expr.Expr, error) {
	if sym := term.AsSymbol(); sym != nil {
		if k, err := strconv.ParseInt(sym.Value, 10, 64); err == nil {
			return expr.NewInt(k), nil
		}
		//
		if !isName(sym.Value) {
			return nil, fmt.Errorf("expected value, found %s", sym.Value)
		}
		// A bare symbol reads the named parameter.
		space := affine.SetSpace(affine.Ident{}, 0, ident(sym.Value))
		row := make([]int64, 2)
		row[1] = 1
		//
		value := affine.PwAffFromAff(affine.Aff{Domain: space, Row: row})
		//
		return expr.FromIndex(expr.AffineIndex(value)), nil
	}
	//
	list := term.AsList()
	if list == nil || list.Len() == 0 || list.Get(0).AsSymbol() == nil {
		return nil, fmt.Errorf("expected value, found %s", term.String(true))
	}
	//
	switch op := list.Get(0).AsSymbol().Value; op {
	case "+", "-", "*":
		if list.Len() != 3 {
			return nil, fmt.Errorf("malformed operator %s", list.String(true))
		}
		//
		lhs, err := b.buildValue(list.Get(1))
		if err != nil {
			return nil, err
		}
		//
		rhs, err := b.buildValue(list.Get(2))
		if err != nil {
			return nil, err
		}
		//
		ops := map[string]expr.Op{"+": expr.OpAdd, "-": expr.OpSub, "*": expr.OpMul}
		//
		return expr.NewOp(ops[op], lhs, rhs), nil
	}
	// Otherwise an array read.
	return b.buildAccess(term, true, false)
}

// ident maps a source name to its identity.
func ident(name string) affine.Ident {
	return affine.NewIdent(name, name)
}
