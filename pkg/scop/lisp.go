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
package scop

import "github.com/polyfront/go-scop/pkg/util/sexp"

// Lisp renders this scop as an S-Expression, suitable for dumping and for
// golden comparisons.
func (p *Scop) Lisp() sexp.SExp {
	p.live()
	//
	list := sexp.NewList(sexp.NewSymbol("scop"))
	list.Append(sexp.NewList(sexp.NewSymbol("context"), sexp.NewSymbol(p.Context.String())))
	//
	for _, array := range p.Arrays {
		list.Append(array.Lisp())
	}
	//
	for _, stmt := range p.Stmts {
		list.Append(stmt.Lisp())
	}
	//
	for _, imp := range p.Implications {
		list.Append(imp.Lisp())
	}
	//
	for _, t := range []SkipType{SkipNow, SkipLater} {
		if p.skips[t] == nil {
			continue
		}
		//
		skip := sexp.NewList(sexp.NewSymbol(t.String()))
		//
		if p.HasAffineSkip(t) {
			skip.Append(sexp.NewSymbol(p.GetAffineSkipDomain(t).String()))
		} else {
			skip.Append(sexp.NewSymbol(p.GetSkipID(t).Name))
		}
		//
		list.Append(skip)
	}
	//
	return list
}

// Lisp renders this statement as an S-Expression.
func (p *Stmt) Lisp() sexp.SExp {
	list := sexp.NewList(sexp.NewSymbol("stmt"), sexp.NewSymbol(p.ID().Name))
	list.Append(sexp.NewList(sexp.NewSymbol("domain"), sexp.NewSymbol(p.Domain.String())))
	list.Append(sexp.NewList(sexp.NewSymbol("schedule"), sexp.NewSymbol(p.Schedule.String())))
	list.Append(sexp.NewList(sexp.NewSymbol("body"), p.Body.Lisp()))
	//
	if len(p.Args) > 0 {
		args := sexp.NewList(sexp.NewSymbol("filters"))
		//
		for _, arg := range p.Args {
			args.Append(arg.Lisp())
		}
		//
		list.Append(args)
	}
	//
	return list
}

// Lisp renders this array as an S-Expression.
func (p *Array) Lisp() sexp.SExp {
	list := sexp.NewList(sexp.NewSymbol("array"), sexp.NewSymbol(p.ID().Name))
	list.Append(sexp.NewList(sexp.NewSymbol("extent"), sexp.NewSymbol(p.Extent.String())))
	list.Append(sexp.NewSymbol(p.ElementType))
	//
	if p.ValueBounds != nil {
		list.Append(sexp.NewList(sexp.NewSymbol("bounds"), sexp.NewSymbol(p.ValueBounds.String())))
	}
	//
	if p.IsVirtual() {
		list.Append(sexp.NewSymbol("virtual"))
	}
	//
	return list
}

// Lisp renders this implication as an S-Expression.
func (p *Implication) Lisp() sexp.SExp {
	val := "0"
	if p.Satisfied {
		val = "1"
	}
	//
	return sexp.NewList(sexp.NewSymbol("implication"), sexp.NewSymbol(val),
		sexp.NewSymbol(p.Extension.String()))
}
