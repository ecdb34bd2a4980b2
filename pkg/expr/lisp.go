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
package expr

import "github.com/polyfront/go-scop/pkg/util/sexp"

// Lisp renders this expression as an S-Expression.
func (p *Expr) Lisp() sexp.SExp {
	switch p.Kind {
	case KindInt:
		return sexp.Symbolf("%d", p.Val)
	case KindCall:
		list := sexp.NewList(sexp.NewSymbol("call"), sexp.NewSymbol(p.Name))
		//
		for _, arg := range p.Args {
			list.Append(arg.Lisp())
		}
		//
		return list
	case KindOp:
		list := sexp.NewList(sexp.NewSymbol(p.Op.String()))
		//
		for _, arg := range p.Args {
			list.Append(arg.Lisp())
		}
		//
		return list
	case KindAccess:
		return p.lispAccess()
	}
	//
	return sexp.NewSymbol("?")
}

func (p *Expr) lispAccess() sexp.SExp {
	kind := "access"
	//
	switch {
	case p.Read && p.Write:
		kind = "rw"
	case p.Write:
		kind = "write"
	case p.Read:
		kind = "read"
	}
	//
	list := sexp.NewList(sexp.NewSymbol(kind))
	//
	if p.Index.IsAffine() {
		list.Append(sexp.NewSymbol("aff"))
	} else {
		list.Append(sexp.NewSymbol(p.Index.Array.Name))
	}
	//
	list.Append(sexp.NewSymbol(p.Access.String()))
	//
	if p.RefID != "" {
		list.Append(sexp.NewSymbol(p.RefID))
	}
	//
	for _, arg := range p.Args {
		list.Append(arg.Lisp())
	}
	//
	return list
}
