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

import (
	"github.com/polyfront/go-scop/pkg/affine"
	"github.com/polyfront/go-scop/pkg/expr"
)

// AlignParams re-expresses every set and relation owned by this scop over the
// union of all parameters referenced anywhere in it.  Composition and
// embedding can introduce parameters in only one subtree; alignment restores
// the invariant that everything shares one parameter space.
func (p *Scop) AlignParams() *Scop {
	p.live()
	//
	params := p.collectParams(nil)
	//
	p.Context = p.Context.AlignParams(params)
	p.ContextValue = p.ContextValue.AlignParams(params)
	//
	for i, stmt := range p.Stmts {
		p.Stmts[i] = stmt.alignParams(params)
	}
	//
	for i, array := range p.Arrays {
		p.Arrays[i] = array.alignParams(params)
	}
	//
	for i, imp := range p.Implications {
		p.Implications[i] = imp.alignParams(params)
	}
	//
	for _, t := range []SkipType{SkipNow, SkipLater} {
		if p.skips[t] != nil {
			aligned := p.skips[t].AlignParams(params)
			p.skips[t] = &aligned
		}
	}
	//
	return p
}

// collectParams folds every parameter referenced by this scop into the given
// list.
func (p *Scop) collectParams(params []affine.Ident) []affine.Ident {
	params = mergeIdents(params, p.Context.Space.Params)
	params = mergeIdents(params, p.ContextValue.Space.Params)
	//
	for _, stmt := range p.Stmts {
		params = stmt.collectParams(params)
	}
	//
	for _, array := range p.Arrays {
		params = mergeIdents(params, array.Context.Space.Params)
		params = mergeIdents(params, array.Extent.Space.Params)
		//
		if array.ValueBounds != nil {
			params = mergeIdents(params, array.ValueBounds.Space.Params)
		}
	}
	//
	for _, imp := range p.Implications {
		params = mergeIdents(params, imp.Extension.Space.Params)
	}
	//
	for _, t := range []SkipType{SkipNow, SkipLater} {
		if p.skips[t] != nil {
			params = mergeIdents(params, p.skips[t].Domain.Params)
		}
	}
	//
	return params
}

// Anonymize strips all external identity tags from every set and relation
// owned by this scop, so that two scops can be compared independent of symbol
// identity.
func (p *Scop) Anonymize() *Scop {
	p.live()
	//
	p.Context = p.Context.Anonymize()
	p.ContextValue = p.ContextValue.Anonymize()
	//
	for i, stmt := range p.Stmts {
		p.Stmts[i] = stmt.anonymize()
	}
	//
	for i, array := range p.Arrays {
		p.Arrays[i] = array.anonymize()
	}
	//
	for i, imp := range p.Implications {
		p.Implications[i] = imp.anonymize()
	}
	//
	for _, t := range []SkipType{SkipNow, SkipLater} {
		if p.skips[t] != nil {
			anon := p.skips[t].Anonymize()
			p.skips[t] = &anon
		}
	}
	//
	return p
}

// AddRefIDs assigns a fresh reference identity to every access in every
// statement, numbering across the whole scop.
func (p *Scop) AddRefIDs() *Scop {
	p.live()
	//
	n := 0
	//
	for i, stmt := range p.Stmts {
		q := *stmt
		q.Args = make([]*expr.Expr, len(stmt.Args))
		//
		for j, arg := range stmt.Args {
			q.Args[j] = arg.AddRefIDs(&n)
		}
		//
		q.Body = stmt.Body.AddRefIDs(&n)
		p.Stmts[i] = &q
	}
	//
	return p
}

// DetectParameterAccesses rewrites, in every statement, any read of a
// zero-dimensional array whose identity is also used as a parameter somewhere
// in the scop into the value of that parameter.
func (p *Scop) DetectParameterAccesses() *Scop {
	p.live()
	//
	params := p.collectParams(nil)
	//
	for i, stmt := range p.Stmts {
		q := *stmt
		q.Body = stmt.Body.DetectParameterAccesses(params)
		q.Args = make([]*expr.Expr, len(stmt.Args))
		//
		for j, arg := range stmt.Args {
			q.Args[j] = arg.DetectParameterAccesses(params)
		}
		//
		p.Stmts[i] = &q
	}
	//
	return p
}
