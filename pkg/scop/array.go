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

import "github.com/polyfront/go-scop/pkg/affine"

// Array describes one memory object referenced by a scop: the parameter
// context under which it is valid, the set of index tuples it spans, optional
// bounds on the values it holds and its element type.  An array whose tuple
// identity carries no external tag is virtual: it stands for internal
// bookkeeping data, such as the outcome of a test, and its extent tracks the
// iteration domain which produced it through every transformation.
type Array struct {
	// Context constrains the parameters under which the array is valid.
	Context affine.Set
	// Extent is the set of valid index tuples, named by the array identity.
	Extent affine.Set
	// ValueBounds optionally bounds the values held by elements of the
	// array; nil means unbounded.
	ValueBounds *affine.Set
	// ElementType names the type of the array elements.
	ElementType string
	// ElementIsRecord indicates elements are themselves structured.
	ElementIsRecord bool
	// LiveOut indicates the array may be read after the scop completes.
	LiveOut bool
	// UniquelyDefined indicates every element read inside the scop was
	// first written inside the scop.
	UniquelyDefined bool
	// Declared indicates the array is declared inside the scop.
	Declared bool
	// Exposed indicates a declared array is visible outside the scop.
	Exposed bool
}

// ID returns the identity of this array's extent tuple.
func (p *Array) ID() affine.Ident {
	return p.Extent.TupleID()
}

// IsVirtual reports whether this array carries no external user tag.
func (p *Array) IsVirtual() bool {
	return p.ID().IsVirtual()
}

// Equal reports deep structural equality of two arrays.
func (p *Array) Equal(other *Array) bool {
	if p == nil || other == nil {
		return p == other
	}
	//
	if p.ElementType != other.ElementType ||
		p.ElementIsRecord != other.ElementIsRecord ||
		p.LiveOut != other.LiveOut ||
		p.UniquelyDefined != other.UniquelyDefined ||
		p.Declared != other.Declared ||
		p.Exposed != other.Exposed {
		return false
	}
	//
	if (p.ValueBounds == nil) != (other.ValueBounds == nil) {
		return false
	}
	//
	if p.ValueBounds != nil && !p.ValueBounds.Equal(*other.ValueBounds) {
		return false
	}
	//
	return p.Context.Equal(other.Context) && p.Extent.Equal(other.Extent)
}

// alignParams re-expresses every set owned by this array over the given
// parameter list.
func (p *Array) alignParams(params []affine.Ident) *Array {
	q := *p
	q.Context = p.Context.AlignParams(params)
	q.Extent = p.Extent.AlignParams(params)
	//
	if p.ValueBounds != nil {
		vb := p.ValueBounds.AlignParams(params)
		q.ValueBounds = &vb
	}
	//
	return &q
}

// anonymize strips external identity tags from every set owned by this array.
func (p *Array) anonymize() *Array {
	q := *p
	q.Context = p.Context.Anonymize()
	q.Extent = p.Extent.Anonymize()
	//
	if p.ValueBounds != nil {
		vb := p.ValueBounds.Anonymize()
		q.ValueBounds = &vb
	}
	//
	return &q
}

// gist simplifies the array's sets relative to the given parameter context.
func (p *Array) gist(context affine.Set) *Array {
	q := *p
	q.Extent = p.Extent.GistParams(context)
	//
	return &q
}

// Type records a named element type together with its front-end-specific
// textual definition.
type Type struct {
	Name       string
	Definition string
}

// Equal compares types by name only; definitions depend on the front end's
// rendering and are not semantically significant.
func (p *Type) Equal(other *Type) bool {
	if p == nil || other == nil {
		return p == other
	}
	//
	return p.Name == other.Name
}
