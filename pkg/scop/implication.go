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

// Implication records an entailment between accesses to a boolean virtual
// array: whenever the governing test evaluates to Satisfied, an access through
// an element in the extension's domain implies the access through the
// corresponding element of its range.  Implications let redundant
// per-iteration filters be recognised and dropped.
type Implication struct {
	Satisfied bool
	Extension affine.Map
}

// Equal reports structural equality of two implications.
func (p *Implication) Equal(other *Implication) bool {
	if p == nil || other == nil {
		return p == other
	}
	//
	return p.Satisfied == other.Satisfied && p.Extension.Equal(other.Extension)
}

// alignParams re-expresses the extension over the given parameter list.
func (p *Implication) alignParams(params []affine.Ident) *Implication {
	return &Implication{Satisfied: p.Satisfied, Extension: p.Extension.AlignParams(params)}
}

// anonymize strips external identity tags from the extension.
func (p *Implication) anonymize() *Implication {
	return &Implication{Satisfied: p.Satisfied, Extension: p.Extension.Anonymize()}
}
