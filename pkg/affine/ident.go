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

import "strings"

// NestedPrefix identifies parameters which stand in for the value of a nested
// (data dependent) subexpression.  Such parameters are internal bookkeeping
// and are stripped from any context they would otherwise leak into.
const NestedPrefix = "__scop_arg"

// Ident is a lightweight, comparable identity key used to name parameters,
// iteration-domain tuples and arrays.  Two idents are the same identity
// exactly when both their name and tag agree.  The tag ties an ident to an
// external (front end) entity; an array ident without a tag denotes a virtual
// array, i.e. internal bookkeeping data with no source-level counterpart.
type Ident struct {
	Name string
	Tag  string
}

// NewIdent constructs an identity with an external user tag.
func NewIdent(name string, tag string) Ident {
	return Ident{Name: name, Tag: tag}
}

// AnonIdent constructs an identity without an external tag.  For arrays, this
// is what makes the array virtual.
func AnonIdent(name string) Ident {
	return Ident{Name: name}
}

// IsZero reports whether this is the absent identity.
func (p Ident) IsZero() bool {
	return p.Name == "" && p.Tag == ""
}

// IsVirtual reports whether this identity carries no external user tag.
func (p Ident) IsVirtual() bool {
	return !p.IsZero() && p.Tag == ""
}

// IsNested reports whether this identity names a nested-expression parameter.
func (p Ident) IsNested() bool {
	return strings.HasPrefix(p.Name, NestedPrefix)
}

// Anonymize drops the external user tag, keeping only the name.
func (p Ident) Anonymize() Ident {
	return Ident{Name: p.Name}
}

func (p Ident) String() string {
	return p.Name
}
