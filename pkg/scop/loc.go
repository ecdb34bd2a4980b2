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

// Loc identifies the region of source text a statement or scop was extracted
// from: a byte offset span plus the line the region starts on.
type Loc struct {
	Start int
	End   int
	Line  int
	// Indent gives the leading whitespace of the first line, for drivers
	// which reproduce source text.
	Indent string
}

// DummyLoc is the absent location, used for scops which do not yet cover any
// source region.
var DummyLoc = Loc{Start: -1, End: -1, Line: -1}

// NewLoc constructs a location from a byte span, starting line and
// indentation.
func NewLoc(start int, end int, line int, indent string) Loc {
	return Loc{Start: start, End: end, Line: line, Indent: indent}
}

// IsDummy reports whether this is the absent location.
func (p Loc) IsDummy() bool {
	return p.Start == -1 && p.End == -1 && p.Line == -1
}

// UpdateStartEnd widens this location to cover the span from start to end.
func (p Loc) UpdateStartEnd(start int, end int) Loc {
	if p.IsDummy() {
		return Loc{Start: start, End: end, Line: -1}
	}
	//
	if start < p.Start {
		p.Start = start
	}
	//
	if end > p.End {
		p.End = end
	}
	//
	return p
}

// Union widens this location to cover another.  The line and indentation
// follow whichever location starts first.
func (p Loc) Union(other Loc) Loc {
	if other.IsDummy() {
		return p
	}
	//
	if p.IsDummy() {
		return other
	}
	//
	if other.Start < p.Start {
		p.Line = other.Line
		p.Indent = other.Indent
	}
	//
	return p.UpdateStartEnd(other.Start, other.End)
}
