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

// Package expr provides the expression trees statements are built from:
// array accesses with exact index expressions and access relations, operator
// applications and opaque calls.  Expressions are immutable; rewriting
// operations return fresh nodes and may share unchanged children.
package expr

import (
	"fmt"

	"github.com/polyfront/go-scop/pkg/affine"
)

// Kind distinguishes the node kinds of an expression tree.
type Kind int

const (
	// KindAccess denotes an array access (or plain affine value).
	KindAccess Kind = iota
	// KindOp denotes an operator application.
	KindOp
	// KindCall denotes a call to an opaque function.
	KindCall
	// KindInt denotes an integer literal.
	KindInt
)

// Op enumerates the operators an operator node can apply.
type Op int

const (
	// OpAssign writes its second argument to the location of its first.
	OpAssign Op = iota
	// OpKill invalidates the contents of its argument's location.
	OpKill
	// OpAssume constrains the parameter context by its argument.
	OpAssume
	// OpCond is the ternary conditional operator.
	OpCond
	// OpLAnd is short-circuit conjunction.
	OpLAnd
	// OpLOr is short-circuit disjunction.
	OpLOr
	// OpAdd is addition.
	OpAdd
	// OpSub is subtraction.
	OpSub
	// OpMul is multiplication.
	OpMul
	// OpLE is the less-or-equal comparison.
	OpLE
	// OpLT is the strict less-than comparison.
	OpLT
	// OpGE is the greater-or-equal comparison.
	OpGE
	// OpGT is the strict greater-than comparison.
	OpGT
	// OpEQ is the equality comparison.
	OpEQ
)

func (o Op) String() string {
	switch o {
	case OpAssign:
		return "="
	case OpKill:
		return "kill"
	case OpAssume:
		return "assume"
	case OpCond:
		return "?:"
	case OpLAnd:
		return "&&"
	case OpLOr:
		return "||"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpLE:
		return "<="
	case OpLT:
		return "<"
	case OpGE:
		return ">="
	case OpGT:
		return ">"
	case OpEQ:
		return "=="
	}
	//
	return fmt.Sprintf("op(%d)", int(o))
}

// Expr is one node of an expression tree.
type Expr struct {
	Kind Kind
	// Op applied (operator nodes only).
	Op Op
	// Name of the function called (call nodes only).
	Name string
	// Val of an integer literal.
	Val int64
	// Args holds child expressions.  For access nodes these supply values
	// the index expression depends on (data dependent accesses).
	Args []*Expr
	// Index expression of an access node.
	Index Index
	// Access relation of an access node (may-access).
	Access affine.Map
	// Read/Write flags of an access node.
	Read  bool
	Write bool
	// RefID is the per-occurrence reference identity of an access node,
	// assigned by AddRefIDs.
	RefID string
}

// NewAccess constructs an access node from an index expression.
func NewAccess(index Index, read bool, write bool) *Expr {
	return &Expr{
		Kind:   KindAccess,
		Index:  index,
		Access: index.Access(),
		Read:   read,
		Write:  write,
	}
}

// FromIndex constructs a read access node from an index expression.
func FromIndex(index Index) *Expr {
	return NewAccess(index, true, false)
}

// NewOp constructs an operator node.
func NewOp(op Op, args ...*Expr) *Expr {
	return &Expr{Kind: KindOp, Op: op, Args: args}
}

// NewCall constructs an opaque call node.
func NewCall(name string, args ...*Expr) *Expr {
	return &Expr{Kind: KindCall, Name: name, Args: args}
}

// NewInt constructs an integer literal node.
func NewInt(val int64) *Expr {
	return &Expr{Kind: KindInt, Val: val}
}

// clone produces a shallow copy of this node; children are shared.
func (p *Expr) clone() *Expr {
	q := *p
	q.Args = append([]*Expr{}, p.Args...)
	//
	return &q
}

// IsAffine reports whether this node is an access denoting a plain affine
// value.
func (p *Expr) IsAffine() bool {
	return p != nil && p.Kind == KindAccess && p.Index.IsAffine()
}

// IsAssume reports whether this node applies the assume operator.
func (p *Expr) IsAssume() bool {
	return p != nil && p.Kind == KindOp && p.Op == OpAssume
}

// ArrayID returns the identity of the array accessed by an access node.
func (p *Expr) ArrayID() affine.Ident {
	return p.Index.Array
}

// NArgs returns the number of child expressions.
func (p *Expr) NArgs() int {
	if p == nil {
		return 0
	}
	//
	return len(p.Args)
}

// MayAccess returns the potential access relation of an access node.  When
// the access has data-dependent arguments, the relation's domain is the
// wrapped space pairing iterations with argument values.
func (p *Expr) MayAccess() affine.Map {
	return p.Access
}

// AffineCondition extracts, from an affine access node, the parameter set on
// which its value is non-zero.
func (p *Expr) AffineCondition() (affine.Set, bool) {
	if !p.IsAffine() || len(p.Index.Elems) != 1 {
		return affine.Set{}, false
	}
	//
	return p.Index.Elems[0].NonZeroSet().Params(), true
}

// Equal reports deep structural equality of two expression trees.
func (p *Expr) Equal(other *Expr) bool {
	if p == nil || other == nil {
		return p == other
	}
	//
	if p.Kind != other.Kind || len(p.Args) != len(other.Args) {
		return false
	}
	//
	for i := range p.Args {
		if !p.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	//
	switch p.Kind {
	case KindOp:
		return p.Op == other.Op
	case KindCall:
		return p.Name == other.Name
	case KindInt:
		return p.Val == other.Val
	case KindAccess:
		if p.Read != other.Read || p.Write != other.Write || p.RefID != other.RefID {
			return false
		}
		//
		return p.Index.Equal(other.Index) && p.Access.Equal(other.Access)
	}
	//
	return false
}

func (p *Expr) String() string {
	switch p.Kind {
	case KindInt:
		return fmt.Sprintf("%d", p.Val)
	case KindCall:
		return fmt.Sprintf("%s(...)", p.Name)
	case KindOp:
		return fmt.Sprintf("(%s ...)", p.Op)
	case KindAccess:
		if p.Index.IsAffine() {
			return "(aff)"
		}
		//
		return p.Index.Array.Name
	}
	//
	return "?"
}
