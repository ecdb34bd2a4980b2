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

// eliminateCol projects the given column out of a conjunction of constraints
// using Gaussian substitution where an equality is available and
// Fourier-Motzkin elimination otherwise.  The column is removed from the
// resulting rows.  The result is exact whenever the eliminated column has a
// unit coefficient in some equality, which covers every elimination this
// package performs during scop construction; otherwise it is a rational
// relaxation.
func eliminateCol(b Basic, col int) (Basic, bool) {
	// Prefer an equality pivot, ideally with unit coefficient.
	pivot := -1
	//
	for i, c := range b.Cs {
		if !c.Eq || c.Row[col] == 0 {
			continue
		}
		//
		if c.Row[col] == 1 || c.Row[col] == -1 {
			pivot = i
			break
		}
		//
		if pivot < 0 {
			pivot = i
		}
	}
	//
	var rows []Constraint
	//
	if pivot >= 0 {
		rows = substituteRows(b.Cs, pivot, col)
	} else {
		rows = fourierMotzkin(b.Cs, col)
	}
	// Drop the eliminated column and simplify.
	out := Basic{}
	//
	for _, c := range rows {
		row := make([]int64, 0, len(c.Row)-1)
		row = append(row, c.Row[:col]...)
		row = append(row, c.Row[col+1:]...)
		//
		nc, feasible := Constraint{Eq: c.Eq, Row: row}.normalise()
		if !feasible || nc.isConflict() {
			return Basic{}, false
		}
		//
		if !nc.isTrivial() {
			out.Cs = append(out.Cs, nc)
		}
	}
	//
	return out, true
}

// substituteRows eliminates the column from all rows other than the pivot by
// scaled combination with the pivot equality.
func substituteRows(cs []Constraint, pivot int, col int) []Constraint {
	var (
		rows []Constraint
		eq   = cs[pivot]
		a    = eq.Row[col]
	)
	//
	mag := a
	if mag < 0 {
		mag = -mag
	}
	//
	for i, c := range cs {
		if i == pivot {
			continue
		}
		//
		v := c.Row[col]
		if v == 0 {
			rows = append(rows, c)
			continue
		}
		// mag*c - sign(a)*v*eq keeps inequality directions intact.
		s := v
		if a < 0 {
			s = -s
		}
		//
		row := make([]int64, len(c.Row))
		for j := range row {
			row[j] = mag*c.Row[j] - s*eq.Row[j]
		}
		//
		rows = append(rows, Constraint{Eq: c.Eq, Row: row})
	}
	//
	return rows
}

// fourierMotzkin eliminates the column from a system of inequalities by
// combining every lower bound with every upper bound.
func fourierMotzkin(cs []Constraint, col int) []Constraint {
	var rows, lower, upper []Constraint
	//
	for _, c := range cs {
		switch {
		case c.Row[col] == 0:
			rows = append(rows, c)
		case c.Row[col] > 0:
			lower = append(lower, c)
		default:
			upper = append(upper, c)
		}
	}
	//
	for _, lo := range lower {
		for _, up := range upper {
			a := lo.Row[col]
			b := -up.Row[col]
			//
			row := make([]int64, len(lo.Row))
			for j := range row {
				row[j] = b*lo.Row[j] + a*up.Row[j]
			}
			//
			rows = append(rows, Inequality(row))
		}
	}
	//
	return rows
}

// eliminateCols projects several columns out of a basic piece.  Columns are
// given in row coordinates and must be sorted in ascending order; they are
// eliminated from the right so earlier positions stay valid.
func eliminateCols(b Basic, cols []int) (Basic, bool) {
	ok := true
	//
	for i := len(cols) - 1; i >= 0; i-- {
		b, ok = eliminateCol(b, cols[i])
		if !ok {
			return Basic{}, false
		}
	}
	//
	return b, true
}

// basicIsEmpty checks (conservatively exact for the unit-coefficient systems
// built here) whether a conjunction of constraints has no integer solution.
func basicIsEmpty(b Basic, width int) bool {
	// First a cheap scan for immediate conflicts.
	for _, c := range b.Cs {
		nc, feasible := c.normalise()
		if !feasible || nc.isConflict() {
			return true
		}
	}
	// Then eliminate every column and inspect what remains.
	cur := b.clone()
	//
	for col := width - 1; col >= 1; col-- {
		var ok bool
		//
		cur, ok = eliminateCol(cur, col)
		if !ok {
			return true
		}
	}
	//
	for _, c := range cur.Cs {
		if c.isConflict() {
			return true
		}
	}
	//
	return false
}

// simplifyBasic drops trivially-true constraints and duplicates, reporting
// infeasibility when a conflict is found.
func simplifyBasic(b Basic) (Basic, bool) {
	out := Basic{}
	//
	for _, c := range b.Cs {
		nc, feasible := c.normalise()
		if !feasible || nc.isConflict() {
			return Basic{}, false
		}
		//
		if nc.isTrivial() {
			continue
		}
		//
		dup := false
		//
		for _, d := range out.Cs {
			if d.equal(nc) {
				dup = true
				break
			}
		}
		//
		if !dup {
			out.Cs = append(out.Cs, nc)
		}
	}
	//
	return out, true
}
