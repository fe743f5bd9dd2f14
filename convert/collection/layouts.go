// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package collection

import (
	"fmt"
	"sort"

	"github.com/omezarrtools/core/core/utils"
)

// PlateLayout - row/column dimensions of a standard well plate
type PlateLayout struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// PlateLayouts - the standard well plate formats we know, keyed by well count
var PlateLayouts = map[int]PlateLayout{
	24:  {Rows: 4, Columns: 6},
	96:  {Rows: 8, Columns: 12},
	384: {Rows: 16, Columns: 24},
}

// LayoutForWellCount - looks up a standard plate layout
func LayoutForWellCount(wells int) (PlateLayout, error) {
	layout, ok := PlateLayouts[wells]
	if !ok {
		known := utils.GetMapKeys(PlateLayouts)
		sort.Ints(known)
		return PlateLayout{}, fmt.Errorf("No standard plate layout with %v wells, expected one of %v", wells, known)
	}
	return layout, nil
}

// RowNames - the row letters for a layout, in order
func (l PlateLayout) RowNames() []string {
	result := make([]string, 0, l.Rows)
	for i := 0; i < l.Rows; i++ {
		result = append(result, RowName(i))
	}
	return result
}

// Contains - is the given well inside this layout
func (l PlateLayout) Contains(row string, column int) bool {
	idx := rowIndex(row)
	return idx >= 0 && idx < l.Rows && column >= 1 && column <= l.Columns
}
