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

package utils

import (
	"fmt"
	"sort"
)

func Example_itemInSlice() {
	fmt.Println(ItemInSlice("y", []string{"t", "c", "z", "y", "x"}))
	fmt.Println(ItemInSlice("q", []string{"t", "c", "z", "y", "x"}))
	fmt.Println(ItemInSlice(3, []int{1, 2, 3}))

	// Output:
	// true
	// false
	// true
}

func Example_getMapKeys() {
	keys := GetMapKeys(map[string]int{"A1/0": 1, "B2/0": 2})
	sort.Strings(keys)
	fmt.Println(keys)

	// Output:
	// [A1/0 B2/0]
}

func Example_absI64() {
	fmt.Println(AbsI64(-42), AbsI64(42), AbsI64(0))

	// Output:
	// 42 42 0
}

func Example_uniqueSorted() {
	fmt.Println(UniqueSorted([]int64{1000, 0, 1000, 2000, 0}))

	// Output:
	// [0 1000 2000]
}
