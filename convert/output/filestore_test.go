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

package output

import (
	"fmt"

	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/fileaccess"
)

func Example_fileArrayStore() {
	fs := fileaccess.MakeMemoryAccess()
	store := &FileArrayStore{FS: fs, Root: "output"}

	sink, err := store.Create(ArrayParams{
		Path:   "plate-01/A/1/0",
		Axes:   yx,
		Shape:  []int64{4, 4},
		DType:  "uint8",
		Chunks: []int64{2, 2},
	})
	fmt.Printf("%v\n", err)

	// A region straddling all four chunks
	block := &convertModels.DataBlock{
		DType: "uint8",
		Shape: []int64{2, 2},
		Data:  []byte{1, 2, 3, 4},
	}
	fmt.Printf("%v\n", sink.WriteRegion([]int64{1, 1}, block))

	files, _ := fs.ListObjects("output", "plate-01/A/1/0")
	fmt.Printf("%v\n", files)

	chunk, _ := fs.ReadObject("output", "plate-01/A/1/0/0.0")
	fmt.Printf("%v\n", chunk)
	chunk, _ = fs.ReadObject("output", "plate-01/A/1/0/1.1")
	fmt.Printf("%v\n", chunk)

	// Output:
	// <nil>
	// <nil>
	// [plate-01/A/1/0/0.0 plate-01/A/1/0/0.1 plate-01/A/1/0/1.0 plate-01/A/1/0/1.1 plate-01/A/1/0/array.json]
	// [0 0 0 1]
	// [4 0 0 0]
}

func Example_fileArrayStoreBounds() {
	fs := fileaccess.MakeMemoryAccess()
	store := &FileArrayStore{FS: fs, Root: "output"}

	sink, _ := store.Create(ArrayParams{
		Path:   "run-1/0",
		Axes:   yx,
		Shape:  []int64{4, 4},
		DType:  "uint8",
		Chunks: []int64{2, 2},
	})

	block := &convertModels.DataBlock{DType: "uint8", Shape: []int64{2, 2}, Data: []byte{1, 2, 3, 4}}
	fmt.Printf("%v\n", sink.WriteRegion([]int64{3, 3}, block))

	block16 := &convertModels.DataBlock{DType: "uint16", Shape: []int64{1, 1}, Data: []byte{1, 2}}
	fmt.Printf("%v\n", sink.WriteRegion([]int64{0, 0}, block16))

	// Output:
	// Region out of array bounds: offset [3 3], shape [2 2], array [4 4]
	// Region data type uint16 does not match array uint8
}
