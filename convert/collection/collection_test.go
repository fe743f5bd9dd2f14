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

	"github.com/omezarrtools/core/core/fileaccess"
	"github.com/omezarrtools/core/core/logger"
)

func Example_plateImagePath() {
	plate := PlateImage{Plate: "plate-01", Row: "B", Column: 3, Acquisition: 0}
	fmt.Printf("%v|%v|%v\n", plate.Path(), plate.Kind(), plate.Validate())

	bad := PlateImage{Plate: "plate-01", Row: "b", Column: 3}
	fmt.Printf("%v\n", bad.Validate())

	single := SingleImage{ImagePath: "runs/2024-03/embryo-4"}
	fmt.Printf("%v|%v|%v\n", single.Path(), single.Kind(), single.Validate())

	// Output:
	// plate-01/B/3/0|plate|<nil>
	// Invalid plate row: b
	// runs/2024-03/embryo-4|single-image|<nil>
}

func Example_plateLayouts() {
	layout, err := LayoutForWellCount(96)
	fmt.Printf("%v|%v|%v\n", err, layout.Rows, layout.Columns)
	fmt.Printf("%v|%v|%v\n", layout.Contains("H", 12), layout.Contains("I", 1), layout.Contains("A", 13))

	_, err = LayoutForWellCount(100)
	fmt.Printf("%v\n", err)

	// Output:
	// <nil>|8|12
	// true|false|false
	// No standard plate layout with 100 wells, expected one of [24 96 384]
}

func Example_setupCollection() {
	fs := fileaccess.MakeMemoryAccess()
	jobLog := &logger.NullLogger{}

	path1, err1 := SetupCollection(fs, "output-bucket", PlateImage{Plate: "plate-01", Row: "A", Column: 1, Acquisition: 0}, jobLog)
	path2, err2 := SetupCollection(fs, "output-bucket", PlateImage{Plate: "plate-01", Row: "B", Column: 2, Acquisition: 1}, jobLog)

	fmt.Printf("%v|%v\n", err1, path1)
	fmt.Printf("%v|%v\n", err2, path2)

	meta := plateMeta{}
	fs.ReadJSON("output-bucket", "plate-01/plate.json", &meta, false)
	fmt.Printf("%v|%v|%v|%v\n", meta.Name, meta.Rows, meta.Columns, meta.Acquisitions)

	well := wellMeta{}
	fs.ReadJSON("output-bucket", "plate-01/B/2/well.json", &well, false)
	fmt.Printf("%v%v|%v\n", well.Row, well.Column, well.Acquisitions)

	// Output:
	// <nil>|plate-01/A/1/0
	// <nil>|plate-01/B/2/1
	// plate-01|[A B]|[1 2]|[0 1]
	// B2|[1]
}
