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

package tilebuilder

import (
	"fmt"

	"github.com/omezarrtools/core/convert/collection"
	convertModels "github.com/omezarrtools/core/convert/models"
)

func fp(v float64) *float64 {
	return &v
}

func makeRow() TileRow {
	return TileRow{
		SourceRef:  "fov-0.tif",
		FOVID:      "fov-0",
		Collection: collection.PlateImage{Plate: "plate-01", Row: "A", Column: 1, Acquisition: 0},
		StartX:     fp(650.0),
		StartY:     fp(325.0),
		LengthX:    fp(512),
		LengthY:    fp(512),
	}
}

func Example_buildTileWorldCoords() {
	defaults := convertModels.MakeAcquisitionDefaults()
	defaults.PixelSize = 0.65

	tile, err := BuildTile(makeRow(), defaults)
	fmt.Printf("%v\n", err)
	fmt.Printf("%v|%v\n", tile.CollectionPath, tile.FOVID)
	fmt.Printf("%v|%v\n", tile.Start, tile.Length)

	// Output:
	// <nil>
	// plate-01/A/1/0|fov-0
	// {1000 500 0 0 0}|{512 512 1 1 1}
}

func Example_buildTileExactMultiples() {
	// Positions that are exact multiples of the pixel size must convert with
	// no rounding drift for any multiplier
	defaults := convertModels.MakeAcquisitionDefaults()
	defaults.PixelSize = 0.65

	bad := 0
	for k := int64(0); k < 2000; k++ {
		row := makeRow()
		row.StartX = fp(float64(k) * 0.65)
		tile, err := BuildTile(row, defaults)
		if err != nil || tile.Start.X != k {
			bad++
		}
	}
	fmt.Printf("%v\n", bad)

	// Output:
	// 0
}

func Example_buildTileMissingValues() {
	defaults := convertModels.MakeAcquisitionDefaults()

	// z/c/t missing is fine: start 0, length 1
	tile, err := BuildTile(makeRow(), defaults)
	fmt.Printf("%v|%v|%v|%v|%v\n", err, tile.Start.Z, tile.Length.Z, tile.Start.T, tile.Length.T)

	// x missing is not
	row := makeRow()
	row.StartX = nil
	_, err = BuildTile(row, defaults)
	fmt.Printf("%v\n", err)

	// Output:
	// <nil>|0|1|0|1
	// Configuration error in plate-01/A/1/0 FOV fov-0: field start_x: required value missing
}

func Example_buildTileBadValues() {
	defaults := convertModels.MakeAcquisitionDefaults()

	// Fractional value declared as pixels
	row := makeRow()
	row.LengthX = fp(512.5)
	_, err := BuildTile(row, defaults)
	fmt.Printf("%v\n", err)

	// World coordinate with no usable spacing
	defaults.PixelSize = 0
	_, err = BuildTile(makeRow(), defaults)
	fmt.Printf("%v\n", err)

	// Output:
	// Configuration error in plate-01/A/1/0 FOV fov-0: field length_x: pixel value must be an integer, got 512.5
	// Unit mismatch in plate-01/A/1/0 FOV fov-0: axis x has non-positive spacing 0
}

func Example_buildTileStageCorrections() {
	defaults := convertModels.MakeAcquisitionDefaults()
	defaults.StageCorrections = convertModels.StageCorrections{SwapXY: true, FlipY: true}

	row := makeRow()
	row.StartX = fp(100)
	row.StartY = fp(40)
	row.LengthX = fp(512)
	row.LengthY = fp(256)

	// SwapXY first: x<->y, then FlipY negates the (now swapped) y start
	tile, err := BuildTile(row, defaults)
	fmt.Printf("%v|%v|%v\n", err, tile.Start, tile.Length)

	// Output:
	// <nil>|{40 -100 0 0 0}|{256 512 1 1 1}
}

func Example_buildTileSwapKeepsUnits() {
	// One axis declared in world units, the other in pixels. SwapXY moves the
	// stage's x reading into y, and its unit declaration must move with it.
	defaults := convertModels.MakeAcquisitionDefaults()
	defaults.PixelSize = 0.5
	defaults.CooFlags.StartY = convertModels.CooPixel
	defaults.StageCorrections = convertModels.StageCorrections{SwapXY: true}

	row := makeRow()
	row.StartX = fp(4.0) // world, 8 pixels
	row.StartY = fp(7)   // already pixels

	tile, err := BuildTile(row, defaults)
	fmt.Printf("%v|%v|%v\n", err, tile.Start.X, tile.Start.Y)

	// Output:
	// <nil>|7|8
}

func Example_buildTileChannelAlwaysPixel() {
	defaults := convertModels.MakeAcquisitionDefaults()
	defaults.PixelSize = 0.65

	row := makeRow()
	row.StartC = fp(2)
	row.LengthC = fp(3)

	tile, err := BuildTile(row, defaults)
	fmt.Printf("%v|%v|%v\n", err, tile.Start.C, tile.Length.C)

	// Output:
	// <nil>|2|3
}

type sliceRowSource struct {
	rows []TileRow
	next int
}

func (s *sliceRowSource) Next() (TileRow, bool, error) {
	if s.next >= len(s.rows) {
		return TileRow{}, false, nil
	}
	row := s.rows[s.next]
	s.next++
	return row, true, nil
}

func Example_buildTiles() {
	defaults := convertModels.MakeAcquisitionDefaults()

	row2 := makeRow()
	row2.FOVID = "fov-1"
	row2.StartX = fp(1162)

	source := &sliceRowSource{rows: []TileRow{makeRow(), row2}}
	tiles, err := BuildTiles(source, defaults)
	fmt.Printf("%v|%v|%v|%v\n", err, len(tiles), tiles[0].FOVID, tiles[1].Start.X)

	// Output:
	// <nil>|2|fov-0|1162
}
