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

package convertModels

import (
	"fmt"
)

func Example_validateAxes() {
	fmt.Printf("%v\n", ValidateAxes([]Axis{AxisC, AxisY, AxisX}))
	fmt.Printf("%v\n", ValidateAxes([]Axis{AxisY, AxisX}))
	fmt.Printf("%v\n", ValidateAxes([]Axis{AxisX, AxisY}))
	fmt.Printf("%v\n", ValidateAxes([]Axis{AxisZ, AxisX}))
	fmt.Printf("%v\n", ValidateAxes([]Axis{AxisT, AxisC, AxisZ, AxisY, AxisX}))

	// Output:
	// <nil>
	// <nil>
	// Axes must be in canonical order t,c,z,y,x, got: [x y]
	// Axes list must contain y and x, got: [z x]
	// <nil>
}

func Example_tileValidate() {
	tile := Tile{
		CollectionPath: "plate-01/A/1/0",
		FOVID:          "fov-3",
		Start:          PixelCoord{X: 100, Y: 200, Z: 0, C: 0, T: 0},
		Length:         PixelCoord{X: 512, Y: 512, Z: 1, C: 1, T: 1},
	}
	fmt.Printf("%v\n", tile.Validate())

	tile.Length.C = 0
	fmt.Printf("%v\n", tile.Validate())

	// Output:
	// <nil>
	// Configuration error in plate-01/A/1/0 FOV fov-3: field length_c: length must be >= 1, got 0
}

func Example_sliceIntersectsXY() {
	a := TileSlice{Offset: PixelCoord{X: 0, Y: 0}, Shape: PixelCoord{X: 100, Y: 100, Z: 1, C: 1, T: 1}}
	b := TileSlice{Offset: PixelCoord{X: 100, Y: 0}, Shape: PixelCoord{X: 100, Y: 100, Z: 1, C: 1, T: 1}}
	c := TileSlice{Offset: PixelCoord{X: 99, Y: 99}, Shape: PixelCoord{X: 100, Y: 100, Z: 1, C: 1, T: 1}}

	fmt.Printf("%v|%v|%v\n", a.IntersectsXY(b), a.IntersectsXY(c), b.IntersectsXY(c))

	// Output:
	// false|true|true
}

func Example_groupBounds() {
	group := TileFOVGroup{
		FOVID: "fov-0",
		Tiles: []Tile{
			{
				Start:  PixelCoord{X: 100, Y: 50, Z: 0, C: 0, T: 0},
				Length: PixelCoord{X: 512, Y: 512, Z: 1, C: 1, T: 1},
			},
			{
				Start:  PixelCoord{X: 100, Y: 50, Z: 1, C: 0, T: 0},
				Length: PixelCoord{X: 512, Y: 512, Z: 1, C: 1, T: 1},
			},
			{
				Start:  PixelCoord{X: 100, Y: 50, Z: 0, C: 1, T: 0},
				Length: PixelCoord{X: 512, Y: 512, Z: 1, C: 1, T: 1},
			},
		},
	}

	bounds := group.Bounds()
	fmt.Printf("%v|%v\n", bounds.Offset, bounds.Shape)

	// Output:
	// {100 50 0 0 0}|{512 512 2 2 1}
}

func Example_imageClone() {
	img := &TiledImage{
		CollectionPath: "run-7/0",
		Axes:           []Axis{AxisC, AxisY, AxisX},
		ChannelCount:   2,
		PixelSize:      0.65,
		Groups: []*TileFOVGroup{
			{
				FOVID: "fov-0",
				Tiles: []Tile{
					{
						FOVID:  "fov-0",
						Start:  PixelCoord{},
						Length: PixelCoord{X: 256, Y: 256, Z: 1, C: 1, T: 1},
						Meta:   map[string]string{"well": "A1"},
					},
				},
			},
		},
	}

	clone := img.Clone()
	clone.Groups[0].Tiles[0].Start.X = 999
	clone.Groups[0].Tiles[0].Meta["well"] = "B2"
	clone.Axes[0] = AxisT

	fmt.Printf("%v|%v|%v\n", img.Groups[0].Tiles[0].Start.X, img.Groups[0].Tiles[0].Meta["well"], img.Axes[0])
	fmt.Printf("%v|%v|%v\n", clone.Groups[0].Tiles[0].Start.X, clone.Groups[0].Tiles[0].Meta["well"], clone.Axes[0])

	// Output:
	// 0|A1|c
	// 999|B2|t
}

func Example_boundingShape() {
	img := &TiledImage{
		Axes: []Axis{AxisY, AxisX},
		Groups: []*TileFOVGroup{
			{
				FOVID: "fov-0",
				Tiles: []Tile{{Start: PixelCoord{X: 0, Y: 0}, Length: PixelCoord{X: 100, Y: 80, Z: 1, C: 1, T: 1}}},
			},
			{
				FOVID: "fov-1",
				Tiles: []Tile{{Start: PixelCoord{X: 95, Y: 0}, Length: PixelCoord{X: 100, Y: 80, Z: 1, C: 1, T: 1}}},
				Slice: &TileSlice{Offset: PixelCoord{X: 100, Y: 0}, Shape: PixelCoord{X: 100, Y: 80, Z: 1, C: 1, T: 1}},
			},
		},
	}

	shape := img.BoundingShape()
	fmt.Printf("%v|%v\n", shape.X, shape.Y)

	// Output:
	// 200|80
}
