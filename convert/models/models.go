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

// The importing code builds everything into these intermediate models, which
// the registration pipeline transforms and the output code writes out.

// PixelCoord - a position or extent in pixel space, one value per canonical axis
type PixelCoord struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
	C int64 `json:"c"`
	T int64 `json:"t"`
}

// ValueForAxis - reads the coordinate for one axis
func (p PixelCoord) ValueForAxis(ax Axis) int64 {
	switch ax {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	case AxisZ:
		return p.Z
	case AxisC:
		return p.C
	case AxisT:
		return p.T
	}
	return 0
}

// SetValueForAxis - writes the coordinate for one axis
func (p *PixelCoord) SetValueForAxis(ax Axis, value int64) {
	switch ax {
	case AxisX:
		p.X = value
	case AxisY:
		p.Y = value
	case AxisZ:
		p.Z = value
	case AxisC:
		p.C = value
	case AxisT:
		p.T = value
	}
}

// AsSlice - returns coordinate values for the given axes, in that order
func (p PixelCoord) AsSlice(axes []Axis) []int64 {
	result := make([]int64, len(axes))
	for i, ax := range axes {
		result[i] = p.ValueForAxis(ax)
	}
	return result
}

// Tile - one raw unit of acquired image data. Built once from a metadata row
// plus the acquisition defaults, then treated as read-only.
type Tile struct {
	// Opaque reference to the loadable pixel data, resolved by an image loader
	SourceRef string `json:"sourceref"`

	// Identifies the output image this tile belongs to, eg "plate-01/A1/0"
	CollectionPath string `json:"collectionpath"`

	// Identifies the field of view (stage position) this tile was acquired at
	FOVID string `json:"fovid"`

	// Start position and extent, in pixels, per axis
	Start  PixelCoord `json:"start"`
	Length PixelCoord `json:"length"`

	// Any extra key/value metadata carried through from the source table
	Meta map[string]string `json:"meta,omitempty"`
}

// Validate - checks the tile invariants hold
func (t Tile) Validate() error {
	for _, ax := range CanonicalAxes {
		if t.Length.ValueForAxis(ax) < 1 {
			return ConfigurationError{
				CollectionPath: t.CollectionPath,
				FOVID:          t.FOVID,
				Field:          "length_" + string(ax),
				Message:        fmt.Sprintf("length must be >= 1, got %v", t.Length.ValueForAxis(ax)),
			}
		}
	}
	return nil
}

// TileSlice - a resolved pixel-space region assigned to one FOV group for
// final placement in the output array. Only the tiling resolver makes these.
type TileSlice struct {
	Offset PixelCoord `json:"offset"`
	Shape  PixelCoord `json:"shape"`
}

// EndForAxis - exclusive end of the slice on one axis
func (s TileSlice) EndForAxis(ax Axis) int64 {
	return s.Offset.ValueForAxis(ax) + s.Shape.ValueForAxis(ax)
}

// IntersectsXY - do two slices overlap anywhere in the XY plane
func (s TileSlice) IntersectsXY(other TileSlice) bool {
	if s.Offset.X >= other.EndForAxis(AxisX) || other.Offset.X >= s.EndForAxis(AxisX) {
		return false
	}
	if s.Offset.Y >= other.EndForAxis(AxisY) || other.Offset.Y >= s.EndForAxis(AxisY) {
		return false
	}
	return true
}

// TileFOVGroup - all tiles sharing one FOV within one TiledImage. One physical
// stage position across its Z/C/T extent.
type TileFOVGroup struct {
	FOVID string `json:"fovid"`
	Tiles []Tile `json:"tiles"`

	// Filled in by the tiling resolver, nil before registration completes
	Slice *TileSlice `json:"slice,omitempty"`
}

// Bounds - the bounding region of all member tiles (min start, max end per axis)
func (g *TileFOVGroup) Bounds() TileSlice {
	result := TileSlice{}
	if len(g.Tiles) <= 0 {
		return result
	}

	for _, ax := range CanonicalAxes {
		minStart := g.Tiles[0].Start.ValueForAxis(ax)
		maxEnd := minStart + g.Tiles[0].Length.ValueForAxis(ax)

		for _, tile := range g.Tiles[1:] {
			start := tile.Start.ValueForAxis(ax)
			end := start + tile.Length.ValueForAxis(ax)
			if start < minStart {
				minStart = start
			}
			if end > maxEnd {
				maxEnd = end
			}
		}

		result.Offset.SetValueForAxis(ax, minStart)
		result.Shape.SetValueForAxis(ax, maxEnd-minStart)
	}
	return result
}

// TiledImage - the composite output unit, one complete image destined for one
// output location. Created by the aggregator, transformed by the registration
// pipeline, consumed by the writer.
type TiledImage struct {
	CollectionPath string          `json:"collectionpath"`
	Axes           []Axis          `json:"axes"`
	Groups         []*TileFOVGroup `json:"groups"`

	// Acquisition-wide values all tiles agreed on
	ChannelCount int64     `json:"channelcount"`
	PixelSize    float64   `json:"pixelsize"`
	ZSpacing     float64   `json:"zspacing"`
	TSpacing     float64   `json:"tspacing"`
	ChannelNames []string  `json:"channelnames,omitempty"`
	Wavelengths  []float64 `json:"wavelengths,omitempty"`
	DataType     string    `json:"datatype,omitempty"`

	Attributes map[string]string `json:"attributes,omitempty"`

	// Set by the tiling step once every group has a resolved slice
	Shape      PixelCoord `json:"shape"`
	Registered bool       `json:"registered"`
}

// Clone - deep copy, so pipeline steps can be value-in value-out without
// aliasing the caller's image
func (img *TiledImage) Clone() *TiledImage {
	result := *img

	result.Axes = append([]Axis{}, img.Axes...)
	result.ChannelNames = append([]string{}, img.ChannelNames...)
	result.Wavelengths = append([]float64{}, img.Wavelengths...)

	if img.Attributes != nil {
		result.Attributes = map[string]string{}
		for k, v := range img.Attributes {
			result.Attributes[k] = v
		}
	}

	result.Groups = make([]*TileFOVGroup, 0, len(img.Groups))
	for _, group := range img.Groups {
		groupCopy := &TileFOVGroup{
			FOVID: group.FOVID,
			Tiles: make([]Tile, len(group.Tiles)),
		}
		copy(groupCopy.Tiles, group.Tiles)
		for i := range groupCopy.Tiles {
			if group.Tiles[i].Meta != nil {
				metaCopy := map[string]string{}
				for k, v := range group.Tiles[i].Meta {
					metaCopy[k] = v
				}
				groupCopy.Tiles[i].Meta = metaCopy
			}
		}
		if group.Slice != nil {
			sliceCopy := *group.Slice
			groupCopy.Slice = &sliceCopy
		}
		result.Groups = append(result.Groups, groupCopy)
	}

	return &result
}

// AllTiles - flattened view over all groups, in group then tile order
func (img *TiledImage) AllTiles() []Tile {
	result := []Tile{}
	for _, group := range img.Groups {
		result = append(result, group.Tiles...)
	}
	return result
}

// BoundingShape - per-axis extent covering every group, using resolved slices
// where present, else raw tile bounds
func (img *TiledImage) BoundingShape() PixelCoord {
	result := PixelCoord{}
	for _, group := range img.Groups {
		bounds := group.Bounds()
		if group.Slice != nil {
			bounds = *group.Slice
		}
		for _, ax := range CanonicalAxes {
			end := bounds.EndForAxis(ax)
			if end > result.ValueForAxis(ax) {
				result.SetValueForAxis(ax, end)
			}
		}
	}
	return result
}

// FindGroup - looks up a group by FOV id
func (img *TiledImage) FindGroup(fovID string) *TileFOVGroup {
	for _, group := range img.Groups {
		if group.FOVID == fovID {
			return group
		}
	}
	return nil
}
