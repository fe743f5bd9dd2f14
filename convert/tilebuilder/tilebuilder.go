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
	"math"

	"github.com/omezarrtools/core/convert/collection"
	convertModels "github.com/omezarrtools/core/convert/models"
)

// Turns raw metadata rows into tiles with pixel-space coordinates. This is the
// only place world units exist, everything downstream is integer pixels.

// TileRow - one row of the source metadata table, values still in whatever
// units the acquisition software reported. Fields are pointers because most
// tables only fill in a subset.
type TileRow struct {
	SourceRef  string
	FOVID      string
	Collection collection.Collection

	StartX  *float64
	StartY  *float64
	StartZ  *float64
	StartC  *float64
	StartT  *float64
	LengthX *float64
	LengthY *float64
	LengthZ *float64
	LengthC *float64
	LengthT *float64

	Meta map[string]string
}

// RowSource - where tile rows come from. Parsing the table format is the
// caller's business, this package only sees rows.
type RowSource interface {
	// Next - returns the next row, false when the source is exhausted
	Next() (TileRow, bool, error)
}

// BuildTile - builds one pixel-space tile from a metadata row and the
// acquisition defaults
func BuildTile(row TileRow, defaults convertModels.AcquisitionDefaults) (convertModels.Tile, error) {
	result := convertModels.Tile{}

	if row.Collection == nil {
		return result, convertModels.ConfigurationError{
			FOVID:   row.FOVID,
			Field:   "collection",
			Message: "no collection identity on row",
		}
	}
	err := row.Collection.Validate()
	if err != nil {
		return result, convertModels.ConfigurationError{
			FOVID:   row.FOVID,
			Field:   "collection",
			Message: err.Error(),
		}
	}

	collectionPath := row.Collection.Path()

	if len(row.FOVID) <= 0 {
		return result, convertModels.ConfigurationError{
			CollectionPath: collectionPath,
			Field:          "fovid",
			Message:        "no FOV id on row",
		}
	}

	err = defaults.CooFlags.Validate()
	if err != nil {
		return result, convertModels.ConfigurationError{
			CollectionPath: collectionPath,
			FOVID:          row.FOVID,
			Field:          "coo_flags",
			Message:        err.Error(),
		}
	}

	flags := defaults.CooFlags
	applyStageCorrections(&row, &flags, defaults.StageCorrections)

	result.SourceRef = row.SourceRef
	result.CollectionPath = collectionPath
	result.FOVID = row.FOVID
	if row.Meta != nil {
		result.Meta = map[string]string{}
		for k, v := range row.Meta {
			result.Meta[k] = v
		}
	}

	type fieldSpec struct {
		axis     convertModels.Axis
		field    string
		raw      *float64
		coo      convertModels.CooSystem
		required bool
		missing  int64
		dest     *convertModels.PixelCoord
	}

	fields := []fieldSpec{
		{convertModels.AxisX, "start_x", row.StartX, flags.StartX, true, 0, &result.Start},
		{convertModels.AxisY, "start_y", row.StartY, flags.StartY, true, 0, &result.Start},
		{convertModels.AxisZ, "start_z", row.StartZ, flags.StartZ, false, 0, &result.Start},
		{convertModels.AxisC, "start_c", row.StartC, convertModels.CooPixel, false, 0, &result.Start},
		{convertModels.AxisT, "start_t", row.StartT, flags.StartT, false, 0, &result.Start},
		{convertModels.AxisX, "length_x", row.LengthX, flags.LengthX, true, 1, &result.Length},
		{convertModels.AxisY, "length_y", row.LengthY, flags.LengthY, true, 1, &result.Length},
		{convertModels.AxisZ, "length_z", row.LengthZ, flags.LengthZ, false, 1, &result.Length},
		{convertModels.AxisC, "length_c", row.LengthC, convertModels.CooPixel, false, 1, &result.Length},
		{convertModels.AxisT, "length_t", row.LengthT, flags.LengthT, false, 1, &result.Length},
	}

	for _, f := range fields {
		if f.raw == nil {
			if f.required {
				return result, convertModels.ConfigurationError{
					CollectionPath: collectionPath,
					FOVID:          row.FOVID,
					Field:          f.field,
					Message:        "required value missing",
				}
			}
			f.dest.SetValueForAxis(f.axis, f.missing)
			continue
		}

		pixels, err := toPixels(*f.raw, f.coo, f.axis, f.field, collectionPath, row.FOVID, defaults)
		if err != nil {
			return result, err
		}
		f.dest.SetValueForAxis(f.axis, pixels)
	}

	return result, result.Validate()
}

// BuildTiles - drains a row source into tiles, stopping at the first bad row
func BuildTiles(source RowSource, defaults convertModels.AcquisitionDefaults) ([]convertModels.Tile, error) {
	result := []convertModels.Tile{}

	for {
		row, more, err := source.Next()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		tile, err := BuildTile(row, defaults)
		if err != nil {
			return nil, err
		}
		result = append(result, tile)
	}

	return result, nil
}

// applyStageCorrections - fixes raw stage coordinates for camera orientation
// before any unit conversion. Flipped axes end up with negative starts, the
// offset removal step re-zeros them later. A swapped value keeps the
// coordinate system it was declared in, so the flags swap with it.
func applyStageCorrections(row *TileRow, flags *convertModels.CooFlags, corrections convertModels.StageCorrections) {
	if corrections.SwapXY {
		row.StartX, row.StartY = row.StartY, row.StartX
		row.LengthX, row.LengthY = row.LengthY, row.LengthX
		flags.StartX, flags.StartY = flags.StartY, flags.StartX
		flags.LengthX, flags.LengthY = flags.LengthY, flags.LengthX
	}
	if corrections.FlipX && row.StartX != nil {
		negated := -*row.StartX
		row.StartX = &negated
	}
	if corrections.FlipY && row.StartY != nil {
		negated := -*row.StartY
		row.StartY = &negated
	}
}

// toPixels - converts one raw value to pixels per its declared coordinate system
func toPixels(raw float64, coo convertModels.CooSystem, axis convertModels.Axis, field string, collectionPath string, fovID string, defaults convertModels.AcquisitionDefaults) (int64, error) {
	if coo == convertModels.CooWorld {
		spacing := defaults.SpacingForAxis(axis)
		if spacing <= 0 {
			return 0, convertModels.UnitMismatchError{
				CollectionPath: collectionPath,
				FOVID:          fovID,
				Axis:           axis,
				Spacing:        spacing,
			}
		}
		quotient := raw / spacing

		// Positions that are an exact multiple of the spacing must convert
		// exactly, so snap near-integer quotients before flooring. Without
		// this, float division turns eg 7*0.65/0.65 into 6.999...
		nearest := math.Round(quotient)
		if math.Abs(quotient-nearest) < 1e-6 {
			return int64(nearest), nil
		}
		return int64(math.Floor(quotient)), nil
	}

	if raw != math.Trunc(raw) {
		return 0, convertModels.ConfigurationError{
			CollectionPath: collectionPath,
			FOVID:          fovID,
			Field:          field,
			Message:        fmt.Sprintf("pixel value must be an integer, got %v", raw),
		}
	}
	return int64(raw), nil
}
