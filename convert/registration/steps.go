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

package registration

import (
	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/logger"
)

// stepRemoveOffsets - shifts all tiles so the minimum start on every axis is
// zero. Idempotent.
func stepRemoveOffsets(img *convertModels.TiledImage, params StepParams, jobLog logger.ILogger) (*convertModels.TiledImage, error) {
	result := img.Clone()

	tiles := result.AllTiles()
	if len(tiles) <= 0 {
		return result, nil
	}

	for _, ax := range convertModels.CanonicalAxes {
		minStart := tiles[0].Start.ValueForAxis(ax)
		for _, tile := range tiles[1:] {
			if start := tile.Start.ValueForAxis(ax); start < minStart {
				minStart = start
			}
		}

		if minStart == 0 {
			continue
		}

		for _, group := range result.Groups {
			for i := range group.Tiles {
				group.Tiles[i].Start.SetValueForAxis(ax, group.Tiles[i].Start.ValueForAxis(ax)-minStart)
			}
		}
	}

	return result, nil
}

// stepAlignToPixelGrid - positions are already integer pixels by the time
// they get here, so this only has to verify every tile still has a usable
// extent after normalization.
func stepAlignToPixelGrid(img *convertModels.TiledImage, params StepParams, jobLog logger.ILogger) (*convertModels.TiledImage, error) {
	result := img.Clone()

	for _, tile := range result.AllTiles() {
		if err := tile.Validate(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// stepFOVAlignment - per-FOV drift corrections. XY alignment forces every
// tile in a group onto the XY position of the group's first tile, so a z
// stack acquired with slight stage drift stays a single column. Z and T
// correction would need image content matching, which we don't do.
func stepFOVAlignment(img *convertModels.TiledImage, params StepParams, jobLog logger.ILogger) (*convertModels.TiledImage, error) {
	result := img.Clone()

	if params.Alignment.AlignZ {
		jobLog.Infof("align_z requested for %v but z alignment is not implemented, skipping", result.CollectionPath)
	}
	if params.Alignment.AlignT {
		jobLog.Infof("align_t requested for %v but t alignment is not implemented, skipping", result.CollectionPath)
	}

	if !params.Alignment.AlignXY {
		return result, nil
	}

	for _, group := range result.Groups {
		if len(group.Tiles) <= 1 {
			continue
		}

		refX := group.Tiles[0].Start.X
		refY := group.Tiles[0].Start.Y
		for i := range group.Tiles[1:] {
			group.Tiles[i+1].Start.X = refX
			group.Tiles[i+1].Start.Y = refY
		}
	}

	return result, nil
}

// stepTileRegions - resolves every FOV group to a disjoint output slice and
// records the final image shape
func stepTileRegions(img *convertModels.TiledImage, params StepParams, jobLog logger.ILogger) (*convertModels.TiledImage, error) {
	result := img.Clone()

	err := resolveTiling(result, params.TilingMode, jobLog)
	if err != nil {
		return nil, err
	}

	result.Shape = result.BoundingShape()
	result.Registered = true
	return result, nil
}
