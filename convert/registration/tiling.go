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
	"errors"
	"fmt"

	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/logger"
)

// resolveTiling - assigns every FOV group its output slice per the requested
// mode. All modes except inplace guarantee the slices are XY-disjoint.
func resolveTiling(img *convertModels.TiledImage, mode convertModels.TilingMode, jobLog logger.ILogger) error {
	switch mode {
	case convertModels.TilingInplace, convertModels.TilingNone:
		// Keep original positions, overlap is the caller's problem
		for _, group := range img.Groups {
			bounds := group.Bounds()
			group.Slice = &bounds
		}
		return nil

	case convertModels.TilingSnapToGrid:
		err := snapToGrid(img)
		if err != nil {
			return err
		}

	case convertModels.TilingSnapToCorners:
		err := snapToCorners(img)
		if err != nil {
			return err
		}

	case convertModels.TilingAuto:
		err := snapToGrid(img)

		var gridErr convertModels.IrregularGridError
		if errors.As(err, &gridErr) {
			jobLog.Infof("FOVs of %v are not on a regular grid (%v), snapping to corners instead", img.CollectionPath, gridErr.Reason)
			err = snapToCorners(img)
		}
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("Unknown tiling mode: %v", mode)
	}

	return verifyDisjointXY(img)
}

// verifyDisjointXY - final safety net over the snap algorithms
func verifyDisjointXY(img *convertModels.TiledImage) error {
	for i, a := range img.Groups {
		for _, b := range img.Groups[i+1:] {
			if a.Slice.IntersectsXY(*b.Slice) {
				return convertModels.OverlapUnresolvedError{
					CollectionPath: img.CollectionPath,
					FOVID:          b.FOVID,
					Reason:         fmt.Sprintf("resolved slice overlaps FOV %v", a.FOVID),
				}
			}
		}
	}
	return nil
}

// minCellSize - the XY tiling cell is the smallest FOV extent on each axis,
// so no cell assignment can make two FOVs collide
func minCellSize(img *convertModels.TiledImage, ax convertModels.Axis) int64 {
	result := int64(0)
	for i, group := range img.Groups {
		length := group.Bounds().Shape.ValueForAxis(ax)
		if i == 0 || length < result {
			result = length
		}
	}
	return result
}
