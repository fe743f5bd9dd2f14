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

import "fmt"

// Every error carries enough context to trace a failure back to one physical
// acquisition unit (collection path, FOV, tile).

// ConfigurationError - missing required fields or invalid unit flags on a tile row
type ConfigurationError struct {
	CollectionPath string
	FOVID          string
	Field          string
	Message        string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("Configuration error in %v: field %v: %v", locationDesc(e.CollectionPath, e.FOVID), e.Field, e.Message)
}

// UnitMismatchError - a world coordinate could not be converted to pixels
type UnitMismatchError struct {
	CollectionPath string
	FOVID          string
	Axis           Axis
	Spacing        float64
}

func (e UnitMismatchError) Error() string {
	return fmt.Sprintf("Unit mismatch in %v: axis %v has non-positive spacing %v", locationDesc(e.CollectionPath, e.FOVID), e.Axis, e.Spacing)
}

// InconsistentImageError - tiles within one collection path disagree on axes or channels
type InconsistentImageError struct {
	CollectionPath string
	FOVID          string
	Message        string
}

func (e InconsistentImageError) Error() string {
	return fmt.Sprintf("Inconsistent image %v: %v", locationDesc(e.CollectionPath, e.FOVID), e.Message)
}

// IrregularGridError - FOV positions do not form the regular lattice grid snapping needs
type IrregularGridError struct {
	CollectionPath string
	Reason         string
}

func (e IrregularGridError) Error() string {
	return fmt.Sprintf("Irregular grid in %v: %v", e.CollectionPath, e.Reason)
}

// OverlapUnresolvedError - corner snapping could not produce a disjoint layout
type OverlapUnresolvedError struct {
	CollectionPath string
	FOVID          string
	Reason         string
}

func (e OverlapUnresolvedError) Error() string {
	return fmt.Sprintf("Unresolved overlap in %v: %v", locationDesc(e.CollectionPath, e.FOVID), e.Reason)
}

// WriteFailure - the array store rejected a region write
type WriteFailure struct {
	CollectionPath string
	FOVID          string
	Offset         []int64
	Err            error
}

func (e WriteFailure) Error() string {
	return fmt.Sprintf("Write failed for %v at offset %v: %v", locationDesc(e.CollectionPath, e.FOVID), e.Offset, e.Err)
}

func (e WriteFailure) Unwrap() error {
	return e.Err
}

func locationDesc(collectionPath string, fovID string) string {
	if len(fovID) <= 0 {
		return collectionPath
	}
	return collectionPath + " FOV " + fovID
}
