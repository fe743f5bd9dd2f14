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
	"strings"
)

// A conversion writes into a collection: either one well/acquisition of a
// multi-well plate, or a standalone image. This is a closed set, the rest of
// the converter only sees the interface.

const (
	KindPlate       = "plate"
	KindSingleImage = "single-image"
)

// Collection - where converted images end up, relative to the output root
type Collection interface {
	// Path - the relative output path for this collection
	Path() string

	// Kind - KindPlate or KindSingleImage
	Kind() string

	// Validate - checks identity fields before any output is created
	Validate() error
}

// PlateImage - one acquisition in one well of a named plate
type PlateImage struct {
	Plate       string `json:"plate"`
	Row         string `json:"row"`
	Column      int    `json:"column"`
	Acquisition int    `json:"acquisition"`
}

func (p PlateImage) Path() string {
	return fmt.Sprintf("%v/%v/%v/%v", p.Plate, p.Row, p.Column, p.Acquisition)
}

func (p PlateImage) Kind() string {
	return KindPlate
}

func (p PlateImage) Validate() error {
	if len(p.Plate) <= 0 {
		return fmt.Errorf("Plate name cannot be empty")
	}
	if strings.ContainsAny(p.Plate, "/\\") {
		return fmt.Errorf("Invalid plate name: %v", p.Plate)
	}
	if rowIndex(p.Row) < 0 {
		return fmt.Errorf("Invalid plate row: %v", p.Row)
	}
	if p.Column < 1 {
		return fmt.Errorf("Invalid plate column: %v", p.Column)
	}
	if p.Acquisition < 0 {
		return fmt.Errorf("Invalid acquisition index: %v", p.Acquisition)
	}
	return nil
}

// SingleImage - a standalone image, not part of a plate
type SingleImage struct {
	ImagePath string `json:"imagepath"`
}

func (s SingleImage) Path() string {
	return s.ImagePath
}

func (s SingleImage) Kind() string {
	return KindSingleImage
}

func (s SingleImage) Validate() error {
	if len(s.ImagePath) <= 0 {
		return fmt.Errorf("Image path cannot be empty")
	}
	return nil
}

// RowName - plate row letter for a 0-based row index, A..Z
func RowName(index int) string {
	if index < 0 || index >= 26 {
		return ""
	}
	return string(rune('A' + index))
}

// rowIndex - 0-based index for a row letter, -1 if it isn't one
func rowIndex(row string) int {
	if len(row) != 1 || row[0] < 'A' || row[0] > 'Z' {
		return -1
	}
	return int(row[0] - 'A')
}
