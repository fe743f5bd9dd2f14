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

// CooSystem - which coordinate system a raw start/length value is declared in
type CooSystem string

const (
	// CooWorld - physical units, micrometers or seconds, as reported by the stage
	CooWorld CooSystem = "world"

	// CooPixel - integer array-index units
	CooPixel CooSystem = "pixel"
)

// CooFlags - per-field coordinate system declarations. The channel axis is
// always pixel-space so it has no flag.
type CooFlags struct {
	StartX  CooSystem `json:"start_x" yaml:"start_x"`
	StartY  CooSystem `json:"start_y" yaml:"start_y"`
	StartZ  CooSystem `json:"start_z" yaml:"start_z"`
	StartT  CooSystem `json:"start_t" yaml:"start_t"`
	LengthX CooSystem `json:"length_x" yaml:"length_x"`
	LengthY CooSystem `json:"length_y" yaml:"length_y"`
	LengthZ CooSystem `json:"length_z" yaml:"length_z"`
	LengthT CooSystem `json:"length_t" yaml:"length_t"`
}

// DefaultCooFlags - the common case: stage positions in physical units, tile
// sizes in pixel counts
func DefaultCooFlags() CooFlags {
	return CooFlags{
		StartX:  CooWorld,
		StartY:  CooWorld,
		StartZ:  CooWorld,
		StartT:  CooWorld,
		LengthX: CooPixel,
		LengthY: CooPixel,
		LengthZ: CooPixel,
		LengthT: CooPixel,
	}
}

// Validate - checks every flag is world or pixel
func (f CooFlags) Validate() error {
	check := map[string]CooSystem{
		"start_x": f.StartX, "start_y": f.StartY, "start_z": f.StartZ, "start_t": f.StartT,
		"length_x": f.LengthX, "length_y": f.LengthY, "length_z": f.LengthZ, "length_t": f.LengthT,
	}
	for field, coo := range check {
		if coo != CooWorld && coo != CooPixel {
			return fmt.Errorf("Invalid coordinate system %v for %v", coo, field)
		}
	}
	return nil
}

// StageCorrections - orientation fixes for stages whose reported positions
// don't match the camera orientation
type StageCorrections struct {
	FlipX  bool `json:"flip_x" yaml:"flip_x"`
	FlipY  bool `json:"flip_y" yaml:"flip_y"`
	SwapXY bool `json:"swap_xy" yaml:"swap_xy"`
}

// AcquisitionDefaults - values known and fixed before conversion starts,
// applied to every tile row as it is built
type AcquisitionDefaults struct {
	// Spacings, used to convert world coordinates to pixels
	PixelSize float64 `json:"pixelsize" yaml:"pixelsize"` // micrometers/pixel, x and y
	ZSpacing  float64 `json:"z_spacing" yaml:"z_spacing"` // micrometers/slice
	TSpacing  float64 `json:"t_spacing" yaml:"t_spacing"` // seconds/frame

	CooFlags CooFlags `json:"coo_flags" yaml:"coo_flags"`

	Axes []Axis `json:"axes" yaml:"axes"`

	ChannelNames []string  `json:"channel_names,omitempty" yaml:"channel_names,omitempty"`
	Wavelengths  []float64 `json:"wavelengths,omitempty" yaml:"wavelengths,omitempty"`

	DataType string `json:"data_type,omitempty" yaml:"data_type,omitempty"`

	StageCorrections StageCorrections `json:"stage_corrections" yaml:"stage_corrections"`
}

// MakeAcquisitionDefaults - defaults for the common case
func MakeAcquisitionDefaults() AcquisitionDefaults {
	return AcquisitionDefaults{
		PixelSize: 1.0,
		ZSpacing:  1.0,
		TSpacing:  1.0,
		CooFlags:  DefaultCooFlags(),
		Axes:      append([]Axis{}, CanonicalAxes...),
		DataType:  "uint16",
	}
}

// SpacingForAxis - the world unit size for one axis. Channel has no world
// representation so asking for it is a bug in the caller.
func (d AcquisitionDefaults) SpacingForAxis(ax Axis) float64 {
	switch ax {
	case AxisX, AxisY:
		return d.PixelSize
	case AxisZ:
		return d.ZSpacing
	case AxisT:
		return d.TSpacing
	}
	return 0
}
