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
	"fmt"

	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/core/logger"
)

// The registration pipeline takes an aggregated image with raw stage
// positions and produces one with a disjoint pixel-space layout. Steps are
// pure: each returns a new image and leaves its input untouched.

// StepParams - the closed set of parameters a step can draw on, fixed when
// the pipeline is built
type StepParams struct {
	Alignment  convertModels.AlignmentCorrections
	TilingMode convertModels.TilingMode
}

// StepFunc - one pipeline step. Must not mutate the input image.
type StepFunc func(img *convertModels.TiledImage, params StepParams, jobLog logger.ILogger) (*convertModels.TiledImage, error)

// StepRegistry - named steps a pipeline can be built from
type StepRegistry struct {
	steps map[string]StepFunc
}

// Step names for the built-in pipeline
const (
	StepRemoveOffsets    = "remove_offsets"
	StepAlignToPixelGrid = "align_to_pixel_grid"
	StepFOVAlignment     = "fov_alignment_corrections"
	StepTileRegions      = "tile_regions"
)

// MakeStepRegistry - a registry with the built-in steps pre-registered
func MakeStepRegistry() *StepRegistry {
	result := &StepRegistry{steps: map[string]StepFunc{}}

	// These can't collide, ignore the error
	result.Register(StepRemoveOffsets, stepRemoveOffsets)
	result.Register(StepAlignToPixelGrid, stepAlignToPixelGrid)
	result.Register(StepFOVAlignment, stepFOVAlignment)
	result.Register(StepTileRegions, stepTileRegions)

	return result
}

// Register - adds a named step, rejecting duplicate names
func (r *StepRegistry) Register(name string, step StepFunc) error {
	if _, exists := r.steps[name]; exists {
		return fmt.Errorf("Step already registered: %v", name)
	}
	if step == nil {
		return fmt.Errorf("Step %v has no function", name)
	}
	r.steps[name] = step
	return nil
}

type pipelineStep struct {
	name string
	step StepFunc
}

// Pipeline - an ordered list of steps, resolved against a registry when built
// so a bad step name fails construction, not a run three hours in
type Pipeline struct {
	steps  []pipelineStep
	params StepParams
}

// NewPipeline - resolves step names against the registry
func NewPipeline(stepNames []string, registry *StepRegistry, params StepParams) (*Pipeline, error) {
	result := &Pipeline{params: params}

	for _, name := range stepNames {
		step, ok := registry.steps[name]
		if !ok {
			return nil, fmt.Errorf("Unknown registration step: %v", name)
		}
		result.steps = append(result.steps, pipelineStep{name: name, step: step})
	}

	return result, nil
}

// DefaultPipeline - the standard four-step registration for the given options
func DefaultPipeline(opts convertModels.ConverterOptions) *Pipeline {
	params := StepParams{
		Alignment:  opts.Alignment,
		TilingMode: opts.TilingMode,
	}

	// Built-in names always resolve
	pipeline, _ := NewPipeline([]string{
		StepRemoveOffsets,
		StepAlignToPixelGrid,
		StepFOVAlignment,
		StepTileRegions,
	}, MakeStepRegistry(), params)

	return pipeline
}

// Run - applies the steps strictly in order. Each step must hand back the
// same image identity (collection path and axes), anything else means the
// step is broken.
func (p *Pipeline) Run(img *convertModels.TiledImage, jobLog logger.ILogger) (*convertModels.TiledImage, error) {
	current := img

	for _, s := range p.steps {
		jobLog.Debugf("Registration step %v on %v", s.name, current.CollectionPath)

		next, err := s.step(current, p.params, jobLog)
		if err != nil {
			return nil, err
		}

		if next.CollectionPath != current.CollectionPath {
			return nil, fmt.Errorf("Step %v changed collection path from %v to %v", s.name, current.CollectionPath, next.CollectionPath)
		}
		if !convertModels.AxesEqual(next.Axes, current.Axes) {
			return nil, fmt.Errorf("Step %v changed axes from %v to %v", s.name, current.Axes, next.Axes)
		}

		current = next
	}

	return current, nil
}
