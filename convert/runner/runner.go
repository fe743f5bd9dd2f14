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

package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/omezarrtools/core/convert/aggregator"
	"github.com/omezarrtools/core/convert/collection"
	"github.com/omezarrtools/core/convert/loader"
	convertModels "github.com/omezarrtools/core/convert/models"
	"github.com/omezarrtools/core/convert/output"
	"github.com/omezarrtools/core/convert/registration"
	"github.com/omezarrtools/core/convert/tilebuilder"
	"github.com/omezarrtools/core/core/fileaccess"
	"github.com/omezarrtools/core/core/logger"
)

// Conversion runs in two phases so big batches can fan out: init parses the
// tile table once and parks one job file per output image, then each job file
// is an independent compute task. Small runs just call RunConversion which
// does both back to back.

// collectionRef - collection identity in a form that JSON round-trips. The
// kind tag says which pointer is live.
type collectionRef struct {
	Kind   string                  `json:"kind"`
	Plate  *collection.PlateImage  `json:"plate,omitempty"`
	Single *collection.SingleImage `json:"single,omitempty"`
}

func makeCollectionRef(col collection.Collection) (collectionRef, error) {
	switch c := col.(type) {
	case collection.PlateImage:
		return collectionRef{Kind: c.Kind(), Plate: &c}, nil
	case collection.SingleImage:
		return collectionRef{Kind: c.Kind(), Single: &c}, nil
	}
	return collectionRef{}, fmt.Errorf("Unknown collection type: %T", col)
}

func (r collectionRef) toCollection() (collection.Collection, error) {
	switch r.Kind {
	case collection.KindPlate:
		if r.Plate != nil {
			return *r.Plate, nil
		}
	case collection.KindSingleImage:
		if r.Single != nil {
			return *r.Single, nil
		}
	}
	return nil, fmt.Errorf("Malformed collection reference of kind %v", r.Kind)
}

// conversionUnit - the handoff between init and compute: one aggregated image
// plus where it belongs
type conversionUnit struct {
	Collection collectionRef             `json:"collection"`
	Image      *convertModels.TiledImage `json:"image"`
}

// InitConversion - parses the tile table, aggregates it into images and parks
// one temp job file per image under the output root. Returns the temp paths
// in first-seen collection order.
func InitConversion(fs fileaccess.FileAccess, job ConversionJob, jobLog logger.ILogger) ([]string, error) {
	err := job.Validate()
	if err != nil {
		return nil, err
	}

	tableData, err := fs.ReadObject(job.TableRoot, job.TablePath)
	if err != nil {
		return nil, fmt.Errorf("Failed to read tile table %v/%v: %v", job.TableRoot, job.TablePath, err)
	}

	source, err := MakeCSVRowSource(tableData)
	if err != nil {
		return nil, err
	}

	tiles := []convertModels.Tile{}
	collections := map[string]collection.Collection{}

	for {
		row, more, err := source.Next()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		tile, err := tilebuilder.BuildTile(row, job.Defaults)
		if err != nil {
			return nil, err
		}

		tiles = append(tiles, tile)
		collections[tile.CollectionPath] = row.Collection
	}

	if len(tiles) <= 0 {
		return nil, fmt.Errorf("Tile table %v/%v contains no tiles", job.TableRoot, job.TablePath)
	}

	images, err := aggregator.Aggregate(tiles, job.Defaults)
	if err != nil {
		return nil, err
	}

	jobLog.Infof("Table %v: %v tiles aggregated into %v images", job.TablePath, len(tiles), len(images))

	tempPaths := []string{}
	for _, collectionPath := range aggregator.OrderedPaths(tiles) {
		ref, err := makeCollectionRef(collections[collectionPath])
		if err != nil {
			return nil, err
		}

		unit := conversionUnit{Collection: ref, Image: images[collectionPath]}
		tempPath := tempPathFor(job.Options.TempPathTemplate, collectionPath)

		err = fs.WriteJSON(job.OutputRoot, tempPath, unit)
		if err != nil {
			return nil, fmt.Errorf("Failed to write job file %v: %v", tempPath, err)
		}
		tempPaths = append(tempPaths, tempPath)
	}

	return tempPaths, nil
}

// RunConversionJob - the compute phase for one parked job file: register the
// image, set up its collection, create the output array and write every FOV.
// The job file is removed once the write succeeds.
func RunConversionJob(
	ctx context.Context,
	fs fileaccess.FileAccess,
	job ConversionJob,
	tempPath string,
	store output.ArrayStore,
	imgLoader loader.ImageLoader,
	jobLog logger.ILogger) (output.WriteResult, error) {

	result := output.WriteResult{}

	unit := conversionUnit{}
	err := fs.ReadJSON(job.OutputRoot, tempPath, &unit, false)
	if err != nil {
		return result, fmt.Errorf("Failed to read job file %v: %v", tempPath, err)
	}
	if unit.Image == nil {
		return result, fmt.Errorf("Job file %v holds no image", tempPath)
	}

	col, err := unit.Collection.toCollection()
	if err != nil {
		return result, err
	}

	registered, err := registration.DefaultPipeline(job.Options).Run(unit.Image, jobLog)
	if err != nil {
		return result, err
	}

	outPath, err := collection.SetupCollection(fs, job.OutputRoot, col, jobLog)
	if err != nil {
		return result, err
	}

	sink, err := store.Create(output.ArrayParams{
		Path:   outPath,
		Axes:   registered.Axes,
		Shape:  registered.Shape.AsSlice(registered.Axes),
		DType:  registered.DataType,
		Chunks: output.ChunkShape(registered, job.Options),
	})
	if err != nil {
		return result, err
	}

	result, err = output.Write(ctx, registered, sink, imgLoader, job.Options.WriterMode, job.Options, jobLog)
	if err != nil {
		return result, err
	}

	err = fs.DeleteObject(job.OutputRoot, tempPath)
	if err != nil {
		jobLog.Errorf("Converted %v but failed to remove job file %v: %v", registered.CollectionPath, tempPath, err)
	}

	return result, nil
}

// RunConversion - init plus every compute job, sequentially. What the CLI
// runs when nothing needs to fan out.
func RunConversion(
	ctx context.Context,
	fs fileaccess.FileAccess,
	job ConversionJob,
	store output.ArrayStore,
	imgLoader loader.ImageLoader,
	jobLog logger.ILogger) ([]output.WriteResult, error) {

	tempPaths, err := InitConversion(fs, job, jobLog)
	if err != nil {
		return nil, err
	}

	results := []output.WriteResult{}
	for _, tempPath := range tempPaths {
		result, err := RunConversionJob(ctx, fs, job, tempPath, store, imgLoader, jobLog)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// tempPathFor - job file path for one collection, slashes flattened so the
// template's directory layout stays fixed
func tempPathFor(template string, collectionPath string) string {
	return fmt.Sprintf(template, strings.ReplaceAll(collectionPath, "/", "_"))
}
