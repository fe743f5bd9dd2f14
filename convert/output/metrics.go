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

package output

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var regionsWritten = promauto.NewCounter(prometheus.CounterOpts{
	Name: "converter_regions_written_total",
	Help: "Number of array regions written by the converter",
})

var bytesWritten = promauto.NewCounter(prometheus.CounterOpts{
	Name: "converter_bytes_written_total",
	Help: "Pixel bytes written by the converter",
})

var writeFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "converter_write_failures_total",
	Help: "Array region writes rejected by the store",
})
