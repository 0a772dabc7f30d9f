/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package simpler

import (
	"fmt"

	"github.com/cloudwego/simpler/internal/circuit"
	"github.com/cloudwego/simpler/internal/defs"
	"github.com/cloudwego/simpler/internal/mapper"
	"github.com/cloudwego/simpler/internal/opts"
	"github.com/cloudwego/simpler/internal/report"
)

type (
	Graph     = circuit.Graph
	Builder   = circuit.Builder
	Catalog   = defs.Catalog
	Schedule  = mapper.Schedule
	Placement = mapper.Placement
	Report    = report.Report
)

// NewBuilder starts the description of a circuit.
func NewBuilder(name string) *Builder {
	return circuit.NewBuilder(name)
}

// Result is a successful mapping of a circuit onto a row.
type Result struct {
	*Schedule
	Report *Report
}

func options(opt []Option) (opts.Options, *defs.Catalog, error) {
	o := opts.GetDefaultOptions()
	for _, fn := range opt {
		fn(&o)
	}
	cat, err := o.GetCatalog()
	return o, cat, err
}

func checkSize(g *Graph, o *opts.Options) error {
	if !o.CanMap(g.NumGates()) {
		return defs.EGraph(g.Name(), fmt.Sprintf("%d gates exceed the limit of %d", g.NumGates(), o.MaxGates))
	} else {
		return nil
	}
}

// Map schedules g onto a row of rowSize cells. The circuit inputs are
// pinned to the first cells of the row.
func Map(g *Graph, rowSize int, opt ...Option) (*Result, error) {
	o, cat, err := options(opt)
	if err != nil {
		return nil, err
	}
	if err = checkSize(g, &o); err != nil {
		return nil, err
	}

	/* map the circuit */
	s, err := mapper.Map(g, cat, rowSize, o.RootOrder)
	if err != nil {
		return nil, err
	}

	return &Result{
		Schedule: s,
		Report:   report.New(s),
	}, nil
}

// MinRowSize returns the smallest row size in [lo, hi] that g can be
// mapped onto. Whether a row fits only depends on its size, so the range
// is searched by bisection. If even hi does not fit, the failure of hi is
// returned.
func MinRowSize(g *Graph, lo int, hi int, opt ...Option) (int, error) {
	o, cat, err := options(opt)
	if err != nil {
		return 0, err
	}
	if err = checkSize(g, &o); err != nil {
		return 0, err
	}

	/* the row must at least hold the inputs */
	if lo < g.NumInputs() {
		lo = g.NumInputs()
	}
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		return 0, defs.ERowSize(hi, g.NumInputs())
	}

	/* the upper bound must fit */
	if _, err = mapper.Map(g, cat, hi, o.RootOrder); err != nil {
		return 0, err
	}

	/* bisect */
	for lo < hi {
		mid := lo + (hi-lo)/2
		if _, err = mapper.Map(g, cat, mid, o.RootOrder); err == nil {
			hi = mid
		} else if _, ok := err.(defs.AllocationExhausted); ok {
			lo = mid + 1
		} else {
			return 0, err
		}
	}
	return lo, nil
}
