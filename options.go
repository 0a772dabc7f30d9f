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

	"github.com/cloudwego/simpler/internal/defs"
	"github.com/cloudwego/simpler/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// RootOrder decides in which order the roots of a circuit are mapped.
type RootOrder = defs.RootOrder

const (
	// Given maps the roots in circuit order.
	Given = defs.O_given

	// Ascend maps the roots needing the fewest cells first.
	Ascend = defs.O_ascend

	// Descend maps the roots needing the most cells first.
	Descend = defs.O_descend
)

// WithRootOrder sets the order in which roots are mapped.
//
// The default value of this option is "given".
func WithRootOrder(o RootOrder) Option {
	if o > Descend {
		panic(fmt.Sprintf("simpler: invalid root order: %d", o))
	} else {
		return func(opt *opts.Options) { opt.RootOrder = o }
	}
}

// WithTechnology selects one of the built-in gate catalogs, such as
// "not-nor" or "all234". See Technologies for the full list.
//
// The default value of this option is "not-nor".
func WithTechnology(name string) Option {
	if _, err := defs.LookupTechnology(name); err != nil {
		panic("simpler: " + err.Error())
	} else {
		return func(opt *opts.Options) { opt.Technology = name; opt.Catalog = nil }
	}
}

// WithCatalog uses a custom gate catalog instead of a technology preset.
func WithCatalog(cat *defs.Catalog) Option {
	if cat == nil {
		panic("simpler: nil catalog")
	} else {
		return func(opt *opts.Options) { opt.Catalog = cat }
	}
}

// WithMaxGates refuses circuits with more gates than n.
//
// Set this option to "0" disables this limit.
//
// The default value of this option is "0".
func WithMaxGates(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("simpler: invalid gate limit: %d", n))
	} else {
		return func(opt *opts.Options) { opt.MaxGates = n }
	}
}

// SetDefaultRootOrder sets the default root order from now on.
//
// This value can also be configured with the `SIMPLER_ROOT_ORDER`
// environment variable.
//
// Returns the old opts.RootOrder value.
func SetDefaultRootOrder(o RootOrder) RootOrder {
	o, opts.RootOrder = opts.RootOrder, o
	return o
}

// SetDefaultTechnology sets the default technology from now on.
//
// This value can also be configured with the `SIMPLER_TECHNOLOGY`
// environment variable.
//
// Returns the old opts.Technology value.
func SetDefaultTechnology(name string) string {
	if _, err := defs.LookupTechnology(name); err != nil {
		panic("simpler: " + err.Error())
	}
	name, opts.Technology = opts.Technology, name
	return name
}

// Technologies lists the names of the built-in gate catalogs.
func Technologies() []string {
	return defs.Technologies()
}
