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

package defs

import (
	"sort"
)

// Gate describes how one gate kind is evaluated on the row.
type Gate struct {
	Latency int // cycles, including the output cell initialization
	Outputs int // output cells, 1 or 2
	Scratch int // transient cells needed during evaluation
}

// Catalog is an immutable gate table covering every GateKind.
type Catalog struct {
	name string
	tab  [NumKinds]Gate
}

// NewCatalog validates gates and builds a catalog. Every kind must be
// present, and each entry must carry a positive latency, a non-negative
// scratch count and the kind's own output arity. A zero Outputs field is
// filled with the kind's arity.
func NewCatalog(name string, gates map[GateKind]Gate) (*Catalog, error) {
	ret := &Catalog{name: name}

	/* reject entries for unknown kinds */
	for k := range gates {
		if !k.IsValid() {
			return nil, ECatalog(k, "unknown gate kind")
		}
	}

	/* every kind must be covered */
	for i := 0; i < NumKinds; i++ {
		k := GateKind(i)
		g, ok := gates[k]

		/* check for the entry */
		if !ok {
			return nil, ECatalog(k, "missing from catalog "+name)
		}

		/* fill in the arity */
		if g.Outputs == 0 {
			g.Outputs = k.Outputs()
		}

		/* check the ranges */
		switch {
		case g.Latency <= 0:
			return nil, ECatalog(k, "latency must be positive")
		case g.Scratch < 0:
			return nil, ECatalog(k, "scratch cell count must not be negative")
		case g.Outputs != k.Outputs():
			return nil, ECatalog(k, "output arity does not match the gate")
		}

		/* add to table */
		ret.tab[k] = g
	}

	return ret, nil
}

func (self *Catalog) Name() string {
	return self.name
}

func (self *Catalog) Gate(k GateKind) Gate {
	return self.tab[k]
}

func (self *Catalog) Latency(k GateKind) int {
	return self.tab[k].Latency
}

func (self *Catalog) Outputs(k GateKind) int {
	return self.tab[k].Outputs
}

func (self *Catalog) Scratch(k GateKind) int {
	return self.tab[k].Scratch
}

// InitCycles is added to every preset latency for initializing the output cell.
const InitCycles = 1

// DefaultTechnology is the preset used when nothing else is configured.
const DefaultTechnology = "not-nor"

type technology struct {
	latency [NumKinds]int
	scratch [NumKinds]int
}

//                                inv nor2 nor3 nor4 and2 and3 and4 or2 or3 or4 nand2 nand3 nand4 xor2 xor3 xor4 xnor2 xnor3 xnor4 imp bout ha hs mux2 mux4
var technologies = map[string]technology{
	"not-nor": {
		latency: [NumKinds]int{1, 1, 3, 5, 3, 6, 9, 2, 4, 6, 4, 7, 10, 6, 11, 16, 5, 11, 16, 2, 2, 7, 6, 7, 16},
		scratch: [NumKinds]int{0, 1, 2, 4, 2, 5, 8, 1, 3, 5, 3, 6, 9, 5, 10, 15, 4, 10, 15, 1, 1, 5, 4, 6, 15},
	},
	"nor4": {
		latency: [NumKinds]int{1, 1, 1, 1, 3, 4, 5, 2, 2, 2, 4, 5, 6, 6, 11, 14, 5, 7, 8, 3, 2, 7, 6, 7, 16},
		scratch: [NumKinds]int{0, 0, 0, 0, 2, 3, 4, 1, 1, 1, 3, 4, 5, 5, 10, 13, 4, 6, 7, 2, 1, 5, 4, 6, 15},
	},
	"not-and-or": {
		latency: [NumKinds]int{1, 2, 3, 4, 1, 2, 3, 1, 2, 3, 2, 3, 4, 5, 9, 15, 5, 6, 8, 2, 2, 6, 5, 4, 11},
		scratch: [NumKinds]int{0, 1, 2, 3, 0, 1, 2, 0, 1, 2, 1, 2, 3, 4, 8, 14, 4, 5, 7, 1, 1, 4, 3, 3, 10},
	},
	"not-nor-and-or": {
		latency: [NumKinds]int{1, 1, 2, 3, 1, 2, 3, 1, 2, 3, 2, 3, 4, 4, 7, 11, 4, 5, 7, 2, 2, 7, 7, 4, 10},
		scratch: [NumKinds]int{0, 0, 1, 2, 0, 1, 2, 0, 1, 2, 1, 2, 3, 3, 6, 10, 3, 4, 6, 1, 1, 5, 5, 3, 9},
	},
	"all234": {
		latency: [NumKinds]int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 1, 1},
	},
	"not-nor-and-or-234": {
		latency: [NumKinds]int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 4, 7, 11, 4, 3, 3, 2, 2, 3, 3, 4, 10},
		scratch: [NumKinds]int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 3, 6, 10, 3, 2, 2, 1, 1, 1, 1, 3, 9},
	},
}

var catalogs = func() map[string]*Catalog {
	ret := make(map[string]*Catalog, len(technologies))
	for name, tech := range technologies {
		gates := make(map[GateKind]Gate, NumKinds)
		for i := 0; i < NumKinds; i++ {
			gates[GateKind(i)] = Gate{
				Latency: tech.latency[i] + InitCycles,
				Scratch: tech.scratch[i],
			}
		}
		if cat, err := NewCatalog(name, gates); err != nil {
			panic("simpler: invalid technology preset: " + err.Error())
		} else {
			ret[name] = cat
		}
	}
	return ret
}()

// LookupTechnology returns the catalog of a named technology preset.
func LookupTechnology(name string) (*Catalog, error) {
	if cat, ok := catalogs[name]; ok {
		return cat, nil
	} else {
		return nil, ETechnology(name)
	}
}

// DefaultCatalog returns the catalog of DefaultTechnology.
func DefaultCatalog() *Catalog {
	return catalogs[DefaultTechnology]
}

// Technologies lists the preset names in lexical order.
func Technologies() []string {
	ret := make([]string, 0, len(technologies))
	for name := range technologies {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
