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

package circuit

import (
	"fmt"
	"sort"

	"github.com/cloudwego/simpler/internal/defs"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type gateDecl struct {
	kind defs.GateKind
	ins  []string
	outs []string
}

// Builder collects circuit declarations and resolves them into a Graph.
type Builder struct {
	name    string
	inputs  []string
	gates   []gateDecl
	consts  map[string]bool
	outputs []string
}

func NewBuilder(name string) *Builder {
	return &Builder{
		name:   name,
		consts: make(map[string]bool),
	}
}

func (self *Builder) AddInput(names ...string) *Builder {
	self.inputs = append(self.inputs, names...)
	return self
}

// AddConstant declares a signal tied to a constant value. Operands naming
// it create no dependency.
func (self *Builder) AddConstant(names ...string) *Builder {
	for _, s := range names {
		self.consts[s] = true
	}
	return self
}

func (self *Builder) AddGate(kind defs.GateKind, ins []string, outs []string) *Builder {
	self.gates = append(self.gates, gateDecl{
		kind: kind,
		ins:  append([]string(nil), ins...),
		outs: append([]string(nil), outs...),
	})
	return self
}

func (self *Builder) SetOutputs(names ...string) *Builder {
	self.outputs = append(self.outputs[:0], names...)
	return self
}

// NumGates returns the number of gates declared so far.
func (self *Builder) NumGates() int {
	return len(self.gates)
}

// Build resolves every operand and returns the dependency graph.
func (self *Builder) Build() (*Graph, error) {
	ni := len(self.inputs)
	nn := ni + len(self.gates)

	/* allocate the graph */
	g := &Graph{
		name:     self.name,
		nodes:    make([]*Node, 0, nn),
		inputs:   ni,
		outputs:  append([]string(nil), self.outputs...),
		producer: make(map[string]int, nn),
		isout:    make([]bool, nn),
		in:       make([][]int, nn),
		out:      make([][]int, nn),
		children: make([][]int, nn),
	}

	/* circuit inputs */
	for i, name := range self.inputs {
		if err := g.define(name, i); err != nil {
			return nil, err
		}
		g.nodes = append(g.nodes, &Node{
			Id:    i,
			Input: true,
			Outs:  []string{name},
		})
	}

	/* gate outputs */
	for i, d := range self.gates {
		id := ni + i

		/* check the arity */
		if !d.kind.IsValid() {
			return nil, defs.EGraph(fmt.Sprint(d.outs), fmt.Sprintf("invalid gate kind %d", d.kind))
		} else if len(d.outs) != d.kind.Outputs() {
			return nil, defs.EGraph(fmt.Sprint(d.outs), fmt.Sprintf("%s drives %d outputs, %d declared", d.kind, d.kind.Outputs(), len(d.outs)))
		}

		/* register the outputs */
		for _, name := range d.outs {
			if err := g.define(name, id); err != nil {
				return nil, err
			}
		}

		/* add to node list */
		g.nodes = append(g.nodes, &Node{
			Id:   id,
			Kind: d.kind,
			Ins:  d.ins,
			Outs: d.outs,
			Args: make([]int, len(d.ins)),
		})
	}

	/* resolve operands into dependency edges */
	for _, p := range g.nodes[ni:] {
		for i, name := range p.Ins {
			src, ok := g.producer[name]

			/* constants and undriven signals */
			if self.consts[name] {
				p.Args[i] = NoNode
				continue
			} else if !ok {
				return nil, defs.EGraph(name, fmt.Sprintf("operand of node %d is not driven by anything", p.Id))
			}

			/* a gate reading its own output is a latch */
			if src == p.Id {
				return nil, defs.EGraph(name, "combinational cycle through 1 nodes")
			}

			/* add the dependency edge */
			p.Args[i] = src
			g.in[p.Id] = append(g.in[p.Id], src)
			g.out[src] = append(g.out[src], p.Id)
		}
	}

	/* children exclude the circuit inputs */
	for id, srcs := range g.in {
		for _, src := range srcs {
			if !g.nodes[src].Input {
				g.children[id] = append(g.children[id], src)
			}
		}
	}

	/* mark the nodes driving circuit outputs */
	for _, name := range g.outputs {
		if id, ok := g.producer[name]; !ok {
			return nil, defs.EGraph(name, "circuit output is not driven by anything")
		} else {
			g.isout[id] = true
		}
	}

	/* roots and unconnected nodes */
	for id := range g.nodes {
		if len(g.out[id]) == 0 {
			if len(g.in[id]) != 0 {
				g.roots = append(g.roots, id)
			} else {
				g.dangling = append(g.dangling, id)
			}
		}
	}

	/* the graph must be acyclic */
	order, err := g.sort()
	if err != nil {
		return nil, err
	}

	g.order = order
	return g, nil
}

func (self *Graph) define(name string, id int) error {
	if prev, ok := self.producer[name]; ok {
		return defs.EGraph(name, fmt.Sprintf("driven by both node %d and node %d", prev, id))
	} else {
		self.producer[name] = id
		return nil
	}
}

func (self *Graph) sort() ([]int, error) {
	dg := simple.NewDirectedGraph()

	/* add all the nodes */
	for id := range self.nodes {
		dg.AddNode(simple.Node(id))
	}

	/* add all the edges, duplicates collapse */
	for src, dsts := range self.out {
		for _, dst := range dsts {
			dg.SetEdge(dg.NewEdge(simple.Node(src), simple.Node(dst)))
		}
	}

	/* stable order among independent nodes */
	byID := func(nodes []graph.Node) {
		sort.Slice(nodes, func(i int, j int) bool {
			return nodes[i].ID() < nodes[j].ID()
		})
	}

	/* sort the nodes, reporting the first cycle found */
	nodes, err := topo.SortStabilized(dg, byID)
	if err != nil {
		if cc, ok := err.(topo.Unorderable); ok && len(cc) != 0 && len(cc[0]) != 0 {
			p := self.nodes[cc[0][0].ID()]
			return nil, defs.EGraph(p.Outs[0], fmt.Sprintf("combinational cycle through %d nodes", len(cc[0])))
		}
		return nil, defs.EGraph(self.name, err.Error())
	}

	/* convert to node IDs */
	ret := make([]int, len(nodes))
	for i, p := range nodes {
		ret[i] = int(p.ID())
	}
	return ret, nil
}
