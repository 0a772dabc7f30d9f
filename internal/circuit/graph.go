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
	"strings"

	"github.com/cloudwego/simpler/internal/defs"
)

// NoNode marks an operand that is not driven by any node, such as a constant.
const NoNode = -1

// Node is either a circuit input or a gate instance.
type Node struct {
	Id    int
	Input bool
	Kind  defs.GateKind
	Ins   []string // operand names, in port order
	Outs  []string // output names, in port order
	Args  []int    // producer of each operand, NoNode for constants
}

func (self *Node) String() string {
	if self.Input {
		return fmt.Sprintf("%s[input %d]", self.Outs[0], self.Id)
	} else {
		return fmt.Sprintf("%s=%s(%s)[%d]", strings.Join(self.Outs, ","), self.Kind, strings.Join(self.Ins, ","), self.Id)
	}
}

// Graph is the dependency DAG of a combinational circuit. Inputs occupy
// ids 0..NumInputs-1 and gates follow in declaration order. Every edge is
// a true data dependency; an operand used twice yields two edges.
type Graph struct {
	name     string
	nodes    []*Node
	inputs   int
	outputs  []string
	producer map[string]int
	isout    []bool
	in       [][]int
	out      [][]int
	children [][]int
	order    []int
	roots    []int
	dangling []int
}

func (self *Graph) Name() string {
	return self.name
}

// Len returns the number of nodes.
func (self *Graph) Len() int {
	return len(self.nodes)
}

func (self *Graph) Node(id int) *Node {
	return self.nodes[id]
}

func (self *Graph) Nodes() []*Node {
	return self.nodes
}

func (self *Graph) NumInputs() int {
	return self.inputs
}

// NumGates returns the number of gate nodes, connected or not.
func (self *Graph) NumGates() int {
	return len(self.nodes) - self.inputs
}

// Outputs returns the declared circuit output names.
func (self *Graph) Outputs() []string {
	return self.outputs
}

// Producer returns the node that drives the named signal.
func (self *Graph) Producer(name string) (int, bool) {
	id, ok := self.producer[name]
	return id, ok
}

// IsOutput reports whether the node drives a declared circuit output.
func (self *Graph) IsOutput(id int) bool {
	return self.isout[id]
}

// FanOut returns the number of consumer edges of the node.
func (self *Graph) FanOut(id int) int {
	return len(self.out[id])
}

// Sources returns the producers of every dependency edge into the node.
func (self *Graph) Sources(id int) []int {
	return self.in[id]
}

// Consumers returns the destinations of every dependency edge out of the node.
func (self *Graph) Consumers(id int) []int {
	return self.out[id]
}

// Children returns the non-input sources of the node in operand order.
// Circuit inputs are always resident and never compete for cells.
func (self *Graph) Children(id int) []int {
	return self.children[id]
}

// Roots returns the nodes with dependencies but no consumers, in node order.
func (self *Graph) Roots() []int {
	return self.roots
}

// Unconnected returns the nodes with neither dependencies nor consumers.
// They are not scheduled.
func (self *Graph) Unconnected() []int {
	return self.dangling
}

// Order returns every node in a topological order, producers first.
func (self *Graph) Order() []int {
	return self.order
}

func (self *Graph) String() string {
	return fmt.Sprintf(
		"%s: %d inputs, %d gates, %d outputs, %d roots, %d unconnected",
		self.name,
		self.inputs,
		self.NumGates(),
		len(self.outputs),
		len(self.roots),
		len(self.dangling),
	)
}
