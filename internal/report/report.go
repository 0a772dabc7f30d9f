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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/gopkg/util/xxhash3"
	"github.com/cloudwego/simpler/internal/mapper"
)

// Report is the readable outcome of a schedule.
type Report struct {
	Benchmark  string
	Technology string
	Order      string
	Inputs     []Binding
	Outputs    []Binding
	Trace      Trace
	Stats      Stats
	Digest     uint64
}

// New builds the report of a successful schedule.
func New(s *mapper.Schedule) *Report {
	g := s.Graph
	tr := NewTrace(s)
	ret := &Report{
		Benchmark:  g.Name(),
		Technology: s.Catalog.Name(),
		Order:      s.Order.String(),
		Trace:      tr,
		Stats:      newStats(s, tr),
		Digest:     xxhash3.HashString(tr.String()),
	}

	/* circuit inputs that feed something */
	for id := 0; id < g.NumInputs(); id++ {
		if g.FanOut(id) != 0 {
			ret.Inputs = append(ret.Inputs, Binding{Name: g.Node(id).Outs[0], Cell: id})
		}
	}

	/* circuit outputs that were evaluated */
	for _, name := range g.Outputs() {
		if id, ok := g.Producer(name); ok {
			if c := cellOf(s, id, name); c >= 0 {
				ret.Outputs = append(ret.Outputs, Binding{Name: name, Cell: c})
			}
		}
	}
	return ret
}

// InputList renders the input bindings as {a(0),b(1)}.
func (self *Report) InputList() string {
	return "{" + joinBindings(self.Inputs) + "}"
}

// OutputList renders the output bindings as {y(4)}.
func (self *Report) OutputList() string {
	return "{" + joinBindings(self.Outputs) + "}"
}

// String renders the whole report.
func (self *Report) String() string {
	var sb strings.Builder
	st := &self.Stats
	hs := &st.Halstead

	/* header and bindings */
	fmt.Fprintf(&sb, "MAPPING OF %s WITH ROW SIZE = %d\n\n", self.Benchmark, st.RowSize)
	fmt.Fprintf(&sb, "Inputs:%s\n", self.InputList())
	fmt.Fprintf(&sb, "Outputs:%s\n\n", self.OutputList())

	/* execution sequence */
	sb.WriteString("EXECUTION SEQUENCE + MAPPING: {\n")
	sb.WriteString(self.Trace.String())
	sb.WriteString("}\n\n")

	/* statistics */
	sb.WriteString("RESULTS AND STATISTICS:\n")
	fmt.Fprintf(&sb, "Benchmark: %s\n", self.Benchmark)
	fmt.Fprintf(&sb, "Technology: %s\n", self.Technology)
	fmt.Fprintf(&sb, "Root order: %s\n", self.Order)
	fmt.Fprintf(&sb, "Row size: %d\n", st.RowSize)
	fmt.Fprintf(&sb, "Number of inputs: %d\n", st.Inputs)
	fmt.Fprintf(&sb, "Number of gates: %d\n", st.Gates)
	fmt.Fprintf(&sb, "Number of gates with pairs: %d\n", st.PairedGates)
	fmt.Fprintf(&sb, "Total cycles: %d\n", st.TotalCycles)
	fmt.Fprintf(&sb, "Compute cycles: %d\n", st.ComputeCycles)
	fmt.Fprintf(&sb, "Total cycles with pairs: %d\n", st.PairedCycles)
	fmt.Fprintf(&sb, "Reuse cycles: %d\n", st.ReuseCycles)
	fmt.Fprintf(&sb, "Initialization ratio: %.4f\n", st.InitRatio)
	fmt.Fprintf(&sb, "Number of writes: %d\n", st.Writes)
	fmt.Fprintf(&sb, "Number of used cells: %d\n", st.UsedCells)
	fmt.Fprintf(&sb, "Max used cells: %d\n", st.HighWater)
	fmt.Fprintf(&sb, "n1 = %d, n2 = %d, N1 = %d, N2 = %d\n", hs.Operators, hs.Operands, hs.TotalOperators, hs.TotalOperands)
	fmt.Fprintf(&sb, "V = %.4f, D = %.4f, E = %.4f, I = %.4f\n", hs.Volume, hs.Difficulty, hs.Effort, hs.Intelligence)
	fmt.Fprintf(&sb, "Digest: %016x\n", self.Digest)
	return sb.String()
}

func (self *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, self.String())
	return int64(n), err
}
