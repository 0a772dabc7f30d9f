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
	"math"
	"sort"
	"testing"

	"github.com/cloudwego/simpler/internal/cells"
	"github.com/cloudwego/simpler/internal/circuit"
	"github.com/cloudwego/simpler/internal/defs"
	"github.com/cloudwego/simpler/internal/mapper"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T, over map[defs.GateKind]defs.Gate) *defs.Catalog {
	tab := make(map[defs.GateKind]defs.Gate, defs.NumKinds)
	for k := 0; k < defs.NumKinds; k++ {
		tab[defs.GateKind(k)] = defs.Gate{Latency: 1}
	}
	for k, v := range over {
		tab[k] = v
	}
	cat, err := defs.NewCatalog("test", tab)
	require.NoError(t, err)
	return cat
}

func schedule(t *testing.T, b *circuit.Builder, cat *defs.Catalog, rows int) *mapper.Schedule {
	g, err := b.Build()
	require.NoError(t, err)
	s, err := mapper.Map(g, cat, rows, defs.O_given)
	require.NoError(t, err)
	return s
}

func TestReport_AndOr(t *testing.T) {
	cat := testCatalog(t, map[defs.GateKind]defs.Gate{
		defs.K_and2: {Latency: 2},
	})
	rp := New(schedule(t, circuit.NewBuilder("and_or").
		AddInput("a", "b", "c").
		AddGate(defs.K_and2, []string{"a", "b"}, []string{"n1"}).
		AddGate(defs.K_or2, []string{"n1", "c"}, []string{"y"}).
		SetOutputs("y"), cat, 5))

	require.Equal(t, "T1:n1(4)=and2{a(0),b(1)}\nT3:y(3)=or2{n1(4),c(2)}\n", rp.Trace.String())
	require.Equal(t, "{a(0),b(1),c(2)}", rp.InputList())
	require.Equal(t, "{y(3)}", rp.OutputList())
	require.Equal(t, "test", rp.Technology)
	require.Equal(t, "given", rp.Order)

	st := rp.Stats
	require.Equal(t, 5, st.RowSize)
	require.Equal(t, 3, st.Inputs)
	require.Equal(t, 2, st.Gates)
	require.Equal(t, 3, st.TotalCycles)
	require.Equal(t, 0, st.ReuseCycles)
	require.Equal(t, 3, st.ComputeCycles)
	require.Equal(t, 0.0, st.InitRatio)
	require.Equal(t, 2, st.Writes)
	require.Equal(t, 2, st.UsedCells)
	require.Equal(t, 5, st.HighWater)
	require.Equal(t, 2, st.PairedGates)
	require.Equal(t, 3, st.PairedCycles)

	hs := st.Halstead
	require.Equal(t, 5, hs.Operators)
	require.Equal(t, 4, hs.Operands)
	require.Equal(t, 10, hs.TotalOperators)
	require.Equal(t, 4, hs.TotalOperands)
	require.Equal(t, 9, hs.Vocabulary)
	require.Equal(t, 14, hs.Length)
	require.InDelta(t, 14*math.Log2(9), hs.Volume, 1e-9)
	require.InDelta(t, 2.5, hs.Difficulty, 1e-9)
	require.InDelta(t, 2.5*14*math.Log2(9), hs.Effort, 1e-9)
	require.InDelta(t, 14*math.Log2(9)/2.5, hs.Intelligence, 1e-9)
}

func TestReport_Pairs(t *testing.T) {
	rp := New(schedule(t, circuit.NewBuilder("chain").
		AddInput("a", "b", "c").
		AddGate(defs.K_and2, []string{"a", "b"}, []string{"n1"}).
		AddGate(defs.K_or2, []string{"n1", "c"}, []string{"n2"}).
		AddGate(defs.K_or2, []string{"n2", "a"}, []string{"y"}).
		SetOutputs("y"), testCatalog(t, nil), 5))

	require.Equal(t, []string{
		"T1:n1(4)=and2{a(0),b(1)}",
		"T2:n2(3)=or2{n1(4),c(2)}",
		"T3:Initialization{n1(4)}",
		"T4:y(4)=or2{n2(3),a(0)}",
	}, lines(rp.Trace))

	st := rp.Stats
	require.Equal(t, 3, st.Gates)
	require.Equal(t, 2, st.PairedGates)
	require.Equal(t, 3, st.PairedCycles)
	require.Equal(t, 1, st.ReuseCycles)
	require.Equal(t, 0.25, st.InitRatio)
	require.Equal(t, 2, st.UsedCells)
	require.Equal(t, 12, st.Halstead.TotalOperators)
	require.Equal(t, 6, st.Halstead.TotalOperands)
	require.Equal(t, 5, st.Halstead.Operands)
}

func TestReport_Scratch(t *testing.T) {
	cat := testCatalog(t, map[defs.GateKind]defs.Gate{
		defs.K_and2: {Latency: 3, Scratch: 2},
	})
	rp := New(schedule(t, circuit.NewBuilder("scratch").
		AddInput("a", "b").
		AddGate(defs.K_and2, []string{"a", "b"}, []string{"n"}).
		AddGate(defs.K_inv1, []string{"n"}, []string{"y"}).
		SetOutputs("y"), cat, 5))

	require.Equal(t, []string{
		"T1:n(2)=and2{a(0),b(1)}",
		"T4:Initialization{Interm(4),Interm(3)}",
		"T5:y(3)=inv1{n(2)}",
	}, lines(rp.Trace))
	require.Equal(t, []int{4, 3}, rp.Trace[0].Scratch)
	require.Equal(t, 3, rp.Stats.UsedCells)
}

func TestReport_Constant(t *testing.T) {
	rp := New(schedule(t, circuit.NewBuilder("constant").
		AddInput("a").
		AddConstant("1'b1").
		AddGate(defs.K_and2, []string{"a", "1'b1"}, []string{"y"}).
		SetOutputs("y"), testCatalog(t, nil), 3))

	require.Equal(t, "T1:y(2)=and2{a(0),1'b1}\n", rp.Trace.String())
	require.Equal(t, 2, rp.Stats.Halstead.Operands)
}

func TestReport_InitializationFirst(t *testing.T) {
	rp := New(schedule(t, circuit.NewBuilder("late_output").
		AddInput("a", "b").
		AddGate(defs.K_and2, []string{"a", "b"}, []string{"n1"}).
		AddGate(defs.K_or2, []string{"n1", "a"}, []string{"n2"}).
		AddGate(defs.K_ha, []string{"n2", "b"}, []string{"s", "c"}).
		SetOutputs("s", "c"), testCatalog(t, nil), 4))

	/* the second output cell of the half adder needs its own initialization */
	require.Equal(t, []string{
		"T1:n1(3)=and2{a(0),b(1)}",
		"T2:n2(2)=or2{n1(3),a(0)}",
		"T3:Initialization{n1(3)}",
		"T5:Initialization{n2(2)}",
		"T5:s(3),c(2)=ha{n2(2),b(1)}",
	}, lines(rp.Trace))
	require.Equal(t, "{s(3),c(2)}", rp.OutputList())
	require.Equal(t, []int{2, 3}, rp.Trace.Holding(len(rp.Trace)))
	require.Equal(t, []int{2}, rp.Trace.Holding(3))
}

func TestReport_Consistency(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		g, err := circuit.Random(seed, 5, 40).Build()
		require.NoError(t, err)

		/* find the smallest row that fits, to force many initializations */
		var sc *mapper.Scheduler
		for n := g.NumInputs() + 1; ; n++ {
			sc, err = mapper.NewScheduler(g, defs.DefaultCatalog(), n, defs.O_descend)
			require.NoError(t, err)
			if sc.Run() == nil {
				break
			}
		}

		/* replay the same row and snapshot it after every gate */
		type snapshot struct {
			events int
			cells  []int
		}
		var snaps []snapshot
		rows := sc.Pool().Size()
		sc, err = mapper.NewScheduler(g, defs.DefaultCatalog(), rows, defs.O_descend)
		require.NoError(t, err)
		last := 0
		sc.Observe(func() {
			if sc.Evaluated() == last {
				return
			}
			last = sc.Evaluated()
			pool := sc.Pool()
			held := append(pool.Cells(cells.Used), pool.Cells(cells.PendingInit)...)
			snap := snapshot{events: last + len(sc.Inits())}
			for _, c := range held {
				if c >= g.NumInputs() {
					snap.cells = append(snap.cells, c)
				}
			}
			sort.Ints(snap.cells)
			snaps = append(snaps, snap)
		})
		require.NoError(t, sc.Run())

		/* every prefix of the trace holds exactly the same cells */
		tr := New(sc.Schedule()).Trace
		require.NotEmpty(t, snaps)
		for _, sn := range snaps {
			if sn.cells == nil {
				sn.cells = []int{}
			}
			require.Equal(t, sn.cells, tr.Holding(sn.events), "seed %d, %d events", seed, sn.events)
		}
	}
}

func TestReport_Deterministic(t *testing.T) {
	g, err := circuit.Random(7, 6, 60).Build()
	require.NoError(t, err)
	a, err := mapper.Map(g, defs.DefaultCatalog(), 200, defs.O_ascend)
	require.NoError(t, err)
	b, err := mapper.Map(g, defs.DefaultCatalog(), 200, defs.O_ascend)
	require.NoError(t, err)
	ra, rb := New(a), New(b)
	require.Equal(t, ra.Digest, rb.Digest)
	require.Equal(t, ra.String(), rb.String())
	require.Contains(t, ra.String(), "EXECUTION SEQUENCE")
}

func lines(tr Trace) []string {
	ret := make([]string, len(tr))
	for i, ev := range tr {
		ret[i] = ev.String()
	}
	return ret
}
