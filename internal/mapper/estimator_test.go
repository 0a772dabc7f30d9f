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

package mapper

import (
	"fmt"
	"testing"

	"github.com/cloudwego/simpler/internal/circuit"
	"github.com/cloudwego/simpler/internal/defs"
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

func mustBuild(t *testing.T, b *circuit.Builder) *circuit.Graph {
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func randomCircuit(t *testing.T, seed int64, inputs int, gates int) *circuit.Graph {
	return mustBuild(t, circuit.Random(seed, inputs, gates))
}

func TestEstimator_Leaf(t *testing.T) {
	cat := testCatalog(t, map[defs.GateKind]defs.Gate{
		defs.K_and2: {Latency: 4, Scratch: 2},
		defs.K_ha:   {Latency: 2, Scratch: 1},
	})
	g := mustBuild(t, circuit.NewBuilder("leaf").
		AddInput("a", "b").
		AddGate(defs.K_and2, []string{"a", "b"}, []string{"n"}).
		AddGate(defs.K_ha, []string{"a", "b"}, []string{"s", "c"}).
		SetOutputs("n", "s", "c"))
	est := NewEstimator(g, cat)
	require.Equal(t, 3, est.Estimate(2))
	require.Equal(t, 3, est.Estimate(3))
	cu, ok := est.CU(0)
	require.False(t, ok)
	require.Equal(t, 0, cu)
}

func sethiUllman(t *testing.T) (*circuit.Graph, *defs.Catalog) {
	cat := testCatalog(t, map[defs.GateKind]defs.Gate{
		defs.K_and2: {Latency: 1, Scratch: 4},
		defs.K_or2:  {Latency: 1, Scratch: 2},
		defs.K_nor2: {Latency: 1, Scratch: 1},
	})
	g := mustBuild(t, circuit.NewBuilder("sethi_ullman").
		AddInput("a", "b").
		AddGate(defs.K_or2, []string{"a", "b"}, []string{"q"}).
		AddGate(defs.K_and2, []string{"a", "b"}, []string{"p"}).
		AddGate(defs.K_nor2, []string{"a", "b"}, []string{"r"}).
		AddGate(defs.K_xor3, []string{"q", "p", "r"}, []string{"x"}).
		AddGate(defs.K_inv1, []string{"x"}, []string{"y"}).
		SetOutputs("y"))
	return g, cat
}

func TestEstimator_SethiUllman(t *testing.T) {
	g, cat := sethiUllman(t)
	est := NewEstimator(g, cat)
	require.Equal(t, 5, est.Estimate(6))
	for id, cu := range map[int]int{2: 3, 3: 5, 4: 2, 5: 5, 6: 5} {
		v, ok := est.CU(id)
		require.True(t, ok, "node %d", id)
		require.Equal(t, cu, v, "node %d", id)
	}
	require.Equal(t, []int{3, 2, 4}, est.Ordered(5))
}

func TestEstimator_EqualChildren(t *testing.T) {
	cat := testCatalog(t, map[defs.GateKind]defs.Gate{
		defs.K_and2: {Latency: 1, Scratch: 2},
	})
	g := mustBuild(t, circuit.NewBuilder("equal").
		AddInput("a", "b").
		AddGate(defs.K_and2, []string{"a", "b"}, []string{"p"}).
		AddGate(defs.K_and2, []string{"b", "a"}, []string{"q"}).
		AddGate(defs.K_and2, []string{"a", "a"}, []string{"r"}).
		AddGate(defs.K_or3, []string{"r", "p", "q"}, []string{"y"}).
		SetOutputs("y"))
	est := NewEstimator(g, cat)
	require.Equal(t, 5, est.Estimate(5))
	require.Equal(t, []int{4, 2, 3}, est.Ordered(5))
}

func TestEstimator_Memoized(t *testing.T) {
	g, cat := sethiUllman(t)
	est := NewEstimator(g, cat)
	require.Equal(t, 5, est.Estimate(5))
	est.cu[3] = 100
	require.Equal(t, 5, est.Estimate(6))
	require.Equal(t, 100, est.Estimate(3))
}

func TestEstimator_Deep(t *testing.T) {
	b := circuit.NewBuilder("deep").AddInput("a")
	prev := "a"
	for i := 0; i < 100000; i++ {
		next := fmt.Sprintf("n%d", i)
		b.AddGate(defs.K_inv1, []string{prev}, []string{next})
		prev = next
	}
	g := mustBuild(t, b.SetOutputs(prev))
	est := NewEstimator(g, defs.DefaultCatalog())
	require.Equal(t, 1, est.Estimate(g.Len()-1))
}
