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
	"testing"

	"github.com/cloudwego/simpler/internal/defs"
	"github.com/stretchr/testify/require"
)

func andOr() *Builder {
	return NewBuilder("and_or").
		AddInput("a", "b", "c").
		AddGate(defs.K_and2, []string{"a", "b"}, []string{"n1"}).
		AddGate(defs.K_or2, []string{"n1", "c"}, []string{"y"}).
		SetOutputs("y")
}

func TestBuilder_AndOr(t *testing.T) {
	g, err := andOr().Build()
	require.NoError(t, err)
	require.Equal(t, 5, g.Len())
	require.Equal(t, 3, g.NumInputs())
	require.Equal(t, 2, g.NumGates())
	require.Equal(t, []int{4}, g.Roots())
	require.Empty(t, g.Unconnected())
	require.Empty(t, g.Children(3))
	require.Equal(t, []int{3}, g.Children(4))
	require.Equal(t, []int{0, 1}, g.Sources(3))
	require.Equal(t, []int{3, 2}, g.Sources(4))
	require.Equal(t, 1, g.FanOut(3))
	require.Equal(t, 1, g.FanOut(0))
	require.Equal(t, 0, g.FanOut(4))
	require.True(t, g.IsOutput(4))
	require.False(t, g.IsOutput(3))
	require.Equal(t, []int{3, 2}, g.Node(4).Args)

	id, ok := g.Producer("n1")
	require.True(t, ok)
	require.Equal(t, 3, id)

	pos := make(map[int]int)
	for i, id := range g.Order() {
		pos[id] = i
	}
	require.Len(t, pos, 5)
	require.Less(t, pos[0], pos[3])
	require.Less(t, pos[3], pos[4])
	require.Less(t, pos[2], pos[4])
}

func TestBuilder_Unconnected(t *testing.T) {
	g, err := NewBuilder("dangling").
		AddInput("a", "b", "unused").
		AddGate(defs.K_nor2, []string{"a", "b"}, []string{"y"}).
		AddGate(defs.K_inv1, []string{"1'b0"}, []string{"k"}).
		AddConstant("1'b0").
		SetOutputs("y", "k").
		Build()
	require.NoError(t, err)
	require.Equal(t, []int{3}, g.Roots())
	require.Equal(t, []int{2, 4}, g.Unconnected())
	require.Equal(t, []int{NoNode}, g.Node(4).Args)
}

func TestBuilder_RepeatedOperand(t *testing.T) {
	g, err := NewBuilder("repeat").
		AddInput("a").
		AddGate(defs.K_inv1, []string{"a"}, []string{"n"}).
		AddGate(defs.K_nand2, []string{"n", "n"}, []string{"y"}).
		SetOutputs("y").
		Build()
	require.NoError(t, err)
	require.Equal(t, 2, g.FanOut(1))
	require.Equal(t, []int{1, 1}, g.Children(2))
}

func TestBuilder_HalfAdder(t *testing.T) {
	g, err := NewBuilder("ha").
		AddInput("a", "b").
		AddGate(defs.K_ha, []string{"a", "b"}, []string{"s", "co"}).
		AddGate(defs.K_inv1, []string{"co"}, []string{"nco"}).
		SetOutputs("s", "nco").
		Build()
	require.NoError(t, err)
	id, ok := g.Producer("co")
	require.True(t, ok)
	require.Equal(t, 2, id)
	require.True(t, g.IsOutput(2))
	require.Equal(t, []int{3}, g.Roots())
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name   string
		build  *Builder
		reason string
	}{
		{
			name: "double driver",
			build: NewBuilder("x").AddInput("a").
				AddGate(defs.K_inv1, []string{"a"}, []string{"a"}),
			reason: "driven by both",
		},
		{
			name: "undriven operand",
			build: NewBuilder("x").AddInput("a").
				AddGate(defs.K_and2, []string{"a", "ghost"}, []string{"y"}),
			reason: "not driven",
		},
		{
			name: "arity mismatch",
			build: NewBuilder("x").AddInput("a", "b").
				AddGate(defs.K_ha, []string{"a", "b"}, []string{"y"}),
			reason: "drives 2 outputs",
		},
		{
			name: "undriven output",
			build: NewBuilder("x").AddInput("a").
				AddGate(defs.K_inv1, []string{"a"}, []string{"y"}).
				SetOutputs("z"),
			reason: "circuit output",
		},
		{
			name: "self loop",
			build: NewBuilder("x").AddInput("a").
				AddGate(defs.K_and2, []string{"a", "y"}, []string{"y"}),
			reason: "combinational cycle through 1 nodes",
		},
		{
			name: "self loop on second output",
			build: NewBuilder("x").AddInput("a").
				AddGate(defs.K_ha, []string{"a", "c"}, []string{"s", "c"}),
			reason: "combinational cycle through 1 nodes",
		},
		{
			name: "cycle",
			build: NewBuilder("x").AddInput("a").
				AddGate(defs.K_and2, []string{"a", "q"}, []string{"p"}).
				AddGate(defs.K_or2, []string{"a", "p"}, []string{"q"}),
			reason: "cycle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build.Build()
			require.Error(t, err)
			require.IsType(t, defs.GraphError{}, err)
			require.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestGraph_String(t *testing.T) {
	g, err := andOr().Build()
	require.NoError(t, err)
	require.Equal(t, "and_or: 3 inputs, 2 gates, 1 outputs, 1 roots, 0 unconnected", g.String())
	require.Equal(t, "y=or2(n1,c)[4]", g.Node(4).String())
	require.Equal(t, "a[input 0]", g.Node(0).String())
}

func TestRandom(t *testing.T) {
	a, err := Random(42, 4, 30).Build()
	require.NoError(t, err)
	b, err := Random(42, 4, 30).Build()
	require.NoError(t, err)
	require.Equal(t, a.String(), b.String())
	require.Equal(t, 4, a.NumInputs())
	require.Equal(t, 30, a.NumGates())
	require.NotEmpty(t, a.Roots())
	for _, r := range a.Roots() {
		require.True(t, a.IsOutput(r))
	}
	for id := a.NumInputs(); id < a.Len(); id++ {
		require.Equal(t, len(a.Node(id).Ins), len(a.Sources(id)))
	}
}
