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
	"testing"

	"github.com/stretchr/testify/require"
)

func fullTable() map[GateKind]Gate {
	ret := make(map[GateKind]Gate, NumKinds)
	for i := 0; i < NumKinds; i++ {
		ret[GateKind(i)] = Gate{Latency: 1}
	}
	return ret
}

func TestCatalog_Errors(t *testing.T) {
	tests := []struct {
		name   string
		edit   func(map[GateKind]Gate)
		kind   GateKind
		reason string
	}{
		{
			name:   "missing kind",
			edit:   func(m map[GateKind]Gate) { delete(m, K_inv1) },
			kind:   K_inv1,
			reason: "missing from catalog x",
		},
		{
			name:   "unknown kind",
			edit:   func(m map[GateKind]Gate) { m[GateKind(99)] = Gate{Latency: 1} },
			kind:   GateKind(99),
			reason: "unknown gate kind",
		},
		{
			name:   "zero latency",
			edit:   func(m map[GateKind]Gate) { m[K_and2] = Gate{Latency: 0} },
			kind:   K_and2,
			reason: "latency must be positive",
		},
		{
			name:   "negative latency",
			edit:   func(m map[GateKind]Gate) { m[K_or3] = Gate{Latency: -2} },
			kind:   K_or3,
			reason: "latency must be positive",
		},
		{
			name:   "negative scratch",
			edit:   func(m map[GateKind]Gate) { m[K_xor2] = Gate{Latency: 3, Scratch: -1} },
			kind:   K_xor2,
			reason: "must not be negative",
		},
		{
			name:   "arity mismatch",
			edit:   func(m map[GateKind]Gate) { m[K_ha] = Gate{Latency: 3, Outputs: 1} },
			kind:   K_ha,
			reason: "output arity does not match the gate",
		},
		{
			name:   "two outputs on a single output gate",
			edit:   func(m map[GateKind]Gate) { m[K_nand2] = Gate{Latency: 3, Outputs: 2} },
			kind:   K_nand2,
			reason: "output arity does not match the gate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := fullTable()
			tt.edit(tab)
			cat, err := NewCatalog("x", tab)
			require.Nil(t, cat)
			require.IsType(t, CatalogError{}, err)
			require.Equal(t, tt.kind, err.(CatalogError).Kind)
			require.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestCatalog_Arity(t *testing.T) {
	tab := fullTable()
	tab[K_hs] = Gate{Latency: 4, Outputs: 2, Scratch: 3}
	cat, err := NewCatalog("x", tab)
	require.NoError(t, err)
	require.Equal(t, "x", cat.Name())
	require.Equal(t, 2, cat.Outputs(K_ha))
	require.Equal(t, 1, cat.Outputs(K_mux4to1))
	require.Equal(t, Gate{Latency: 4, Outputs: 2, Scratch: 3}, cat.Gate(K_hs))
	require.Equal(t, 4, cat.Latency(K_hs))
	require.Equal(t, 3, cat.Scratch(K_hs))
}

func TestCatalog_Presets(t *testing.T) {
	require.Equal(t, []string{
		"all234",
		"nor4",
		"not-and-or",
		"not-nor",
		"not-nor-and-or",
		"not-nor-and-or-234",
	}, Technologies())

	/* every preset covers every kind */
	for _, name := range Technologies() {
		cat, err := LookupTechnology(name)
		require.NoError(t, err, name)
		require.Equal(t, name, cat.Name())
		for i := 0; i < NumKinds; i++ {
			require.GreaterOrEqual(t, cat.Latency(GateKind(i)), 1+InitCycles, "%s %s", name, GateKind(i))
		}
	}

	/* latencies carry the initialization cycle */
	cat := DefaultCatalog()
	require.Equal(t, DefaultTechnology, cat.Name())
	require.Equal(t, Gate{Latency: 2, Outputs: 1}, cat.Gate(K_inv1))
	require.Equal(t, Gate{Latency: 4, Outputs: 1, Scratch: 2}, cat.Gate(K_and2))
	require.Equal(t, Gate{Latency: 8, Outputs: 2, Scratch: 5}, cat.Gate(K_ha))

	all, err := LookupTechnology("all234")
	require.NoError(t, err)
	require.Equal(t, Gate{Latency: 3, Outputs: 2}, all.Gate(K_hs))
}

func TestCatalog_UnknownTechnology(t *testing.T) {
	cat, err := LookupTechnology("cmos")
	require.Nil(t, cat)
	require.IsType(t, CatalogError{}, err)
	require.Equal(t, "cmos", err.(CatalogError).Technology)
	require.Contains(t, err.Error(), "CatalogError(cmos): unknown technology")
	require.Contains(t, err.Error(), "not-nor-and-or-234")
}

func TestGateKind_ParseCell(t *testing.T) {
	tests := []struct {
		cell string
		kind GateKind
		ok   bool
	}{
		{"c_and2_", K_and2, true},
		{"C_AND2_", K_and2, true},
		{"c_ha", K_ha, true},
		{"c_hs_", K_hs, true},
		{"c_inv_", K_inv1, true},
		{"c_not_", K_inv1, true},
		{"c_inv1_", K_inv1, true},
		{"c_nor2_x4", K_nor2, true},
		{"c_mux4to1_lvt", K_mux4to1, true},
		{"c_implies_", K_implies, true},
		{"and2", 0, false},
		{"c_dff_", 0, false},
		{"c_", 0, false},
		{"nand2_c_", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			k, ok := ParseCell(tt.cell)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.kind, k)
			}
		})
	}
}

func TestGateKind_Names(t *testing.T) {
	for i := 0; i < NumKinds; i++ {
		k := GateKind(i)
		v, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		require.Equal(t, k, v)
		v, ok = ParseCell(k.CellName())
		require.True(t, ok, k.CellName())
		require.Equal(t, k, v)
	}

	k, ok := ParseKind("XOR3")
	require.True(t, ok)
	require.Equal(t, K_xor3, k)
	_, ok = ParseKind("xor5")
	require.False(t, ok)

	require.Equal(t, "c_and2_", K_and2.CellName())
	require.Equal(t, "GateKind(99)", GateKind(99).String())
	require.False(t, GateKind(NumKinds).IsValid())
	require.Equal(t, 2, K_ha.Outputs())
	require.Equal(t, 2, K_hs.Outputs())
	require.Equal(t, 1, K_bout.Outputs())
}

func TestRootOrder_Parse(t *testing.T) {
	for _, o := range []RootOrder{O_given, O_ascend, O_descend} {
		v, ok := ParseRootOrder(o.String())
		require.True(t, ok)
		require.Equal(t, o, v)
	}
	require.Equal(t, "ascend", O_ascend.String())
	require.Equal(t, "RootOrder(7)", RootOrder(7).String())
	_, ok := ParseRootOrder("Given")
	require.False(t, ok)
	_, ok = ParseRootOrder("")
	require.False(t, ok)
}

func TestErrors_Messages(t *testing.T) {
	require.Equal(t, "AllocationExhausted: no cell left for node 4 at cycle 2 with row size 4", EAllocation(4, 4, 2).Error())
	require.Equal(t, "RowSizeError: row size must be positive, got 0", ERowSize(0, 3).Error())
	require.Equal(t, "RowSizeError: 3 inputs do not fit into a row of 2 cells", ERowSize(2, 3).Error())
	require.Equal(t, "GraphError(y): bad", EGraph("y", "bad").Error())
	require.Equal(t, "GraphError: bad", EGraph("", "bad").Error())
	require.Equal(t, "Syntax error at line 7: oops", ESyntax(7, "x", "oops").Error())
	require.Equal(t, "CatalogError(ha): no", ECatalog(K_ha, "no").Error())
}
