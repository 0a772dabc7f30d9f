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
	"fmt"
	"strings"
)

// GateKind enumerates every gate the row can evaluate.
type GateKind uint8

const (
	K_inv1 GateKind = iota
	K_nor2
	K_nor3
	K_nor4
	K_and2
	K_and3
	K_and4
	K_or2
	K_or3
	K_or4
	K_nand2
	K_nand3
	K_nand4
	K_xor2
	K_xor3
	K_xor4
	K_xnor2
	K_xnor3
	K_xnor4
	K_implies
	K_bout
	K_ha
	K_hs
	K_mux2to1
	K_mux4to1
	NumKinds int = iota
)

var kindNames = [NumKinds]string{
	K_inv1:    "inv1",
	K_nor2:    "nor2",
	K_nor3:    "nor3",
	K_nor4:    "nor4",
	K_and2:    "and2",
	K_and3:    "and3",
	K_and4:    "and4",
	K_or2:     "or2",
	K_or3:     "or3",
	K_or4:     "or4",
	K_nand2:   "nand2",
	K_nand3:   "nand3",
	K_nand4:   "nand4",
	K_xor2:    "xor2",
	K_xor3:    "xor3",
	K_xor4:    "xor4",
	K_xnor2:   "xnor2",
	K_xnor3:   "xnor3",
	K_xnor4:   "xnor4",
	K_implies: "implies",
	K_bout:    "bout",
	K_ha:      "ha",
	K_hs:      "hs",
	K_mux2to1: "mux2to1",
	K_mux4to1: "mux4to1",
}

// outputs is a property of the gate itself, not of the technology.
var outputArity = [NumKinds]int{
	K_ha: 2,
	K_hs: 2,
}

var kindIndex = func() map[string]GateKind {
	m := make(map[string]GateKind, NumKinds)
	for i, s := range kindNames {
		m[s] = GateKind(i)
	}
	return m
}()

func (self GateKind) IsValid() bool {
	return int(self) < NumKinds
}

// Outputs returns the number of output cells a gate of this kind writes.
func (self GateKind) Outputs() int {
	if n := outputArity[self]; n != 0 {
		return n
	} else {
		return 1
	}
}

// CellName returns the library cell name used in synthesized netlists.
func (self GateKind) CellName() string {
	return "c_" + kindNames[self] + "_"
}

func (self GateKind) String() string {
	if self.IsValid() {
		return kindNames[self]
	} else {
		return fmt.Sprintf("GateKind(%d)", self)
	}
}

// ParseKind resolves a bare gate name such as "and2".
func ParseKind(name string) (GateKind, bool) {
	k, ok := kindIndex[strings.ToLower(name)]
	return k, ok
}

// ParseCell resolves a library cell instance type such as "c_and2_",
// "C_AND2_" or "c_ha" to its gate kind.
func ParseCell(name string) (GateKind, bool) {
	s := strings.ToLower(name)
	if !strings.HasPrefix(s, "c_") {
		return 0, false
	}

	/* strip the "c_" prefix and anything after the base name */
	s = s[2:]
	if i := strings.IndexByte(s, '_'); i >= 0 {
		s = s[:i]
	}

	/* "inv" is also accepted for the inverter */
	if s == "inv" || s == "not" {
		return K_inv1, true
	}
	return ParseKind(s)
}
