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
)

// AllocationExhausted occurs when a cell is requested while both the
// available and the pending-initialization lists are empty.
type AllocationExhausted struct {
	RowSize int
	Node    int
	Cycle   int
}

func (self AllocationExhausted) Error() string {
	return fmt.Sprintf("AllocationExhausted: no cell left for node %d at cycle %d with row size %d", self.Node, self.Cycle, self.RowSize)
}

// CatalogError occurs when a gate catalog is incomplete or inconsistent.
type CatalogError struct {
	Kind       GateKind
	Technology string
	Reason     string
}

func (self CatalogError) Error() string {
	if self.Technology != "" {
		return fmt.Sprintf("CatalogError(%s): %s", self.Technology, self.Reason)
	} else {
		return fmt.Sprintf("CatalogError(%s): %s", self.Kind, self.Reason)
	}
}

// GraphError occurs when a circuit cannot be turned into a dependency graph.
type GraphError struct {
	Name   string
	Reason string
}

func (self GraphError) Error() string {
	if self.Name != "" {
		return fmt.Sprintf("GraphError(%s): %s", self.Name, self.Reason)
	} else {
		return "GraphError: " + self.Reason
	}
}

// RowSizeError occurs when the row cannot even hold the circuit inputs.
type RowSizeError struct {
	RowSize int
	Inputs  int
}

func (self RowSizeError) Error() string {
	if self.RowSize <= 0 {
		return fmt.Sprintf("RowSizeError: row size must be positive, got %d", self.RowSize)
	} else {
		return fmt.Sprintf("RowSizeError: %d inputs do not fit into a row of %d cells", self.Inputs, self.RowSize)
	}
}

// SyntaxError occurs when a netlist cannot be parsed.
type SyntaxError struct {
	Line   int
	Src    string
	Reason string
}

func (self SyntaxError) Error() string {
	return fmt.Sprintf("Syntax error at line %d: %s", self.Line, self.Reason)
}

func EAllocation(rows int, node int, cycle int) AllocationExhausted {
	return AllocationExhausted{
		RowSize: rows,
		Node:    node,
		Cycle:   cycle,
	}
}

func ECatalog(kind GateKind, reason string) CatalogError {
	return CatalogError{
		Kind:   kind,
		Reason: reason,
	}
}

func ETechnology(name string) CatalogError {
	return CatalogError{
		Technology: name,
		Reason:     fmt.Sprintf("unknown technology, use one of %v", Technologies()),
	}
}

func EGraph(name string, reason string) GraphError {
	return GraphError{
		Name:   name,
		Reason: reason,
	}
}

func ERowSize(rows int, inputs int) RowSizeError {
	return RowSizeError{
		RowSize: rows,
		Inputs:  inputs,
	}
}

func ESyntax(line int, src string, reason string) SyntaxError {
	return SyntaxError{
		Line:   line,
		Src:    src,
		Reason: reason,
	}
}
