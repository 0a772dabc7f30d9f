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

package simpler

import (
	"github.com/cloudwego/simpler/internal/defs"
)

type (
	// AllocationExhausted occurs when the row runs out of cells. It is the
	// only way a mapping attempt fails once its inputs are valid.
	AllocationExhausted = defs.AllocationExhausted

	// CatalogError occurs when a gate catalog or a technology name is invalid.
	CatalogError = defs.CatalogError

	// GraphError occurs when a circuit cannot be turned into a dependency graph.
	GraphError = defs.GraphError

	// RowSizeError occurs when a row cannot even hold the circuit inputs.
	RowSizeError = defs.RowSizeError

	// SyntaxError occurs when netlist text cannot be parsed.
	SyntaxError = defs.SyntaxError
)
