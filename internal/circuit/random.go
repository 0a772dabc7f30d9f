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

	"github.com/brianvoe/gofakeit/v6"
	"github.com/cloudwego/simpler/internal/defs"
)

var randomKinds = []defs.GateKind{
	defs.K_inv1,
	defs.K_and2,
	defs.K_or2,
	defs.K_nor2,
	defs.K_xor2,
	defs.K_nand3,
	defs.K_ha,
}

// Random generates a layered circuit from seed. Every gate reads signals
// declared before it, and every gate output nobody reads becomes a
// circuit output.
func Random(seed int64, inputs int, gates int) *Builder {
	fk := gofakeit.New(seed)
	ret := NewBuilder(fmt.Sprintf("random_%d", seed))
	sig := make([]string, 0, inputs+gates*2)
	read := make(map[string]bool)

	/* circuit inputs */
	for i := 0; i < inputs; i++ {
		sig = append(sig, fmt.Sprintf("x%d", i))
		ret.AddInput(sig[i])
	}

	/* gates, picking operands among the signals declared so far */
	for i := 0; i < gates; i++ {
		var ins []string
		var outs []string

		/* pick the kind and the operands */
		kind := randomKinds[fk.Number(0, len(randomKinds)-1)]
		for j := 0; j < randomArity(kind); j++ {
			op := sig[fk.Number(0, len(sig)-1)]
			ins = append(ins, op)
			read[op] = true
		}

		/* name the outputs */
		for j := 0; j < kind.Outputs(); j++ {
			outs = append(outs, fmt.Sprintf("g%d_%d", i, j))
		}

		ret.AddGate(kind, ins, outs)
		sig = append(sig, outs...)
	}

	/* every unread gate output is a circuit output */
	var outs []string
	for _, s := range sig[inputs:] {
		if !read[s] {
			outs = append(outs, s)
		}
	}
	return ret.SetOutputs(outs...)
}

func randomArity(k defs.GateKind) int {
	switch k {
	case defs.K_inv1:
		return 1
	case defs.K_nand3:
		return 3
	default:
		return 2
	}
}
