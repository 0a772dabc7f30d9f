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

package netlist

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cloudwego/simpler/internal/circuit"
	"github.com/cloudwego/simpler/internal/defs"
	"github.com/pkg/errors"
)

var (
	commentRE  = regexp.MustCompile(`(?s)//[^\n]*|/\*.*?\*/`)
	moduleRE   = regexp.MustCompile(`(?s)^module\s+(\S+?)\s*(?:\(.*\))?$`)
	declRE     = regexp.MustCompile(`(?s)^(input|output|wire)\s+(?:\[\s*(\d+)\s*:\s*(\d+)\s*\]\s*)?(.*)$`)
	instanceRE = regexp.MustCompile(`(?s)^(\S+)\s+(\S+)\s*\((.*)\)$`)
	pinRE      = regexp.MustCompile(`\.\s*\w+\s*\(\s*([^()]*?)\s*\)`)
	constRE    = regexp.MustCompile(`^\d*'[bBdDhH][0-9a-fA-FxXzZ_]+$`)
)

// Instance is one library cell placed in the netlist.
type Instance struct {
	Name string
	Cell string
	Kind defs.GateKind
	Ins  []string
	Outs []string
	Line int
}

func (self *Instance) String() string {
	return fmt.Sprintf("%s %s (%s) -> (%s)", self.Kind.CellName(), self.Name, strings.Join(self.Ins, ", "), strings.Join(self.Outs, ", "))
}

// Netlist is a flat gate-level module built from c_<gate> cells.
type Netlist struct {
	Name      string
	Inputs    []string
	Outputs   []string
	Wires     []string
	Constants []string
	Instances []*Instance
}

// Reader parses netlist text.
type Reader struct {
	Name  string
	Warnf func(format string, args ...interface{})
}

// Read parses a netlist with the default reader.
func Read(r io.Reader) (*Netlist, error) {
	return new(Reader).Read(r)
}

// ReadFile parses the netlist stored at path, named after the file.
func ReadFile(path string, warnf func(string, ...interface{})) (*Netlist, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open netlist")
	}

	/* name the module after the file */
	defer fp.Close()
	rd := &Reader{
		Name:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Warnf: warnf,
	}

	/* parse the netlist */
	nl, err := rd.Read(fp)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return nl, nil
}

func (self *Reader) warnf(format string, args ...interface{}) {
	if self.Warnf != nil {
		self.Warnf(format, args...)
	}
}

type statement struct {
	line int
	text string
}

func split(src string) []statement {
	var ret []statement
	line := 1

	/* statements end with a semicolon, except endmodule */
	for len(src) != 0 {
		n := strings.IndexByte(src, ';')
		if n < 0 {
			n = len(src)
		}

		/* skip the leading blanks, counting the lines */
		text := src[:n]
		trim := strings.TrimLeft(text, " \t\r\n")
		start := line + strings.Count(text[:len(text)-len(trim)], "\n")
		line += strings.Count(text, "\n")

		/* keep the non-empty ones */
		if trim = strings.TrimSpace(trim); trim != "" {
			ret = append(ret, statement{line: start, text: trim})
		}
		if n == len(src) {
			break
		}
		src = src[n+1:]
	}
	return ret
}

// Read parses the whole text of r.
func (self *Reader) Read(r io.Reader) (*Netlist, error) {
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read netlist")
	}

	/* blank out the comments, keeping the line breaks */
	src := commentRE.ReplaceAllStringFunc(string(buf), func(s string) string {
		return strings.Repeat("\n", strings.Count(s, "\n"))
	})

	/* parse every statement */
	nl := &Netlist{Name: self.Name}
	seen := make(map[string]bool)
	for _, st := range split(src) {
		if st.text == "endmodule" || strings.HasPrefix(st.text, "endmodule") && !isIdent(st.text[9]) {
			break
		}
		if err := self.statement(nl, seen, st); err != nil {
			return nil, err
		}
	}
	return nl, nil
}

func isIdent(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (self *Reader) statement(nl *Netlist, seen map[string]bool, st statement) error {
	if m := moduleRE.FindStringSubmatch(st.text); m != nil {
		if nl.Name == "" {
			nl.Name = m[1]
		}
		return nil
	}

	/* signal declarations */
	if m := declRE.FindStringSubmatch(st.text); m != nil {
		names, err := declare(m[2], m[3], m[4])
		if err != nil {
			return defs.ESyntax(st.line, st.text, err.Error())
		}
		switch m[1] {
		case "input":
			nl.Inputs = append(nl.Inputs, names...)
		case "output":
			nl.Outputs = append(nl.Outputs, names...)
		default:
			nl.Wires = append(nl.Wires, names...)
		}
		return nil
	}

	/* continuous assignments are not gates */
	if strings.HasPrefix(st.text, "assign ") {
		self.warnf("line %d: unsupported assignment: %s", st.line, st.text)
		return nil
	}

	/* cell instances */
	m := instanceRE.FindStringSubmatch(st.text)
	if m == nil {
		return defs.ESyntax(st.line, st.text, "unrecognized statement")
	}

	/* only the gate library is supported */
	kind, ok := defs.ParseCell(m[1])
	if !ok {
		self.warnf("line %d: unsupported cell %s: %s", st.line, m[1], st.text)
		return nil
	}

	/* collect the pin connections, outputs come last */
	var ops []string
	for _, p := range pinRE.FindAllStringSubmatch(m[3], -1) {
		ops = append(ops, p[1])
	}
	if len(ops) <= kind.Outputs() {
		return defs.ESyntax(st.line, st.text, fmt.Sprintf("%s needs more than %d pins, got %d", kind, kind.Outputs(), len(ops)))
	}

	/* every pin must be connected */
	for _, op := range ops {
		if op == "" {
			return defs.ESyntax(st.line, st.text, "unconnected pin")
		}
	}

	/* remember the constant operands */
	n := len(ops) - kind.Outputs()
	for _, op := range ops[:n] {
		if constRE.MatchString(op) && !seen[op] {
			seen[op] = true
			nl.Constants = append(nl.Constants, op)
		}
	}

	/* add the instance */
	nl.Instances = append(nl.Instances, &Instance{
		Name: m[2],
		Cell: m[1],
		Kind: kind,
		Ins:  ops[:n:n],
		Outs: ops[n:],
		Line: st.line,
	})
	return nil
}

func declare(msb string, lsb string, list string) ([]string, error) {
	var ret []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name == "" {
			return nil, fmt.Errorf("empty signal name")
		} else {
			ret = append(ret, name)
		}
	}

	/* scalar signals */
	if msb == "" {
		return ret, nil
	}

	/* expand the bus ranges */
	hi, _ := strconv.Atoi(msb)
	lo, _ := strconv.Atoi(lsb)
	step := 1
	if hi < lo {
		step = -1
	}

	/* from msb down to lsb */
	var bits []string
	for _, name := range ret {
		for i := hi; ; i -= step {
			bits = append(bits, fmt.Sprintf("%s[%d]", name, i))
			if i == lo {
				break
			}
		}
	}
	return bits, nil
}

// NumGates returns the number of gate instances.
func (self *Netlist) NumGates() int {
	return len(self.Instances)
}

// Builder converts the netlist into a circuit builder.
func (self *Netlist) Builder() *circuit.Builder {
	b := circuit.NewBuilder(self.Name)
	b.AddInput(self.Inputs...)
	b.AddConstant(self.Constants...)
	for _, p := range self.Instances {
		b.AddGate(p.Kind, p.Ins, p.Outs)
	}
	return b.SetOutputs(self.Outputs...)
}

// Graph builds the dependency graph of the netlist.
func (self *Netlist) Graph() (*circuit.Graph, error) {
	g, err := self.Builder().Build()
	if err != nil {
		return nil, errors.Wrapf(err, "module %s", self.Name)
	}
	return g, nil
}
