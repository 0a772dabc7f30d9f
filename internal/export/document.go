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

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/simpler/internal/report"
	"github.com/pkg/errors"
)

// Step is one entry of the execution sequence.
type Step struct {
	Label string `json:"label" bson:"label"`
	Text  string `json:"text" bson:"text"`
}

// Document is the persisted form of a mapping report.
type Document struct {
	Benchmark   string  `json:"Benchmark" bson:"benchmark"`
	Technology  string  `json:"Technology" bson:"technology"`
	Order       string  `json:"Root order" bson:"order"`
	RowSize     int     `json:"Row size" bson:"row_size"`
	Gates       int     `json:"Number of Gates" bson:"gates"`
	Inputs      string  `json:"Inputs" bson:"inputs"`
	Outputs     string  `json:"Outputs" bson:"outputs"`
	NumInputs   int     `json:"Number of Inputs" bson:"num_inputs"`
	TotalCycles int     `json:"Total cycles" bson:"total_cycles"`
	ReuseCycles int     `json:"Reuse cycles" bson:"reuse_cycles"`
	InitRatio   float64 `json:"Initialization ratio" bson:"init_ratio"`
	Writes      int     `json:"Number of writes" bson:"writes"`
	Digest      string  `json:"Digest" bson:"digest"`
	Sequence    []Step  `json:"Execution sequence" bson:"sequence"`
}

// NewDocument converts a report. The sequence opens with the T0 entry
// that initializes every cell not pinned to an input.
func NewDocument(rp *report.Report) *Document {
	st := &rp.Stats
	ret := &Document{
		Benchmark:   rp.Benchmark,
		Technology:  rp.Technology,
		Order:       rp.Order,
		RowSize:     st.RowSize,
		Gates:       st.Gates,
		Inputs:      rp.InputList(),
		Outputs:     rp.OutputList(),
		NumInputs:   st.Inputs,
		TotalCycles: st.TotalCycles,
		ReuseCycles: st.ReuseCycles,
		InitRatio:   st.InitRatio,
		Writes:      st.Writes,
		Digest:      fmt.Sprintf("%016x", rp.Digest),
		Sequence:    make([]Step, 0, len(rp.Trace)+1),
	}

	/* the initial reset of the free cells */
	ss := make([]string, 0, st.RowSize-st.Inputs)
	for c := st.Inputs; c < st.RowSize; c++ {
		ss = append(ss, fmt.Sprintf("INIT_CYCLE(%d)", c))
	}
	ret.Sequence = append(ret.Sequence, Step{Label: "T0", Text: "Initialization{" + strings.Join(ss, ",") + "}"})

	/* the execution sequence */
	for _, ev := range rp.Trace {
		ret.Sequence = append(ret.Sequence, Step{Label: ev.Label(), Text: ev.Body()})
	}
	return ret
}

// FileName is the name a document is stored under in a directory.
func (self *Document) FileName() string {
	return fmt.Sprintf("JSON_%d_%s.json", self.RowSize, self.Benchmark)
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return errors.Wrapf(enc.Encode(doc), "encode %s", doc.Benchmark)
}

// Sink persists report documents.
type Sink interface {
	Save(doc *Document) error
}

// Dir stores every document as a JSON file in a directory.
type Dir string

func (self Dir) Save(doc *Document) error {
	fn := filepath.Join(string(self), doc.FileName())
	fp, err := os.Create(fn)
	if err != nil {
		return errors.Wrap(err, "create report file")
	}

	/* write and close */
	if err = WriteJSON(fp, doc); err != nil {
		_ = fp.Close()
		return err
	}
	return errors.Wrapf(fp.Close(), "close %s", fn)
}
