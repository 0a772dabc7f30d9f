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
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/pkg/errors"
)

// DefaultDatabase is used when no database name is given.
const DefaultDatabase = "simpler"

// DefaultCollection holds the mapping reports.
const DefaultCollection = "mappings"

// MongoSink stores documents in a MongoDB collection, one document per
// (benchmark, technology, root order, row size).
type MongoSink struct {
	session *mgo.Session
	db      string
	coll    string
}

// DialMongo connects to the server at url.
func DialMongo(url string, db string) (*MongoSink, error) {
	s, err := mgo.Dial(url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	s.SetMode(mgo.Monotonic, true)
	defer s.Close()
	return NewMongoSink(s, db, DefaultCollection), nil
}

// NewMongoSink uses a copy of the session s.
func NewMongoSink(s *mgo.Session, db string, coll string) *MongoSink {
	if db == "" {
		db = DefaultDatabase
	}
	return &MongoSink{
		session: s.Copy(),
		db:      db,
		coll:    coll,
	}
}

func key(doc *Document) bson.M {
	return bson.M{
		"benchmark":  doc.Benchmark,
		"technology": doc.Technology,
		"order":      doc.Order,
		"row_size":   doc.RowSize,
	}
}

// Save inserts doc, replacing an earlier report of the same mapping.
func (self *MongoSink) Save(doc *Document) error {
	s := self.session.Copy()
	defer s.Close()
	_, err := s.DB(self.db).C(self.coll).Upsert(key(doc), doc)
	return errors.Wrapf(err, "save %s at row size %d", doc.Benchmark, doc.RowSize)
}

// Find loads the reports of a benchmark ordered by row size.
func (self *MongoSink) Find(benchmark string) ([]Document, error) {
	var ret []Document
	s := self.session.Copy()
	defer s.Close()
	err := s.DB(self.db).C(self.coll).Find(bson.M{"benchmark": benchmark}).Sort("row_size").All(&ret)
	return ret, errors.Wrapf(err, "find %s", benchmark)
}

// Drop removes the whole collection.
func (self *MongoSink) Drop() error {
	s := self.session.Copy()
	defer s.Close()
	if err := s.DB(self.db).C(self.coll).DropCollection(); err != nil && err.Error() != "ns not found" {
		return errors.Wrap(err, "drop collection")
	}
	return nil
}

func (self *MongoSink) Close() {
	self.session.Close()
}
