// Package state persists run records across process restarts.
//
// One bbolt file per data dir. Opening a writable conn takes a file
// lock, so competing stopd processes against one data dir serialize
// rather than corrupt.
package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rotblauer/stopd/params"
	"github.com/rotblauer/stopd/zfile"
	"go.etcd.io/bbolt"
)

var runStateBucket = params.RunStateBucket

// Keys within the run-state bucket.
var (
	KeyLastRun = []byte("lastrun")
)

type RunState struct {
	DB      *bbolt.DB
	Flat    *zfile.Flat
	Waiting sync.WaitGroup
	rOnly   bool
}

// NewRunState opens (creating if needed) the state DB under datadir.
func NewRunState(datadir string, readOnly bool) (*RunState, error) {
	flat := zfile.NewFlatWithRoot(datadir)
	if err := flat.MkdirAll(); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(flat.Path(), params.RunStateDBName),
		0600, &bbolt.Options{
			ReadOnly: readOnly,
		})
	if err != nil {
		return nil, err
	}
	return &RunState{DB: db, Flat: flat, rOnly: readOnly}, nil
}

func (s *RunState) Wait() {
	s.Waiting.Wait()
}

func (s *RunState) Close() error {
	return s.DB.Close()
}

func (s *RunState) storeKV(key, data []byte) error {
	if key == nil {
		return fmt.Errorf("storeKV: nil key")
	}
	if data == nil {
		return fmt.Errorf("storeKV: nil data")
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(runStateBucket)
		if err != nil {
			return err
		}
		return bucket.Put(key, data)
	})
}

func (s *RunState) readKV(key []byte) ([]byte, error) {
	buf := bytes.NewBuffer([]byte{})
	err := s.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(runStateBucket)
		if bucket == nil {
			return fmt.Errorf("no state bucket")
		}
		// The value returned by Get is only valid in the scope
		// of the transaction.
		got := bucket.Get(key)
		if got == nil {
			return nil
		}
		_, err := buf.Write(got)
		return err
	})
	return buf.Bytes(), err
}

func (s *RunState) WriteKV(key, value []byte) error {
	return s.storeKV(key, value)
}

func (s *RunState) ReadKV(key []byte) ([]byte, error) {
	return s.readKV(key)
}

func (s *RunState) StoreKVMarshalJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.storeKV(key, data)
}

func (s *RunState) ReadKVUnmarshalJSON(key []byte, v any) error {
	got, err := s.readKV(key)
	if err != nil {
		return err
	}
	if len(got) == 0 {
		return fmt.Errorf("no value for key %q", key)
	}
	return json.Unmarshal(got, v)
}
