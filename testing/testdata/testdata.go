package testdata

import (
	_ "embed"
	"path/filepath"
	"runtime"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// Source_SampleFleetCSV is a small three-asset fleet feed with known
// stoppages: EQPT-4 dwells at its last position, EQPT-5 creeps to a
// halt, EQPT-6 sits through a long report gap.
var Source_SampleFleetCSV = "./sample_fleet.csv"

// SampleFleetCSV is the same feed compiled into the binary, for demo
// runs without an input file.
//
//go:embed sample_fleet.csv
var SampleFleetCSV []byte
