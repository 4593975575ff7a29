// Package netio reads the topology collections and weight vectors consumed
// by the sampler and writes sampled topologies back out as newick.
package netio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/io/nexus"
	"github.com/evolbioinfo/gotree/tree"
)

var (
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidFormat = errors.New("invalid format")
	ErrWritingFile   = errors.New("error writing file")
)

type Format int

const (
	Newick Format = iota
	Nexus
)

var ParseFormat = map[string]Format{
	"newick": Newick,
	"nexus":  Nexus,
}

func (f *Format) Set(s string) error {
	if format, ok := ParseFormat[s]; ok {
		*f = format
		return nil
	}
	return fmt.Errorf("\"%s\" is not a valid topology file format", s)
}

func (f Format) String() string {
	for s, fr := range ParseFormat {
		if fr == f {
			return s
		}
	}
	panic(fmt.Sprintf("format (%d) does not exist", f))
}

// ReadTopologyFile reads the rooted topology collection the DAG is built
// from. Returns an error if the newick/nexus format is invalid or the file
// contains no trees.
func ReadTopologyFile(path string, format Format) ([]*tree.Tree, error) {
	flags := log.Flags()
	lout := log.Writer()
	log.SetOutput(io.Discard) // gotree can be noisy and lead to thousands of log messages
	defer func() {
		log.SetOutput(lout)
		log.SetFlags(flags)
	}()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s, %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(fmt.Sprintf("could not close file %s, %s", path, err))
		}
	}()
	trees := make([]*tree.Tree, 0)
	switch format {
	case Newick:
		scanner := bufio.NewScanner(file)
		for i := 0; scanner.Scan(); i++ {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			tre, err := newick.NewParser(bytes.NewReader(line)).Parse()
			if err != nil {
				return nil, fmt.Errorf("%w, error reading topology on line %d in %s: %s",
					ErrInvalidFormat, i, path, err.Error())
			}
			trees = append(trees, tre)
		}
	case Nexus:
		nex, err := nexus.NewParser(file).Parse()
		if err != nil {
			return nil, fmt.Errorf("%w, error reading topology nexus file %s: %s",
				ErrInvalidFormat, path, err.Error())
		}
		nex.IterateTrees(func(s string, t *tree.Tree) {
			trees = append(trees, t)
		})
	default:
		return nil, fmt.Errorf("%w, not a valid file format", ErrInvalidFile)
	}
	if len(trees) < 1 {
		return nil, fmt.Errorf("%w, empty topology file %s", ErrInvalidFile, path)
	}
	return trees, nil
}

// ReadWeightsCSV reads a dense edge-indexed weight vector: one single-column
// row per edge id, in edge-id order. The row count must equal nEdges.
func ReadWeightsCSV(path string, nEdges int) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s, %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(fmt.Sprintf("could not close file %s, %s", path, err))
		}
	}()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w, error reading weight csv %s: %s", ErrInvalidFormat, path, err.Error())
	}
	if len(records) != nEdges {
		return nil, fmt.Errorf("%w, weight csv %s has %d rows but dag has %d edges",
			ErrInvalidFile, path, len(records), nEdges)
	}
	weights := make([]float64, len(records))
	for i, record := range records {
		if len(record) != 1 {
			return nil, fmt.Errorf("%w, weight csv %s row %d has %d fields (1 expected)",
				ErrInvalidFormat, path, i, len(record))
		}
		w, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w, weight csv %s row %d: %s", ErrInvalidFormat, path, i, err.Error())
		}
		weights[i] = w
	}
	return weights, nil
}
