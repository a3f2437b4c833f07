package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/confscore/pkg/matrix"
	"gopkg.in/yaml.v3"
)

// stdinPath selects standard input for --file.
const stdinPath = "-"

// document is the CLI input. JSON is accepted as a subset of YAML.
type document struct {
	Pred    [][]float64 `yaml:"pred"`
	Classes *int        `yaml:"classes"`
}

func readDocument(path string, stdin io.Reader) (*matrix.Dense, error) {
	var r io.Reader = stdin
	if path != stdinPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		defer f.Close()
		r = f
	}

	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrInput)
		}
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return doc.matrix()
}

func (d document) matrix() (*matrix.Dense, error) {
	if len(d.Pred) == 0 {
		if d.Classes == nil || *d.Classes < 0 {
			return nil, fmt.Errorf("%w: empty pred requires non-negative classes", ErrInput)
		}
		return matrix.New(0, *d.Classes, nil)
	}
	if d.Classes != nil && *d.Classes != len(d.Pred[0]) {
		return nil, fmt.Errorf("%w: classes is %d but pred has %d columns", ErrInput, *d.Classes, len(d.Pred[0]))
	}
	return matrix.FromRows(d.Pred)
}
