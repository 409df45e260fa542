package pipeline

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML pipeline document and validates it.
//
// Example:
//
//	name: arithmetic
//	stages:
//	  - name: start
//	    op: start
//	    operand: 10
//	  - name: add_five
//	    op: add
//	    operand: 5
//	    needs: [start]
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, errors.Wrap(err, "parsing pipeline document")
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Load reads and parses a pipeline document from disk.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, errors.Wrapf(err, "reading pipeline file %s", path)
	}
	return Parse(data)
}
