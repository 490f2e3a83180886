// SPDX-License-Identifier: EPL-2.0

package composition

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON composition document.
//
// Note timing fields that are not numbers, such as Tone.js "4n" durations,
// decode as NaN so the note is later skipped instead of failing the
// whole document. A document with only one of "bpm" or "tempo" uses
// whichever is present.
func Parse(data []byte) (*Composition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var c Composition
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &c, nil
}

// Load reads and parses a document from r.
func Load(r io.Reader) (*Composition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading composition: %w", err)
	}
	return Parse(data)
}

// LoadFile parses the document at path.
func LoadFile(path string) (*Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading composition: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes c as YAML.
func Marshal(c *Composition) ([]byte, error) {
	return yaml.Marshal(c)
}

func (n *Note) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Pitch    string    `yaml:"pitch"`
		Time     yaml.Node `yaml:"time"`
		Duration yaml.Node `yaml:"duration"`
		Velocity yaml.Node `yaml:"velocity"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	n.Pitch = raw.Pitch
	n.Time = lenientFloat(&raw.Time, math.NaN())
	n.Duration = lenientFloat(&raw.Duration, math.NaN())
	n.Velocity = lenientFloat(&raw.Velocity, 0)
	return nil
}

func (c *Composition) UnmarshalYAML(value *yaml.Node) error {
	// plain alias avoids recursing into this method
	type plain Composition
	var raw struct {
		plain `yaml:",inline"`
		Tempo *float64 `yaml:"tempo"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = Composition(raw.plain)
	if c.TempoBPM == 0 && raw.Tempo != nil {
		c.TempoBPM = *raw.Tempo
	}
	return nil
}

// lenientFloat decodes a numeric scalar. Absent and null nodes yield
// missing; quoted numbers and other non-numbers yield NaN.
func lenientFloat(node *yaml.Node, missing float64) float64 {
	if node.Kind == 0 || node.ShortTag() == "!!null" {
		return missing
	}

	var f float64
	if err := node.Decode(&f); err != nil {
		return math.NaN()
	}
	return f
}
