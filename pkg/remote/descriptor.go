package remote

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Descriptor is the serializable form of a worker body: the worker id, the
// names of its child blocks in execution order and its initial variables.
type Descriptor struct {
	WorkerID  int64          `yaml:"worker_id"`
	Blocks    []string       `yaml:"blocks"`
	Variables map[string]any `yaml:"variables,omitempty"`
}

// EncodeDescriptor serializes d with gob. Variable values must be gob
// encodable; custom types need gob.Register.
func EncodeDescriptor(d Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d); err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDescriptor is the inverse of EncodeDescriptor.
func DecodeDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&d); err != nil {
		return Descriptor{}, fmt.Errorf("decode descriptor: %w", err)
	}
	return d, nil
}

// ParseDescriptorYAML reads a descriptor from YAML, e.g. a worker's
// bootstrap file.
func ParseDescriptorYAML(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("parse descriptor: %w", err)
	}
	return d, nil
}

// FormatDescriptorYAML renders d as YAML.
func FormatDescriptorYAML(d Descriptor) ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("format descriptor: %w", err)
	}
	return out, nil
}
