package level

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a level from a YAML document.
// Unknown fields are an error.
func LoadYAML(data []byte) (lvl *Level, err error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	lvl = &Level{}
	err = dec.Decode(lvl)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		lvl = nil
		return
	}

	return
}

// Marshal encodes the level as a YAML document.
func (lvl *Level) Marshal() (data []byte, err error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err = enc.Encode(lvl)
	if err != nil {
		return
	}

	err = enc.Close()
	if err != nil {
		return
	}

	data = buf.Bytes()
	return
}
