package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads an operator-edited script from .json, .yaml or .yml.
func LoadFile(path string) (VideoScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return VideoScript{}, fmt.Errorf("read script: %w", err)
	}
	var s VideoScript
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		return VideoScript{}, fmt.Errorf("unsupported script format %q", ext)
	}
	if err != nil {
		return VideoScript{}, fmt.Errorf("parse script %s: %w", filepath.Base(path), err)
	}
	if len(s.Sections) == 0 {
		return VideoScript{}, errors.New("script has no sections")
	}
	s.normalize()
	return s, nil
}
