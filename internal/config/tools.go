package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tools names the external processing binaries each stage delegates to,
// plus any extra arguments to append to their command lines. The core
// never interprets what those binaries compute, only where their files go.
type Tools struct {
	Pedestal        Tool `yaml:"pedestal"`
	TimeCalibration Tool `yaml:"time_calibration"`
	DL3             Tool `yaml:"dl3"`
}

// Tool is one external stage binary.
type Tool struct {
	Binary    string   `yaml:"binary"`
	ExtraArgs []string `yaml:"extra_args"`
	// Config is an optional tool-specific parameter file passed through
	// verbatim (e.g. the camera calibration parameters for the time stage).
	Config string `yaml:"config"`
}

// DefaultTools returns the stock lstchain binary names.
func DefaultTools() Tools {
	return Tools{
		Pedestal:        Tool{Binary: "lstchain_data_create_drs4_pedestal_file"},
		TimeCalibration: Tool{Binary: "lstchain_data_create_time_calibration_file"},
		DL3:             Tool{Binary: "lstchain_create_dl3_file"},
	}
}

// ParseTools parses a tools.yaml document. Stages left out keep their
// defaults.
func ParseTools(data []byte) (Tools, error) {
	tools := DefaultTools()
	if err := yaml.Unmarshal(data, &tools); err != nil {
		return tools, fmt.Errorf("tools config: %w", err)
	}
	if tools.Pedestal.Binary == "" {
		tools.Pedestal.Binary = DefaultTools().Pedestal.Binary
	}
	if tools.TimeCalibration.Binary == "" {
		tools.TimeCalibration.Binary = DefaultTools().TimeCalibration.Binary
	}
	if tools.DL3.Binary == "" {
		tools.DL3.Binary = DefaultTools().DL3.Binary
	}
	return tools, nil
}

// LoadTools reads a tools.yaml from the given path. A missing file is not
// an error: the defaults apply.
func LoadTools(path string) (Tools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTools(), nil
		}
		return DefaultTools(), fmt.Errorf("tools config: %w", err)
	}
	return ParseTools(data)
}
