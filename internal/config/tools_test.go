package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTools(t *testing.T) {
	tools := DefaultTools()
	if tools.Pedestal.Binary != "lstchain_data_create_drs4_pedestal_file" {
		t.Errorf("Pedestal.Binary = %q", tools.Pedestal.Binary)
	}
	if tools.TimeCalibration.Binary == "" || tools.DL3.Binary == "" {
		t.Errorf("missing defaults: %+v", tools)
	}
}

func TestParseTools(t *testing.T) {
	data := []byte(`
pedestal:
  binary: my_pedestal_tool
  extra_args: ["--tel-id=1"]
time_calibration:
  config: /etc/camera_calibration_param.json
`)
	tools, err := ParseTools(data)
	if err != nil {
		t.Fatalf("ParseTools: %v", err)
	}
	if tools.Pedestal.Binary != "my_pedestal_tool" {
		t.Errorf("Pedestal.Binary = %q", tools.Pedestal.Binary)
	}
	if len(tools.Pedestal.ExtraArgs) != 1 || tools.Pedestal.ExtraArgs[0] != "--tel-id=1" {
		t.Errorf("ExtraArgs = %v", tools.Pedestal.ExtraArgs)
	}
	// Binary left out of the file keeps its default.
	if tools.TimeCalibration.Binary != "lstchain_data_create_time_calibration_file" {
		t.Errorf("TimeCalibration.Binary = %q", tools.TimeCalibration.Binary)
	}
	if tools.TimeCalibration.Config != "/etc/camera_calibration_param.json" {
		t.Errorf("TimeCalibration.Config = %q", tools.TimeCalibration.Config)
	}
}

func TestParseToolsRejectsBadYAML(t *testing.T) {
	if _, err := ParseTools([]byte("pedestal: [not a mapping")); err == nil {
		t.Fatal("want parse error")
	}
}

func TestLoadToolsMissingFile(t *testing.T) {
	tools, err := LoadTools(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if tools.Pedestal.Binary != DefaultTools().Pedestal.Binary {
		t.Errorf("tools = %+v", tools)
	}
}

func TestLoadTools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.yaml")
	if err := os.WriteFile(path, []byte("dl3:\n  binary: custom_dl3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tools, err := LoadTools(path)
	if err != nil {
		t.Fatalf("LoadTools: %v", err)
	}
	if tools.DL3.Binary != "custom_dl3" {
		t.Errorf("DL3.Binary = %q", tools.DL3.Binary)
	}
}
