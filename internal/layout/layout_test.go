package layout

import (
	"errors"
	"testing"
)

func TestFilenames(t *testing.T) {
	if got := FormatRun(123); got != "Run00123" {
		t.Errorf("FormatRun(123) = %q, want %q", got, "Run00123")
	}
	if got := PedestalFilename(123); got != "drs4_pedestal.Run00123.0000.h5" {
		t.Errorf("PedestalFilename(123) = %q", got)
	}
	if got := TimeCalibrationFilename(1805); got != "time_calibration.Run01805.0000.h5" {
		t.Errorf("TimeCalibrationFilename(1805) = %q", got)
	}
	if got := RunSummaryFilename("20200218"); got != "RunSummary_20200218.ecsv" {
		t.Errorf("RunSummaryFilename = %q", got)
	}
	if got := R0SubRunPattern(123, 0); got != "**/LST-1.1.Run00123.0000*.fits.fz" {
		t.Errorf("R0SubRunPattern = %q", got)
	}
}

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		pro     string
		date    string
		run     int
		want    string
		wantErr bool
	}{
		{
			name: "pedestal by run",
			kind: Pedestal, pro: "v0.2.0", run: 123,
			want: "**/v0.2.0/drs4_pedestal.Run00123.0000.h5",
		},
		{
			name: "pedestal by date",
			kind: Pedestal, pro: "v0.2.0", date: "20200218", run: -1,
			want: "20200218/v0.2.0/drs4_pedestal*.0000.h5",
		},
		{
			name: "pedestal needs run or date",
			kind: Pedestal, pro: "v0.2.0", run: -1,
			wantErr: true,
		},
		{
			name: "time calibration exact run",
			kind: TimeCalibration, pro: "v0.2.0", run: 1805,
			want: "**/v0.2.0/time_calibration.Run01805.0000.h5",
		},
		{
			name: "time calibration any run",
			kind: TimeCalibration, pro: "v0.2.0", run: -1,
			want: "**/v0.2.0/time_calibration.Run*.0000.h5",
		},
		{
			name: "run summary",
			kind: RunSummary, date: "20200218", run: -1,
			want: "RunSummary_20200218.ecsv",
		},
		{
			name: "run summary needs date",
			kind: RunSummary, run: -1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SearchPattern(tt.kind, tt.pro, tt.date, tt.run)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("want ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("pattern = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRunInfo(t *testing.T) {
	tests := []struct {
		name    string
		run     int
		subRun  int
		wantErr bool
	}{
		{name: "drs4_pedestal.Run00123.0000.h5", run: 123, subRun: 0},
		{name: "time_calibration.Run01805.0000.h5", run: 1805, subRun: 0},
		{name: "dl2_LST-1.Run02008.0012.h5", run: 2008, subRun: 12},
		{name: "/some/dir/time_calibration.Run00042.0001.h5", run: 42, subRun: 1},
		{name: "notes.txt", wantErr: true},
		{name: "time_calibration.h5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseRunInfo(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Run != tt.run || info.SubRun != tt.subRun {
				t.Errorf("got run %d.%d, want %d.%d", info.Run, info.SubRun, tt.run, tt.subRun)
			}
		})
	}
}

func TestDL2ToDL3Filename(t *testing.T) {
	got := DL2ToDL3Filename("/data/dl2/dl2_LST-1.Run02008.0000.h5")
	want := "dl3_LST-1.Run02008.0000.fits.gz"
	if got != want {
		t.Errorf("DL2ToDL3Filename = %q, want %q", got, want)
	}
}

func TestOutputDir(t *testing.T) {
	got := OutputDir(Pedestal, "20200218", "v0.2.0")
	want := "monitoring/PixelCalibration/LevelA/drs4_baseline/20200218/v0.2.0"
	if got != want {
		t.Errorf("OutputDir = %q, want %q", got, want)
	}
}
