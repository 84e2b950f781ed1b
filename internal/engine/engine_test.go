package engine

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/dotver"
	"github.com/indaco/stamp/internal/report"
)

func boolPtr(b bool) *bool { return &b }

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		suffix    string
		auto      bool
		wantFull  string
		wantShort string
	}{
		{"four components", "2.0.0.5", "", false, "2.0.0.5", "2.0.0"},
		{"auto increase", "2.0.0.5", "", true, "2.0.0.6", "2.0.0"},
		{"three components", "1.2.3", "-beta", false, "1.2.3.0-beta", "1.2.3"},
		{"three components auto", "1.2.3", "", true, "1.2.3.0", "1.2.3"},
		{"two components", "1.2", "", false, "1.2.0.0", "1.2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(dotver.MustParse(tt.version), tt.suffix, tt.auto)
			if got.VersionFull != tt.wantFull {
				t.Errorf("VersionFull = %q, want %q", got.VersionFull, tt.wantFull)
			}
			if got.VersionShort != tt.wantShort {
				t.Errorf("VersionShort = %q, want %q", got.VersionShort, tt.wantShort)
			}
			if got.Version+got.Suffix != got.VersionFull {
				t.Errorf("Version+Suffix = %q, want %q", got.Version+got.Suffix, got.VersionFull)
			}
		})
	}
}

func TestDerive_RawComponents(t *testing.T) {
	got := Derive(dotver.MustParse("1.2.3"), "", true)
	if got.Major != 1 || got.Minor != 2 || got.Build != 3 || got.Revision != -1 {
		t.Errorf("components = %d.%d.%d.%d, want 1.2.3.-1", got.Major, got.Minor, got.Build, got.Revision)
	}
}

func TestRun_ChangelogToProject(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("changelog.md", []byte("# Changelog\n## 2.0.0.5 - today\n## 1.9.0\n"))
	fs.SetFile("app.csproj", []byte("<Version>1.0.0.0</Version>\n<FileVersion>1.0.0.0</FileVersion>\n"))

	rec := report.NewRecorder()
	req := Request{
		Inputs:   []config.InputSource{{Path: "changelog.md"}},
		Updates:  []config.UpdateTarget{{Path: "app.csproj"}},
		Defaults: config.NewDefaults(),
	}
	req.Defaults.AutoIncrease = true

	e := New(fs, WithReporter(rec))
	rep, err := e.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Result.VersionFull != "2.0.0.6" {
		t.Errorf("VersionFull = %q, want 2.0.0.6", rep.Result.VersionFull)
	}
	data, _ := fs.GetFile("app.csproj")
	want := "<Version>2.0.0.6</Version>\n<FileVersion>1.0.0.0</FileVersion>\n"
	if string(data) != want {
		t.Errorf("app.csproj = %q, want %q", data, want)
	}
	if e.State() != StateDone || rep.State != StateDone {
		t.Errorf("state = %s/%s, want Done", e.State(), rep.State)
	}
	if got := rep.Written(); !slices.Equal(got, []string{"app.csproj"}) {
		t.Errorf("Written() = %v", got)
	}

	info := rec.Messages(report.LevelInfo)
	if !slices.Contains(info, "Read version as 2.0.0.6") || !slices.Contains(info, "Version updated!") {
		t.Errorf("info messages = %v", info)
	}
}

func TestRun_MissingTargetIsWarning(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("VERSION", []byte("3.1.4\n"))
	fs.SetFile("a.txt", []byte("v1.0.0\n"))

	req := Request{
		Inputs:   []config.InputSource{{Path: "VERSION"}},
		Updates:  []config.UpdateTarget{{Path: "gone.txt"}, {Path: "a.txt"}},
		Defaults: config.NewDefaults(),
	}

	rep, err := New(fs).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "gone.txt") {
		t.Errorf("Warnings = %v, want one for gone.txt", rep.Warnings)
	}
	data, _ := fs.GetFile("a.txt")
	if string(data) != "v3.1.4\n" {
		t.Errorf("a.txt = %q, want v3.1.4", data)
	}
	if len(rep.Outcomes) != 2 {
		t.Errorf("Outcomes = %d, want 2", len(rep.Outcomes))
	}
}

func TestRun_NoInputVersion(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("README", []byte("nothing to see\n"))
	fs.SetFile("a.txt", []byte("1.0.0\n"))

	req := Request{
		Inputs:   []config.InputSource{{Path: "README"}, {Path: "missing.md"}},
		Updates:  []config.UpdateTarget{{Path: "a.txt"}},
		Defaults: config.NewDefaults(),
	}

	e := New(fs)
	rep, err := e.Run(context.Background(), req)
	if !errors.Is(err, ErrNoInputVersion) {
		t.Fatalf("err = %v, want ErrNoInputVersion", err)
	}
	if rep.Result != nil {
		t.Errorf("Result = %+v, want nil", rep.Result)
	}
	if e.State() != StateFailed {
		t.Errorf("state = %s, want Failed", e.State())
	}
	if fs.Writes != 0 {
		t.Errorf("Writes = %d, want 0", fs.Writes)
	}
	if len(rep.Warnings) != 2 {
		t.Errorf("Warnings = %v, want missing file and no version", rep.Warnings)
	}
}

func TestRun_InvalidPatternIsFatal(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("VERSION", []byte("1.0.0\n"))

	req := Request{
		Inputs:   []config.InputSource{{Path: "VERSION", Regex: "("}},
		Defaults: config.NewDefaults(),
	}

	_, err := New(fs).Run(context.Background(), req)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestRun_ScanOnly(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("VERSION", []byte("1.2.3-rc1\n"))
	fs.SetFile("a.txt", []byte("0.0.1\n"))

	req := Request{
		Inputs:   []config.InputSource{{Path: "VERSION"}},
		Updates:  []config.UpdateTarget{{Path: "a.txt"}},
		Defaults: config.NewDefaults(),
		ScanOnly: true,
	}

	rep, err := New(fs).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Result.VersionFull != "1.2.3.0-rc1" {
		t.Errorf("VersionFull = %q", rep.Result.VersionFull)
	}
	if fs.Writes != 0 {
		t.Errorf("Writes = %d, want 0", fs.Writes)
	}
}

func TestRun_Confirm(t *testing.T) {
	tests := []struct {
		name      string
		answer    bool
		answerErr error
		wantErr   bool
		wantWrite int
	}{
		{"accepted", true, nil, false, 1},
		{"declined", false, nil, false, 0},
		{"failed", false, errors.New("no tty"), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := core.NewMockFileSystem()
			fs.SetFile("VERSION", []byte("1.2.3\n"))
			fs.SetFile("a.txt", []byte("0.0.1\n"))

			var asked []string
			confirm := func(r RunResult, targets []config.UpdateTarget) (bool, error) {
				asked = append(asked, r.VersionFull)
				return tt.answer, tt.answerErr
			}

			req := Request{
				Inputs:   []config.InputSource{{Path: "VERSION"}},
				Updates:  []config.UpdateTarget{{Path: "a.txt"}},
				Defaults: config.NewDefaults(),
			}
			_, err := New(fs, WithConfirm(confirm)).Run(context.Background(), req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if fs.Writes != tt.wantWrite {
				t.Errorf("Writes = %d, want %d", fs.Writes, tt.wantWrite)
			}
			if !slices.Equal(asked, []string{"1.2.3.0"}) {
				t.Errorf("confirm called with %v", asked)
			}
		})
	}
}

type stubDiscoverer struct {
	inputs  []config.InputSource
	updates []config.UpdateTarget
	err     error
	auto    bool
}

func (s *stubDiscoverer) Discover(_ context.Context, auto bool) ([]config.InputSource, []config.UpdateTarget, error) {
	s.auto = auto
	return s.inputs, s.updates, s.err
}

func TestRun_Discovery(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("changelog.md", []byte("## 4.0.1\n"))
	fs.SetFile("app.csproj", []byte("<Version>1.0.0.0</Version>\n"))

	d := &stubDiscoverer{
		inputs:  []config.InputSource{{Path: "changelog.md"}},
		updates: []config.UpdateTarget{{Path: "app.csproj"}},
	}
	req := Request{Defaults: config.NewDefaults()}
	req.Defaults.AutoIncrease = true

	rep, err := New(fs, WithDiscoverer(d)).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.auto {
		t.Error("discoverer did not receive auto-increase")
	}
	if rep.Result.Version != "4.0.1.0" {
		t.Errorf("Version = %q, want 4.0.1.0", rep.Result.Version)
	}
	data, _ := fs.GetFile("app.csproj")
	if string(data) != "<Version>4.0.1.0</Version>\n" {
		t.Errorf("app.csproj = %q", data)
	}
}

func TestRun_DiscoveryError(t *testing.T) {
	d := &stubDiscoverer{err: errors.New("boom")}
	_, err := New(core.NewMockFileSystem(), WithDiscoverer(d)).Run(context.Background(), Request{Defaults: config.NewDefaults()})
	if err == nil || !strings.Contains(err.Error(), "input discovery failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestRun_Silent(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("VERSION", []byte("1.0.0\n"))

	rec := report.NewRecorder()
	req := Request{
		Inputs:   []config.InputSource{{Path: "VERSION"}, {Path: "missing"}},
		Defaults: config.NewDefaults(),
	}
	req.Defaults.Silent = true

	rep, err := New(fs, WithReporter(rec)).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(rec.Entries()); n != 0 {
		t.Errorf("recorded %d entries, want 0", n)
	}
	if len(rep.Warnings) != 1 {
		t.Errorf("Warnings = %v, want 1", rep.Warnings)
	}
}

func TestRun_TouchPolicy(t *testing.T) {
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	fs := core.NewMockFileSystem()
	fs.SetFile("VERSION", []byte("1.2.3.4\n"))
	fs.SetFile("keep.txt", []byte("1.0.0.0\n"))
	fs.SetFile("touch.txt", []byte("1.0.0.0\n"))
	fs.SetModTime("keep.txt", base)
	fs.SetModTime("touch.txt", base)
	fs.Now = func() time.Time { return base.Add(time.Hour) }

	req := Request{
		Inputs: []config.InputSource{{Path: "VERSION"}},
		Updates: []config.UpdateTarget{
			{Path: "keep.txt"},
			{Path: "touch.txt", Touch: boolPtr(true)},
		},
		Defaults: config.NewDefaults(),
	}

	if _, err := New(fs).Run(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fs.ModTime("keep.txt"); !got.Equal(base.Add(time.Second)) {
		t.Errorf("keep.txt mtime = %v, want %v", got, base.Add(time.Second))
	}
	if got := fs.ModTime("touch.txt"); !got.Equal(base.Add(time.Hour)) {
		t.Errorf("touch.txt mtime = %v, want %v", got, base.Add(time.Hour))
	}
}

type panicFS struct{ core.FileSystem }

func (panicFS) Stat(context.Context, string) (fs.FileInfo, error) { panic("disk on fire") }

func TestRun_RecoversPanic(t *testing.T) {
	req := Request{Inputs: []config.InputSource{{Path: "VERSION"}}, Defaults: config.NewDefaults()}

	e := New(panicFS{core.NewMockFileSystem()})
	rep, err := e.Run(context.Background(), req)
	if !errors.Is(err, ErrUnexpected) {
		t.Fatalf("err = %v, want ErrUnexpected", err)
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("err = %v, want panic value", err)
	}
	if rep == nil || rep.State != StateFailed {
		t.Errorf("report = %+v, want Failed state", rep)
	}
}

func TestRun_Canceled(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("VERSION", []byte("1.0.0\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := Request{Inputs: []config.InputSource{{Path: "VERSION"}}, Defaults: config.NewDefaults()}
	_, err := New(fs).Run(ctx, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{
		StateIdle: "Idle", StateScanning: "Scanning", StateDerived: "Derived",
		StateFailed: "Failed", StateUpdating: "Updating", StateDone: "Done", State(99): "Unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
