package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/dotver"
	"github.com/indaco/stamp/internal/report"
)

func intPtr(n int) *int { return &n }

func sources(paths ...string) []config.InputSource {
	out := make([]config.InputSource, len(paths))
	for i, p := range paths {
		out[i] = config.InputSource{Path: p}
	}
	return out
}

func TestScan_GreatestAcrossFiles(t *testing.T) {
	for _, order := range [][]string{{"/a.txt", "/b.txt"}, {"/b.txt", "/a.txt"}} {
		t.Run(strings.Join(order, ","), func(t *testing.T) {
			fs := core.NewMockFileSystem()
			fs.SetFile("/a.txt", []byte("Version 1.2.3\n"))
			fs.SetFile("/b.txt", []byte("Version 1.3.0\n"))

			got, err := New(fs, nil, nil).Scan(context.Background(), sources(order...), config.NewDefaults())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Version.String() != "1.3.0" {
				t.Errorf("Version = %s, want 1.3.0", got.Version)
			}
			if got.Sources != 2 || got.Matches != 2 {
				t.Errorf("Sources=%d Matches=%d, want 2/2", got.Sources, got.Matches)
			}
		})
	}
}

func TestScan_MaxMatchBudget(t *testing.T) {
	content := "## 1.0.0\n## 3.0.0\n## 2.0.0\n"
	d := config.NewDefaults()

	tests := []struct {
		name        string
		src         config.InputSource
		defaultMax  int
		wantVersion string
		wantMatches int
	}{
		{"default budget of one", config.InputSource{Path: "/c.md"}, 1, "1.0.0", 1},
		{"source override", config.InputSource{Path: "/c.md", Max: intPtr(2)}, 1, "3.0.0", 2},
		{"global default", config.InputSource{Path: "/c.md"}, 10, "3.0.0", 3},
		{"zero still matches once", config.InputSource{Path: "/c.md", MaxMatch: intPtr(0)}, 10, "1.0.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := core.NewMockFileSystem()
			fs.SetFile("/c.md", []byte(content))
			d.MaxMatch = tt.defaultMax

			got, err := New(fs, nil, nil).Scan(context.Background(), []config.InputSource{tt.src}, d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Version.String() != tt.wantVersion || got.Matches != tt.wantMatches {
				t.Errorf("Version=%s Matches=%d, want %s/%d", got.Version, got.Matches, tt.wantVersion, tt.wantMatches)
			}
		})
	}
}

func TestScan_SuffixFollowsMaximum(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/log.md", []byte("1.0.0-alpha\n2.0.0-beta\n2.0.0-rc\n1.5.0\n3.0.0\n"))
	d := config.NewDefaults()
	d.MaxMatch = 10

	got, err := New(fs, nil, nil).Scan(context.Background(), sources("/log.md"), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version.String() != "3.0.0" {
		t.Errorf("Version = %s, want 3.0.0", got.Version)
	}
	if got.Suffix != "" {
		t.Errorf("Suffix = %q, want it cleared by the suffix-less 3.0.0", got.Suffix)
	}

	fs.SetFile("/log.md", []byte("2.0.0-beta\n2.0.0-rc\n1.0.0-zzz\n"))
	got, err = New(fs, nil, nil).Scan(context.Background(), sources("/log.md"), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version.String() != "2.0.0" || got.Suffix != "-beta" {
		t.Errorf("got %s%s, want 2.0.0-beta (ties and lesser versions keep the first suffix)", got.Version, got.Suffix)
	}
}

func TestScan_RegexOverrideAndGroupFallback(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/AssemblyInfo.cs", []byte(`[assembly: AssemblyVersion("4.1")]`+"\n"))
	fs.SetFile("/noversion.txt", []byte("release 9.9.9\n"))

	srcs := []config.InputSource{
		{Path: "/AssemblyInfo.cs", Regex: `AssemblyVersion\("([\d.]+)"\)`},
		{Path: "/noversion.txt", Regex: `release \d+\.\d+\.\d+`},
	}
	rec := report.NewRecorder()

	got, err := New(fs, rec, nil).Scan(context.Background(), srcs, config.NewDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != dotver.MustParse("4.1") {
		t.Errorf("Version = %s, want 4.1", got.Version)
	}
	if warns := rec.Messages(report.LevelWarn); len(warns) != 1 || !strings.Contains(warns[0], "/noversion.txt") {
		t.Errorf("warnings = %v, want one for the group-less source", warns)
	}
}

func TestScan_SkipsLinesWithoutCaptureWithoutSpendingBudget(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/f.txt", []byte("v=abc\nv=1.2.3\n"))

	got, err := New(fs, nil, nil).Scan(context.Background(),
		[]config.InputSource{{Path: "/f.txt", Regex: `v=(?P<version>[a-z]+|\d+\.\d+\.\d+)`}},
		config.NewDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version.String() != "1.2.3" {
		t.Errorf("Version = %s, want 1.2.3", got.Version)
	}
}

func TestScan_MissingSourceIsWarning(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/present.txt", []byte("1.0.0\n"))
	rec := report.NewRecorder()

	got, err := New(fs, rec, nil).Scan(context.Background(), sources("/missing.txt", "/present.txt"), config.NewDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version.String() != "1.0.0" {
		t.Errorf("Version = %s, want 1.0.0", got.Version)
	}
	warns := rec.Messages(report.LevelWarn)
	if len(warns) != 1 || !strings.Contains(warns[0], "/missing.txt") {
		t.Errorf("warnings = %v", warns)
	}
}

func TestScan_DirectoryIsSkipped(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	if err := os.Mkdir(docs, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(docs, "changelog.md")
	if err := os.WriteFile(file, []byte("## 2.1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := report.NewRecorder()

	got, err := New(core.NewOSFileSystem(), rec, nil).Scan(context.Background(), sources(docs, file), config.NewDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version.String() != "2.1.0" {
		t.Errorf("Version = %s, want 2.1.0", got.Version)
	}
	if got.Sources != 1 {
		t.Errorf("Sources = %d, want 1", got.Sources)
	}
	warns := rec.Messages(report.LevelWarn)
	if len(warns) != 1 || !strings.Contains(warns[0], "doesn't exist "+docs) {
		t.Errorf("warnings = %v", warns)
	}
}

func TestScan_NothingFound(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/empty.txt", []byte("no versions here\nversion 0.0\n"))

	got, err := New(fs, nil, nil).Scan(context.Background(), sources("/empty.txt"), config.NewDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Found() {
		t.Errorf("Found() = true, Version = %s", got.Version)
	}
}

func TestScan_Errors(t *testing.T) {
	t.Run("invalid pattern", func(t *testing.T) {
		fs := core.NewMockFileSystem()
		fs.SetFile("/a.txt", []byte("1.0.0\n"))
		_, err := New(fs, nil, nil).Scan(context.Background(),
			[]config.InputSource{{Path: "/a.txt", Regex: "("}}, config.NewDefaults())
		if err == nil {
			t.Fatal("expected error for invalid pattern")
		}
	})

	t.Run("read failure", func(t *testing.T) {
		fs := core.NewMockFileSystem()
		fs.SetFile("/a.txt", []byte("1.0.0\n"))
		fs.ReadErr = errors.New("io failure")
		_, err := New(fs, nil, nil).Scan(context.Background(), sources("/a.txt"), config.NewDefaults())
		if !errors.Is(err, fs.ReadErr) {
			t.Fatalf("expected read error, got %v", err)
		}
	})

	t.Run("stat failure", func(t *testing.T) {
		fs := core.NewMockFileSystem()
		fs.StatErr = errors.New("permission denied")
		_, err := New(fs, nil, nil).Scan(context.Background(), sources("/a.txt"), config.NewDefaults())
		if !errors.Is(err, fs.StatErr) {
			t.Fatalf("expected stat error, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		fs := core.NewMockFileSystem()
		fs.SetFile("/a.txt", []byte("1.0.0\n"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(fs, nil, nil).Scan(ctx, sources("/a.txt"), config.NewDefaults())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestLines(t *testing.T) {
	var got []string
	for line, err := range lines(context.Background(), strings.NewReader("a\r\nb\n\nc")) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, line)
	}
	want := []string{"a", "b", "", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", got, want)
	}
}
