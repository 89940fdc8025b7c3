// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/risbas/internal/exponent"
	"github.com/pdiddy/risbas/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// setupTable writes content as an exponent table in a temp dir and returns a
// config pointing at it, with both outputs in the same dir.
func setupTable(t *testing.T, content string) types.ConversionConfig {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, types.DefaultInputPath)
	require.NoError(t, os.WriteFile(in, []byte(content), 0o644))
	return types.ConversionConfig{
		InputPath:       in,
		BaseOutputPath:  filepath.Join(dir, types.DefaultOutputPath),
		PFuncOutputPath: filepath.Join(dir, types.DefaultPFuncOutputPath),
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_Scenarios(t *testing.T) {
	const input = "# header\nH  12.34\nhe  5.6\n"

	tests := []struct {
		name  string
		pfunc bool
		want  string
	}{
		{
			name: "plain",
			want: "$DATA\n\nh\nS   1\n1         12.34             1.0000000\n\nhe\nS   1\n1         5.6             1.0000000\n\n$END",
		},
		{
			name:  "pfunc",
			pfunc: true,
			want: "$DATA\n\nh\nS   1\n1         12.34             1.0000000\n\n" +
				"he\nS   1\n1         5.6             1.0000000\nP   1\n1         5.6             1.0000000\n\n$END",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupTable(t, input)
			cfg.PFunction = tt.pfunc

			var out bytes.Buffer
			res, err := Run(cfg, zaptest.NewLogger(t), &out)
			require.NoError(t, err)

			assert.Equal(t, cfg.OutputPath(), res.OutputPath)
			assert.Equal(t, 2, res.Blocks)
			assert.Equal(t, 1, res.Comments)
			assert.Equal(t, "Output written to "+cfg.OutputPath()+"\n", out.String())

			if diff := cmp.Diff(tt.want, readOutput(t, res.OutputPath)); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_Golden(t *testing.T) {
	table, err := os.ReadFile(filepath.Join("testdata", "radi_exponent.txt"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		pfunc  bool
		golden string
	}{
		{name: "ris.bas", golden: "ris.bas.golden"},
		{name: "ris+p.bas", pfunc: true, golden: "ris+p.bas.golden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupTable(t, string(table))
			cfg.PFunction = tt.pfunc

			res, err := Run(cfg, nil, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.name, filepath.Base(res.OutputPath))

			want, err := os.ReadFile(filepath.Join("testdata", tt.golden))
			require.NoError(t, err)
			if diff := cmp.Diff(string(want), readOutput(t, res.OutputPath)); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_BlockProperties(t *testing.T) {
	table, err := os.ReadFile(filepath.Join("testdata", "radi_exponent.txt"))
	require.NoError(t, err)
	parsed, err := exponent.Parse(bytes.NewReader(table), "radi_exponent.txt")
	require.NoError(t, err)

	for _, pfunc := range []bool{false, true} {
		cfg := setupTable(t, string(table))
		cfg.PFunction = pfunc
		res, err := Run(cfg, nil, &bytes.Buffer{})
		require.NoError(t, err)

		got := readOutput(t, res.OutputPath)
		require.True(t, strings.HasPrefix(got, "$DATA\n\n"))
		require.True(t, strings.HasSuffix(got, "\n$END"))

		body := strings.TrimSuffix(strings.TrimPrefix(got, "$DATA\n\n"), "$END")
		blocks := strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n")
		require.Len(t, blocks, len(parsed.Records), "pfunc=%v", pfunc)

		for i, block := range blocks {
			rec := parsed.Records[i]
			lines := strings.Split(block, "\n")
			assert.Equal(t, rec.Element, lines[0])
			assert.Equal(t, "S   1", lines[1])
			assert.Contains(t, lines[2], " "+rec.Theta+" ")

			wantP := pfunc && rec.Element != types.Hydrogen
			assert.Equal(t, wantP, strings.Contains(block, "P   1"), "block %q pfunc=%v", rec.Element, pfunc)
			if wantP {
				require.Len(t, lines, 5)
				assert.Equal(t, "P   1", lines[3])
				assert.Equal(t, lines[2], lines[4])
			} else {
				assert.Len(t, lines, 3)
			}
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	cfg := setupTable(t, "# z sym theta\n1 H 0.1\n6 C 1.1457\n")
	cfg.PFunction = true

	_, err := Run(cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)
	first := readOutput(t, cfg.OutputPath())

	_, err = Run(cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, first, readOutput(t, cfg.OutputPath()))
}

func TestRun_TruncatesExistingOutput(t *testing.T) {
	cfg := setupTable(t, "1 H 0.1\n")
	require.NoError(t, os.WriteFile(cfg.OutputPath(), []byte(strings.Repeat("stale\n", 100)), 0o644))

	_, err := Run(cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "$DATA\n\nh\nS   1\n1         0.1             1.0000000\n\n$END", readOutput(t, cfg.OutputPath()))
}

func TestRun_OnlyWritesSelectedOutput(t *testing.T) {
	cfg := setupTable(t, "1 H 0.1\n")

	_, err := Run(cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = os.Stat(cfg.BaseOutputPath)
	assert.NoError(t, err)
	_, err = os.Stat(cfg.PFuncOutputPath)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "pfunc output should not exist")
}

func TestRun_InputNotFound(t *testing.T) {
	dir := t.TempDir()
	cfg := types.ConversionConfig{
		InputPath:      filepath.Join(dir, "missing.txt"),
		BaseOutputPath: filepath.Join(dir, "ris.bas"),
	}

	var out bytes.Buffer
	_, err := Run(cfg, nil, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, out.String())

	_, statErr := os.Stat(cfg.BaseOutputPath)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "no output should be created")
}

func TestRun_MalformedLine(t *testing.T) {
	cfg := setupTable(t, "# header\n1 H 0.1\nHe\n")
	require.NoError(t, os.WriteFile(cfg.OutputPath(), []byte("previous run"), 0o644))

	var out bytes.Buffer
	_, err := Run(cfg, zap.NewNop(), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, exponent.ErrMalformedLine)
	assert.Contains(t, err.Error(), ":3")
	assert.Empty(t, out.String())

	// The table is rejected before the output is opened.
	assert.Equal(t, "previous run", readOutput(t, cfg.OutputPath()))
}

func TestRun_OutputNotWritable(t *testing.T) {
	cfg := setupTable(t, "1 H 0.1\n")
	cfg.BaseOutputPath = filepath.Join(t.TempDir(), "no-such-dir", "ris.bas")

	var out bytes.Buffer
	_, err := Run(cfg, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output")
	assert.Empty(t, out.String())
}

var errDiskFull = errors.New("disk full")

// shortFile writes through to f until limit bytes have been written, then
// fails.
type shortFile struct {
	f     *os.File
	limit int
}

func (s *shortFile) Write(p []byte) (int, error) {
	if len(p) > s.limit {
		n, _ := s.f.Write(p[:s.limit])
		s.limit = 0
		return n, errDiskFull
	}
	s.limit -= len(p)
	return s.f.Write(p)
}

func (s *shortFile) Close() error { return s.f.Close() }

func TestRun_WriteFailureRemovesPartialOutput(t *testing.T) {
	orig := createOutput
	t.Cleanup(func() { createOutput = orig })
	createOutput = func(path string) (io.WriteCloser, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return &shortFile{f: f, limit: 10}, nil
	}

	cfg := setupTable(t, "1 H 0.1\n2 He 0.2\n")
	require.NoError(t, os.WriteFile(cfg.OutputPath(), []byte("previous run"), 0o644))

	var out bytes.Buffer
	_, err := Run(cfg, nil, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Empty(t, out.String())

	_, statErr := os.Lstat(cfg.OutputPath())
	assert.ErrorIs(t, statErr, fs.ErrNotExist, "partial output should be removed")
}

func TestRun_WriteFailureKeepsSymlink(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	cfg := setupTable(t, "1 H 0.1\n")
	require.NoError(t, os.Symlink("/dev/full", cfg.OutputPath()))

	_, err := Run(cfg, nil, &bytes.Buffer{})
	require.Error(t, err)

	fi, err := os.Lstat(cfg.OutputPath())
	require.NoError(t, err, "symlink should survive a failed write")
	assert.NotZero(t, fi.Mode()&os.ModeSymlink)
}

func TestRun_WarnsOnBlankLines(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := setupTable(t, "# z sym theta\n\n1 H 0.1\n  \t\n2 He 0.2\n")

	res, err := Run(cfg, zap.New(core), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Blocks)

	warned := logs.FilterMessage("skipped blank lines in exponent table").All()
	require.Len(t, warned, 1)
	assert.Equal(t, int64(2), warned[0].ContextMap()["blank"])
}

func TestRun_NoWarningWithoutBlankLines(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := setupTable(t, "1 H 0.1\n")

	_, err := Run(cfg, zap.New(core), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}
