package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(name), 0755))
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0644))
	}
}

func TestScanCorpus(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/corpus/app.log":          "one\ntwo\nthree\n",
		"/corpus/notes.txt":        "alpha beta",
		"/corpus/image.png":        "\x89PNG",
		"/corpus/sub/error.out":    "x\n",
		"/corpus/sub/deep/a/b.txt": "deep\n",
	})

	cs := NewCorpusScanner(fs)
	cs.SetMaxDepth(1)
	corpus, err := cs.ScanCorpus("/corpus")
	require.NoError(t, err)

	assert.Equal(t, 4, corpus.Metadata.TotalFileCount)
	assert.Equal(t, 3, corpus.Metadata.TextFileCount)

	app := corpus.GetFileByPath("app.log")
	require.NotNil(t, app)
	assert.Equal(t, int64(3), app.LineCount)
	assert.True(t, app.Selected)

	notes := corpus.GetFileByPath("notes.txt")
	require.NotNil(t, notes)
	assert.Equal(t, int64(1), notes.LineCount)

	png := corpus.GetFileByPath("image.png")
	require.NotNil(t, png)
	assert.False(t, png.IsText)
	assert.False(t, png.Selected)

	assert.Nil(t, corpus.GetFileByPath(filepath.Join("sub", "deep", "a", "b.txt")))
}

func TestScanCorpusErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/file.txt": "x"})
	cs := NewCorpusScanner(fs)

	_, err := cs.ScanCorpus("/missing")
	assert.Error(t, err)

	_, err = cs.ScanCorpus("/file.txt")
	assert.ErrorContains(t, err, "not a directory")
}

func TestQuickScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/c/a.log":     "",
		"/c/b.bin":     "",
		"/c/sub/c.log": "",
	})

	meta, err := NewCorpusScanner(fs).QuickScan("/c")
	require.NoError(t, err)
	assert.Equal(t, 2, meta.TotalFileCount)
	assert.Equal(t, 1, meta.TextFileCount)
}

func TestAddTextExtension(t *testing.T) {
	cs := NewCorpusScanner(afero.NewMemMapFs())
	cs.AddTextExtension("GO")
	assert.Contains(t, cs.GetSupportedExtensions(), ".go")
	assert.True(t, cs.isTextFile("main.go"))
}

func collect(t *testing.T, fs afero.Fs, path string) []string {
	t.Helper()
	var lines []string
	require.NoError(t, ForEachLine(fs, path, func(_ int, line string) bool {
		lines = append(lines, line)
		return true
	}))
	return lines
}

func TestForEachLineMemFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/in.txt": "a\r\nb\n\nc"})
	assert.Equal(t, []string{"a", "b", "", "c"}, collect(t, fs, "/in.txt"))
}

func TestForEachLineOsFs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond💪\n"), 0644))

	fs := afero.NewOsFs()
	assert.Equal(t, []string{"first", "second💪"}, collect(t, fs, path))

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	assert.Empty(t, collect(t, fs, empty))
}

func TestForEachLineLongLine(t *testing.T) {
	long := strings.Repeat("a", 2<<20)
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/in.txt": long + "\r\nshort\n"})

	lines := collect(t, fs, "/in.txt")
	require.Len(t, lines, 2)
	assert.Equal(t, long, lines[0])
	assert.Equal(t, "short", lines[1])
}

func TestForEachLineStops(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/in.txt": "1\n2\n3\n"})

	var seen []int
	require.NoError(t, ForEachLine(fs, "/in.txt", func(n int, _ string) bool {
		seen = append(seen, n)
		return n < 2
	}))
	assert.Equal(t, []int{1, 2}, seen)
}

func TestStrip(t *testing.T) {
	ps := NewPrefixStripper(afero.NewMemMapFs())
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"2024-03-01T10:20:30Z connection reset", "connection reset", true},
		{"2024-03-01T10:20:30.123+02:00 connection reset", "connection reset", true},
		{"2024-03-01 10:20:30,123 | worker started", "worker started", true},
		{"2024/03/01 10:20:30 listening", "listening", true},
		{"I0301 10:20:30.123456 glog line", "glog line", true},
		{"Mar  1 10:20:30 host sshd: ok", "host sshd: ok", true},
		{"[01/Mar/2024:10:20:30 +0000] GET /", "GET /", true},
		{"no timestamp here", "no timestamp here", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ps.Strip(tt.line, nil)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectBestPattern(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/app.log": "2024-03-01 10:20:30 a\n\n2024-03-01 10:20:31 b\nplain\n",
		"/raw.txt": "nothing\nto see\n",
	})
	ps := NewPrefixStripper(fs)

	res, err := ps.DetectBestPattern("/app.log")
	require.NoError(t, err)
	require.NotNil(t, res.Pattern)
	assert.Equal(t, "DateTime_Dash", res.Pattern.Name)
	assert.Equal(t, 2, res.MatchCount)
	assert.InDelta(t, 2.0/3.0, res.Confidence, 1e-9)

	got, ok := ps.Strip("2024-03-01 10:20:32 c", res.Pattern)
	assert.True(t, ok)
	assert.Equal(t, "c", got)

	res, err = ps.DetectBestPattern("/raw.txt")
	require.NoError(t, err)
	assert.Nil(t, res.Pattern)
}
