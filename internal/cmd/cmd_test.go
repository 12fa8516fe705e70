package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cheerioskun/matchninja/internal/pattern"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in an isolated home directory and returns
// everything it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MATCHNINJA_LOG_FILE", filepath.Join(home, "matchninja.log"))
	if os.Getenv("MATCHNINJA_HISTORY_PATH") == "" {
		t.Setenv("MATCHNINJA_HISTORY_PATH", filepath.Join(home, "history.db"))
	}

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCompileCommand(t *testing.T) {
	out, err := execute(t, "", "compile", "abc(d|e|f).")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 tokens)")
	assert.Contains(t, out, `RawText("abc")`)
	assert.Contains(t, out, `OneOfText(["d", "e", "f"])`)
	assert.Contains(t, out, "WildCard")
}

func TestCompileCommandInvalid(t *testing.T) {
	out, err := execute(t, "", "compile", "abc(d|e|f.")
	require.Error(t, err)
	assert.ErrorIs(t, err, pattern.ErrIncomplete)
	assert.Contains(t, out, "unterminated group")
	assert.Contains(t, out, "   ^")
}

func TestMatchCommand(t *testing.T) {
	out, err := execute(t, "", "match", "abc(d|e|f).", "abcd!", "abcge")
	require.NoError(t, err)
	assert.Contains(t, out, "3/3 abcd!")
	assert.Contains(t, out, "1/3 abc")
	assert.Contains(t, out, "1 of 2 candidates matched fully")
	assert.Contains(t, out, "best match length: 3 of 3 tokens")
}

func TestMatchCommandStdin(t *testing.T) {
	out, err := execute(t, "abcx\r\nzzz\n", "match", "abc(d|e|f).", "--quiet")
	require.NoError(t, err)
	assert.NotContains(t, out, "candidates matched fully")
	assert.Equal(t, "best match length: 1 of 3 tokens\n", out)
}

func TestMatchCommandStdinLongLine(t *testing.T) {
	long := "abc" + strings.Repeat("x", 2<<20)
	out, err := execute(t, long+"\nabcd", "match", "abc(d|e|f)", "--full-only")
	require.NoError(t, err)
	assert.Contains(t, out, "2/2 abcd")
	assert.Contains(t, out, "1 of 2 candidates matched fully")
	assert.Contains(t, out, "best match length: 2 of 2 tokens")
}

func TestMatchCommandFullOnly(t *testing.T) {
	out, err := execute(t, "", "match", "a.", "ab", "b", "--full-only")
	require.NoError(t, err)
	assert.Contains(t, out, "2/2 ab")
	assert.NotContains(t, out, "0/2")
	assert.Contains(t, out, "1 of 2 candidates matched fully")
}

func TestMatchCommandExport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "users.md")
	out, err := execute(t, "alice\nbob\n", "match", "(alice|carol)", "--quiet", "--export", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported markdown report")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "stdin")
	assert.Contains(t, string(data), "bob")
}

func TestWordsCommands(t *testing.T) {
	out, err := execute(t, "", "words", "split", "a  b")
	require.NoError(t, err)
	assert.Equal(t, "  \"a\"\n  \"\"\n  \"b\"\n", out)

	out, err = execute(t, "", "words", "unique", "b a b")
	require.NoError(t, err)
	assert.Equal(t, "  \"a\"\n  \"b\"\n", out)

	out, err = execute(t, "", "words", "diff", "a b c", "b c d")
	require.NoError(t, err)
	assert.Contains(t, out, "only in \"a b c\":\n  \"a\"")
	assert.Contains(t, out, "only in \"b c d\":\n  \"d\"")

	out, err = execute(t, "", "words", "diff", "a b", "b a")
	require.NoError(t, err)
	assert.Equal(t, "no differences\n", out)
}

func TestScanExportAndHistory(t *testing.T) {
	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "app.log"), "GET /a ok\nGET /b ok\nPOST /a\n")
	writeFile(t, filepath.Join(corpus, "nested", "more.log"), "GET /c\n")

	outDir := t.TempDir()
	reportPath := filepath.Join(outDir, "report.json")
	t.Setenv("MATCHNINJA_HISTORY_PATH", filepath.Join(outDir, "history.db"))

	out, err := execute(t, "", "scan", "GET /(a|b)", corpus, "--export", reportPath, "--record")
	require.NoError(t, err)
	assert.Contains(t, out, "2 files (2 text")
	assert.Contains(t, out, "Candidates: 4")
	assert.Contains(t, out, "Full matches: 2")
	assert.Contains(t, out, "Best match length: 2 of 2 tokens")
	assert.Contains(t, out, "Exported json report")
	assert.Contains(t, out, `Recorded first run of "GET /(a|b)"`)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pattern": "GET /(a|b)"`)
	assert.Contains(t, string(data), `"full_matches": 2`)

	// Exporting again without --overwrite must fail
	_, err = execute(t, "", "scan", "GET /(a|b)", corpus, "--export", reportPath)
	require.Error(t, err)

	out, err = execute(t, "", "history", "GET /(a|b)")
	require.NoError(t, err)
	assert.Contains(t, out, "best 2 of 2 tokens over 1 runs")

	out, err = execute(t, "", "history", "clear")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 runs\n", out)

	out, err = execute(t, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "no runs recorded\n", out)
}

func TestScanWordsAndTimestamps(t *testing.T) {
	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "app.log"),
		"2024-01-15T10:30:00Z error disk full\n2024-01-15T10:31:00Z errno 28\n")

	out, err := execute(t, "", "scan", "err(or|no)", corpus, "--split", "words", "--strip-timestamps")
	require.NoError(t, err)
	assert.Contains(t, out, "Candidates: 5")
	assert.Contains(t, out, "Full matches: 2")
	assert.Contains(t, out, "Unmatched words:")
	assert.NotContains(t, out, "2024-01-15")
}

func TestScanModifiedWithin(t *testing.T) {
	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "fresh.log"), "GET /a\n")
	stale := filepath.Join(corpus, "stale.log")
	writeFile(t, stale, "GET /b\nGET /c\n")
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	out, err := execute(t, "", "scan", "GET /.", corpus, "--modified-within", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "Matching 1 files modified within 1h0m0s")
	assert.Contains(t, out, "Candidates: 1")
}

func TestScanTextExtensions(t *testing.T) {
	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "capture.pkt"), "GET /a\n")

	out, err := execute(t, "", "scan", "GET", corpus)
	require.NoError(t, err)
	assert.Contains(t, out, "1 files (0 text")

	out, err = execute(t, "", "scan", "GET", corpus, "--text-ext", "pkt")
	require.NoError(t, err)
	assert.Contains(t, out, "1 files (1 text")
	assert.Contains(t, out, "Full matches: 1")
}

func TestScanInvalidSplit(t *testing.T) {
	corpus := t.TempDir()
	_, err := execute(t, "", "scan", "a", corpus, "--split", "chars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid split mode")
}

func TestScanMissingPath(t *testing.T) {
	_, err := execute(t, "", "scan", "a", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path does not exist")
}

func TestInitCommand(t *testing.T) {
	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "a.log"), "2024-01-15T10:30:00Z one\n2024-01-15T10:31:00Z two\n")
	writeFile(t, filepath.Join(corpus, "b.log"), "2024-01-15T10:32:00Z three\n")

	cfgPath := filepath.Join(t.TempDir(), "mn.yaml")
	out, err := execute(t, "", "init", corpus, "--output-config", cfgPath, "--pattern", "one|two")
	require.Error(t, err, "pipe outside a group is rejected before anything is written")
	assert.NoFileExists(t, cfgPath)

	out, err = execute(t, "", "init", corpus, "--output-config", cfgPath, "--pattern", "(one|two)")
	require.NoError(t, err)
	assert.Contains(t, out, "enabling strip-timestamps")
	assert.Contains(t, out, "(one|two) (1 tokens)")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "strip-timestamps: true")
	assert.Contains(t, string(data), "- (one|two)")

	_, err = execute(t, "", "init", corpus, "--output-config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
