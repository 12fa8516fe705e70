package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// LineFunc receives each line without its trailing newline or carriage
// return. Returning false stops the iteration.
type LineFunc func(lineNo int, line string) bool

// ForEachLine calls fn for every line of path. On the OS filesystem the
// file is memory-mapped when possible; otherwise it is streamed.
func ForEachLine(fs afero.Fs, path string, fn LineFunc) error {
	if _, ok := fs.(*afero.OsFs); ok {
		data, release, err := mapFile(path)
		if err == nil {
			defer release()
			splitLines(data, fn)
			return nil
		}
		if err != errMmapUnsupported {
			return err
		}
	}
	return streamLines(fs, path, fn)
}

func splitLines(data []byte, fn LineFunc) {
	lineNo := 0
	for len(data) > 0 {
		lineNo++
		end := bytes.IndexByte(data, '\n')
		var line []byte
		if end < 0 {
			line, data = data, nil
		} else {
			line, data = data[:end], data[end+1:]
		}
		// The mapping is released after iteration, so each line is copied.
		if !fn(lineNo, string(bytes.TrimSuffix(line, []byte{'\r'}))) {
			return
		}
	}
}

func streamLines(fs afero.Fs, path string, fn LineFunc) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := ReadLines(f, fn); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

// ReadLines calls fn for every line of r. Lines may be of any length, the
// same as on the memory-mapped path.
func ReadLines(r io.Reader, fn LineFunc) error {
	br := bufio.NewReaderSize(r, 64*1024)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && err != nil {
			return nil
		}
		lineNo++
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if !fn(lineNo, line) || err != nil {
			return nil
		}
	}
}
