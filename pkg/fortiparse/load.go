package fortiparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes bounds a single configuration line. Certificate and key
// blobs in FortiOS exports can run long.
const maxLineBytes = 1 << 20

// ReadLines splits r into lines. Bytes that are not valid UTF-8 are dropped
// rather than rejected, so exports with stray binary content still load.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.ToValidUTF8(scanner.Text(), ""))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config lines: %w", err)
	}
	return lines, nil
}

// ReadFile reads the configuration file at path.
func ReadFile(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot access config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return ReadLines(f)
}

// ParseReader reads all lines from r and parses them with table.
func ParseReader(r io.Reader, table MarkerTable) (*Document, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Parse(lines, table), nil
}
