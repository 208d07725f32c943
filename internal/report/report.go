// Package report renders compliance reports for people and pipelines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
)

// Format names an output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
)

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatHTML, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Write renders report to w. The csv format writes the per-finding details
// table; WriteFiles emits all three tables.
func Write(w io.Writer, f Format, report *compliance.ComplianceReport) error {
	switch f {
	case FormatText:
		return WriteText(w, report)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case FormatHTML:
		return WriteHTML(w, report)
	case FormatCSV:
		return WriteCSVDetails(w, report)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// BaseName returns the file stem used for a report's files.
func BaseName(report *compliance.ComplianceReport) string {
	return "relatorio_fortinet_" + report.Dialect
}

// WriteFiles writes one file per format into dir and returns the paths in
// the order written.
func WriteFiles(dir string, report *compliance.ComplianceReport, formats []Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	base := filepath.Join(dir, BaseName(report))
	var paths []string
	for _, f := range formats {
		if f == FormatCSV {
			written, err := writeCSVFiles(base, report)
			paths = append(paths, written...)
			if err != nil {
				return paths, err
			}
			continue
		}

		path := base + "." + extension(f)
		if err := writeFile(path, func(w io.Writer) error { return Write(w, f, report) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func extension(f Format) string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(file); err != nil {
		file.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// RatioString formats the summary's compliance percentage, or N/A when the
// report holds no checks.
func RatioString(s compliance.Summary) string {
	if !s.RatioValid {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", s.Ratio)
}
