package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
)

const noIssues = "Nenhum problema encontrado."

// WriteCSVSummary writes one row per check: Validação, Status.
func WriteCSVSummary(w io.Writer, report *compliance.ComplianceReport) error {
	rows := [][]string{{"Validação", "Status"}}
	for _, item := range report.Items() {
		rows = append(rows, []string{item.Name, item.Status.Label()})
	}
	return writeCSV(w, rows)
}

// WriteCSVDetails writes one row per finding, or one "no issues" row for a
// clean check: Validação, Detalhe.
func WriteCSVDetails(w io.Writer, report *compliance.ComplianceReport) error {
	rows := [][]string{{"Validação", "Detalhe"}}
	for _, item := range report.Items() {
		if len(item.Findings) == 0 {
			rows = append(rows, []string{item.Name, noIssues})
			continue
		}
		for _, f := range item.Findings {
			rows = append(rows, []string{item.Name, f})
		}
	}
	return writeCSV(w, rows)
}

// WriteCSVBlocks writes one row per parsed block: Bloco, ID, Conteúdo.
func WriteCSVBlocks(w io.Writer, report *compliance.ComplianceReport) error {
	rows := [][]string{{"Bloco", "ID", "Conteúdo"}}
	for _, s := range report.Blocks {
		for i, b := range s.Blocks {
			rows = append(rows, []string{string(s.Kind), strconv.Itoa(i + 1), b})
		}
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeCSVFiles(base string, report *compliance.ComplianceReport) ([]string, error) {
	tables := []struct {
		suffix string
		write  func(io.Writer, *compliance.ComplianceReport) error
	}{
		{"resumo", WriteCSVSummary},
		{"detalhes", WriteCSVDetails},
		{"configuracao", WriteCSVBlocks},
	}

	var paths []string
	for _, t := range tables {
		path := base + "_" + t.suffix + ".csv"
		if err := writeFile(path, func(w io.Writer) error { return t.write(w, report) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
