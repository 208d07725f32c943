// Package prompt asks for the audit inputs interactively: which device
// dialect the configuration belongs to and where the file is.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// Answers holds the values collected by the form.
type Answers struct {
	Dialect fortiparse.Dialect
	Path    string
}

// NewForm builds the form over a. Values already set in a are offered as
// defaults.
func NewForm(a *Answers) *huh.Form {
	if a.Dialect == "" {
		a.Dialect = fortiparse.DialectSwitch
	}

	var opts []huh.Option[fortiparse.Dialect]
	for _, d := range fortiparse.Dialects() {
		opts = append(opts, huh.NewOption(dialectLabel(d), d))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[fortiparse.Dialect]().
				Title("Tipo de equipamento").
				Options(opts...).
				Value(&a.Dialect),
			huh.NewInput().
				Title("Arquivo de configuração").
				Placeholder("/caminho/para/config.conf").
				Value(&a.Path).
				Validate(ValidatePath),
		),
	).WithTheme(huh.ThemeBase16())
}

// Run shows the form and returns the answers. A cancelled form returns
// huh.ErrUserAborted.
func Run(ctx context.Context, defaults Answers) (Answers, error) {
	a := defaults
	if err := NewForm(&a).RunWithContext(ctx); err != nil {
		return Answers{}, err
	}
	a.Path = strings.TrimSpace(a.Path)
	return a, nil
}

// ValidatePath accepts the path of an existing regular file.
func ValidatePath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("informe o caminho do arquivo")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("arquivo não encontrado: %s", path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s é um diretório", path)
	}
	return nil
}

func dialectLabel(d fortiparse.Dialect) string {
	switch d {
	case fortiparse.DialectSwitch:
		return "FortiSwitch"
	case fortiparse.DialectWireless:
		return "FortiAP / Wi-Fi"
	default:
		return d.String()
	}
}
