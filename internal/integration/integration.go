// Package integration provides embedded shell integration snippets.
package integration

import (
	"bytes"
	_ "embed"
	"fmt"
	"os/exec"
	"path/filepath"
	"text/template"
)

// ZshFzf contains the zsh shell integration script with fzf support.
//
//go:embed zsh-fzf.sh
var ZshFzf string

// Render renders the integration script for the binary named bin,
// using the zsh found on PATH for the shebang.
func Render(bin string) (string, error) {
	zsh, err := exec.LookPath("zsh")
	if err != nil {
		return "", fmt.Errorf("looking up zsh: %w", err)
	}

	return render(filepath.ToSlash(zsh), bin)
}

// render substitutes the zsh path and binary name into the script.
func render(zsh, bin string) (string, error) {
	tmpl, err := template.New("zsh-fzf").Parse(ZshFzf)
	if err != nil {
		return "", fmt.Errorf("parsing integration script: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"ZSH": zsh,
		"Bin": bin,
	}); err != nil {
		return "", fmt.Errorf("rendering integration script: %w", err)
	}

	return buf.String(), nil
}
