package commands

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/nav"
	"git.home.luguber.info/inful/docsync/internal/pipeline"
)

// NavCmd implements the 'nav' command. It reads the docs tree only.
type NavCmd struct{}

func (n *NavCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	tree, err := pipeline.New(cfg).BuildNav()
	if err != nil {
		return err
	}

	out, err := renderNav(tree)
	if err != nil {
		return derrors.InternalError("render navigation", err)
	}
	_, err = fmt.Fprint(g.stdout(), out)
	return err
}

func renderNav(tree nav.Nav) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]nav.Nav{"nav": tree}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
