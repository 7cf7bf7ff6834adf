package commands

import (
	"context"
	"fmt"

	derrors "git.home.luguber.info/inful/docsync/internal/errors"
	"git.home.luguber.info/inful/docsync/internal/manifest"
	"git.home.luguber.info/inful/docsync/internal/observability"
	"git.home.luguber.info/inful/docsync/internal/pipeline"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	Print bool `help:"Print the updated site configuration to stdout"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	recorder, flush := newRecorder(cfg)
	defer flush()

	// The document is loaded up front, the way a site generator holds its
	// configuration before handing it to the hook.
	path := cfg.ManifestPath()
	doc, err := manifest.Load(path)
	if err != nil {
		return derrors.ManifestFailed(path, err)
	}

	ctx := observability.WithTrigger(context.Background(), "cli")
	p := pipeline.New(cfg, pipeline.WithRecorder(recorder))
	doc, err = p.OnConfig(ctx, doc)
	if err != nil {
		return err
	}

	if s.Print {
		out, err := doc.Marshal()
		if err != nil {
			return derrors.InternalError("render site configuration", err)
		}
		if _, err := fmt.Fprint(g.stdout(), string(out)); err != nil {
			return derrors.InternalError("write output", err)
		}
	}
	return nil
}
