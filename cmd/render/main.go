// Command render writes the HTML of a saved template, either loaded from
// MongoDB by id or read from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mailcraft/mailcraft/internal/config"
	"github.com/mailcraft/mailcraft/internal/database"
	"github.com/mailcraft/mailcraft/internal/document"
	"github.com/mailcraft/mailcraft/internal/document/repository"
	"github.com/mailcraft/mailcraft/internal/layout"
	"github.com/mailcraft/mailcraft/internal/render"
	"github.com/mailcraft/mailcraft/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.SetFormat("console")
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	id := fs.String("id", "", "template id to load from MongoDB")
	file := fs.String("file", "", "JSON file holding a saved template")
	layoutsDir := fs.String("layouts", "", "layouts directory (default LAYOUTS_DIR)")
	registry := fs.String("registry", "", "layout registry file (default LAYOUTS_REGISTRY)")
	out := fs.String("out", "", "output file; '-' or empty writes to stdout")
	strict := fs.Bool("strict", false, "fail when placeholders are left unresolved")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*id == "") == (*file == "") {
		return errors.New("exactly one of -id or -file is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *layoutsDir == "" {
		*layoutsDir = cfg.Layouts.Dir
	}
	if *registry == "" {
		*registry = cfg.Layouts.Registry
	}
	layouts, err := layout.NewStore(*layoutsDir, *registry)
	if err != nil {
		return err
	}

	var finder render.TemplateFinder
	if *file != "" {
		t, err := readTemplate(*file)
		if err != nil {
			return err
		}
		*id = t.ID
		finder = fileFinder{t: t}
	} else {
		if cfg.MongoDB.URI == "" {
			return errors.New("MONGODB_URI is required with -id")
		}
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		finder = repository.NewMongoRepo(client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.TemplateCollection))
	}

	res, err := render.NewEngine(finder, layouts, nil).RenderByID(ctx, *id)
	if err != nil {
		return err
	}
	if len(res.Unresolved) > 0 {
		if *strict {
			return fmt.Errorf("unresolved placeholders: %s", strings.Join(res.Unresolved, ", "))
		}
		logger.Warnf("unresolved placeholders in %s: %s", res.Filename, strings.Join(res.Unresolved, ", "))
	}

	if *out == "" || *out == "-" {
		_, err = io.WriteString(stdout, res.Body)
		return err
	}
	if err := os.WriteFile(*out, []byte(res.Body), 0o644); err != nil {
		return err
	}
	logger.Infof("wrote %s (%d bytes)", *out, len(res.Body))
	return nil
}

func readTemplate(path string) (*document.PersistedTemplate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t document.PersistedTemplate
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	n, err := document.Normalize(t)
	if err != nil {
		return nil, err
	}
	n.ID = t.ID
	return &n, nil
}

// fileFinder serves the one template read from disk.
type fileFinder struct {
	t *document.PersistedTemplate
}

func (f fileFinder) FindByID(_ context.Context, id string) (*document.PersistedTemplate, error) {
	if id != f.t.ID {
		return nil, repository.ErrNotFound
	}
	return f.t, nil
}
