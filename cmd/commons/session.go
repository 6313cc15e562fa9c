package main

import (
	"fmt"
	"path/filepath"

	"github.com/commonsos/commons/internal/catalog"
	"github.com/commonsos/commons/internal/descriptor"
	"github.com/commonsos/commons/internal/formdoc"
	"github.com/commonsos/commons/internal/logger"
	"github.com/commonsos/commons/internal/wizard"
	"github.com/spf13/afero"
)

// docFS is where form documents are read and written.
var docFS = afero.NewOsFs()

// session is an engine together with the descriptor it was built from.
type session struct {
	desc      *descriptor.Descriptor
	engine    *wizard.Engine
	statePath string
	loaded    bool // state document was applied
}

// loadDescriptor resolves the configured wizard.
func loadDescriptor() (*descriptor.Descriptor, error) {
	d, err := catalog.Resolve(cfg.Wizard, cfg.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("loading wizard: %w", err)
	}
	return d, nil
}

// defaultStatePath returns where the session of d is kept when no path is
// given.
func defaultStatePath(d *descriptor.Descriptor) string {
	return filepath.Join(cfg.DataDir, d.Name+".yaml")
}

// openSession builds a fresh engine and applies the document at statePath
// when one exists. An empty statePath means the default location.
func openSession(statePath string) (*session, error) {
	d, err := loadDescriptor()
	if err != nil {
		return nil, err
	}
	e, err := d.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	s := &session{desc: d, engine: e, statePath: statePath}
	if s.statePath == "" {
		s.statePath = defaultStatePath(d)
	}
	if !formdoc.Exists(docFS, s.statePath) {
		logger.Debug("no state at %s, starting from defaults", s.statePath)
		return s, nil
	}

	doc, err := formdoc.Read(docFS, s.statePath)
	if err != nil {
		return nil, err
	}
	if doc.Wizard != "" && d.Name != "" && doc.Wizard != d.Name {
		return nil, fmt.Errorf("%s holds a %q session, not %q", s.statePath, doc.Wizard, d.Name)
	}
	if err := doc.Apply(e); err != nil {
		return nil, fmt.Errorf("applying %s: %w", s.statePath, err)
	}
	s.loaded = true
	logger.Info("loaded session %s from %s", doc.ID, s.statePath)
	return s, nil
}

// save writes the engine's state to path.
func (s *session) save(path string) error {
	doc := formdoc.Capture(s.engine, s.desc.Name)
	if err := docFS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := formdoc.Write(docFS, path, doc); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	logger.Info("saved session %s to %s", doc.ID, path)
	return nil
}
