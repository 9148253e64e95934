package state

import (
	"fmt"
	"os"
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// LoadExtraStyle reads stylesheet configured in document section, if any.
// Its rules take part in display resolution of every processed document.
func (e *LocalEnv) LoadExtraStyle() error {
	if e.Cfg == nil || e.Cfg.Document.StylesheetPath == "" {
		return nil
	}
	data, err := os.ReadFile(e.Cfg.Document.StylesheetPath)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	e.ExtraStyle = data
	if err := e.Rpt.StoreCopy("extra.css", e.Cfg.Document.StylesheetPath); err != nil {
		return fmt.Errorf("unable to store stylesheet in report: %w", err)
	}
	return nil
}
