package bench

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// Run bundles everything one harness invocation produced.
type Run struct {
	At      time.Time  `json:"at"`
	Config  Config     `json:"config"`
	Results []Result   `json:"results,omitempty"`
	Load    *LoadStats `json:"load,omitempty"`
}

// WriteResults renders a run as indented json to path, or to w when the
// path is empty.
func WriteResults(path string, w io.Writer, run Run) error {
	data, err := sonnet.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("bench: encoding results: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("bench: writing %s: %w", path, err)
	}
	return nil
}
