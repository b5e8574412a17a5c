package loader

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// loadHCL decodes an HCL tasks file. HCL owns ${...}, so variable references
// are written $NAME or escaped as $${NAME}.
func loadHCL(path string) (*TasksFile, error) {
	// hclparse folds a missing file into diagnostics; stat first so callers
	// can still match fs.ErrNotExist.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	var tf TasksFile
	diags = gohcl.DecodeBody(file.Body, nil, &tf)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return &tf, nil
}
