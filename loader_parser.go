package formtoggle

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formtoggle/pkg/rules"
)

// LoadRules reads every rule file in fsys.
func LoadRules(fsys fs.FS) (*rules.Store, error) {
	return rules.LoadFS(fsys)
}

// RulesFromOpenAPI derives rules from the x-formtoggle extensions on the
// request schema of operationID.
func RulesFromOpenAPI(ctx context.Context, data []byte, operationID string) ([]Rule, error) {
	return rules.FromOpenAPI(ctx, data, operationID)
}
