// This file contains the logic for parsing HCL scalar kind expressions
// (e.g. `int64`, `string`) into their corresponding scalar.Kind values.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/gazeset/internal/ctxlog"
	"github.com/vk/gazeset/internal/scalar"
)

// kindExprToScalarKind converts an HCL kind keyword expression into its
// scalar.Kind equivalent. The keyword set is closed; anything that is not
// a bare identifier naming a known kind is rejected.
func kindExprToScalarKind(ctx context.Context, expr hcl.Expression) (scalar.Kind, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return scalar.String, fmt.Errorf("invalid kind keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		logger.Debug("Parsing schema override kind keyword.", "keyword", rootName)
		kind, err := scalar.ParseKind(rootName)
		if err != nil {
			return scalar.String, err
		}
		return kind, nil

	default:
		return scalar.String, fmt.Errorf("unsupported expression for kind definition: %T", v)
	}
}
