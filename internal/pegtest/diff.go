package pegtest

import (
	"fmt"

	"github.com/oakmoss/peg/ast"
)

// Diff compares two trees structurally and returns a list of human-readable
// mismatches, empty when got and want are equivalent. Groups are compared
// field by field, since that is the one piece of per-node side data
// ast.Node carries.
func Diff(got, want *ast.Node) (diff []string) {
	if got == nil && want == nil {
		return nil
	}
	if got == nil {
		diff = append(diff, fmt.Sprintf("expected (%s), got nil", nodeName(want)))
		return
	}
	if want == nil {
		diff = append(diff, fmt.Sprintf("expected nil, got (%s)", nodeName(got)))
		return
	}
	if got.Name != want.Name {
		diff = append(diff, fmt.Sprintf("expected name %q, got %q", want.Name, got.Name))
	}
	if got.Span() != want.Span() {
		diff = append(diff, fmt.Sprintf("expected span %q, got %q", want.Span(), got.Span()))
	}

	checked := make(map[string]bool, len(want.Groups))
	for k, v := range want.Groups {
		vv, ok := got.Groups[k]
		if !ok {
			diff = append(diff, fmt.Sprintf("expected group %s=%q, not found", k, v))
			continue
		}
		if vv != v {
			diff = append(diff, fmt.Sprintf("expected group %s=%q, got %q", k, v, vv))
		}
		checked[k] = true
	}
	for k, v := range got.Groups {
		if checked[k] {
			continue
		}
		diff = append(diff, fmt.Sprintf("extra group %s=%q, not expected", k, v))
	}

	if len(got.Children) != len(want.Children) {
		diff = append(diff, fmt.Sprintf("expected %d children, got %d", len(want.Children), len(got.Children)))
	}
	n := len(got.Children)
	if len(want.Children) < n {
		n = len(want.Children)
	}
	for i := 0; i < n; i++ {
		diff = append(diff, Diff(got.Children[i], want.Children[i])...)
	}
	return
}

func nodeName(n *ast.Node) string {
	if n == nil {
		return ""
	}
	if n.Name == "" {
		return "_"
	}
	return n.Name
}
