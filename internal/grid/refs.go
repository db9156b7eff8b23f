package grid

import (
	"strings"

	"github.com/xuri/efp"
)

// References lists the distinct R<row>C<col> references named in a formula
// expression, in order of first appearance. Malformed references such as
// R0C1 are skipped. References is informational; evaluation does not use it.
func References(expr string) []Ref {
	expr = strings.TrimPrefix(strings.TrimSpace(expr), "=")
	if expr == "" {
		return nil
	}

	ps := efp.ExcelParser()
	tokens := ps.Parse(expr)

	var refs []Ref
	seen := make(map[Ref]bool)
	for _, token := range tokens {
		if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
			continue
		}
		ref, ok, err := ParseRef(strings.TrimSpace(token.TValue))
		if !ok || err != nil || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}
