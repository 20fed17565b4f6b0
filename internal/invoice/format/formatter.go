// Package format renders invoice numbers from templates.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

// DefaultInvoiceNumberTemplate yields numbers like INV-20250601-0042.
// The sequence part is a random 0-9999 draw, so collisions are possible
// and guarded by the unique index on invoice_number.
const DefaultInvoiceNumberTemplate = "INV-{YYYY}{MM}{DD}-{SEQ4}"

// InvoiceNumber expands the date and {SEQn} tokens of a template. Pure
// and deterministic; callers supply the issue time and sequence value.
func InvoiceNumber(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}
	if seq < 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := template
	for token, layout := range map[string]string{
		"{YYYY}": "2006",
		"{MM}":   "01",
		"{DD}":   "02",
	} {
		out = strings.ReplaceAll(out, token, issuedAt.Format(layout))
	}

	out = seqRe.ReplaceAllStringFunc(out, func(m string) string {
		width, err := strconv.Atoi(seqRe.FindStringSubmatch(m)[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in invoice format: %s", out)
	}

	return out, nil
}
