package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// defaultSeqWidth is the zero-padding width when {SEQ} carries no explicit width.
const defaultSeqWidth = 3

// seqToken matches {SEQ} or {SEQ:N} where N is the zero-padding width.
var seqToken = regexp.MustCompile(`\{SEQ(?::(\d+))?\}`)

// Context supplies the substitution values for a document number template.
type Context struct {
	Country   string
	IssueDate time.Time
	Sequence  int64
}

// Render substitutes the template tokens with values from ctx and returns
// the final document number. Supported tokens:
//
//	{CC}    country code (lookup table, two-letter fallback)
//	{FY}    fiscal-year pair, e.g. "2425"
//	{YYYY}  four-digit calendar year of the issue date
//	{MM}    two-digit month of the issue date
//	{SEQ}   allocated sequence, zero-padded to 3 digits
//	{SEQ:N} allocated sequence, zero-padded to N digits
//
// A template with no sequence token still embeds the sequence: "-{n}" is
// appended to the rendered string so generated numbers can never collide
// within a scope. Render is pure: same inputs, same output.
func Render(template string, ctx Context) string {
	out := strings.NewReplacer(
		"{CC}", CountryCode(ctx.Country),
		"{FY}", FiscalYearPair(ctx.IssueDate),
		"{YYYY}", fmt.Sprintf("%04d", ctx.IssueDate.Year()),
		"{MM}", fmt.Sprintf("%02d", int(ctx.IssueDate.Month())),
	).Replace(template)

	replaced := false
	out = seqToken.ReplaceAllStringFunc(out, func(tok string) string {
		replaced = true
		width := defaultSeqWidth
		if m := seqToken.FindStringSubmatch(tok); m[1] != "" {
			if w, err := strconv.Atoi(m[1]); err == nil && w > 0 {
				width = w
			}
		}
		return fmt.Sprintf("%0*d", width, ctx.Sequence)
	})

	if !replaced {
		out = fmt.Sprintf("%s-%d", out, ctx.Sequence)
	}
	return out
}
