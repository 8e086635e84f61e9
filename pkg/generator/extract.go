package generator

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ExtractDocument pulls the HTML deliverable out of free-form model output.
//
// Precedence: the interior of a ```html fence, else the interior of the first
// fence of any language, else the text verbatim. Afterwards, if the text
// contains a case-insensitive <html> opening tag, the substring from that tag
// through the matching </html> inclusive is the authoritative deliverable and
// overrides any fencing artifacts. Without an opening tag the fence-extracted
// text stands as-is.
func ExtractDocument(raw string) string {
	code := strings.TrimSpace(raw)

	if idx := strings.Index(code, "```html"); idx != -1 {
		code = fenceInterior(code, idx, len("```html"))
	} else if idx := strings.Index(code, "```"); idx != -1 {
		code = fenceInterior(code, idx, len("```"))
	}

	lower := strings.ToLower(code)
	if start := strings.Index(lower, "<html"); start != -1 {
		if end := strings.Index(lower, "</html>"); end != -1 && end+len("</html>") > start {
			code = code[start : end+len("</html>")]
		}
	}

	return code
}

// fenceInterior returns the trimmed content between an opening fence at idx
// and the next closing fence. An unterminated fence leaves the text untouched.
func fenceInterior(code string, idx, markerLen int) string {
	start := idx + markerLen
	end := strings.Index(code[start:], "```")
	if end == -1 {
		return code
	}
	return strings.TrimSpace(code[start : start+end])
}

// extractionDelta summarizes what extraction changed, for diagnostic logging.
func extractionDelta(raw, extracted string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(raw, extracted, false)

	var removed, added int
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			removed += len(d.Text)
		case diffmatchpatch.DiffInsert:
			added += len(d.Text)
		}
	}
	return fmt.Sprintf("-%d/+%d chars", removed, added)
}
