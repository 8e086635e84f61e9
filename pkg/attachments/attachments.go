// Package attachments decodes inbound data-URI file attachments into plain
// text content.
package attachments

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// Attachment is one inbound reference file as it appears in the webhook body.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Decode turns a list of attachments into a name -> content mapping.
//
// Entries whose URL is not a data URI are skipped; partial attachment sets are
// expected. A base64 payload is decoded and interpreted as UTF-8 text, any
// other payload is used verbatim. A decoding failure drops that entry only.
func Decode(atts []Attachment) map[string]string {
	processed := make(map[string]string)

	for _, att := range atts {
		if att.Name == "" || !strings.HasPrefix(att.URL, "data:") {
			continue
		}

		// data:<mime>[;base64],<payload>
		header, payload, found := strings.Cut(att.URL, ",")
		if !found {
			continue
		}

		if strings.Contains(header, "base64") {
			decoded, err := base64.StdEncoding.DecodeString(payload)
			if err != nil || !utf8.Valid(decoded) {
				continue
			}
			processed[att.Name] = string(decoded)
		} else {
			processed[att.Name] = payload
		}
	}

	return processed
}
