package generator

import (
	"fmt"
	"strings"
)

// attachmentExcerptLimit bounds how much of each attachment is quoted in the
// prompt to keep the request size predictable.
const attachmentExcerptLimit = 500

// BuildPrompt assembles the single generation request sent to the model. It
// embeds the brief, the enumerated evaluation criteria and an excerpt of each
// attachment, followed by the fixed formatting instructions for a
// self-contained static page.
func BuildPrompt(brief string, attachments map[string]string, checks []string) string {
	var sb strings.Builder

	sb.WriteString("Create a complete single-page web application with these requirements:\n\n")
	sb.WriteString("**Task Description:**\n")
	sb.WriteString(brief)
	sb.WriteString("\n\n**Evaluation Criteria:**\n")

	for i, check := range checks {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, check)
	}

	if len(attachments) > 0 {
		sb.WriteString("\n**Attached Files:**\n")
		for filename, content := range attachments {
			excerpt := content
			if len(excerpt) > attachmentExcerptLimit {
				excerpt = excerpt[:attachmentExcerptLimit]
			}
			fmt.Fprintf(&sb, "\nFile: %s\n```\n%s...\n```\n", filename, excerpt)
		}
	}

	sb.WriteString(`
**Requirements:**
1. Create a SINGLE index.html file that includes all HTML, CSS (in <style> tags), and JavaScript (in <script> tags)
2. The page must work when deployed to GitHub Pages (no server-side code, pure static HTML/CSS/JS)
3. Use CDN links for any external libraries (Bootstrap, jQuery, etc.)
4. Make sure all the evaluation criteria are met
5. The code should be clean, well-commented, and functional
6. Include error handling for edge cases

IMPORTANT: Start your response with the code directly. Begin with <html> tag and end with </html> tag.
Do NOT include markdown formatting like ` + "```html or ```" + `. Just the raw HTML code.
`)

	return sb.String()
}
