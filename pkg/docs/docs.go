// Package docs synthesizes the fixed auxiliary artifacts that accompany every
// generated application: the license and the descriptive README. Both are
// pure functions with no I/O and no failure modes.
package docs

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fixed file names of the auxiliary artifacts.
const (
	LicenseFile = "LICENSE"
	ReadmeFile  = "README.md"
)

// License returns the MIT license text with the year taken from now.
func License(now time.Time) string {
	return fmt.Sprintf(`MIT License

Copyright (c) %d

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`, now.Year())
}

// Readme returns the descriptive document for a generated application. It
// restates the brief, enumerates the evaluation criteria as feature notes and
// documents the fixed file layout and static-only technology assumptions.
func Readme(taskID, brief string, checks []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", readmeTitle(taskID))
	sb.WriteString("## Overview\n")
	sb.WriteString(brief)
	sb.WriteString("\n\n## Features\nThis application implements the following features:\n")

	for i, check := range checks {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, check)
	}

	sb.WriteString(`
## Setup
1. Clone this repository
2. Open ` + "`index.html`" + ` in a web browser
3. Or visit the GitHub Pages deployment

## Usage
The application runs entirely in the browser. Simply open the page and follow the on-screen instructions.

## Technology Stack
- HTML5
- CSS3
- JavaScript (ES6+)
- External libraries loaded via CDN

## Code Structure
- ` + "`index.html`" + ` - Main application file containing all HTML, CSS, and JavaScript
- ` + "`LICENSE`" + ` - MIT License
- ` + "`README.md`" + ` - This file

## License
This project is licensed under the MIT License - see the LICENSE file for details.

## Deployment
This application is deployed using GitHub Pages and is accessible at the repository's GitHub Pages URL.
`)

	return sb.String()
}

// readmeTitle turns a repository-name style task id into a heading.
func readmeTitle(taskID string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(taskID))
	if name == "" {
		return "Web Application"
	}
	return cases.Title(language.Und, cases.NoLower).String(name)
}
