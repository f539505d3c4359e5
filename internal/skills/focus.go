package skills

import "strings"

// Job descriptions bury the requirement list between company boilerplate.
// focusHeaders mark sections worth extracting skills from; focusTerminators
// mark sections that end them.
var focusHeaders = []string{
	"requirements", "qualifications", "skills", "experience",
	"responsibilities", "must have", "needed", "proficient in",
}

var focusTerminators = []string{
	"about us", "about the company", "benefits", "perks", "compensation",
	"salary", "equal opportunity", "how to apply", "education", "summary",
}

// FocusJD narrows a job description to the sections under requirement-like
// headers, so boilerplate company text does not dilute the JD skill set.
// If no such section is found, the full text is returned unchanged.
func FocusJD(text string) string {
	if text == "" {
		return text
	}

	var blocks []string
	var current []string
	inSection := false

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case isFocusHeader(trimmed, focusHeaders):
			flush()
			inSection = true
		case isFocusHeader(trimmed, focusTerminators):
			flush()
			inSection = false
		case inSection && trimmed != "":
			current = append(current, trimmed)
		}
	}
	flush()

	if len(blocks) == 0 {
		return text
	}
	return strings.Join(blocks, "\n\n")
}

// isFocusHeader reports whether line is a section header for one of the
// phrases: the phrase must appear and account for a dominant fraction of the
// line, which keeps mid-sentence mentions from being treated as headers.
func isFocusHeader(line string, phrases []string) bool {
	if line == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimRight(line, ":- "))
	for _, phrase := range phrases {
		if !strings.Contains(lower, phrase) {
			continue
		}
		if lower == phrase || float64(len(phrase))/float64(len(line)) > 0.5 {
			return true
		}
	}
	return false
}
