// Package experience infers total years of work experience from free-form
// resume text: it locates experience sections, mines explicit "N years"
// mentions, parses date ranges, and reconciles the two estimates.
package experience

import "strings"

// scanState is the state of the section scanner.
type scanState int

const (
	// stateOutside means the scanner is not inside an experience section.
	stateOutside scanState = iota
	// stateInside means lines are being accumulated into the current block.
	stateInside
)

// String returns a readable name for the state.
func (s scanState) String() string {
	switch s {
	case stateOutside:
		return "outside"
	case stateInside:
		return "inside"
	default:
		return "unknown"
	}
}

// experienceHeaders open an experience section. Matching is case-insensitive,
// so uppercase resume headers ("WORK EXPERIENCE") need no separate entries.
var experienceHeaders = []string{
	"work experience & projects",
	"work experience",
	"professional experience",
	"employment history",
	"relevant experience",
	"career history",
	"positions held",
	"experience",
}

// sectionTerminators close an experience section. Anything dated under these
// (graduation years, certification dates) must not count toward experience.
var sectionTerminators = []string{
	"education", "academic background", "degrees", "certifications",
	"technical skills", "skills", "projects", "opensource contributions",
	"achievements", "awards", "publications", "references", "languages",
	"summary", "objective", "personal details", "contact",
	"coding profiles", "popular blogs",
}

// SectionBlock is the lines of one experience section, in document order.
type SectionBlock struct {
	Lines []string
}

// Text joins the block's lines with newlines.
func (b SectionBlock) Text() string {
	return strings.Join(b.Lines, "\n")
}

// LocateExperienceBlocks scans lines top to bottom and returns the blocks
// belonging to experience sections. The scanner is a two-state machine with
// flush-on-transition semantics:
//
//	outside --header--> inside (start empty block)
//	inside  --header--> inside (flush block, start a new one)
//	inside  --terminator--> outside (flush block)
//	inside  --line--> inside (append non-empty line)
//	inside  --end of input--> flush final block
//
// Header and terminator lines themselves are not part of any block.
func LocateExperienceBlocks(lines []string) []SectionBlock {
	var blocks []SectionBlock
	var current []string
	state := stateOutside

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, SectionBlock{Lines: current})
			current = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if isSectionHeader(trimmed, experienceHeaders) {
			if state == stateInside {
				flush()
			}
			state = stateInside
			current = nil
			continue
		}
		if isSectionHeader(trimmed, sectionTerminators) {
			if state == stateInside {
				flush()
			}
			state = stateOutside
			current = nil
			continue
		}
		if state == stateInside && trimmed != "" {
			current = append(current, trimmed)
		}
	}
	if state == stateInside {
		flush()
	}
	return blocks
}

// ExperienceText returns the concatenated text of all experience blocks in
// text, blocks separated by blank lines. Returns "" when no experience
// section is found.
func ExperienceText(text string) string {
	blocks := LocateExperienceBlocks(strings.Split(text, "\n"))
	if len(blocks) == 0 {
		return ""
	}
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text()
	}
	return strings.Join(parts, "\n\n")
}

// isSectionHeader reports whether line is a header for one of the phrases.
// The phrase must appear case-insensitively and account for a dominant
// fraction of the line, which guards against header phrases appearing
// mid-sentence ("gained experience with...").
func isSectionHeader(line string, phrases []string) bool {
	if line == "" {
		return false
	}
	lower := strings.ToLower(line)
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
