package experience

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	dateparser "github.com/markusmobius/go-dateparser"
	"go.uber.org/zap"

	"github.com/hireloop/shortlist/pkg/utils"
)

// maxPlausibleYears bounds any single estimate or range duration. Values
// above it are parser artifacts (phone numbers, misread day counts,
// century-scale date gaps), not careers.
const maxPlausibleYears = 50

// daysPerYear converts a day span to years, accounting for leap years.
const daysPerYear = 365.25

// explicitYearsPattern matches mentions like "5 years", "3+ yrs of
// experience", "2.5 years in". The numeric part is capture group 1.
var explicitYearsPattern = regexp.MustCompile(
	`(?i)(\d{1,2}(?:\.\d{1,2})?)\s*\+?\s*(?:years?|yrs?)(?:\s*(?:of|in|with)?\s*exp(?:erience)?)?`)

const monthPattern = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember|t)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?`

// dateToken matches a month-plus-year ("Feb 2020"), a numeric date
// ("3/2/2019", "01.02.19"), or a bare 4-digit year.
const dateToken = monthPattern + `\s*\d{2,4}|\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}|\d{4}`

// presentToken matches the open-ended end-of-range words.
const presentToken = `Present|Current|Till\s+Date|To\s+Date|Ongoing|Now`

// dateRangePattern matches "<date> <to|until|-> <date-or-present>".
// Group 1 is the start token, group 2 the end token.
var dateRangePattern = regexp.MustCompile(
	`(?i)\b(` + dateToken + `)\s*(?:to|until|-)\s*(` + presentToken + `|` + dateToken + `)\b`)

// presentWords decides whether a matched end token is open-ended.
var presentWords = []string{"present", "current", "till date", "to date", "ongoing", "now"}

// dashVariants are the unicode dashes resumes use in date ranges, normalized
// to a plain hyphen before matching.
var dashVariants = []string{"‐", "‑", "‒", "–", "—", "−"}

// monthYearRunTogether matches a month abbreviation glued to a 4-digit year
// ("Feb2020"), a common artifact of PDF text extraction.
var monthYearRunTogether = regexp.MustCompile(
	`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)(\d{4})`)

// Estimator derives a total-years-of-experience estimate from resume text.
// It is read-only after construction and safe for concurrent use.
type Estimator struct {
	logger *zap.Logger
}

// NewEstimator returns an estimator logging to logger (nop when nil).
func NewEstimator(logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{logger: logger}
}

// EstimateYears returns the estimated total years of experience in text,
// the maximum of the explicit-mention and date-range strategies. Taking the
// max rather than a sum or average favors the more confident signal when
// both are present. Never negative, never errors; unparseable content
// yields 0.
func (e *Estimator) EstimateYears(text string) float64 {
	return e.estimateAt(text, time.Now())
}

// estimateAt is EstimateYears with an injectable clock.
func (e *Estimator) estimateAt(text string, now time.Time) float64 {
	if text == "" {
		return 0
	}
	explicit := e.explicitYears(text)
	fromDates := e.yearsFromDateRanges(ExperienceText(text), now)
	e.logger.Debug("experience estimate",
		zap.Float64("explicit_years", explicit),
		zap.Float64("date_range_years", fromDates),
	)
	if explicit > fromDates {
		return explicit
	}
	return fromDates
}

// explicitYears scans the whole document for "N years" mentions and returns
// the largest value in (0, maxPlausibleYears], or 0 when none is found.
func (e *Estimator) explicitYears(text string) float64 {
	best := 0.0
	for _, m := range explicitYearsPattern.FindAllStringSubmatch(text, -1) {
		years, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if years <= 0 || years > maxPlausibleYears {
			continue
		}
		if years > best {
			best = years
		}
	}
	return best
}

// yearsFromDateRanges sums the durations of all parseable date ranges in
// sectionText, which must already be narrowed to experience sections:
// dates under education or certification headers must not count.
// Concurrent positions are summed without interval merging, which can
// overestimate for candidates holding simultaneous jobs.
func (e *Estimator) yearsFromDateRanges(sectionText string, now time.Time) float64 {
	if sectionText == "" {
		return 0
	}
	normalized := normalizeDateText(sectionText)

	cfg := &dateparser.Configuration{
		CurrentTime:         now,
		PreferredDateSource: dateparser.Past,
	}

	total := 0.0
	for _, m := range dateRangePattern.FindAllStringSubmatch(normalized, -1) {
		startTok, endTok := m[1], m[2]

		start, err := dateparser.Parse(cfg, strings.TrimSpace(startTok))
		if err != nil {
			e.logger.Debug("unparseable range start", zap.String("token", startTok))
			continue
		}

		var end time.Time
		if isPresentToken(endTok) {
			end = now
		} else {
			parsed, err := dateparser.Parse(cfg, strings.TrimSpace(endTok))
			if err != nil {
				e.logger.Debug("unparseable range end", zap.String("token", endTok))
				continue
			}
			end = parsed.Time
		}

		if end.Before(start.Time) {
			continue
		}
		years := end.Sub(start.Time).Hours() / 24 / daysPerYear
		if years <= 0 || years > maxPlausibleYears {
			continue
		}
		total += years
	}
	return total
}

// normalizeDateText prepares section text for range matching: unicode dashes
// become " - ", run-together month-years get a space, whitespace collapses.
func normalizeDateText(text string) string {
	for _, dash := range dashVariants {
		text = strings.ReplaceAll(text, dash, " - ")
	}
	text = monthYearRunTogether.ReplaceAllString(text, "$1 $2")
	return utils.CollapseSpace(text)
}

// isPresentToken reports whether tok is in the present family.
func isPresentToken(tok string) bool {
	lower := strings.ToLower(utils.CollapseSpace(tok))
	for _, w := range presentWords {
		if lower == w {
			return true
		}
	}
	return false
}
