package corpus

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// Excerpt length bounds for the shortened description used in matching.
const maxExcerptLen = 1200

var (
	dateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateYMDRe = regexp.MustCompile(`^(\d{4})[./](\d{2})[./](\d{2})$`)
	dateDMYRe = regexp.MustCompile(`^(\d{2})[./](\d{2})[./](\d{4})$`)
	cpvRe     = regexp.MustCompile(`\b(\d{8})\b`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Normalize cleans a raw notice dataset: drops records without an id or
// title, deduplicates by notice id (first occurrence wins), normalizes CPV
// codes to sorted 8-digit strings, normalizes dates to YYYY-MM-DD, and
// derives a bounded description excerpt when missing.
func Normalize(raw []domain.Notice) []domain.Notice {
	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.Notice, 0, len(raw))

	for _, n := range raw {
		n.NoticeID = strings.TrimSpace(n.NoticeID)
		n.Title = strings.TrimSpace(n.Title)
		if n.NoticeID == "" || n.Title == "" {
			continue
		}
		if _, dup := seen[n.NoticeID]; dup {
			continue
		}
		seen[n.NoticeID] = struct{}{}

		n.CPVCodes = normalizeCPVCodes(n.CPVCodes)
		n.PublishedDate = normalizeDate(n.PublishedDate)
		n.DeadlineDate = normalizeDate(n.DeadlineDate)

		if strings.TrimSpace(n.DescriptionExcerpt) == "" {
			n.DescriptionExcerpt = makeExcerpt(n.DescriptionRaw)
		} else {
			n.DescriptionExcerpt = trimExcerpt(cleanWhitespace(n.DescriptionExcerpt))
		}

		out = append(out, n)
	}
	return out
}

func normalizeCPVCodes(codes []string) []string {
	set := make(map[string]struct{})
	for _, c := range codes {
		for _, m := range cpvRe.FindAllString(c, -1) {
			set[m] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// normalizeDate accepts YYYY-MM-DD, YYYY.MM.DD / YYYY/MM/DD and
// DD.MM.YYYY / DD/MM/YYYY variants. Anything else becomes empty rather
// than a guessed date.
func normalizeDate(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if dateRe.MatchString(t) {
		return t
	}
	if m := dateYMDRe.FindStringSubmatch(t); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if m := dateDMYRe.FindStringSubmatch(t); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return ""
}

func cleanWhitespace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func makeExcerpt(raw string) string {
	return trimExcerpt(cleanWhitespace(raw))
}

// trimExcerpt bounds an excerpt to maxExcerptLen runes, cutting back to the
// last word boundary so the excerpt does not end mid-word.
func trimExcerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= maxExcerptLen {
		return s
	}
	cut := string(runes[:maxExcerptLen])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut
}
