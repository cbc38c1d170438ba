package search

import (
	"fmt"
	"strings"

	"github.com/oraclehealth/clinsight/core"
)

// buildEnhancedQuery appends demographic context to the clinical query so the
// embedding reflects the patient, not just the narrative.
func buildEnhancedQuery(text string, demographics *core.Demographics) string {
	if demographics == nil {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text)

	if demographics.Age > 0 {
		fmt.Fprintf(&sb, " age:%d", demographics.Age)
	}
	if demographics.Gender != "" {
		fmt.Fprintf(&sb, " gender:%s", strings.ToLower(demographics.Gender))
	}
	if demographics.BMI > 0 {
		fmt.Fprintf(&sb, " bmi:%.1f", demographics.BMI)
	}
	if len(demographics.Comorbidities) > 0 {
		sb.WriteString(" comorbidities:")
		sb.WriteString(strings.Join(demographics.Comorbidities, ","))
	}

	return sb.String()
}

// Common English words carrying no clinical signal, excluded from
// verbatim matching.
var stopWords = makeStopSet(
	"the a an be is are was to of and in that have it for not on with " +
		"as you do at this but by from")

func makeStopSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// normalizeWord lowercases a word and strips surrounding punctuation.
// Stop words normalize to the empty string so callers drop them.
func normalizeWord(word string) string {
	cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
	if _, stop := stopWords[cleaned]; stop {
		return ""
	}
	return cleaned
}

// containsAllQueryWords reports whether every non-stop query word occurs in
// the document. A query of nothing but stop words matches no document.
func containsAllQueryWords(document, query string) bool {
	docWords := make(map[string]struct{})
	for _, word := range strings.Fields(document) {
		if cleaned := normalizeWord(word); cleaned != "" {
			docWords[cleaned] = struct{}{}
		}
	}

	matched := false
	for _, word := range strings.Fields(query) {
		cleaned := normalizeWord(word)
		if cleaned == "" {
			continue
		}
		if _, ok := docWords[cleaned]; !ok {
			return false
		}
		matched = true
	}
	return matched
}
