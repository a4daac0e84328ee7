package markets

import "strings"

// Segment phrase sets. Each family carries explicit ordinal phrase lists; the
// matched phrase is stripped from the label to produce the residual market
// name. The exact segment strings (including the historical lowercase
// "period") are part of the persisted document shape.
var (
	halfPhrases = [][]string{
		{"1st half", "first half", "half no. 1", "half number 1", "half no.1"},
		{"2nd half", "second half", "half no. 2", "half number 2", "half no.2"},
	}
	halfNames = []string{"1st Half", "2nd Half"}

	quarterPhrases = [][]string{
		{"1st quarter", "quarter 1", "quarter one", "first quarter", "1.quarter", "1. quarter", "1 .quarter", "quarter no. 1", "quarter number 1", "quarter no.1"},
		{"2nd quarter", "quarter 2", "quarter two", "second quarter", "2.quarter", "2. quarter", "2 .quarter", "quarter no. 2", "quarter number 2", "quarter no.2"},
		{"3rd quarter", "quarter 3", "quarter three", "third quarter", "3.quarter", "3. quarter", "3 .quarter", "quarter no. 3", "quarter number 3", "quarter no.3"},
		{"4th quarter", "quarter 4", "quarter four", "fourth quarter", "4.quarter", "4. quarter", "4 .quarter", "quarter no. 4", "quarter number 4", "quarter no.4"},
	}
	quarterNames = []string{"1st Quarter", "2nd Quarter", "3rd Quarter", "4th Quarter"}

	setPhrases = [][]string{
		{"1st set", "set 1", "set one", "first set", "set no. 1", "set number 1", "1.set", "1 .set", "1. set", "set no.1"},
		{"2nd set", "set 2", "set two", "second set", "set no. 2", "set number 2", "2.set", "2 .set", "2. set", "set no.2"},
		{"3rd set", "set 3", "set three", "third set", "set no. 3", "set number 3", "3.set", "3 .set", "3. set", "set no.3"},
		{"4th set", "set 4", "set four", "fourth set", "set no. 4", "set number 4", "4.set", "4 .set", "4. set", "set no.4"},
		{"5th set", "set 5", "set five", "fifth set", "set no. 5", "set number 5", "5.set", "5 .set", "5. set", "set no.5"},
	}
	setNames = []string{"1st Set", "2nd Set", "3rd Set", "4th Set", "5th Set"}

	inningPhrases = [][]string{
		{"1st inning", "first inning", "one inning", "inning 1", "inning one", "inning no. 1", "inning number 1", "inning no.1"},
		{"2nd inning", "second inning", "two inning", "inning 2", "inning two", "inning no. 2", "inning number 2", "inning no.2"},
		{"3rd inning", "third inning", "three inning", "inning 3", "inning third", "inning no. 3", "inning number 3", "inning no.3"},
		{"4th inning", "fourth inning", "four inning", "inning 4", "inning fourth", "inning no. 4", "inning number 4", "inning no.4"},
		{"5th inning", "fifth inning", "five inning", "inning 5", "inning fifth", "inning no. 5", "inning number 5", "inning no.5"},
		{"6th inning", "sixth inning", "six inning", "inning 6", "inning sixth", "inning no. 6", "inning number 6", "inning no.6"},
		{"7th inning", "seventh inning", "seven inning", "inning 7", "inning seventh", "inning no. 7", "inning number 7", "inning no.7"},
		{"8th inning", "eighth inning", "eight inning", "inning 8", "inning eighth", "inning no. 8", "inning number 8", "inning no.8"},
		{"9th inning", "ninth inning", "nine inning", "inning 9", "inning ninth", "inning no. 9", "inning number 9", "inning no.9"},
	}
	inningNames = []string{"1st Innings", "2nd Innings", "3rd Innings", "4th Innings", "5th Innings", "6th Innings", "7th Innings", "8th Innings", "9th Innings"}

	periodPhrases = [][]string{
		{"1st period", "first period", "one period", "period 1", "period one", "period no. 1", "period number 1", "period no.1"},
		{"2nd period", "second period", "two period", "period 2", "period two", "period no. 2", "period number 2", "period no.2"},
		{"3rd period", "third period", "three period", "period 3", "period third", "period no. 3", "period number 3", "period no.3"},
	}
	periodNames = []string{"1st period", "2nd period", "3rd period"}
)

// ClassifySegment determines the temporal scope of a market label and returns
// the segment name plus the label with the matched phrase stripped.
//
// Conservative fallback, preserved exactly: a label that says "first" as a
// qualifier without matching the 1st-family phrase set, or that says "first"
// more than once (e.g. "first half and second half"), is demoted to Full
// Match rather than misclassified.
func ClassifySegment(label string) (string, string) {
	lower := strings.ToLower(label)

	switch {
	case strings.Contains(lower, "half"):
		return classifyFamily(label, lower, halfPhrases, halfNames, "first half")
	case strings.Contains(lower, "quarter"):
		return classifyFamily(label, lower, quarterPhrases, quarterNames, "first quarter")
	case strings.Contains(lower, "set"):
		return classifyFamily(label, lower, setPhrases, setNames, "first set")
	case strings.Contains(lower, "inning"):
		return classifyFamily(label, lower, inningPhrases, inningNames, "first inning")
	case strings.Contains(lower, "period"):
		return classifyFamily(label, lower, periodPhrases, periodNames, "first period")
	}
	return "Full Match", label
}

func classifyFamily(label, lower string, phrases [][]string, names []string, firstPhrase string) (string, string) {
	// 1st-family handling with the "first" demotion rules.
	if phrase, ok := matchPhrase(lower, phrases[0]); ok && !strings.Contains(lower, "2nd &") {
		if strings.Contains(lower, firstPhrase) {
			if strings.Count(lower, "first") == 1 {
				return names[0], stripPhrase(label, lower, phrase)
			}
			return "Full Match", label
		}
		if strings.Contains(lower, "first") {
			return "Full Match", label
		}
		return names[0], stripPhrase(label, lower, phrase)
	}

	for i := 1; i < len(phrases); i++ {
		phrase, ok := matchPhrase(lower, phrases[i])
		if !ok || strings.Contains(lower, "first") {
			continue
		}
		if i == 1 && strings.Contains(lower, "1st &") {
			continue
		}
		return names[i], stripPhrase(label, lower, phrase)
	}
	return "Full Match", label
}

func matchPhrase(lower string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

// stripPhrase removes the matched ordinal phrase (and a dangling " - "
// separator) from the original-cased label.
func stripPhrase(label, lower, phrase string) string {
	i := strings.Index(lower, phrase)
	if i < 0 {
		return label
	}
	out := label[:i] + label[i+len(phrase):]
	out = strings.TrimSpace(out)
	out = strings.TrimSuffix(out, "-")
	out = strings.TrimPrefix(out, "-")
	out = strings.TrimSpace(out)
	if out == "" {
		return label
	}
	return out
}
