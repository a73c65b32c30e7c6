package heuristics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fluttervet/fluttervet/internal/domain"
)

// SuggestRequest carries the optional inputs of the suggestion engine.
type SuggestRequest struct {
	ErrorType string
	FilePath  string
	Line      int
	Code      string
	Message   string
}

// didYouMeanThreshold is the normalized similarity above which a token is
// considered a likely misspelling of a known class name.
const didYouMeanThreshold = 0.7

// typedSnippets is the canned snippet table keyed by error-type tag.
var typedSnippets = map[string]domain.CodeSuggestion{
	"null": {
		Description: "Null-safe access",
		Snippet:     "final value = object?.property ?? defaultValue;",
		Explanation: "The ?. operator short-circuits on null and ?? supplies a fallback, avoiding a runtime null dereference.",
		Confidence:  domain.ConfidenceHigh,
	},
	"async": {
		Description: "Await the Future",
		Snippet:     "Future<void> load() async {\n  final result = await fetchData();\n  use(result);\n}",
		Explanation: "Using a Future's value requires awaiting it inside an async function.",
		Confidence:  domain.ConfidenceHigh,
	},
	"undefined": {
		Description: "Declare or import the identifier",
		Snippet:     "// Either declare it:\nfinal myValue = ...;\n// or import the library that defines it.",
		Explanation: "An undefined identifier is usually a typo or a missing import.",
		Confidence:  domain.ConfidenceMedium,
	},
	"type": {
		Description: "Align declared and actual types",
		Snippet:     "final int count = list.length;\nfinal String label = count.toString();",
		Explanation: "Convert the value explicitly instead of relying on an implicit cast.",
		Confidence:  domain.ConfidenceMedium,
	},
	"import": {
		Description: "Add the missing import",
		Snippet:     "import 'package:my_package/my_library.dart';",
		Explanation: "The referenced library must be imported at the top of the file and declared in pubspec.yaml.",
		Confidence:  domain.ConfidenceHigh,
	},
	"const": {
		Description: "Make the constructor const-compatible",
		Snippet:     "class Point {\n  final int x;\n  final int y;\n  const Point(this.x, this.y);\n}",
		Explanation: "A const constructor requires every field to be final.",
		Confidence:  domain.ConfidenceMedium,
	},
}

// Suggest runs the three independent generators and returns suggestions
// ranked by confidence tier (stable within a tier) and truncated to max.
func Suggest(req SuggestRequest, ctx *domain.ProjectContext, max int) []domain.CodeSuggestion {
	var suggestions []domain.CodeSuggestion
	suggestions = append(suggestions, fromErrorType(req.ErrorType)...)
	suggestions = append(suggestions, fromCodeFragment(req.Code, ctx)...)
	suggestions = append(suggestions, fromMessage(req.Message, ctx)...)

	rankSuggestions(suggestions)
	if max > 0 && len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}

// fromErrorType is generator 1: canned snippet per known tag.
func fromErrorType(tag string) []domain.CodeSuggestion {
	if tag == "" {
		return nil
	}
	if s, ok := typedSnippets[strings.ToLower(tag)]; ok {
		return []domain.CodeSuggestion{s}
	}
	return nil
}

// fromCodeFragment is generator 2: any known class name appearing as a
// substring of the fragment yields an instantiation suggestion.
func fromCodeFragment(code string, ctx *domain.ProjectContext) []domain.CodeSuggestion {
	if code == "" || ctx == nil {
		return nil
	}
	var out []domain.CodeSuggestion
	for _, name := range ctx.ClassNames() {
		if !strings.Contains(code, name) {
			continue
		}
		info := ctx.Classes[name]
		out = append(out, domain.CodeSuggestion{
			Description:    fmt.Sprintf("Instantiate %s", name),
			Snippet:        fmt.Sprintf("final %s = %s();", lowerFirst(name), name),
			Explanation:    fmt.Sprintf("%s is declared in %s.", name, info.FilePath),
			RelatedClasses: []string{name},
			Confidence:     domain.ConfidenceMedium,
		})
	}
	return out
}

// fromMessage is generator 3: for unresolved-identifier-shaped messages,
// compare every token against every known class name by edit distance.
func fromMessage(message string, ctx *domain.ProjectContext) []domain.CodeSuggestion {
	if message == "" || ctx == nil || !looksUnresolved(message) {
		return nil
	}

	var out []domain.CodeSuggestion
	for _, token := range strings.Fields(message) {
		token = strings.Trim(token, "'\"`.,:;()")
		if len(token) <= 2 {
			continue
		}
		for _, name := range ctx.ClassNames() {
			if token == name {
				continue
			}
			if Similarity(token, name) > didYouMeanThreshold {
				out = append(out, domain.CodeSuggestion{
					Description:    fmt.Sprintf("Did you mean %s?", name),
					Snippet:        name,
					Explanation:    fmt.Sprintf("%q is close to the declared class %s (%s).", token, name, ctx.Classes[name].FilePath),
					RelatedClasses: []string{name},
					Confidence:     domain.ConfidenceMedium,
				})
			}
		}
	}
	return out
}

var unresolvedShapes = []string{"undefined", "isn't defined", "not defined", "unresolved", "can't be resolved"}

func looksUnresolved(message string) bool {
	lower := strings.ToLower(message)
	for _, s := range unresolvedShapes {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

var tierOrder = map[string]int{
	domain.ConfidenceHigh:   0,
	domain.ConfidenceMedium: 1,
	domain.ConfidenceLow:    2,
}

func rankSuggestions(s []domain.CodeSuggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		return tierOrder[s[i].Confidence] < tierOrder[s[j].Confidence]
	})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
