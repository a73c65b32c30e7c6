// Package inspector extracts facts from Dart source with line-pattern
// matching. It is explicitly a heuristic extractor, not a parser: it
// trades semantic accuracy for speed and zero parsing dependency.
//
// Known error modes, accepted by design:
//   - declarations split across physical lines are missed (false negative)
//   - declaration-shaped text inside block comments or multi-line string
//     literals is reported (false positive)
//   - only one-line method signatures are attributed to a class
//
// If semantic accuracy becomes a requirement, implement
// domain.SourceInspector with a real parser behind the same call sites.
package inspector

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/camelcase"

	"github.com/fluttervet/fluttervet/internal/domain"
)

var (
	importRe = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`)

	classRe = regexp.MustCompile(`^\s*(?:abstract\s+)?(?:base\s+|final\s+|sealed\s+|interface\s+)?class\s+([A-Za-z_]\w*)(<[^{]*?>)?` +
		`(?:\s+extends\s+([A-Za-z_]\w*))?` +
		`(?:\s+with\s+([\w<>,\s]+?))?` +
		`(?:\s+implements\s+([\w<>,\s]+?))?\s*\{?\s*$`)

	methodRe   = regexp.MustCompile(`^\s{2,}(?:static\s+)?(?:[\w<>,?\s]+?\s+)?([a-z_]\w*)\s*\(`)
	propertyRe = regexp.MustCompile(`^\s{2,}(?:static\s+)?(?:late\s+)?(?:final\s+|var\s+|const\s+)?(?:[A-Z]\w*(?:<[^;=]*?>)?\??\s+)?([a-z_]\w*)\s*[;=]`)

	deprecatedRe  = regexp.MustCompile(`@[Dd]eprecated(?:\(\s*['"](.*?)['"]\s*\))?`)
	declNameRe    = regexp.MustCompile(`(?:class|mixin|enum|extension)\s+([A-Za-z_]\w*)|(?:[\w<>,?]+\s+)?([A-Za-z_]\w*)\s*\(`)
	replacementRe = regexp.MustCompile(`[Uu]se\s+'?([\w.]+)'?`)

	nullableRe  = regexp.MustCompile(`\b[A-Za-z_]\w*(?:<[^>]*>)?\?\s+[a-z_]\w*`)
	extensionRe = regexp.MustCompile(`^\s*extension\s+\w*\s*(?:<[^>]*>)?\s*on\s+`)
	mixinRe     = regexp.MustCompile(`^\s*(?:base\s+)?mixin\s+[A-Za-z_]\w*`)

	identifierRe = regexp.MustCompile(`\b(?:final|var|const|late)\s+(?:[\w<>,?]+\s+)?([A-Za-z_]\w*)\s*[;=]`)

	enumRe    = regexp.MustCompile(`^\s*enum\s+([A-Za-z_]\w*)`)
	typedefRe = regexp.MustCompile(`^\s*typedef\s+([A-Za-z_]\w*)`)
	anyClass  = regexp.MustCompile(`^\s*(?:abstract\s+)?(?:base\s+|final\s+|sealed\s+|interface\s+)?class\s+([A-Za-z_]\w*)(<)?`)

	controlKeywords = map[string]bool{
		"if": true, "for": true, "while": true, "switch": true,
		"catch": true, "return": true, "assert": true, "print": true,
		"super": true, "await": true, "throw": true,
	}
)

// DartInspector implements domain.SourceInspector.
type DartInspector struct{}

func New() *DartInspector {
	return &DartInspector{}
}

// ScrapeImports returns the import targets of one file in line order.
func (p *DartInspector) ScrapeImports(path string) ([]string, error) {
	var imports []string
	err := eachLine(path, func(_ int, line string) {
		if m := importRe.FindStringSubmatch(line); m != nil {
			imports = append(imports, m[1])
		}
	})
	return imports, err
}

// ExtractClasses returns the class declarations of one file. Members are
// attributed to the most recent class declaration until a closing brace
// in column zero, the usual shape of formatted Dart.
func (p *DartInspector) ExtractClasses(path string) ([]domain.ClassInfo, error) {
	var classes []domain.ClassInfo
	var current *domain.ClassInfo

	err := eachLine(path, func(n int, line string) {
		if m := classRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				classes = append(classes, *current)
			}
			current = &domain.ClassInfo{
				Name:       m[1],
				FilePath:   path,
				Line:       n,
				Superclass: m[3],
				Mixins:     splitNames(m[4]),
				Interfaces: splitNames(m[5]),
			}
			return
		}

		if current == nil {
			return
		}
		if strings.HasPrefix(line, "}") {
			classes = append(classes, *current)
			current = nil
			return
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, current.Name+"(") || strings.HasPrefix(trimmed, current.Name+".") {
			name := current.Name
			if rest, ok := strings.CutPrefix(trimmed, current.Name+"."); ok {
				if i := strings.IndexByte(rest, '('); i > 0 {
					name = current.Name + "." + rest[:i]
				}
			}
			current.Constructors = appendUnique(current.Constructors, name)
			return
		}
		if m := methodRe.FindStringSubmatch(line); m != nil && !controlKeywords[m[1]] {
			current.Methods = appendUnique(current.Methods, m[1])
			return
		}
		if m := propertyRe.FindStringSubmatch(line); m != nil && !controlKeywords[m[1]] {
			current.Properties = appendUnique(current.Properties, m[1])
		}
	})
	if current != nil {
		classes = append(classes, *current)
	}
	return classes, err
}

// ScanDeprecated returns (file, line, api, replacement?) tuples for every
// deprecation marker. The api name is taken from the first declaration
// shape on the marker line or the lines just below it.
func (p *DartInspector) ScanDeprecated(path string) ([]domain.DeprecatedUsage, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var usages []domain.DeprecatedUsage
	for i, line := range lines {
		m := deprecatedRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		usage := domain.DeprecatedUsage{FilePath: path, Line: i + 1}
		if m[1] != "" {
			if r := replacementRe.FindStringSubmatch(m[1]); r != nil {
				usage.Replacement = r[1]
			}
		}
		// Look at the marker line itself, then up to two lines below,
		// for the deprecated declaration's name.
		for j := i; j < len(lines) && j <= i+2; j++ {
			candidate := lines[j]
			if j == i {
				// The marker itself looks like a call; drop it before
				// searching the rest of the line for a declaration.
				candidate = deprecatedRe.ReplaceAllString(candidate, "")
			}
			if j > i && strings.HasPrefix(strings.TrimSpace(candidate), "@") {
				continue
			}
			if d := declNameRe.FindStringSubmatch(candidate); d != nil {
				if d[1] != "" {
					usage.API = d[1]
				} else {
					usage.API = d[2]
				}
				if usage.API != "" && !controlKeywords[usage.API] {
					break
				}
				usage.API = ""
			}
		}
		if usage.API == "" {
			usage.API = "unknown"
		}
		usages = append(usages, usage)
	}
	return usages, nil
}

// CollectStyle returns per-file style signals: nullable-type usage,
// extension and mixin declarations, and naming-pattern frequencies.
func (p *DartInspector) CollectStyle(path string) (domain.StyleSignals, error) {
	signals := domain.StyleSignals{Naming: make(map[string]int)}
	err := eachLine(path, func(_ int, line string) {
		signals.NullableTypes += len(nullableRe.FindAllString(line, -1))
		if extensionRe.MatchString(line) {
			signals.Extensions++
		}
		if mixinRe.MatchString(line) {
			signals.Mixins++
		}
		for _, m := range identifierRe.FindAllStringSubmatch(line, -1) {
			signals.Naming[namingPattern(m[1])]++
		}
	})
	return signals, err
}

// CollectTypes returns per-file type declarations: classes and enums as
// custom types, parameterized declarations as generics, typedefs as
// aliases.
func (p *DartInspector) CollectTypes(path string) (domain.TypeFacts, error) {
	var facts domain.TypeFacts
	err := eachLine(path, func(_ int, line string) {
		if m := anyClass.FindStringSubmatch(line); m != nil {
			facts.CustomTypes = append(facts.CustomTypes, m[1])
			if m[2] == "<" {
				facts.GenericTypes = append(facts.GenericTypes, m[1])
			}
			return
		}
		if m := enumRe.FindStringSubmatch(line); m != nil {
			facts.CustomTypes = append(facts.CustomTypes, m[1])
			return
		}
		if m := typedefRe.FindStringSubmatch(line); m != nil {
			facts.TypeAliases = append(facts.TypeAliases, m[1])
		}
	})
	return facts, err
}

// namingPattern buckets an identifier by its apparent convention.
func namingPattern(name string) string {
	switch {
	case strings.Contains(name, "_"):
		return "snake_case"
	case name == strings.ToLower(name):
		if len(camelcase.Split(name)) == 1 {
			return "lowercase"
		}
		return "lowerCamelCase"
	case name[0] >= 'A' && name[0] <= 'Z':
		return "UpperCamelCase"
	default:
		return "lowerCamelCase"
	}
}

func splitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if i := strings.IndexByte(part, '<'); i > 0 {
			part = part[:i]
		}
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func eachLine(path string, fn func(lineNo int, line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		fn(n, sc.Text())
	}
	return sc.Err()
}

func readLines(path string) ([]string, error) {
	var lines []string
	err := eachLine(path, func(_ int, line string) {
		lines = append(lines, line)
	})
	return lines, err
}
