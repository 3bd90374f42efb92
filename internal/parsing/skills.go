package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"mysql":      "MySQL",
	"mongodb":    "MongoDB",
	"sql":        "SQL",
	"aws":        "AWS",
	"gcp":        "GCP",
	"html":       "HTML",
	"css":        "CSS",
	"c++":        "C++",
	"c#":         "C#",
}

// NormalizeSkillName normalizes a skill name to its canonical form.
// All-caps words are treated as acronyms and kept.
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Single lowercase word: capitalize the first letter
	if normalized == lower && !strings.Contains(normalized, " ") {
		first, size := utf8.DecodeRuneInString(normalized)
		return string(unicode.ToUpper(first)) + normalized[size:]
	}

	return normalized
}

// CanonicalizeSkills rewrites resume["skills"] in place: names are
// normalized and duplicates after normalization are dropped, first one wins.
func CanonicalizeSkills(resume map[string]any) {
	skills, ok := resume["skills"].([]any)
	if !ok {
		return
	}

	out := make([]any, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		entry, ok := s.(map[string]any)
		if !ok {
			continue
		}
		name, _ := entry["skillName"].(string)
		name = NormalizeSkillName(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, map[string]any{"skillName": name})
	}

	if len(out) == 0 {
		delete(resume, "skills")
		return
	}
	resume["skills"] = out
}
