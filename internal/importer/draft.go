package importer

import (
	"strings"
)

// draftSections maps section keywords found in extracted text (English
// and Portuguese) to the canonical heading the draft should carry.
var draftSections = map[string]string{
	"summary":                 "Summary",
	"professional summary":    "Summary",
	"resumo":                  "Summary",
	"resumo profissional":     "Summary",
	"objective":               "Objective",
	"objetivo":                "Objective",
	"experience":              "Experience",
	"work experience":         "Experience",
	"professional experience": "Experience",
	"experiência":             "Experience",
	"experiência profissional": "Experience",
	"education":               "Education",
	"educação":                "Education",
	"formação":                "Education",
	"formação académica":      "Education",
	"skills":                  "Skills",
	"technical skills":        "Skills",
	"competências":            "Skills",
	"habilidades":             "Skills",
	"languages":               "Languages",
	"idiomas":                 "Languages",
	"activities":              "Activities",
	"atividades":              "Activities",
	"projects":                "Projects",
	"projetos":                "Projects",
}

// Draft converts extracted plain text into a draft résumé markdown
// document. The first non-empty line becomes the name heading; lines
// matching a known section keyword open a section; everything else
// becomes a bullet under the current section, or a contact line before
// the first section.
func Draft(text string) string {
	var sb strings.Builder
	wroteName := false
	inSection := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !wroteName {
			sb.WriteString("# " + line + "\n")
			wroteName = true
			continue
		}

		if canonical, ok := draftSections[sectionKey(line)]; ok {
			sb.WriteString("\n## " + canonical + "\n\n")
			inSection = true
			continue
		}

		if inSection {
			sb.WriteString("- " + line + "\n")
		} else {
			// Contact block between the name and the first section.
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

// sectionKey normalizes a candidate heading line for the keyword
// lookup: lowercased, trailing colon stripped.
func sectionKey(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}
