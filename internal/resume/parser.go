// Package resume implements the markdown résumé format: a lenient
// single-pass parser from hand-authored documents to typed records,
// and the inverse serializer.
//
// The format uses `#`/`##`/`###` headings to delimit sections and
// entries, `**Label:** value` lines for fields, and `- ` bullets for
// list items. The source content is trusted, so malformed input is
// never a hard failure: unrecognizable pieces are dropped and reported
// as advisory strings alongside a still-valid result.
package resume

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section and label names are matched case-insensitively, in English
// and Portuguese. Unknown sections and labels are ignored.
var sectionAliases = map[string]string{
	"summary":      "summary",
	"resumo":       "summary",
	"sumário":      "summary",
	"objective":    "objective",
	"objetivo":     "objective",
	"experience":   "experience",
	"experiência":  "experience",
	"education":    "education",
	"educação":     "education",
	"formação":     "education",
	"skills":       "skills",
	"competências": "skills",
	"habilidades":  "skills",
	"languages":    "languages",
	"idiomas":      "languages",
	"activities":   "activities",
	"atividades":   "activities",
	"projects":     "projects",
	"projetos":     "projects",
}

var labelAliases = map[string]string{
	"title":             "title",
	"título":            "title",
	"location":          "location",
	"localização":       "location",
	"email":             "email",
	"e-mail":            "email",
	"phone":             "phone",
	"telefone":          "phone",
	"linkedin":          "linkedin",
	"github":            "github",
	"website":           "website",
	"site":              "website",
	"period":            "period",
	"período":           "period",
	"industry":          "industry",
	"setor":             "industry",
	"role type":         "role_type",
	"tipo de função":    "role_type",
	"company size":      "company_size",
	"dimensão":          "company_size",
	"team size":         "team_size",
	"equipa":            "team_size",
	"budget":            "budget",
	"orçamento":         "budget",
	"achievements":      "achievements",
	"conquistas":        "achievements",
	"responsibilities":  "responsibilities",
	"responsabilidades": "responsibilities",
	"technologies":      "technologies",
	"tecnologias":       "technologies",
	"duration":          "duration",
	"duração":           "duration",
	"client type":       "client_type",
	"tipo de cliente":   "client_type",
	"project type":      "project_type",
	"tipo de projeto":   "project_type",
	"business unit":     "business_unit",
	"unidade de negócio": "business_unit",
	"problem":           "problem",
	"problema":          "problem",
	"action":            "action",
	"ação":              "action",
	"result":            "result",
	"resultado":         "result",
}

// ParseResume converts a résumé markdown document into structured data.
// Empty or unrecognizable input yields an empty result with no errors.
func ParseResume(text string) ParseResult {
	var res ParseResult

	body, meta, metaErrs := splitFrontMatter(text)
	res.Data.Meta = meta
	res.Errors = append(res.Errors, metaErrs...)

	section := ""
	var exp *ExperienceEntry
	var edu *EducationEntry
	var cat *SkillCategory
	listTarget := "" // "achievements" or "responsibilities" within an experience entry

	flushExp := func() {
		if exp == nil {
			return
		}
		if exp.Position == "" || exp.Company == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("experience entry %q skipped: heading must be \"Position — Company\"", exp.Position+exp.Company))
		} else {
			exp.ID = Slugify(exp.Position + " " + exp.Company)
			res.Data.Experience = append(res.Data.Experience, *exp)
		}
		exp = nil
		listTarget = ""
	}
	flushEdu := func() {
		if edu == nil {
			return
		}
		if edu.Degree == "" || edu.Institution == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("education entry %q skipped: heading must be \"Degree — Institution\"", edu.Degree+edu.Institution))
		} else {
			edu.ID = Slugify(edu.Degree + " " + edu.Institution)
			res.Data.Education = append(res.Data.Education, *edu)
		}
		edu = nil
	}
	flushCat := func() {
		if cat == nil {
			return
		}
		if len(cat.Skills) > 0 {
			res.Data.Skills = append(res.Data.Skills, *cat)
		}
		cat = nil
	}
	flushAll := func() {
		flushExp()
		flushEdu()
		flushCat()
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			heading := strings.TrimSpace(line[4:])
			switch section {
			case "summary":
				res.Data.Summary.Title = heading
			case "experience":
				flushExp()
				pos, company := splitHeading(heading)
				exp = &ExperienceEntry{Position: pos, Company: company}
			case "education":
				flushEdu()
				degree, inst := splitHeading(heading)
				edu = &EducationEntry{Degree: degree, Institution: inst}
			case "skills":
				flushCat()
				cat = &SkillCategory{Name: heading}
			}
			continue

		case strings.HasPrefix(line, "## "):
			flushAll()
			name := strings.TrimSpace(line[3:])
			canonical, ok := sectionAliases[strings.ToLower(name)]
			if !ok {
				section = ""
				res.Errors = append(res.Errors, fmt.Sprintf("unknown section %q ignored", name))
				continue
			}
			section = canonical
			continue

		case strings.HasPrefix(line, "# "):
			// Document title: the person's name.
			flushAll()
			section = ""
			res.Data.Personal.Name = strings.TrimSpace(line[2:])
			continue
		}

		if label, value, ok := parseLabelLine(line); ok {
			applyResumeLabel(&res, section, exp, edu, label, value, &listTarget)
			continue
		}

		if item, ok := parseBullet(line); ok {
			applyResumeBullet(&res, section, exp, edu, cat, listTarget, item)
			continue
		}

		// Plain text: description/objective prose, or the contact block
		// before any section starts.
		switch {
		case section == "objective":
			res.Data.Objective = joinProse(res.Data.Objective, line)
		case section == "experience" && exp != nil:
			exp.Description = joinProse(exp.Description, line)
		}
	}
	flushAll()

	return res
}

// ParseProjects converts a projects markdown document into a typed list.
// Each project is a `## Title` block; the top-level `# ` title is
// decorative. A title-only document yields zero projects and no errors.
func ParseProjects(text string) ProjectsResult {
	var res ProjectsResult

	body, meta, metaErrs := splitFrontMatter(text)
	res.Meta = meta
	res.Errors = append(res.Errors, metaErrs...)

	var cur *Project
	flush := func() {
		if cur == nil {
			return
		}
		if cur.Title == "" {
			res.Errors = append(res.Errors, "project entry skipped: empty title")
		} else {
			cur.ID = Slugify(cur.Title)
			res.Projects = append(res.Projects, *cur)
		}
		cur = nil
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "## "):
			flush()
			cur = &Project{Title: strings.TrimSpace(line[3:])}
			continue
		case strings.HasPrefix(line, "# "):
			// Document title; nothing to capture.
			continue
		}

		if cur == nil {
			continue
		}

		label, value, ok := parseLabelLine(line)
		if !ok {
			continue
		}
		switch label {
		case "duration":
			cur.Duration = value
		case "location":
			cur.Location = value
		case "client_type":
			cur.ClientType = value
		case "project_type":
			cur.ProjectType = value
		case "industry":
			cur.Industry = value
		case "business_unit":
			cur.BusinessUnit = value
		case "problem":
			cur.Problem = value
		case "action":
			cur.Action = value
		case "result":
			cur.Result = value
		case "technologies":
			cur.Technologies = splitComma(value)
		}
	}
	flush()

	return res
}

func applyResumeLabel(res *ParseResult, section string, exp *ExperienceEntry, edu *EducationEntry, label, value string, listTarget *string) {
	// Contact block labels apply before any section heading.
	if section == "" {
		p := &res.Data.Personal
		switch label {
		case "title":
			p.Title = value
		case "location":
			p.Location = value
		case "email":
			p.Email = value
		case "phone":
			p.Phone = value
		case "linkedin":
			p.LinkedIn = value
		case "github":
			p.GitHub = value
		case "website":
			p.Website = value
		}
		return
	}

	if section == "experience" && exp != nil {
		switch label {
		case "location":
			exp.Location = value
		case "period":
			exp.Period = parsePeriod(value)
		case "industry":
			exp.Industry = value
		case "role_type":
			exp.RoleType = value
		case "company_size":
			exp.CompanySize = value
		case "team_size":
			exp.TeamSize = value
		case "budget":
			exp.Budget = value
		case "technologies":
			exp.Technologies = splitComma(value)
		case "achievements", "responsibilities":
			// Bare list labels: subsequent bullets feed this list.
			*listTarget = label
		}
		return
	}

	if section == "education" && edu != nil {
		switch label {
		case "location":
			edu.Location = value
		case "period":
			edu.Period = parsePeriod(value)
		}
	}
}

func applyResumeBullet(res *ParseResult, section string, exp *ExperienceEntry, edu *EducationEntry, cat *SkillCategory, listTarget, item string) {
	switch section {
	case "summary":
		res.Data.Summary.Statements = append(res.Data.Summary.Statements, item)
	case "experience":
		if exp == nil {
			return
		}
		switch listTarget {
		case "achievements":
			parts := splitPipes(item)
			a := Achievement{Metric: parts[0]}
			if len(parts) > 1 {
				a.Description = parts[1]
			}
			if len(parts) > 2 {
				a.Impact = parts[2]
			}
			exp.Achievements = append(exp.Achievements, a)
		case "responsibilities":
			exp.Responsibilities = append(exp.Responsibilities, item)
		}
	case "education":
		if edu != nil {
			edu.Details = append(edu.Details, item)
		}
	case "skills":
		if cat == nil {
			return
		}
		parts := splitPipes(item)
		s := Skill{Name: parts[0]}
		if len(parts) > 1 {
			s.Level = parts[1]
		}
		if len(parts) > 2 {
			s.Years = parts[2]
		}
		cat.Skills = append(cat.Skills, s)
	case "languages":
		parts := splitPipes(item)
		l := LanguageSkill{Name: parts[0]}
		if len(parts) > 1 {
			l.Proficiency = parts[1]
		}
		res.Data.Languages = append(res.Data.Languages, l)
	case "activities":
		res.Data.Activities = append(res.Data.Activities, item)
	}
}

// --- line-level helpers ---

// splitFrontMatter strips an optional `---` fenced YAML block from the
// start of the document. A malformed block is reported as advisory and
// the rest of the document still parses.
func splitFrontMatter(text string) (body string, meta Meta, errs []string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return text, Meta{}, nil
	}
	rest := text[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return text, Meta{}, []string{"unterminated front matter fence ignored"}
	}
	block := rest[:end]
	body = rest[end+4:]
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		errs = append(errs, fmt.Sprintf("malformed front matter ignored: %v", err))
		return body, Meta{}, errs
	}
	return body, meta, nil
}

// parseLabelLine matches `**Label:** value` and, for known labels only,
// the plain `Label: value` form. The restriction keeps prose containing
// a colon from being eaten as a field.
func parseLabelLine(line string) (label, value string, ok bool) {
	if strings.HasPrefix(line, "**") {
		rest := line[2:]
		idx := strings.Index(rest, ":**")
		if idx < 0 {
			return "", "", false
		}
		name := strings.TrimSpace(rest[:idx])
		canonical, known := labelAliases[strings.ToLower(name)]
		if !known {
			return "", "", false
		}
		return canonical, strings.TrimSpace(rest[idx+3:]), true
	}

	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	name := strings.TrimSpace(line[:idx])
	canonical, known := labelAliases[strings.ToLower(name)]
	if !known {
		return "", "", false
	}
	return canonical, strings.TrimSpace(line[idx+1:]), true
}

func parseBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}

// splitHeading splits an entry heading on its em- or hyphen-dash
// separator: "Position — Company". Without a separator the whole
// heading lands in the first part and the entry is later dropped as
// incomplete.
func splitHeading(heading string) (first, second string) {
	for _, sep := range []string{" — ", " – ", " - "} {
		if i := strings.Index(heading, sep); i >= 0 {
			return strings.TrimSpace(heading[:i]), strings.TrimSpace(heading[i+len(sep):])
		}
	}
	return strings.TrimSpace(heading), ""
}

func parsePeriod(value string) Period {
	for _, sep := range []string{" — ", " – ", " - ", "–", "-"} {
		if i := strings.Index(value, sep); i >= 0 {
			return Period{
				Start: strings.TrimSpace(value[:i]),
				End:   strings.TrimSpace(value[i+len(sep):]),
			}
		}
	}
	return Period{Start: strings.TrimSpace(value)}
}

func splitPipes(s string) []string {
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func splitComma(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinProse(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + " " + line
}
