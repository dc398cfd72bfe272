package resume

import (
	"fmt"
	"strings"
)

// WriteResume renders structured résumé data back into the markdown
// convention ParseResume reads. Serialize→parse round-trips
// field-for-field.
func WriteResume(d ResumeData) string {
	var b strings.Builder
	writeFrontMatter(&b, d.Meta)

	fmt.Fprintf(&b, "# %s\n", d.Personal.Name)
	writeLabel(&b, "Title", d.Personal.Title)
	writeLabel(&b, "Location", d.Personal.Location)
	writeLabel(&b, "Email", d.Personal.Email)
	writeLabel(&b, "Phone", d.Personal.Phone)
	writeLabel(&b, "LinkedIn", d.Personal.LinkedIn)
	writeLabel(&b, "GitHub", d.Personal.GitHub)
	writeLabel(&b, "Website", d.Personal.Website)

	if d.Summary.Title != "" || len(d.Summary.Statements) > 0 {
		b.WriteString("\n## Summary\n")
		if d.Summary.Title != "" {
			fmt.Fprintf(&b, "### %s\n", d.Summary.Title)
		}
		writeBullets(&b, d.Summary.Statements)
	}

	if d.Objective != "" {
		b.WriteString("\n## Objective\n")
		b.WriteString(d.Objective)
		b.WriteString("\n")
	}

	if len(d.Experience) > 0 {
		b.WriteString("\n## Experience\n")
		for _, e := range d.Experience {
			fmt.Fprintf(&b, "\n### %s — %s\n", e.Position, e.Company)
			writeLabel(&b, "Location", e.Location)
			writeLabel(&b, "Period", formatPeriod(e.Period))
			writeLabel(&b, "Industry", e.Industry)
			writeLabel(&b, "Role Type", e.RoleType)
			writeLabel(&b, "Company Size", e.CompanySize)
			writeLabel(&b, "Team Size", e.TeamSize)
			writeLabel(&b, "Budget", e.Budget)
			if e.Description != "" {
				b.WriteString("\n" + e.Description + "\n")
			}
			if len(e.Achievements) > 0 {
				b.WriteString("\n**Achievements:**\n")
				for _, a := range e.Achievements {
					b.WriteString("- " + joinPipes(a.Metric, a.Description, a.Impact) + "\n")
				}
			}
			if len(e.Responsibilities) > 0 {
				b.WriteString("\n**Responsibilities:**\n")
				writeBullets(&b, e.Responsibilities)
			}
			writeLabel(&b, "Technologies", strings.Join(e.Technologies, ", "))
		}
	}

	if len(d.Education) > 0 {
		b.WriteString("\n## Education\n")
		for _, e := range d.Education {
			fmt.Fprintf(&b, "\n### %s — %s\n", e.Degree, e.Institution)
			writeLabel(&b, "Location", e.Location)
			writeLabel(&b, "Period", formatPeriod(e.Period))
			writeBullets(&b, e.Details)
		}
	}

	if len(d.Skills) > 0 {
		b.WriteString("\n## Skills\n")
		for _, cat := range d.Skills {
			fmt.Fprintf(&b, "\n### %s\n", cat.Name)
			for _, s := range cat.Skills {
				b.WriteString("- " + joinPipes(s.Name, s.Level, s.Years) + "\n")
			}
		}
	}

	if len(d.Languages) > 0 {
		b.WriteString("\n## Languages\n")
		for _, l := range d.Languages {
			b.WriteString("- " + joinPipes(l.Name, l.Proficiency) + "\n")
		}
	}

	if len(d.Activities) > 0 {
		b.WriteString("\n## Activities\n")
		writeBullets(&b, d.Activities)
	}

	return b.String()
}

// WriteProjects renders a project list back into the markdown
// convention ParseProjects reads.
func WriteProjects(meta Meta, projects []Project) string {
	var b strings.Builder
	writeFrontMatter(&b, meta)
	b.WriteString("# Projects\n")

	for _, p := range projects {
		fmt.Fprintf(&b, "\n## %s\n", p.Title)
		writeLabel(&b, "Duration", p.Duration)
		writeLabel(&b, "Location", p.Location)
		writeLabel(&b, "Client Type", p.ClientType)
		writeLabel(&b, "Project Type", p.ProjectType)
		writeLabel(&b, "Industry", p.Industry)
		writeLabel(&b, "Business Unit", p.BusinessUnit)
		writeLabel(&b, "Problem", p.Problem)
		writeLabel(&b, "Action", p.Action)
		writeLabel(&b, "Result", p.Result)
		writeLabel(&b, "Technologies", strings.Join(p.Technologies, ", "))
	}

	return b.String()
}

func writeFrontMatter(b *strings.Builder, meta Meta) {
	if meta == (Meta{}) {
		return
	}
	b.WriteString("---\n")
	if meta.Language != "" {
		fmt.Fprintf(b, "language: %s\n", meta.Language)
	}
	if meta.Updated != "" {
		fmt.Fprintf(b, "updated: %s\n", meta.Updated)
	}
	b.WriteString("---\n")
}

func writeLabel(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n", label, value)
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}

func formatPeriod(p Period) string {
	if p.Start == "" && p.End == "" {
		return ""
	}
	if p.End == "" {
		return p.Start
	}
	return p.Start + " - " + p.End
}

// joinPipes joins non-empty trailing parts with " | ", keeping interior
// empties so positions survive a round-trip.
func joinPipes(parts ...string) string {
	last := len(parts)
	for last > 0 && parts[last-1] == "" {
		last--
	}
	return strings.Join(parts[:last], " | ")
}
