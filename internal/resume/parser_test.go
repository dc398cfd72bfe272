package resume

import (
	"reflect"
	"strings"
	"testing"
)

const sampleResume = `---
language: en
updated: 2026-02-10
---
# Maria Pereira Coutinho
**Title:** Engineering Manager
**Location:** Porto, Portugal
**Email:** maria@example.com
**Phone:** +351 912 345 678
**LinkedIn:** https://linkedin.com/in/mariacoutinho
**GitHub:** https://github.com/mpcoutinho

## Summary
### Impact-driven engineering leadership
- 12+ years building and scaling backend platforms
- Led distributed teams of up to 14 engineers across three time zones

## Objective
Looking for a senior engineering leadership role in a product company.

## Experience

### Engineering Manager — NordicPay
**Location:** Stockholm, Sweden (remote)
**Period:** 2021 - Present
**Industry:** Fintech
**Role Type:** Management
**Company Size:** Scale-up
**Team Size:** 14
**Budget:** €1.8M

Own the payments platform group: three teams covering acquiring,
ledger, and reconciliation.

**Achievements:**
- 38% | Reduced infrastructure spend | freed budget for two new hires
- 99.99% | Raised platform availability
**Responsibilities:**
- Quarterly roadmap and headcount planning
- Incident command rotation
**Technologies:** Go, Kubernetes, PostgreSQL, Kafka

### Senior Software Engineer — Altice Labs
**Period:** 2016 - 2021
**Industry:** Telecom
**Role Type:** Individual Contributor
**Technologies:** Go, C++, gRPC

## Education

### BSc Computer Science — University of Porto
**Location:** Porto, Portugal
**Period:** 2008 - 2011
- Final project on distributed hash tables

## Skills

### Backend
- Go | Expert | 10
- PostgreSQL | Advanced | 8

### Leadership
- Team building | Advanced | 6

## Languages
- Portuguese | Native
- English | Fluent (C2)

## Activities
- Organizer of the Porto Go meetup
- Occasional conference speaker
`

func TestParseResume_FullDocument(t *testing.T) {
	res := ParseResume(sampleResume)
	if !res.OK() {
		t.Fatalf("expected clean parse, got errors: %v", res.Errors)
	}
	d := res.Data

	if d.Meta.Language != "en" {
		t.Errorf("meta language = %q, want %q", d.Meta.Language, "en")
	}
	if d.Personal.Name != "Maria Pereira Coutinho" {
		t.Errorf("name = %q", d.Personal.Name)
	}
	if d.Personal.Title != "Engineering Manager" {
		t.Errorf("title = %q", d.Personal.Title)
	}
	if d.Personal.GitHub != "https://github.com/mpcoutinho" {
		t.Errorf("github = %q", d.Personal.GitHub)
	}

	if d.Summary.Title != "Impact-driven engineering leadership" {
		t.Errorf("summary title = %q", d.Summary.Title)
	}
	if len(d.Summary.Statements) != 2 {
		t.Fatalf("summary statements = %d, want 2", len(d.Summary.Statements))
	}
	if !strings.Contains(d.Objective, "senior engineering leadership role") {
		t.Errorf("objective = %q", d.Objective)
	}

	if len(d.Experience) != 2 {
		t.Fatalf("experience entries = %d, want 2", len(d.Experience))
	}
	first := d.Experience[0]
	if first.ID != "engineering-manager-nordicpay" {
		t.Errorf("experience id = %q", first.ID)
	}
	if first.Company != "NordicPay" {
		t.Errorf("company = %q", first.Company)
	}
	if first.Period != (Period{Start: "2021", End: "Present"}) {
		t.Errorf("period = %+v", first.Period)
	}
	if !strings.Contains(first.Description, "payments platform group") {
		t.Errorf("description = %q", first.Description)
	}
	if len(first.Achievements) != 2 {
		t.Fatalf("achievements = %d, want 2", len(first.Achievements))
	}
	wantAch := Achievement{Metric: "38%", Description: "Reduced infrastructure spend", Impact: "freed budget for two new hires"}
	if first.Achievements[0] != wantAch {
		t.Errorf("achievement[0] = %+v, want %+v", first.Achievements[0], wantAch)
	}
	if first.Achievements[1].Impact != "" {
		t.Errorf("achievement[1] impact = %q, want empty", first.Achievements[1].Impact)
	}
	if len(first.Responsibilities) != 2 {
		t.Errorf("responsibilities = %d, want 2", len(first.Responsibilities))
	}
	if want := []string{"Go", "Kubernetes", "PostgreSQL", "Kafka"}; !reflect.DeepEqual(first.Technologies, want) {
		t.Errorf("technologies = %v, want %v", first.Technologies, want)
	}
	if first.TeamSize != "14" || first.Budget != "€1.8M" {
		t.Errorf("team size/budget = %q/%q", first.TeamSize, first.Budget)
	}

	second := d.Experience[1]
	if second.Location != "" {
		t.Errorf("missing optional location should be absent, got %q", second.Location)
	}
	if second.RoleType != "Individual Contributor" {
		t.Errorf("role type = %q", second.RoleType)
	}

	if len(d.Education) != 1 {
		t.Fatalf("education entries = %d, want 1", len(d.Education))
	}
	if d.Education[0].ID != "bsc-computer-science-university-of-porto" {
		t.Errorf("education id = %q", d.Education[0].ID)
	}
	if len(d.Education[0].Details) != 1 {
		t.Errorf("education details = %d, want 1", len(d.Education[0].Details))
	}

	if len(d.Skills) != 2 {
		t.Fatalf("skill categories = %d, want 2", len(d.Skills))
	}
	wantSkill := Skill{Name: "Go", Level: "Expert", Years: "10"}
	if d.Skills[0].Skills[0] != wantSkill {
		t.Errorf("skill = %+v, want %+v", d.Skills[0].Skills[0], wantSkill)
	}

	if len(d.Languages) != 2 {
		t.Fatalf("languages = %d, want 2", len(d.Languages))
	}
	if d.Languages[1] != (LanguageSkill{Name: "English", Proficiency: "Fluent (C2)"}) {
		t.Errorf("language[1] = %+v", d.Languages[1])
	}

	if len(d.Activities) != 2 {
		t.Errorf("activities = %d, want 2", len(d.Activities))
	}
}

func TestParseResume_Lenient(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantOK  bool
	}{
		{"empty input", "", 0, true},
		{"title only", "# Maria Coutinho\n", 0, true},
		{"whitespace only", "\n\n   \n", 0, true},
		{
			"incomplete entry dropped",
			"# Maria\n\n## Experience\n\n### Dangling Title Without Company\n**Period:** 2020 - 2021\n",
			0,
			false, // advisory error reported, not a failure
		},
		{
			"one valid one incomplete",
			"# M\n\n## Experience\n\n### Engineer — Acme\n**Period:** 2020 - 2021\n\n### No Separator Here\n",
			1,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseResume(tt.input)
			if got := len(res.Data.Experience); got != tt.wantLen {
				t.Errorf("experience entries = %d, want %d", got, tt.wantLen)
			}
			if res.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v (errors: %v)", res.OK(), tt.wantOK, res.Errors)
			}
		})
	}
}

func TestParseResume_Idempotent(t *testing.T) {
	a := ParseResume(sampleResume)
	b := ParseResume(sampleResume)
	if !reflect.DeepEqual(a, b) {
		t.Error("parsing the same document twice produced different results")
	}
}

func TestParseResume_PortugueseSections(t *testing.T) {
	doc := `# Maria Coutinho
**Título:** Gestora de Engenharia
**Localização:** Porto, Portugal

## Resumo
### Liderança técnica
- 12 anos de experiência em plataformas distribuídas

## Experiência

### Gestora de Engenharia — NordicPay
**Período:** 2021 - Presente
**Setor:** Fintech
**Tecnologias:** Go, Kubernetes

## Idiomas
- Português | Nativo
`
	res := ParseResume(doc)
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.Data.Personal.Title != "Gestora de Engenharia" {
		t.Errorf("title = %q", res.Data.Personal.Title)
	}
	if len(res.Data.Summary.Statements) != 1 {
		t.Errorf("summary statements = %d, want 1", len(res.Data.Summary.Statements))
	}
	if len(res.Data.Experience) != 1 {
		t.Fatalf("experience entries = %d, want 1", len(res.Data.Experience))
	}
	if res.Data.Experience[0].Industry != "Fintech" {
		t.Errorf("industry = %q", res.Data.Experience[0].Industry)
	}
	if res.Data.Experience[0].ID != "gestora-de-engenharia-nordicpay" {
		t.Errorf("id = %q", res.Data.Experience[0].ID)
	}
	if len(res.Data.Languages) != 1 {
		t.Errorf("languages = %d, want 1", len(res.Data.Languages))
	}
}

const sampleProjects = `---
language: en
---
# Projects

## E-commerce Platform Modernization
**Duration:** 9 months
**Location:** Lisbon, Portugal
**Client Type:** Enterprise
**Project Type:** Modernization
**Industry:** Retail
**Business Unit:** Digital Commerce
**Problem:** A decade-old monolith could not sustain seasonal traffic peaks.
**Action:** Strangled the monolith into Go services behind an API gateway.
**Result:** Checkout p99 latency dropped from 2.1s to 180ms.
**Technologies:** Go, Kubernetes, PostgreSQL, Redis

## AI-Powered Analytics Dashboard
**Duration:** 5 months
**Client Type:** Startup
**Project Type:** Greenfield
**Industry:** Healthcare
**Business Unit:** Data Platform
**Problem:** Clinicians had no visibility into patient-flow bottlenecks.
**Action:** Built a streaming ingestion pipeline and anomaly alerts.
**Result:** Average triage waiting time fell by 22%.
**Technologies:** Go, ClickHouse, Grafana
`

func TestParseProjects_Fixture(t *testing.T) {
	res := ParseProjects(sampleProjects)
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(res.Projects))
	}

	first := res.Projects[0]
	if first.ID != "e-commerce-platform-modernization" {
		t.Errorf("id = %q", first.ID)
	}
	if first.Title != "E-commerce Platform Modernization" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Industry != "Retail" || first.BusinessUnit != "Digital Commerce" {
		t.Errorf("industry/unit = %q/%q", first.Industry, first.BusinessUnit)
	}
	if !strings.Contains(first.Problem, "monolith") {
		t.Errorf("problem = %q", first.Problem)
	}
	if len(first.Technologies) != 4 {
		t.Errorf("technologies = %v", first.Technologies)
	}

	second := res.Projects[1]
	if second.Title != "AI-Powered Analytics Dashboard" {
		t.Errorf("title = %q", second.Title)
	}
	if second.Industry != "Healthcare" {
		t.Errorf("industry = %q", second.Industry)
	}
	if second.Location != "" {
		t.Errorf("missing optional location should be absent, got %q", second.Location)
	}
}

func TestParseProjects_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"title only", "# Projects\n"},
		{"labels without a project heading", "# Projects\n**Duration:** 3 months\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseProjects(tt.input)
			if len(res.Projects) != 0 {
				t.Errorf("projects = %d, want 0", len(res.Projects))
			}
			if !res.OK() {
				t.Errorf("unexpected errors: %v", res.Errors)
			}
		})
	}
}

func TestSplitFrontMatter_Malformed(t *testing.T) {
	res := ParseResume("---\n{not: closed\n---\n# Maria\n")
	if res.OK() {
		t.Error("expected an advisory error for malformed front matter")
	}
	if res.Data.Personal.Name != "Maria" {
		t.Errorf("body after bad front matter should still parse, name = %q", res.Data.Personal.Name)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"E-commerce Platform Modernization", "e-commerce-platform-modernization"},
		{"Gestão de Produto", "gestao-de-produto"},
		{"  spaced  out  ", "spaced-out"},
		{"Já vi isto!", "ja-vi-isto"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
