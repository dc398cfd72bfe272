package resume

// Meta carries document-level metadata from the optional YAML front matter.
type Meta struct {
	Language string `yaml:"language" json:"language,omitempty"`
	Updated  string `yaml:"updated" json:"updated,omitempty"`
}

// PersonalInfo is the contact header of the résumé.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Summary is the headline section: a title plus ordered statements.
type Summary struct {
	Title      string   `json:"title"`
	Statements []string `json:"statements"`
}

// Period is a start/end span. End is a year or "Present".
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Achievement is a single quantified outcome within an experience entry.
// Metric is a free-form string; no numeric validation is applied.
type Achievement struct {
	Metric      string `json:"metric"`
	Description string `json:"description"`
	Impact      string `json:"impact,omitempty"`
}

// ExperienceEntry is one position held. ID is a slug derived from
// position and company, stable across re-parses.
type ExperienceEntry struct {
	ID               string        `json:"id"`
	Position         string        `json:"position"`
	Company          string        `json:"company"`
	Location         string        `json:"location,omitempty"`
	Period           Period        `json:"period"`
	Description      string        `json:"description,omitempty"`
	Achievements     []Achievement `json:"achievements,omitempty"`
	Responsibilities []string      `json:"responsibilities,omitempty"`
	Technologies     []string      `json:"technologies,omitempty"`
	TeamSize         string        `json:"team_size,omitempty"`
	Budget           string        `json:"budget,omitempty"`
	CompanySize      string        `json:"company_size,omitempty"`
	Industry         string        `json:"industry,omitempty"`
	RoleType         string        `json:"role_type,omitempty"`
}

// EducationEntry is one degree or certification.
type EducationEntry struct {
	ID          string   `json:"id"`
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Location    string   `json:"location,omitempty"`
	Period      Period   `json:"period"`
	Details     []string `json:"details,omitempty"`
}

// Skill is a named skill with a proficiency level and years of practice.
// Years is free-form ("10", "10+") for the same reason metrics are.
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
	Years string `json:"years,omitempty"`
}

// SkillCategory groups skills under a heading (e.g. "Backend").
type SkillCategory struct {
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

// LanguageSkill is a spoken language with a proficiency label.
type LanguageSkill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// ResumeData is the full parsed résumé document.
type ResumeData struct {
	Meta       Meta              `json:"meta,omitempty"`
	Personal   PersonalInfo      `json:"personal"`
	Summary    Summary           `json:"summary"`
	Objective  string            `json:"objective,omitempty"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Skills     []SkillCategory   `json:"skills"`
	Languages  []LanguageSkill   `json:"languages"`
	Activities []string          `json:"activities"`
}

// Project is one portfolio project. ID is a slug of the title.
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Duration     string   `json:"duration,omitempty"`
	Location     string   `json:"location,omitempty"`
	ClientType   string   `json:"client_type,omitempty"`
	ProjectType  string   `json:"project_type,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	BusinessUnit string   `json:"business_unit,omitempty"`
	Problem      string   `json:"problem,omitempty"`
	Action       string   `json:"action,omitempty"`
	Result       string   `json:"result,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ParseResult is the outcome of parsing a résumé document. Errors are
// advisory: the payload is always usable, possibly with zero entries.
type ParseResult struct {
	Data   ResumeData `json:"data"`
	Errors []string   `json:"errors,omitempty"`
}

// OK reports whether parsing produced no advisory errors.
func (r ParseResult) OK() bool { return len(r.Errors) == 0 }

// ProjectsResult is the outcome of parsing a projects document.
type ProjectsResult struct {
	Meta     Meta      `json:"meta,omitempty"`
	Projects []Project `json:"projects"`
	Errors   []string  `json:"errors,omitempty"`
}

// OK reports whether parsing produced no advisory errors.
func (r ProjectsResult) OK() bool { return len(r.Errors) == 0 }
