// Package search implements faceted filtering and free-text search
// over in-memory résumé records. All functions are pure and
// synchronous: they preserve source order, never mutate their inputs,
// and have no error conditions.
package search

import (
	"sort"
	"strings"

	"github.com/mpcoutinho/vitae/internal/resume"
)

// ProjectFilter selects a subset of projects. An empty slice for a
// facet means no constraint on that facet. Facets combine with AND
// across facet types and OR within a facet's selected values; Query
// combines with AND against the facet result.
type ProjectFilter struct {
	Query         string   `json:"query,omitempty"`
	Industries    []string `json:"industries,omitempty"`
	Technologies  []string `json:"technologies,omitempty"`
	ProjectTypes  []string `json:"project_types,omitempty"`
	ClientTypes   []string `json:"client_types,omitempty"`
	BusinessUnits []string `json:"business_units,omitempty"`
}

// ExperienceFilter selects a subset of experience entries, with the
// same combination semantics as ProjectFilter.
type ExperienceFilter struct {
	Query        string   `json:"query,omitempty"`
	Industries   []string `json:"industries,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	RoleTypes    []string `json:"role_types,omitempty"`
	CompanySizes []string `json:"company_sizes,omitempty"`
}

// FilterProjects returns the projects matching f, in source order.
func FilterProjects(list []resume.Project, f ProjectFilter) []resume.Project {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]resume.Project, 0, len(list))
	for _, p := range list {
		if !matchValue(p.Industry, f.Industries) ||
			!matchValue(p.ProjectType, f.ProjectTypes) ||
			!matchValue(p.ClientType, f.ClientTypes) ||
			!matchValue(p.BusinessUnit, f.BusinessUnits) ||
			!matchAny(p.Technologies, f.Technologies) {
			continue
		}
		if query != "" && !strings.Contains(projectHaystack(p), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// projectHaystack is the fixed field set the free-text query matches
// against: title, narrative fields, industry, project type, and tags.
func projectHaystack(p resume.Project) string {
	fields := []string{p.Title, p.Problem, p.Action, p.Result, p.Industry, p.ProjectType}
	fields = append(fields, p.Technologies...)
	return strings.ToLower(strings.Join(fields, " "))
}

// FilterExperience returns the experience entries matching f, in
// source order.
func FilterExperience(list []resume.ExperienceEntry, f ExperienceFilter) []resume.ExperienceEntry {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]resume.ExperienceEntry, 0, len(list))
	for _, e := range list {
		if !matchValue(e.Industry, f.Industries) ||
			!matchValue(e.RoleType, f.RoleTypes) ||
			!matchValue(e.CompanySize, f.CompanySizes) ||
			!matchAny(e.Technologies, f.Technologies) {
			continue
		}
		if query != "" && !strings.Contains(experienceHaystack(e), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func experienceHaystack(e resume.ExperienceEntry) string {
	fields := []string{e.Position, e.Company, e.Description, e.Industry}
	for _, a := range e.Achievements {
		fields = append(fields, a.Metric, a.Description, a.Impact)
	}
	fields = append(fields, e.Responsibilities...)
	fields = append(fields, e.Technologies...)
	return strings.ToLower(strings.Join(fields, " "))
}

// ProjectFacets are the distinct selectable values per facet, derived
// from the unfiltered list and sorted ascending.
type ProjectFacets struct {
	Industries    []string `json:"industries"`
	Technologies  []string `json:"technologies"`
	ProjectTypes  []string `json:"project_types"`
	ClientTypes   []string `json:"client_types"`
	BusinessUnits []string `json:"business_units"`
}

// CollectProjectFacets scans the full list and collects the sorted set
// of distinct values per facet. Facets are always derived from the
// unfiltered list so deselected options stay visible.
func CollectProjectFacets(list []resume.Project) ProjectFacets {
	var industries, projectTypes, clientTypes, businessUnits, technologies collector
	for _, p := range list {
		industries.add(p.Industry)
		projectTypes.add(p.ProjectType)
		clientTypes.add(p.ClientType)
		businessUnits.add(p.BusinessUnit)
		for _, t := range p.Technologies {
			technologies.add(t)
		}
	}
	return ProjectFacets{
		Industries:    industries.sorted(),
		Technologies:  technologies.sorted(),
		ProjectTypes:  projectTypes.sorted(),
		ClientTypes:   clientTypes.sorted(),
		BusinessUnits: businessUnits.sorted(),
	}
}

// ExperienceFacets are the distinct selectable values for experience
// filtering.
type ExperienceFacets struct {
	Industries   []string `json:"industries"`
	Technologies []string `json:"technologies"`
	RoleTypes    []string `json:"role_types"`
	CompanySizes []string `json:"company_sizes"`
}

// CollectExperienceFacets scans the full list and collects the sorted
// set of distinct values per facet.
func CollectExperienceFacets(list []resume.ExperienceEntry) ExperienceFacets {
	var industries, roleTypes, companySizes, technologies collector
	for _, e := range list {
		industries.add(e.Industry)
		roleTypes.add(e.RoleType)
		companySizes.add(e.CompanySize)
		for _, t := range e.Technologies {
			technologies.add(t)
		}
	}
	return ExperienceFacets{
		Industries:   industries.sorted(),
		Technologies: technologies.sorted(),
		RoleTypes:    roleTypes.sorted(),
		CompanySizes: companySizes.sorted(),
	}
}

// matchValue reports whether value satisfies the selected facet
// values: an empty selection matches everything, otherwise any exact
// value matches (OR within a facet).
func matchValue(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if value == s {
			return true
		}
	}
	return false
}

// matchAny reports whether any of the record's tags is among the
// selected values.
func matchAny(tags, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		for _, t := range tags {
			if t == s {
				return true
			}
		}
	}
	return false
}

// collector accumulates distinct non-empty strings.
type collector struct {
	seen map[string]struct{}
}

func (c *collector) add(v string) {
	if v == "" {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	c.seen[v] = struct{}{}
}

func (c *collector) sorted() []string {
	out := make([]string, 0, len(c.seen))
	for v := range c.seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
