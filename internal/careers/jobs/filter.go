// Package jobs implements search and faceted filtering over a company's
// in-memory job list.
package jobs

import (
	"sort"
	"strings"

	"github.com/gartstein/careers/internal/careers/models"
)

// All is the facet value that places no constraint on its field.
const All = "all"

// Query is a conjunctive filter over a job list.
type Query struct {
	// Text is matched case-insensitively against title, description and location.
	Text string
	// Location, JobType and Department are either All or an exact value.
	Location   string
	JobType    string
	Department string
}

// NewQuery returns a Query with every facet set to All.
func NewQuery(text string) Query {
	return Query{Text: text, Location: All, JobType: All, Department: All}
}

// HasFacets reports whether any facet constrains the result.
func (q Query) HasFacets() bool {
	return q.Location != All || q.JobType != All || q.Department != All
}

// Facets holds the selectable values for each facet.
type Facets struct {
	Locations   []string `json:"locations"`
	JobTypes    []string `json:"job_types"`
	Departments []string `json:"departments"`
}

// Active returns the jobs that are not explicitly inactive, in input order.
func Active(jobs []models.Job) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Active() {
			out = append(out, j)
		}
	}
	return out
}

// Filter returns the active jobs matching every predicate of q, preserving
// input order.
func Filter(jobs []models.Job, q Query) []models.Job {
	needle := strings.ToLower(q.Text)
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if !j.Active() {
			continue
		}
		if !matchesText(j, needle) {
			continue
		}
		if !matchesFacet(q.Location, j.Location) ||
			!matchesFacet(q.JobType, string(j.JobType)) ||
			!matchesFacet(q.Department, j.Department) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func matchesText(j models.Job, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(j.Title), needle) ||
		strings.Contains(strings.ToLower(j.Description), needle) ||
		strings.Contains(strings.ToLower(j.Location), needle)
}

func matchesFacet(want, got string) bool {
	return want == All || want == got
}

// FacetsOf derives the distinct, sorted facet values across all active jobs.
// It ignores any applied filter, so facets never narrow each other.
func FacetsOf(jobs []models.Job) Facets {
	locations := map[string]struct{}{}
	jobTypes := map[string]struct{}{}
	departments := map[string]struct{}{}
	for _, j := range jobs {
		if !j.Active() {
			continue
		}
		locations[j.Location] = struct{}{}
		jobTypes[string(j.JobType)] = struct{}{}
		if j.Department != "" {
			departments[j.Department] = struct{}{}
		}
	}
	return Facets{
		Locations:   sortedKeys(locations),
		JobTypes:    sortedKeys(jobTypes),
		Departments: sortedKeys(departments),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
