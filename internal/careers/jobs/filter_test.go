package jobs

import (
	"strings"
	"testing"

	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func fixtureJobs() []models.Job {
	return []models.Job{
		{ID: "1", Title: "Senior Software Engineer", Description: "Build the platform", Location: "San Francisco, CA", JobType: models.FullTime, Department: "Engineering"},
		{ID: "2", Title: "Product Designer", Description: "Design with Figma", Location: "New York, NY", JobType: models.FullTime, Department: "Design"},
		{ID: "3", Title: "Support Intern", Description: "Help customers", Location: "Remote", JobType: models.Internship},
		{ID: "4", Title: "Old Engineer Role", Description: "Closed", Location: "Remote", JobType: models.Contract, Department: "Engineering", IsActive: utils.Ptr(false)},
		{ID: "5", Title: "Data Engineer", Description: "Pipelines", Location: "Remote", JobType: models.Contract, Department: "Engineering", IsActive: utils.Ptr(true)},
	}
}

func ids(jobs []models.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "defaults return active subset in order", query: NewQuery(""), want: []string{"1", "2", "3", "5"}},
		{name: "text matches title case insensitive", query: NewQuery("ENGINEER"), want: []string{"1", "5"}},
		{name: "text matches description", query: NewQuery("figma"), want: []string{"2"}},
		{name: "text matches location", query: NewQuery("remote"), want: []string{"3", "5"}},
		{name: "location facet", query: Query{Location: "Remote", JobType: All, Department: All}, want: []string{"3", "5"}},
		{name: "job type facet", query: Query{Location: All, JobType: "full-time", Department: All}, want: []string{"1", "2"}},
		{name: "department facet", query: Query{Location: All, JobType: All, Department: "Engineering"}, want: []string{"1", "5"}},
		{name: "all predicates combined", query: Query{Text: "data", Location: "Remote", JobType: "contract", Department: "Engineering"}, want: []string{"5"}},
		{name: "no match", query: Query{Text: "engineer", Location: "New York, NY", JobType: All, Department: All}, want: []string{}},
		{name: "inactive never returned", query: NewQuery("old"), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(fixtureJobs(), tt.query)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterIsConjunctionOfPredicates(t *testing.T) {
	all := fixtureJobs()
	queries := []Query{
		NewQuery("engineer"),
		{Text: "", Location: "Remote", JobType: All, Department: All},
		{Text: "e", Location: All, JobType: "contract", Department: "Engineering"},
		{Text: "x", Location: "Nowhere", JobType: "freelance", Department: "Sales"},
	}

	for _, q := range queries {
		var want []string
		for _, j := range all {
			if j.Active() &&
				matchesText(j, strings.ToLower(q.Text)) &&
				matchesFacet(q.Location, j.Location) &&
				matchesFacet(q.JobType, string(j.JobType)) &&
				matchesFacet(q.Department, j.Department) {
				want = append(want, j.ID)
			}
		}
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, ids(Filter(all, q)), "query %+v", q)
	}
}

func TestActive(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "5"}, ids(Active(fixtureJobs())))
	assert.Empty(t, Active(nil))
}

func TestFacetsOf(t *testing.T) {
	facets := FacetsOf(fixtureJobs())

	assert.Equal(t, []string{"New York, NY", "Remote", "San Francisco, CA"}, facets.Locations)
	assert.Equal(t, []string{"contract", "full-time", "internship"}, facets.JobTypes)
	assert.Equal(t, []string{"Design", "Engineering"}, facets.Departments)
}

func TestFacetsIgnoreInactiveJobs(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Title: "A", Location: "Berlin", JobType: models.Freelance, Department: "Ops", IsActive: utils.Ptr(false)},
	}
	facets := FacetsOf(jobs)
	assert.Empty(t, facets.Locations)
	assert.Empty(t, facets.JobTypes)
	assert.Empty(t, facets.Departments)
}

func TestQueryHasFacets(t *testing.T) {
	assert.False(t, NewQuery("anything").HasFacets())
	q := NewQuery("")
	q.Department = "Design"
	assert.True(t, q.HasFacets())
}

func TestLocationToggleEndToEnd(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Title: "Engineer", Location: "Remote", JobType: models.FullTime, IsActive: utils.Ptr(true)},
		{ID: "2", Title: "Retired", Location: "Remote", JobType: models.FullTime, IsActive: utils.Ptr(false)},
	}

	q := NewQuery("")
	assert.Len(t, Filter(jobs, q), 1)

	q.Location = "Berlin"
	assert.Len(t, Filter(jobs, q), 0)

	q.Location = "Remote"
	assert.Len(t, Filter(jobs, q), 1)
}
