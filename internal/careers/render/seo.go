package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gartstein/careers/internal/careers/jobs"
	"github.com/gartstein/careers/internal/careers/models"
)

// NotFoundTitle is the page title for an unknown company.
const NotFoundTitle = "Careers Page Not Found"

// Meta holds the head tags of a careers page.
type Meta struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	OGTitle            string `json:"og_title"`
	OGDescription      string `json:"og_description"`
	OGType             string `json:"og_type"`
	TwitterCard        string `json:"twitter_card"`
	TwitterTitle       string `json:"twitter_title"`
	TwitterDescription string `json:"twitter_description"`
}

// MetaFor returns the head tags of c's careers page.
func MetaFor(c *models.Company) Meta {
	name := c.DisplayName()
	count := len(jobs.Active(c.Jobs))
	short := fmt.Sprintf("Explore %d open positions at %s.", count, name)
	return Meta{
		Title:              fmt.Sprintf("Careers at %s | Join Our Team", name),
		Description:        short + " Join our team and help shape the future.",
		OGTitle:            "Careers at " + name,
		OGDescription:      short,
		OGType:             "website",
		TwitterCard:        "summary_large_image",
		TwitterTitle:       "Careers at " + name,
		TwitterDescription: short,
	}
}

type thing struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type organization struct {
	Context     string       `json:"@context"`
	Type        string       `json:"@type"`
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Logo        string       `json:"logo"`
	SameAs      []string     `json:"sameAs"`
	JobPostings []jobPosting `json:"jobPostings"`
}

type propertyValue struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type hiringOrganization struct {
	Type   string `json:"@type"`
	Name   string `json:"name"`
	SameAs string `json:"sameAs"`
	Logo   string `json:"logo"`
}

type postalAddress struct {
	Type            string `json:"@type"`
	AddressLocality string `json:"addressLocality"`
	AddressCountry  string `json:"addressCountry"`
}

type place struct {
	Type    string        `json:"@type"`
	Address postalAddress `json:"address"`
}

type jobPosting struct {
	Type               string             `json:"@type"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Identifier         propertyValue      `json:"identifier"`
	DatePosted         time.Time          `json:"datePosted"`
	EmploymentType     string             `json:"employmentType"`
	HiringOrganization hiringOrganization `json:"hiringOrganization"`
	JobLocation        place              `json:"jobLocation"`
	Department         *thing             `json:"department,omitempty"`
	Qualifications     string             `json:"qualifications,omitempty"`
	Benefits           string             `json:"benefits,omitempty"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name,omitempty"`
	Item     any    `json:"item"`
}

type breadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []listItem `json:"itemListElement"`
}

type postingRef struct {
	Type        string `json:"@type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Identifier  string `json:"identifier"`
}

type itemList struct {
	Type            string     `json:"@type"`
	NumberOfItems   int        `json:"numberOfItems"`
	ItemListElement []listItem `json:"itemListElement"`
}

type collectionPage struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	MainEntity  itemList `json:"mainEntity"`
}

const schemaContext = "https://schema.org"

// StructuredData returns the JSON-LD documents of c's careers page: the
// Organization with its job postings, the breadcrumb trail and the
// collection page. baseURL may be empty, in which case URLs are relative.
func StructuredData(c *models.Company, baseURL string) ([]template.JS, error) {
	name := c.DisplayName()
	active := jobs.Active(c.Jobs)
	companyURL := strings.TrimRight(baseURL, "/")
	careersURL := companyURL + "/" + c.Slug + "/careers"

	postings := make([]jobPosting, 0, len(active))
	refs := make([]listItem, 0, len(active))
	for i, j := range active {
		p := jobPosting{
			Type:        "JobPosting",
			Title:       j.Title,
			Description: j.Description,
			Identifier: propertyValue{
				Type:  "PropertyValue",
				Name:  name,
				Value: j.ID,
			},
			DatePosted:     c.CreatedAt,
			EmploymentType: employmentType(j.JobType),
			HiringOrganization: hiringOrganization{
				Type:   "Organization",
				Name:   name,
				SameAs: companyURL,
				Logo:   c.Theme.Logo,
			},
			JobLocation: place{
				Type: "Place",
				Address: postalAddress{
					Type:            "PostalAddress",
					AddressLocality: j.Location,
					AddressCountry:  "US",
				},
			},
			Qualifications: strings.Join(j.Requirements, ", "),
			Benefits:       strings.Join(j.Benefits, ", "),
		}
		if j.Department != "" {
			p.Department = &thing{Type: "Organization", Name: j.Department}
		}
		postings = append(postings, p)
		refs = append(refs, listItem{
			Type:     "ListItem",
			Position: i + 1,
			Item: postingRef{
				Type:        "JobPosting",
				Title:       j.Title,
				Description: j.Description,
				Identifier:  j.ID,
			},
		})
	}

	docs := []any{
		organization{
			Context:     schemaContext,
			Type:        "Organization",
			Name:        name,
			URL:         companyURL,
			Logo:        c.Theme.Logo,
			SameAs:      []string{},
			JobPostings: postings,
		},
		breadcrumbList{
			Context: schemaContext,
			Type:    "BreadcrumbList",
			ItemListElement: []listItem{
				{Type: "ListItem", Position: 1, Name: "Home", Item: companyURL},
				{Type: "ListItem", Position: 2, Name: "Careers", Item: careersURL},
			},
		},
		collectionPage{
			Context:     schemaContext,
			Type:        "CollectionPage",
			Name:        "Careers at " + name,
			Description: fmt.Sprintf("Explore %d open positions at %s", len(active), name),
			URL:         careersURL,
			MainEntity: itemList{
				Type:            "ItemList",
				NumberOfItems:   len(active),
				ItemListElement: refs,
			},
		},
	}

	out := make([]template.JS, 0, len(docs))
	for _, doc := range docs {
		// json.Marshal escapes <, > and &, so the output is safe inside a
		// script element.
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, template.JS(b))
	}
	return out, nil
}
