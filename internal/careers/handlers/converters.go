package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/models"
	"github.com/gartstein/careers/internal/pkg/utils"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// companyResponse is the wire form of a company. An unset name is null.
type companyResponse struct {
	ID        uuid.UUID        `json:"id"`
	Slug      string           `json:"slug"`
	Name      *string          `json:"name"`
	Theme     models.Theme     `json:"theme"`
	Sections  []models.Section `json:"sections"`
	Jobs      []models.Job     `json:"jobs"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type companyEnvelope struct {
	Company companyResponse `json:"company"`
}

type companiesEnvelope struct {
	Companies []companyResponse `json:"companies"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type createCompanyRequest struct {
	Slug     *string          `json:"slug"`
	Name     *string          `json:"name"`
	Theme    *models.Theme    `json:"theme"`
	Sections []models.Section `json:"sections"`
	Jobs     []models.Job     `json:"jobs"`
}

type loginRequest struct {
	Slug *string `json:"slug"`
}

type sessionCompany struct {
	Slug string  `json:"slug"`
	Name *string `json:"name"`
}

type loginResponse struct {
	Success bool           `json:"success"`
	Company sessionCompany `json:"company"`
}

type authCheckResponse struct {
	Authenticated bool   `json:"authenticated"`
	Slug          string `json:"slug,omitempty"`
}

type seedRequest struct {
	Companies []*models.Company `json:"companies"`
	UseSample bool              `json:"useSample"`
}

type moveRequest struct {
	Index     *int   `json:"index"`
	Direction string `json:"direction"`
}

type sectionFieldRequest struct {
	Field models.SectionField `json:"field"`
	Value any                 `json:"value"`
}

func companyToResponse(c *models.Company) companyResponse {
	resp := companyResponse{
		ID:        c.ID,
		Slug:      c.Slug,
		Theme:     c.Theme,
		Sections:  c.Sections,
		Jobs:      c.Jobs,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Name != "" {
		resp.Name = utils.Ptr(c.Name)
	}
	if resp.Sections == nil {
		resp.Sections = []models.Section{}
	}
	if resp.Jobs == nil {
		resp.Jobs = []models.Job{}
	}
	return resp
}

func companiesToResponse(list []*models.Company) []companyResponse {
	out := make([]companyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, companyToResponse(c))
	}
	return out
}

func (req *createCompanyRequest) toModel() (*models.Company, error) {
	if req.Slug == nil || *req.Slug == "" {
		return nil, fmt.Errorf("%w: slug is required", e.ErrInvalidInput)
	}
	c := &models.Company{
		Slug:     *req.Slug,
		Sections: req.Sections,
		Jobs:     req.Jobs,
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Theme != nil {
		c.Theme = *req.Theme
	}
	return c, nil
}

// decodeUpdate reads a partial company from body. Only the keys present in
// the document end up in the update; a null name clears it and a null
// theme, sections or jobs resets that field to empty.
func decodeUpdate(slug string, body io.Reader) (*models.CompanyUpdate, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", e.ErrInvalidInput, err)
	}

	update := &models.CompanyUpdate{Slug: slug}
	if raw, ok := fields["name"]; ok {
		var name *string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, fmt.Errorf("%w: name must be a string", e.ErrInvalidInput)
		}
		if name == nil {
			name = utils.Ptr("")
		}
		update.Name = name
	}
	if raw, ok := fields["theme"]; ok {
		var theme models.Theme
		if err := json.Unmarshal(raw, &theme); err != nil {
			return nil, fmt.Errorf("%w: theme: %v", e.ErrInvalidInput, err)
		}
		update.Theme = &theme
	}
	if raw, ok := fields["sections"]; ok {
		sections := []models.Section{}
		if err := json.Unmarshal(raw, &sections); err != nil {
			return nil, fmt.Errorf("%w: sections: %v", e.ErrInvalidInput, err)
		}
		if sections == nil {
			sections = []models.Section{}
		}
		update.Sections = &sections
	}
	if raw, ok := fields["jobs"]; ok {
		jobs := []models.Job{}
		if err := json.Unmarshal(raw, &jobs); err != nil {
			return nil, fmt.Errorf("%w: jobs: %v", e.ErrInvalidInput, err)
		}
		if jobs == nil {
			jobs = []models.Job{}
		}
		update.Jobs = &jobs
	}
	return update, nil
}

// decodeJSON reads one JSON document from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", e.ErrInvalidInput, err)
	}
	return nil
}

// sectionValue adapts a decoded JSON value to what the section builder
// expects for field. Form inputs send visibility as "true"/"false".
func sectionValue(field models.SectionField, value any) (any, error) {
	if field != models.SectionFieldIsVisible {
		return value, nil
	}
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: is_visible must be a boolean", e.ErrInvalidInput)
	}
	return b, nil
}
