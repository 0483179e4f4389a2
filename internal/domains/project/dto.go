package project

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"devlog-backend/internal/shared/utils"
)

const (
	MaxNameLength        = 64
	MaxDescriptionLength = 500
	MaxContributorBatch  = 100
)

// CreateProjectRequest - POST /v1/projects
type CreateProjectRequest struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	AdminID        uuid.UUID   `json:"admin_id"`
	ContributorIDs []uuid.UUID `json:"contributor_ids"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("project name is required"),
			validation.RuneLength(1, MaxNameLength).Error("project name must be at most 64 characters"),
		),
		validation.Field(&r.Description,
			validation.RuneLength(0, MaxDescriptionLength).Error("description must be at most 500 characters"),
		),
		validation.Field(&r.AdminID, utils.RequiredUUID("admin_id is required")),
		validation.Field(&r.ContributorIDs,
			validation.Length(0, MaxContributorBatch),
			validation.Each(utils.RequiredUUID("contributor id must not be empty")),
		),
	)
}

// ToEntity converts the request into a Project entity (without slug)
func (r CreateProjectRequest) ToEntity() *Project {
	contributors := make([]uuid.UUID, 0, len(r.ContributorIDs))
	seen := make(map[uuid.UUID]struct{}, len(r.ContributorIDs))
	for _, id := range r.ContributorIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		contributors = append(contributors, id)
	}

	return &Project{
		Name:           r.Name,
		Description:    r.Description,
		AdminID:        r.AdminID,
		ContributorIDs: contributors,
	}
}

// AddContributorsRequest - POST /v1/projects/:slug/contributors
type AddContributorsRequest struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

func (r AddContributorsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserIDs,
			validation.Required.Error("user_ids is required"),
			validation.Length(1, MaxContributorBatch),
			validation.Each(utils.RequiredUUID("user id must not be empty")),
		),
	)
}

// ProjectResponse - public project information
type ProjectResponse struct {
	ID             uuid.UUID   `json:"id"`
	Slug           string      `json:"slug"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	AdminID        uuid.UUID   `json:"admin_id"`
	ContributorIDs []uuid.UUID `json:"contributor_ids"`
	CreatedAt      time.Time   `json:"created_at"`
}

func (p *Project) ToResponse() *ProjectResponse {
	contributors := p.ContributorIDs
	if contributors == nil {
		contributors = []uuid.UUID{}
	}
	return &ProjectResponse{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Description:    p.Description,
		AdminID:        p.AdminID,
		ContributorIDs: contributors,
		CreatedAt:      p.CreatedAt,
	}
}
