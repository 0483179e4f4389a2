package project

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Project stores the important information about a devlog project
type Project struct {
	ID uuid.UUID `json:"id" db:"id"`

	// Slug is derived from Name once, right after creation, and never changes
	Slug        string `json:"slug" db:"slug"`
	Name        string `json:"name" db:"name"`               // max 64 chars
	Description string `json:"description" db:"description"` // max 500 chars

	// AdminID can add and remove logs and contributors, change the
	// description and delete the project
	AdminID uuid.UUID `json:"admin_id" db:"admin_id"`

	// ContributorIDs can add logs to the project. May include AdminID.
	ContributorIDs []uuid.UUID `json:"contributor_ids" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsMember reports whether userID may author logs in the project.
// The admin is always a member even when not listed as contributor.
func (p *Project) IsMember(userID uuid.UUID) bool {
	return userID == p.AdminID || p.HasContributor(userID)
}

// HasContributor reports whether userID is in the contributor set
func (p *Project) HasContributor(userID uuid.UUID) bool {
	return slices.Contains(p.ContributorIDs, userID)
}

// HasSlug reports whether the post-creation slug has been assigned
func (p *Project) HasSlug() bool {
	return p.Slug != ""
}

func (p *Project) String() string {
	return fmt.Sprintf("%s by %s", p.Name, p.AdminID)
}
