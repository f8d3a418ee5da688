package models

import (
	"strings"
	"time"

	"abletech/common/errors"
)

const (
	RoleRecruiter = "recruiter"
	RoleSeeker    = "seeker"
)

type UserProfile struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	Skills    []string  `json:"skills"`
	Bio       string    `json:"bio,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *UserProfile) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Name = strings.TrimSpace(p.Name)
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
	p.Location = strings.TrimSpace(p.Location)
	p.Skills = CleanList(p.Skills)
	if p.Role == "" {
		p.Role = RoleSeeker
	}
}

func (p *UserProfile) Validate() error {
	if !ValidEmail(p.Email) {
		return errors.InvalidInput("a valid email is required", nil)
	}
	if p.Role != RoleRecruiter && p.Role != RoleSeeker {
		return errors.InvalidInput("role must be recruiter or seeker", nil)
	}
	return nil
}

// DisabilityInfo is the self-declared accessibility profile used to bias
// recommendations.
type DisabilityInfo struct {
	HasDisability        bool     `json:"hasDisability"`
	DisabilityCategories []string `json:"disabilityCategories"`
}

func (d *DisabilityInfo) Normalize() {
	d.DisabilityCategories = CleanList(d.DisabilityCategories)
	if !d.HasDisability {
		d.DisabilityCategories = []string{}
	}
}

func (d *DisabilityInfo) Validate() error {
	if d.HasDisability && len(d.DisabilityCategories) == 0 {
		return errors.InvalidInput("select at least one disability category", nil)
	}
	return nil
}
