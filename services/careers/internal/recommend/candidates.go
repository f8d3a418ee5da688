package recommend

import "abletech/services/careers/internal/models"

// Jobs are categorised by their category, or by department when no
// category was given.
func FromJob(j models.Job) Candidate {
	category := j.Category
	if category == "" {
		category = j.Department
	}
	return Candidate{
		ID:       j.ID,
		Category: category,
		Text:     j.SearchText(),
		AddedAt:  j.DatePosted,
		Flags:    j.Flags,
	}
}

func FromAssistiveTech(t models.AssistiveTechItem) Candidate {
	return Candidate{
		ID:       t.ID,
		Category: t.Category,
		Text:     t.SearchText(),
		AddedAt:  t.DateAdded,
		Flags:    t.Flags,
	}
}

func ProfileFrom(info models.DisabilityInfo, skills []string) Profile {
	p := Profile{Skills: skills}
	if info.HasDisability {
		p.DisabilityCategories = info.DisabilityCategories
	}
	return p
}
