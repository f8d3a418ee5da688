package prefs

import (
	"encoding/json"

	"abletech/services/careers/internal/models"
)

const (
	DisabilityInfoKey     = "userDisabilityInfo"
	DisabilityInfoVersion = 2
)

// legacyDisabilityInfo is the v1 shape, which stored a single category.
type legacyDisabilityInfo struct {
	HasDisability bool   `json:"hasDisability"`
	Category      string `json:"disabilityCategory"`
}

// NewDisabilityInfo returns the repository for users' disability info,
// upgrading v1 envelopes.
func NewDisabilityInfo(backend Backend) *Repository[models.DisabilityInfo] {
	return NewRepository[models.DisabilityInfo](backend, DisabilityInfoKey, DisabilityInfoVersion,
		WithMigration[models.DisabilityInfo](1, migrateDisabilityInfoV1),
	)
}

func migrateDisabilityInfoV1(data json.RawMessage) (json.RawMessage, error) {
	var old legacyDisabilityInfo
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, err
	}
	info := models.DisabilityInfo{HasDisability: old.HasDisability}
	if old.Category != "" {
		info.DisabilityCategories = []string{old.Category}
	}
	info.Normalize()
	return json.Marshal(info)
}
