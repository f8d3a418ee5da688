package models

import (
	"strings"

	"abletech/common/errors"
)

type EmailTemplate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

const (
	ItemTypeJob           = "job"
	ItemTypeAssistiveTech = "assistive_tech"
)

var interactionActions = []string{"view", "click", "apply", "dismiss"}

// Interaction is a user's reaction to a recommended item.
type Interaction struct {
	Email    string `json:"email"`
	ItemID   string `json:"itemId"`
	ItemType string `json:"itemType"`
	Action   string `json:"action"`
}

func (i *Interaction) Normalize() {
	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
	i.ItemID = strings.TrimSpace(i.ItemID)
	i.ItemType = strings.ToLower(strings.TrimSpace(i.ItemType))
	i.Action = strings.ToLower(strings.TrimSpace(i.Action))
}

func (i *Interaction) Validate() error {
	switch {
	case !ValidEmail(i.Email):
		return errors.InvalidInput("a valid email is required", nil)
	case i.ItemID == "":
		return errors.InvalidInput("itemId is required", nil)
	case i.ItemType != ItemTypeJob && i.ItemType != ItemTypeAssistiveTech:
		return errors.InvalidInput("itemType must be job or assistive_tech", nil)
	}
	if _, ok := canonical(interactionActions, i.Action); !ok {
		return errors.InvalidInput("action must be one of "+strings.Join(interactionActions, ", "), nil)
	}
	return nil
}
