package Models

import "strings"

// AddOn is one optional analysis that runs next to the main summary.
type AddOn uint8

const (
	AddOnAssignedTasks AddOn = 1 << iota
	AddOnFollowUpQuestions
	AddOnParticipantsSummary
	AddOnFileSummary
)

// AllAddOns lists every add-on in its fixed execution order.
var AllAddOns = []AddOn{
	AddOnAssignedTasks,
	AddOnFollowUpQuestions,
	AddOnParticipantsSummary,
	AddOnFileSummary,
}

func (a AddOn) String() string {
	switch a {
	case AddOnAssignedTasks:
		return "assigned-tasks"
	case AddOnFollowUpQuestions:
		return "follow-up-questions"
	case AddOnParticipantsSummary:
		return "participants-summary"
	case AddOnFileSummary:
		return "file-summary"
	}
	return "unknown"
}

// ParseAddOn maps a settings value to its add-on.
func ParseAddOn(name string) (AddOn, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, addOn := range AllAddOns {
		if addOn.String() == name {
			return addOn, true
		}
	}
	return 0, false
}

type AddOnSet uint8

func NewAddOnSet(addOns ...AddOn) AddOnSet {
	var set AddOnSet
	for _, addOn := range addOns {
		set |= AddOnSet(addOn)
	}
	return set
}

func (s AddOnSet) Has(addOn AddOn) bool {
	return s&AddOnSet(addOn) != 0
}

// List returns the enabled add-ons in execution order.
func (s AddOnSet) List() []AddOn {
	var enabled []AddOn
	for _, addOn := range AllAddOns {
		if s.Has(addOn) {
			enabled = append(enabled, addOn)
		}
	}
	return enabled
}

func (s AddOnSet) String() string {
	names := make([]string, 0, len(AllAddOns))
	for _, addOn := range s.List() {
		names = append(names, addOn.String())
	}
	return strings.Join(names, ",")
}
