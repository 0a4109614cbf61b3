package core

import (
	"sort"

	coreTypes "sg-sweeper/pkg/core/types"
)

// Classify decides for every Security Group in the snapshot whether it is in use, dangling,
// or dangling with only a self-reference. The verdict for a group depends only on the
// snapshot, not on the order of the input slices, and the result is sorted by group ID.
//
// An attachment to a Network Interface always wins: an attached group is in use no matter
// what its rules look like. A reference from another group's rules also marks the group
// as in use, even when the referencing group is itself dangling - protection is based on
// the rule existing, not on the referencing group being alive. Two unattached groups that
// only reference each other therefore both classify as in use; see the command help for
// this caveat. A group whose only reference is itself protects members that do not exist,
// so it is reported as a delete candidate in its own category.
func Classify(groups []coreTypes.SecurityGroup, attachments []coreTypes.NetworkAttachment) []coreTypes.Classification {
	inventory := BuildInventory(groups, attachments)

	classifications := make([]coreTypes.Classification, 0, len(groups))
	for _, sg := range groups {
		classifications = append(classifications, classifyGroup(sg, inventory))
	}

	sort.Slice(classifications, func(i, j int) bool {
		return classifications[i].GroupId < classifications[j].GroupId
	})

	return classifications
}

func classifyGroup(sg coreTypes.SecurityGroup, inventory Inventory) coreTypes.Classification {
	_, attached := inventory.Attached[sg.Id]
	referencedBy := inventory.ReferencedBy[sg.Id]
	_, selfReferenced := inventory.SelfReferencing[sg.Id]

	var status coreTypes.Status
	switch {
	case attached:
		status = coreTypes.StatusInUse
	case len(referencedBy) > 0:
		status = coreTypes.StatusInUse
	case selfReferenced:
		status = coreTypes.StatusDanglingSelfRef
	default:
		status = coreTypes.StatusDangling
	}

	return coreTypes.Classification{
		GroupId:        sg.Id,
		GroupName:      sg.Name,
		Default:        sg.Default,
		Status:         status,
		ReferencedBy:   referencedBy,
		SelfReferenced: selfReferenced,
	}
}
