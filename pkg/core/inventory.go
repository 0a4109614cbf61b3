package core

import (
	"sort"

	coreTypes "sg-sweeper/pkg/core/types"
)

// Inventory holds the lookup structures the classifier works on. It is built once per run
// from the fetched snapshot and never mutated afterwards.
type Inventory struct {
	// Attached contains the IDs of the Security Groups bound to at least one Network Interface
	Attached map[string]struct{}
	// ReferencedBy maps a Security Group ID to the sorted IDs of the other groups whose
	// ingress or egress rules reference it. Self-references are not recorded here.
	ReferencedBy map[string][]string
	// SelfReferencing contains the IDs of the Security Groups which reference themselves
	// in at least one rule
	SelfReferencing map[string]struct{}
}

// BuildInventory assembles the lookup structures from the raw snapshot. Rule references and
// attachments pointing to Security Groups which are not part of the snapshot (for example,
// groups from another account) are dropped: they cannot be resolved within this account,
// so they cannot protect anything.
func BuildInventory(groups []coreTypes.SecurityGroup, attachments []coreTypes.NetworkAttachment) Inventory {
	known := make(map[string]struct{}, len(groups))
	for _, sg := range groups {
		known[sg.Id] = struct{}{}
	}

	attached := make(map[string]struct{})
	for _, eni := range attachments {
		for _, id := range eni.GroupIds {
			if _, ok := known[id]; ok {
				attached[id] = struct{}{}
			}
		}
	}

	referencedBy := make(map[string]map[string]struct{})
	selfReferencing := make(map[string]struct{})
	for _, sg := range groups {
		for _, ref := range sg.RuleReferences() {
			if ref == sg.Id {
				selfReferencing[sg.Id] = struct{}{}
				continue
			}
			if _, ok := known[ref]; !ok {
				continue
			}
			if referencedBy[ref] == nil {
				referencedBy[ref] = make(map[string]struct{})
			}
			referencedBy[ref][sg.Id] = struct{}{}
		}
	}

	references := make(map[string][]string, len(referencedBy))
	for id, referrers := range referencedBy {
		ids := make([]string, 0, len(referrers))
		for referrer := range referrers {
			ids = append(ids, referrer)
		}
		sort.Strings(ids)
		references[id] = ids
	}

	return Inventory{
		Attached:        attached,
		ReferencedBy:    references,
		SelfReferencing: selfReferencing,
	}
}

// AttachmentsOf returns the IDs of the Network Interfaces the Security Group is bound to
func AttachmentsOf(sgId string, attachments []coreTypes.NetworkAttachment) []string {
	eniIds := make([]string, 0)
	for _, eni := range attachments {
		for _, id := range eni.GroupIds {
			if id == sgId {
				eniIds = append(eniIds, eni.Id)
				break
			}
		}
	}
	return eniIds
}
