package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	coreTypes "sg-sweeper/pkg/core/types"
)

func group(id string, ingressRefs []string, egressRefs []string) coreTypes.SecurityGroup {
	return *coreTypes.NewSecurityGroup("sg-name-"+id, id, "test group", ingressRefs, egressRefs, "vpc-1")
}

func eni(id string, status string, groupIds ...string) coreTypes.NetworkAttachment {
	return coreTypes.NetworkAttachment{
		Id:       id,
		Type:     "interface",
		Status:   status,
		GroupIds: groupIds,
	}
}

func TestBuildInventoryAttachedSet(t *testing.T) {
	groups := []coreTypes.SecurityGroup{
		group("sg-1", nil, nil),
		group("sg-2", nil, nil),
		group("sg-3", nil, nil),
	}
	attachments := []coreTypes.NetworkAttachment{
		eni("eni-1", "in-use", "sg-1", "sg-2"),
		eni("eni-2", "in-use", "sg-2"),
	}

	inventory := BuildInventory(groups, attachments)

	require.Contains(t, inventory.Attached, "sg-1")
	require.Contains(t, inventory.Attached, "sg-2")
	require.NotContains(t, inventory.Attached, "sg-3")
}

func TestBuildInventoryReferenceMapExcludesSelfReferences(t *testing.T) {
	groups := []coreTypes.SecurityGroup{
		group("sg-1", []string{"sg-1", "sg-2"}, nil),
		group("sg-2", nil, []string{"sg-1"}),
	}

	inventory := BuildInventory(groups, nil)

	require.Equal(t, []string{"sg-2"}, inventory.ReferencedBy["sg-1"])
	require.Equal(t, []string{"sg-1"}, inventory.ReferencedBy["sg-2"])
	require.Contains(t, inventory.SelfReferencing, "sg-1")
	require.NotContains(t, inventory.SelfReferencing, "sg-2")
}

func TestBuildInventoryIgnoresUnknownReferences(t *testing.T) {
	// sg-other lives in another account: it cannot be resolved, so it cannot protect anything
	groups := []coreTypes.SecurityGroup{
		group("sg-1", []string{"sg-other"}, nil),
	}

	inventory := BuildInventory(groups, nil)

	require.Empty(t, inventory.ReferencedBy)
	require.Empty(t, inventory.SelfReferencing)
}

func TestBuildInventoryIgnoresUnknownAttachedIds(t *testing.T) {
	groups := []coreTypes.SecurityGroup{
		group("sg-1", nil, nil),
	}
	attachments := []coreTypes.NetworkAttachment{
		eni("eni-1", "in-use", "sg-other"),
	}

	inventory := BuildInventory(groups, attachments)

	require.Empty(t, inventory.Attached)
}

func TestBuildInventoryDeduplicatesReferences(t *testing.T) {
	// sg-2 references sg-1 from both an ingress and an egress rule
	groups := []coreTypes.SecurityGroup{
		group("sg-1", nil, nil),
		group("sg-2", []string{"sg-1"}, []string{"sg-1"}),
	}

	inventory := BuildInventory(groups, nil)

	require.Equal(t, []string{"sg-2"}, inventory.ReferencedBy["sg-1"])
}

func TestAttachmentsOf(t *testing.T) {
	attachments := []coreTypes.NetworkAttachment{
		eni("eni-1", "in-use", "sg-1", "sg-2"),
		eni("eni-2", "in-use", "sg-2"),
		eni("eni-3", "available", "sg-1"),
	}

	require.Equal(t, []string{"eni-1", "eni-3"}, AttachmentsOf("sg-1", attachments))
	require.Equal(t, []string{"eni-1", "eni-2"}, AttachmentsOf("sg-2", attachments))
	require.Empty(t, AttachmentsOf("sg-3", attachments))
}
