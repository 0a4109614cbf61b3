package types

// Status is the audit verdict for a single Security Group.
type Status string

const (
	// StatusInUse - the Security Group is attached to at least one Network Interface, or it is
	// referenced by a rule of another Security Group
	StatusInUse Status = "in-use"
	// StatusDangling - the Security Group has no attachment and no reference from any other Security Group
	StatusDangling Status = "dangling"
	// StatusDanglingSelfRef - the Security Group is referenced only by its own rules; without an attachment
	// such a rule protects nothing
	StatusDanglingSelfRef Status = "dangling-self-ref"
)

type SecurityGroup struct {
	Id          string
	Name        string
	Description string
	VpcId       string
	Default     bool
	// IngressRefs holds the Security Group IDs appearing as the source of an inbound rule.
	// It may contain the ID of the group itself.
	IngressRefs []string
	// EgressRefs holds the Security Group IDs appearing as the destination of an outbound rule.
	// It may contain the ID of the group itself.
	EgressRefs []string
}

// NewSecurityGroup creates a new SecurityGroup object and returns a pointer to it
func NewSecurityGroup(name string, id string, description string, ingressRefs []string, egressRefs []string,
	vpcId string) *SecurityGroup {
	return &SecurityGroup{
		Name:        name,
		Id:          id,
		Description: description,
		IngressRefs: ingressRefs,
		EgressRefs:  egressRefs,
		VpcId:       vpcId,
		Default:     name == "default",
	}
}

// RuleReferences returns every Security Group ID referenced by the rules of this group,
// ingress and egress combined
func (sg *SecurityGroup) RuleReferences() []string {
	refs := make([]string, 0, len(sg.IngressRefs)+len(sg.EgressRefs))
	refs = append(refs, sg.IngressRefs...)
	refs = append(refs, sg.EgressRefs...)
	return refs
}

type NetworkAttachment struct {
	Id          string
	Description *string
	Type        string
	Status      string
	// GroupIds holds the IDs of the Security Groups currently bound to this interface
	GroupIds []string
}

func (eni *NetworkAttachment) IsInUse() bool {
	return eni.Status == "in-use"
}

// Classification is the per-group audit verdict.
type Classification struct {
	GroupId   string
	GroupName string
	Default   bool
	Status    Status
	// ReferencedBy holds the IDs of the other Security Groups whose rules reference this group
	ReferencedBy []string
	// SelfReferenced is true if the group references itself in at least one rule
	SelfReferenced bool
	// AttachedTo describes the Network Interfaces the group is bound to. Populated for
	// in-use groups only.
	AttachedTo []string
}

func (c *Classification) IsInUse() bool {
	return c.Status == StatusInUse
}

// CanBeRemoved returns true if the Security Group is safe to delete, meaning it is dangling
// and it is not a default group of a VPC
func (c *Classification) CanBeRemoved() bool {
	return !c.Default && !c.IsInUse()
}

type LambdaAttachment struct {
	IsRemoved bool
	Name      string
	Arn       *string
}
