package core

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"sg-sweeper/pkg/core/awsclients"
	coreTypes "sg-sweeper/pkg/core/types"
)

// Audit holds the outcome of one classification run over a region.
type Audit struct {
	Region          string
	AccountId       string
	Timestamp       time.Time
	TotalGroups     int
	Classifications []coreTypes.Classification
}

// AuditRegion fetches the full Security Group and Network Interface snapshot of the region
// and classifies every group. A fetch failure aborts the whole run: classifying a partial
// snapshot would silently under-report the usage of the groups.
func AuditRegion(ctx context.Context, region string, profile string) (*Audit, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region), config.WithSharedConfigProfile(profile))
	if err != nil {
		return nil, err
	}

	ec2Client := awsclients.NewAwsEc2Client(cfg)

	awsGroups, err := ec2Client.DescribeSecurityGroups(ctx)
	if err != nil {
		return nil, err
	}

	awsEnis, err := ec2Client.DescribeNetworkInterfaces(ctx)
	if err != nil {
		return nil, err
	}

	groups := fromAwsSecurityGroups(awsGroups)
	attachments := fromAwsNetworkInterfaces(awsEnis)

	classifications := Classify(groups, attachments)
	annotateAttachments(ctx, cfg, classifications, attachments, awsEnis)

	audit := &Audit{
		Region:          region,
		AccountId:       lookupAccountId(ctx, cfg),
		Timestamp:       time.Now(),
		TotalGroups:     len(groups),
		Classifications: classifications,
	}

	return audit, nil
}

// Map the AWS response shapes into the domain types. The classifier never sees SDK types.
func fromAwsSecurityGroups(awsGroups []ec2Types.SecurityGroup) []coreTypes.SecurityGroup {
	groups := make([]coreTypes.SecurityGroup, 0, len(awsGroups))
	for _, sg := range awsGroups {
		if sg.GroupId == nil {
			continue
		}
		groups = append(groups, *coreTypes.NewSecurityGroup(
			aws.ToString(sg.GroupName),
			*sg.GroupId,
			aws.ToString(sg.Description),
			groupPairRefs(sg.IpPermissions),
			groupPairRefs(sg.IpPermissionsEgress),
			aws.ToString(sg.VpcId),
		))
	}
	return groups
}

// Get the Security Group IDs referenced by the rule set, self-references included
func groupPairRefs(permissions []ec2Types.IpPermission) []string {
	refs := make([]string, 0)
	for _, perm := range permissions {
		for _, pair := range perm.UserIdGroupPairs {
			if pair.GroupId != nil {
				refs = append(refs, *pair.GroupId)
			}
		}
	}
	return refs
}

func fromAwsNetworkInterfaces(awsEnis []ec2Types.NetworkInterface) []coreTypes.NetworkAttachment {
	attachments := make([]coreTypes.NetworkAttachment, 0, len(awsEnis))
	for _, eni := range awsEnis {
		if eni.NetworkInterfaceId == nil {
			continue
		}
		groupIds := make([]string, 0, len(eni.Groups))
		for _, group := range eni.Groups {
			if group.GroupId != nil {
				groupIds = append(groupIds, *group.GroupId)
			}
		}
		attachments = append(attachments, coreTypes.NetworkAttachment{
			Id:          *eni.NetworkInterfaceId,
			Description: eni.Description,
			Type:        string(eni.InterfaceType),
			Status:      string(eni.Status),
			GroupIds:    groupIds,
		})
	}
	return attachments
}

// Attach a human-readable usage note to every in-use classification: the Network Interfaces
// holding the group, with the owning Lambda function resolved where the interface is managed
// by Lambda. Enrichment failures never block the audit, the raw interface ID is shown instead.
func annotateAttachments(ctx context.Context, cfg aws.Config, classifications []coreTypes.Classification,
	attachments []coreTypes.NetworkAttachment, awsEnis []ec2Types.NetworkInterface) {

	lambdaClient := awsclients.NewAwsLambdaClient(cfg)

	enisById := make(map[string]ec2Types.NetworkInterface, len(awsEnis))
	for _, eni := range awsEnis {
		if eni.NetworkInterfaceId != nil {
			enisById[*eni.NetworkInterfaceId] = eni
		}
	}

	for i := range classifications {
		if !classifications[i].IsInUse() {
			continue
		}
		for _, eniId := range AttachmentsOf(classifications[i].GroupId, attachments) {
			label := eniId
			if eni, ok := enisById[eniId]; ok {
				if attachment, err := lambdaClient.GetLambdaAttachment(ctx, eni); err == nil && attachment != nil {
					label = fmt.Sprintf("%s (lambda: %s)", eniId, attachment.Name)
				}
			}
			classifications[i].AttachedTo = append(classifications[i].AttachedTo, label)
		}
	}
}

// Best effort: the account ID is report metadata, a failed STS call must not fail the audit
func lookupAccountId(ctx context.Context, cfg aws.Config) string {
	accountId, err := awsclients.NewAwsStsClient(cfg).GetAccountId(ctx)
	if err != nil {
		return ""
	}
	return accountId
}
