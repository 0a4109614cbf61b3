package core

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"

	"sg-sweeper/pkg/core/awsclients"
	"sg-sweeper/pkg/core/utils"
)

// RemoveSecurityGroupsAsync deletes the Security Groups with the given IDs. The removals run
// concurrently and the per-group outcome is streamed on resultCh, which is closed when all
// removals have finished. A failed removal does not stop the rest of the batch.
func RemoveSecurityGroupsAsync(ctx context.Context, securityGroupIds []string, region string, profile string,
	resultCh chan utils.Result[string]) error {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region), config.WithSharedConfigProfile(profile))
	if err != nil {
		return err
	}

	ec2Client := awsclients.NewAwsEc2Client(cfg)
	ec2Client.TryRemoveAllSecurityGroups(ctx, securityGroupIds, resultCh)

	return nil
}
