package awsclients

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"sg-sweeper/pkg/core/utils"
)

const MaxResults = 1000

type AwsEc2Client struct {
	client *ec2.Client
}

func NewAwsEc2Client(cfg aws.Config) *AwsEc2Client {
	return &AwsEc2Client{
		client: ec2.NewFromConfig(cfg),
	}
}

// DescribeSecurityGroups returns every Security Group of the region. Pagination is followed
// until the last page; a failure on any page is returned as-is so that the caller never
// works with a truncated snapshot.
func (c *AwsEc2Client) DescribeSecurityGroups(ctx context.Context) ([]ec2Types.SecurityGroup, error) {
	var nextToken *string = nil
	securityGroups := make([]ec2Types.SecurityGroup, 0)
	for {
		sgResponse, err := c.client.DescribeSecurityGroups(ctx,
			&ec2.DescribeSecurityGroupsInput{
				NextToken:  nextToken,
				MaxResults: aws.Int32(int32(MaxResults)),
			})
		if err != nil {
			return nil, fmt.Errorf("describe security groups: %w", err)
		}
		nextToken = sgResponse.NextToken
		securityGroups = append(securityGroups, sgResponse.SecurityGroups...)

		if nextToken == nil {
			break
		}
	}

	return securityGroups, nil
}

// DescribeNetworkInterfaces returns every Network Interface of the region
func (c *AwsEc2Client) DescribeNetworkInterfaces(ctx context.Context) ([]ec2Types.NetworkInterface, error) {
	var nextToken *string = nil
	networkInterfaces := make([]ec2Types.NetworkInterface, 0)
	for {
		ifcResponse, err := c.client.DescribeNetworkInterfaces(ctx,
			&ec2.DescribeNetworkInterfacesInput{NextToken: nextToken, MaxResults: aws.Int32(int32(MaxResults))})
		if err != nil {
			return nil, fmt.Errorf("describe network interfaces: %w", err)
		}

		networkInterfaces = append(networkInterfaces, ifcResponse.NetworkInterfaces...)
		nextToken = ifcResponse.NextToken

		if nextToken == nil {
			break
		}
	}
	return networkInterfaces, nil
}

// TryRemoveAllSecurityGroups attempts to remove all the Security Groups from the list of IDs
// provided as input. Each removal is independent: an error encountered for one group is
// reported on the result channel and the remaining removals carry on.
func (c *AwsEc2Client) TryRemoveAllSecurityGroups(ctx context.Context, securityGroupIds []string,
	resultCh chan utils.Result[string]) {
	doneCh := make(chan struct{})

	for _, sgId := range securityGroupIds {
		sgId := sgId // capture value
		go func() {
			_, err := c.client.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{GroupId: aws.String(sgId)})
			if err != nil {
				// Keep the ID in Data so the caller can attribute the failure
				resultCh <- utils.Result[string]{
					Data: sgId,
					Err:  describeDeleteFailure(sgId, err),
				}
			} else {
				resultCh <- utils.Result[string]{
					Data: sgId,
				}
			}
			doneCh <- struct{}{}
		}()
	}

	// Wait for each async call to finish and close the result channel
	go func() {
		for range securityGroupIds {
			<-doneCh
		}
		close(resultCh)
	}()
}

// Surface the AWS error code to the user. DependencyViolation is the common case: something
// started using the group after the audit snapshot was taken.
func describeDeleteFailure(sgId string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("could not delete %s: %s (%s)", sgId, apiErr.ErrorMessage(), apiErr.ErrorCode())
	}
	return fmt.Errorf("could not delete %s: %w", sgId, err)
}
