package awsclients

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type AwsStsClient struct {
	client *sts.Client
}

func NewAwsStsClient(cfg aws.Config) *AwsStsClient {
	return &AwsStsClient{
		client: sts.NewFromConfig(cfg),
	}
}

// GetAccountId returns the AWS account ID of the current credentials
func (c *AwsStsClient) GetAccountId(ctx context.Context) (string, error) {
	identity, err := c.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", err
	}
	if identity.Account == nil {
		return "", nil
	}
	return *identity.Account, nil
}
