package awsclients

import (
	"context"
	"errors"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"

	coreTypes "sg-sweeper/pkg/core/types"
)

var lambdaEniRegex = regexp.MustCompile("AWS Lambda VPC ENI-(?P<fnName>.+)-([a-z]|[0-9]){8}-(([a-z]|[0-9]){4}-){3}([a-z]|[0-9]){12}")

type AwsLambdaClient struct {
	client *lambda.Client
	cache  map[string]*coreTypes.LambdaAttachment
}

func NewAwsLambdaClient(cfg aws.Config) *AwsLambdaClient {
	return &AwsLambdaClient{
		client: lambda.NewFromConfig(cfg),
		cache:  make(map[string]*coreTypes.LambdaAttachment),
	}
}

// GetLambdaAttachment returns a pointer to a LambdaAttachment for the network interface.
// If the interface is not managed by Lambda, the returned value is a nil.
func (c *AwsLambdaClient) GetLambdaAttachment(ctx context.Context, eni ec2Types.NetworkInterface) (*coreTypes.LambdaAttachment, error) {
	if eni.InterfaceType != ec2Types.NetworkInterfaceTypeLambda || eni.Description == nil {
		return nil, nil
	}

	match := lambdaEniRegex.FindStringSubmatch(*eni.Description)
	if len(match) == 0 {
		return nil, nil
	}
	fnName := match[lambdaEniRegex.SubexpIndex("fnName")]

	if cachedFn, ok := c.cache[fnName]; ok {
		return cachedFn, nil
	}

	fnConfig, err := c.getLambdaFunctionConfigByName(ctx, fnName)
	if err != nil {
		return nil, err
	}

	attachment := &coreTypes.LambdaAttachment{
		Name:      fnName,
		IsRemoved: fnConfig == nil,
	}
	if fnConfig != nil {
		attachment.Arn = fnConfig.FunctionArn
	}

	c.cache[fnName] = attachment

	return attachment, nil
}

// Get the configuration for a Lambda function. If the function does not exist, the returned value will be nil
func (c *AwsLambdaClient) getLambdaFunctionConfigByName(ctx context.Context, fnName string) (*lambdaTypes.FunctionConfiguration, error) {
	fnInput := lambda.GetFunctionInput{FunctionName: &fnName}

	function, err := c.client.GetFunction(ctx, &fnInput)
	if err != nil {
		// Handle error in case the function does not exist. Do not return this error to the caller
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.(type) {
			case *lambdaTypes.ResourceNotFoundException:
				return nil, nil
			}
		}
		return nil, err
	}

	return function.Configuration, nil
}
