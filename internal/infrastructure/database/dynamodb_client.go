package database

import (
	"context"

	appconfig "billing_gateway/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// NewAWSConfig builds the shared AWS configuration for DynamoDB and SNS.
//
// Static credentials are only installed when both keys are set; otherwise the
// default chain applies. Endpoint overrides target local emulators
// (dynamodb-local, localstack).
func NewAWSConfig(ctx context.Context, c appconfig.AWSConfig) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
	}

	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}

	if c.DynamoEndpoint != "" || c.SNSEndpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			switch {
			case service == dynamodb.ServiceID && c.DynamoEndpoint != "":
				return aws.Endpoint{URL: c.DynamoEndpoint, SigningRegion: region, HostnameImmutable: true}, nil
			case service == sns.ServiceID && c.SNSEndpoint != "":
				return aws.Endpoint{URL: c.SNSEndpoint, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// ConnectDynamoDB creates a DynamoDB client from an AWS configuration.
func ConnectDynamoDB(cfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}
