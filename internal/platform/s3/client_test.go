package s3

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsBucketAlreadyOwnedByYou(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"typed owned error", &types.BucketAlreadyOwnedByYou{}, true},
		{"typed exists error", &types.BucketAlreadyExists{}, true},
		{"api error code", &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}, true},
		{"api error exists code", &smithy.GenericAPIError{Code: "BucketAlreadyExists"}, true},
		{"other api error", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBucketAlreadyOwnedByYou(tt.err))
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"typed no such bucket", &types.NoSuchBucket{}, true},
		{"typed not found", &types.NotFound{}, true},
		{"api error code", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"api error 404", &smithy.GenericAPIError{Code: "404"}, true},
		{"other api error", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNotFoundError(tt.err))
		})
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("https://minio.example:9000", "us-east-1", "AK", "SK")
	assert.NoError(t, err)
	assert.NotNil(t, client)
}
