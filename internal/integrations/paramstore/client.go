package paramstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ErrNotFound reports that the parameter does not exist under the prefix.
var ErrNotFound = errors.New("paramstore: parameter not found")

// ssmAPI is the part of *ssm.Client used here.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Getter resolves a credential by its short name, e.g. "google_api_key".
type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Client reads SecureString credentials stored under one path prefix,
// such as /travel-assistant/prod.
type Client struct {
	api    ssmAPI
	prefix string
}

// New creates a Client rooted at prefix. Names passed to GetParameter are
// relative to it.
func New(api ssmAPI, prefix string) (*Client, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return nil, errors.New("paramstore: prefix must not be empty")
	}
	return &Client{api: api, prefix: "/" + path.Clean(prefix)}, nil
}

// Path returns the full parameter path for a short name.
func (c *Client) Path(name string) string {
	return path.Join(c.prefix, strings.TrimSpace(name))
}

// GetParameter fetches and decrypts prefix/name. A parameter that does not
// exist yields an error matching ErrNotFound.
func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	if c.api == nil {
		return "", errors.New("paramstore: client not initialized")
	}
	if strings.TrimSpace(name) == "" {
		return "", errors.New("paramstore: name is required")
	}
	full := c.Path(name)

	out, err := c.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(full),
		WithDecryption: aws.Bool(true),
	})
	var missing *types.ParameterNotFound
	switch {
	case errors.As(err, &missing):
		return "", fmt.Errorf("%w: %s", ErrNotFound, full)
	case err != nil:
		return "", fmt.Errorf("paramstore: get %s: %w", full, err)
	}
	value := aws.ToString(outValue(out))
	if value == "" {
		return "", fmt.Errorf("paramstore: %s has no value", full)
	}
	return value, nil
}

func outValue(out *ssm.GetParameterOutput) *string {
	if out == nil || out.Parameter == nil {
		return nil
	}
	return out.Parameter.Value
}
