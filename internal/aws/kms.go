package aws

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// MockedKeyID disables decryption so local runs can pass secrets in clear.
const MockedKeyID = "MOCKED_KEY_ID"

type KMSAPI interface {
	Decrypt(ctx context.Context, in *kms.DecryptInput, opts ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// KMSClient decrypts base64 encoded KMS ciphertexts such as api keys stored
// encrypted in the environment.
type KMSClient struct {
	Client KMSAPI
}

func NewKMSClient(cfg aws.Config) *KMSClient {
	return &KMSClient{Client: kms.NewFromConfig(cfg)}
}

func (c *KMSClient) Decrypt(ctx context.Context, keyId, encodedEncryptedStr string) (string, error) {
	if encodedEncryptedStr == "" {
		return "", nil
	}

	if keyId == MockedKeyID {
		return encodedEncryptedStr, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(encodedEncryptedStr)
	if err != nil {
		return "", fmt.Errorf("secret is not valid base64: %w", err)
	}

	out, err := c.Client.Decrypt(ctx, &kms.DecryptInput{
		CiphertextBlob: decoded,
		KeyId:          aws.String(keyId),
	})
	if err != nil {
		return "", fmt.Errorf("kms decrypt failed: %w", err)
	}

	return string(out.Plaintext), nil
}
