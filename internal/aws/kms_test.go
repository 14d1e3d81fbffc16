package aws

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockKMS struct {
	input *kms.DecryptInput
	err   error
}

func (m *mockKMS) Decrypt(ctx context.Context, in *kms.DecryptInput, opts ...func(*kms.Options)) (*kms.DecryptOutput, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	return &kms.DecryptOutput{Plaintext: []byte("re_plain")}, nil
}

func TestKMSClient_Decrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("decrypts ciphertext", func(t *testing.T) {
		m := &mockKMS{}
		c := &KMSClient{Client: m}

		got, err := c.Decrypt(ctx, "alias/app", base64.StdEncoding.EncodeToString([]byte("cipher")))
		require.NoError(t, err)
		assert.Equal(t, "re_plain", got)
		assert.Equal(t, []byte("cipher"), m.input.CiphertextBlob)
		assert.Equal(t, "alias/app", *m.input.KeyId)
	})

	t.Run("empty input", func(t *testing.T) {
		m := &mockKMS{}
		got, err := (&KMSClient{Client: m}).Decrypt(ctx, "alias/app", "")
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Nil(t, m.input)
	})

	t.Run("mocked key passes through", func(t *testing.T) {
		got, err := (&KMSClient{Client: &mockKMS{}}).Decrypt(ctx, MockedKeyID, "clear")
		require.NoError(t, err)
		assert.Equal(t, "clear", got)
	})

	t.Run("bad base64", func(t *testing.T) {
		_, err := (&KMSClient{Client: &mockKMS{}}).Decrypt(ctx, "alias/app", "%%%")
		assert.Error(t, err)
	})

	t.Run("kms error", func(t *testing.T) {
		_, err := (&KMSClient{Client: &mockKMS{err: errors.New("AccessDenied")}}).Decrypt(ctx, "alias/app", "Y2lwaGVy")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AccessDenied")
	})
}
