package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakePut struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePut) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

type fakePresign struct {
	in      *s3.GetObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresign) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.in = in
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + *in.Key}, nil
}

func TestPut(t *testing.T) {
	put := &fakePut{}
	s, err := New(put, &fakePresign{}, "ap-alias", 0)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "itineraries/abc.pdf", "application/pdf", []byte("%PDF")))
	require.Equal(t, "ap-alias", *put.in.Bucket)
	require.Equal(t, "itineraries/abc.pdf", *put.in.Key)
	require.Equal(t, "application/pdf", *put.in.ContentType)
	require.Equal(t, int64(4), *put.in.ContentLength)
	require.Equal(t, []byte("%PDF"), put.body)
}

func TestPut_Error(t *testing.T) {
	s, err := New(&fakePut{err: errors.New("access denied")}, &fakePresign{}, "b", 0)
	require.NoError(t, err)
	err = s.Put(context.Background(), "k", "application/pdf", nil)
	require.ErrorContains(t, err, "access denied")
}

func TestSignedURL_DefaultTTL(t *testing.T) {
	p := &fakePresign{}
	s, err := New(&fakePut{}, p, "b", 0)
	require.NoError(t, err)

	u, err := s.SignedURL(context.Background(), "assets/cover.jpg")
	require.NoError(t, err)
	require.Equal(t, "https://signed.example/assets/cover.jpg", u)
	require.Equal(t, "b", *p.in.Bucket)
	require.Equal(t, DefaultTTL, p.expires)
}

func TestSignedURL_CustomTTLAndError(t *testing.T) {
	p := &fakePresign{}
	s, err := New(&fakePut{}, p, "b", 10*time.Minute)
	require.NoError(t, err)
	_, err = s.SignedURL(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, p.expires)

	p.err = errors.New("no creds")
	_, err = s.SignedURL(context.Background(), "k")
	require.ErrorContains(t, err, "no creds")
}

func TestValidation(t *testing.T) {
	_, err := New(nil, &fakePresign{}, "b", 0)
	require.Error(t, err)
	_, err = New(&fakePut{}, &fakePresign{}, " ", 0)
	require.Error(t, err)
	_, err = NewFromClient(nil, "b", 0)
	require.Error(t, err)

	s, err := New(&fakePut{}, &fakePresign{}, "b", 0)
	require.NoError(t, err)
	require.Error(t, s.Put(context.Background(), "", "x", nil))
	_, err = s.SignedURL(context.Background(), "")
	require.Error(t, err)
}
