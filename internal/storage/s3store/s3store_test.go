package s3store

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/require"

	"example.com/notes-registry/internal/notes"
)

const testBucket = "notes-test"

// fakeClient returns an S3 client backed by an in-memory gofakes3 server
// with testBucket already created.
func fakeClient(t *testing.T) *s3.Client {
	t.Helper()

	faker := gofakes3.New(s3mem.New())
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)

	ctx := context.Background()
	sdkConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		),
	)
	require.NoError(t, err)

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(ts.URL)
		o.UsePathStyle = true
	})

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(testBucket)})
	require.NoError(t, err)
	return client
}

func TestPersister_MissingObjectIsEmpty(t *testing.T) {
	p := NewFromClient(fakeClient(t), testBucket, "notes.json")

	c, err := p.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Empty(t, c)
}

func TestPersister_SaveThenLoad(t *testing.T) {
	for _, key := range []string{"notes.json", "prefix/notes.yaml"} {
		t.Run(key, func(t *testing.T) {
			ctx := context.Background()
			p := NewFromClient(fakeClient(t), testBucket, key)
			in := notes.Collection{{Name: "alpha", Text: "hello"}, {Name: "beta", Text: ""}}

			require.NoError(t, p.Save(ctx, in))
			out, err := p.Load(ctx)
			require.NoError(t, err)
			require.Equal(t, in, out)
		})
	}
}

func TestPersister_SaveLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := fakeClient(t)
	p := NewFromClient(client, testBucket, "notes.json")
	require.NoError(t, p.Save(ctx, notes.Collection{{Name: "a", Text: "1"}}))

	read := func() string {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(testBucket), Key: aws.String("notes.json")})
		require.NoError(t, err)
		defer out.Body.Close()
		data, err := io.ReadAll(out.Body)
		require.NoError(t, err)
		return string(data)
	}

	before := read()
	c, err := p.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, c))
	require.Equal(t, before, read())
}

func TestPersister_CorruptObject(t *testing.T) {
	ctx := context.Background()
	client := fakeClient(t)
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(testBucket),
		Key:    aws.String("notes.json"),
		Body:   strings.NewReader("not json"),
	})
	require.NoError(t, err)

	_, err = NewFromClient(client, testBucket, "notes.json").Load(ctx)
	require.Error(t, err)
}

func TestPersister_MissingBucket(t *testing.T) {
	p := NewFromClient(fakeClient(t), "no-such-bucket", "notes.json")
	require.Error(t, p.Save(context.Background(), notes.Collection{}))
}
