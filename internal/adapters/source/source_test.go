package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/careerpath/internal/domain/model"
	logging "github.com/okian/careerpath/pkg/logger"
)

type fakeS3 struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func TestParseS3URL(t *testing.T) {
	Convey("Given s3 urls", t, func() {
		Convey("When the url has a bucket and a nested key", func() {
			bucket, key, err := ParseS3URL("s3://catalogs/careers/india.csv")
			So(err, ShouldBeNil)
			So(bucket, ShouldEqual, "catalogs")
			So(key, ShouldEqual, "careers/india.csv")
		})

		Convey("When the key is missing", func() {
			_, _, err := ParseS3URL("s3://catalogs/")
			So(errors.Is(err, model.ErrDataLoad), ShouldBeTrue)
		})

		Convey("When the scheme is not s3", func() {
			_, _, err := ParseS3URL("https://example.com/a.csv")
			So(errors.Is(err, model.ErrDataLoad), ShouldBeTrue)
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given an opener", t, func() {
		_ = logging.Init()
		ctx := context.Background()

		Convey("When the source is a local file", func() {
			path := filepath.Join(t.TempDir(), "careers.csv")
			So(os.WriteFile(path, []byte("Career Title\nChef\n"), 0o600), ShouldBeNil)

			rc, err := New().Open(ctx, path)

			Convey("Then the file is returned", func() {
				So(err, ShouldBeNil)
				So(readAll(t, rc), ShouldEqual, "Career Title\nChef\n")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := New().Open(ctx, filepath.Join(t.TempDir(), "missing.csv"))
			So(errors.Is(err, model.ErrDataLoad), ShouldBeTrue)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("When the source is blank", func() {
			_, err := New().Open(ctx, "  ")
			So(errors.Is(err, model.ErrDataLoad), ShouldBeTrue)
		})

		Convey("When the source is an s3 url", func() {
			fake := &fakeS3{body: "Career Title\nAccountant\n"}
			rc, err := New(WithS3Client(fake), WithS3Region("ap-south-1")).Open(ctx, "s3://catalogs/careers.csv")

			Convey("Then the object body is returned", func() {
				So(err, ShouldBeNil)
				So(fake.bucket, ShouldEqual, "catalogs")
				So(fake.key, ShouldEqual, "careers.csv")
				So(readAll(t, rc), ShouldEqual, "Career Title\nAccountant\n")
			})
		})

		Convey("When s3 fails", func() {
			fake := &fakeS3{err: errors.New("access denied")}
			_, err := New(WithS3Client(fake)).Open(ctx, "s3://catalogs/careers.csv")
			So(errors.Is(err, model.ErrDataLoad), ShouldBeTrue)
		})
	})
}
