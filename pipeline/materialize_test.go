package pipeline_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/fwojciec/dossier/mock"
	"github.com/fwojciec/dossier/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appleRawPath = "raw/sec/financial_reports/2024-11-01_10-k_000032019324000123.htm"

func appleFiling() *dossier.Filing {
	filed := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	period := "2024-09-28"
	return &dossier.Filing{
		ID:              "10-k-2024-09-28",
		Form:            "10-K",
		Period:          &period,
		FiledAt:         &filed,
		AccessionNumber: "0000320193-24-000123",
		PrimaryDocument: "aapl-20240928.htm",
		URL:             "https://www.sec.gov/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm",
		ViewerURL:       "https://www.sec.gov/cgi-bin/viewer?action=view&cik=320193&accession_number=0000320193-24-000123&xbrl_type=v",
	}
}

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func notFound(_ context.Context, path string) (*dossier.BlobInfo, error) {
	return nil, dossier.Errorf(dossier.ENOTFOUND, "%s does not exist", path)
}

func TestMaterializer_MaterializeFiling(t *testing.T) {
	t.Parallel()

	layout := dossier.NewLayout("/dossiers", "aapl")
	full := pipeline.MaterializeOptions{DownloadMode: dossier.DownloadFull, FetchMode: dossier.FetchHTTP}

	t.Run("links only touches neither network nor disk", func(t *testing.T) {
		t.Parallel()

		m := &pipeline.Materializer{Fetcher: &mock.Fetcher{}, Blobs: &mock.BlobStore{}}

		a := m.MaterializeFiling(context.Background(), appleFiling(), layout, nil,
			pipeline.MaterializeOptions{DownloadMode: dossier.DownloadLinksOnly})

		assert.Equal(t, dossier.StatusLinksOnly, a.ParseStatus)
		assert.Empty(t, a.LocalPath)
		assert.Empty(t, a.SHA256)
		assert.Equal(t, "sec_filing_0000320193-24-000123_10-k", a.ID)
		assert.Equal(t, appleFiling().URL, a.Metadata["raw_url"])
		assert.Equal(t, appleFiling().ViewerURL, a.Metadata["viewer_url"])
		assert.Equal(t, dossier.CategoryFinancialReports, a.Metadata["category"])
	})

	t.Run("downloads a missing document", func(t *testing.T) {
		t.Parallel()

		var putPath string
		m := &pipeline.Materializer{
			Fetcher: &mock.Fetcher{
				GetFn: func(_ context.Context, url string) (*dossier.Response, error) {
					assert.Equal(t, appleFiling().URL, url)
					return &dossier.Response{StatusCode: 200, ContentType: "text/html", Body: []byte("<html>10-K</html>")}, nil
				},
			},
			Blobs: &mock.BlobStore{
				InspectFn: notFound,
				PutFn: func(_ context.Context, path string, data []byte) (*dossier.BlobInfo, error) {
					putPath = path
					return &dossier.BlobInfo{Path: path, Size: int64(len(data)), SHA256: "sha-new"}, nil
				},
			},
			Now: func() time.Time { return fixedNow },
		}

		a := m.MaterializeFiling(context.Background(), appleFiling(), layout, nil, full)

		assert.Equal(t, dossier.StatusPending, a.ParseStatus)
		assert.Equal(t, appleRawPath, a.LocalPath)
		assert.Equal(t, filepath.Join("/dossiers", "AAPL", filepath.FromSlash(appleRawPath)), putPath)
		assert.Equal(t, "sha-new", a.SHA256)
		assert.Equal(t, int64(17), a.SizeBytes)
		assert.Equal(t, "text/html", a.ContentType)
		require.NotNil(t, a.DownloadedAt)
		assert.Equal(t, fixedNow, *a.DownloadedAt)
		require.NotNil(t, a.Versioning)
		assert.False(t, a.Versioning.Cached)
		assert.False(t, a.Versioning.Changed)
	})

	t.Run("reuses an intact local copy without fetching", func(t *testing.T) {
		t.Parallel()

		downloaded := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
		prev := &dossier.Artifact{SHA256: "sha-old", ContentType: "text/html", DownloadedAt: &downloaded}
		m := &pipeline.Materializer{
			Fetcher: &mock.Fetcher{},
			Blobs: &mock.BlobStore{
				InspectFn: func(_ context.Context, path string) (*dossier.BlobInfo, error) {
					return &dossier.BlobInfo{Path: path, Size: 42, SHA256: "sha-old"}, nil
				},
			},
		}

		a := m.MaterializeFiling(context.Background(), appleFiling(), layout, prev, full)

		assert.Equal(t, dossier.StatusPending, a.ParseStatus)
		assert.Equal(t, "sha-old", a.SHA256)
		assert.Equal(t, int64(42), a.SizeBytes)
		assert.Equal(t, "text/html", a.ContentType)
		assert.Equal(t, &downloaded, a.DownloadedAt)
		require.NotNil(t, a.Versioning)
		assert.True(t, a.Versioning.Cached)
	})

	t.Run("re-downloads a local copy whose hash differs from the manifest", func(t *testing.T) {
		t.Parallel()

		var fetched bool
		m := &pipeline.Materializer{
			Fetcher: &mock.Fetcher{
				GetFn: func(_ context.Context, _ string) (*dossier.Response, error) {
					fetched = true
					return &dossier.Response{StatusCode: 200, Body: []byte("fresh")}, nil
				},
			},
			Blobs: &mock.BlobStore{
				InspectFn: func(_ context.Context, path string) (*dossier.BlobInfo, error) {
					return &dossier.BlobInfo{Path: path, SHA256: "sha-corrupt"}, nil
				},
				PutFn: func(_ context.Context, path string, data []byte) (*dossier.BlobInfo, error) {
					return &dossier.BlobInfo{Path: path, Size: int64(len(data)), SHA256: "sha-good"}, nil
				},
			},
		}

		a := m.MaterializeFiling(context.Background(), appleFiling(), layout, &dossier.Artifact{SHA256: "sha-good"}, full)

		assert.True(t, fetched)
		assert.Equal(t, "sha-good", a.SHA256)
		assert.Contains(t, a.ContentType, "text/html")
		require.NotNil(t, a.Versioning)
		assert.False(t, a.Versioning.Cached)
		assert.Equal(t, "sha-corrupt", a.Versioning.PreviousSHA256)
		assert.True(t, a.Versioning.Changed)
	})

	t.Run("force rebuild records the previous hash", func(t *testing.T) {
		t.Parallel()

		m := &pipeline.Materializer{
			Fetcher: &mock.Fetcher{
				GetFn: func(_ context.Context, _ string) (*dossier.Response, error) {
					return &dossier.Response{StatusCode: 200, Body: []byte("same")}, nil
				},
			},
			Blobs: &mock.BlobStore{
				InspectFn: func(_ context.Context, path string) (*dossier.BlobInfo, error) {
					return &dossier.BlobInfo{Path: path, SHA256: "sha-same"}, nil
				},
				PutFn: func(_ context.Context, path string, data []byte) (*dossier.BlobInfo, error) {
					return &dossier.BlobInfo{Path: path, Size: int64(len(data)), SHA256: "sha-same"}, nil
				},
			},
		}
		opts := full
		opts.Force = true

		a := m.MaterializeFiling(context.Background(), appleFiling(), layout, &dossier.Artifact{SHA256: "sha-same"}, opts)

		require.NotNil(t, a.Versioning)
		assert.False(t, a.Versioning.Cached)
		assert.Equal(t, "sha-same", a.Versioning.PreviousSHA256)
		assert.False(t, a.Versioning.Changed)
	})

	t.Run("records a fetch failure on the artifact", func(t *testing.T) {
		t.Parallel()

		m := &pipeline.Materializer{
			Fetcher: &mock.Fetcher{
				GetFn: func(_ context.Context, url string) (*dossier.Response, error) {
					return nil, dossier.Errorf(dossier.ETRANSPORT, "HTTP 404 for %s", url)
				},
			},
			Blobs: &mock.BlobStore{InspectFn: notFound},
		}

		a := m.MaterializeFiling(context.Background(), appleFiling(), layout, nil, full)

		assert.Equal(t, dossier.StatusFailed, a.ParseStatus)
		require.NotNil(t, a.ParseError)
		assert.Contains(t, *a.ParseError, "HTTP 404")
		assert.Equal(t, appleFiling().URL, a.URL)
		assert.Equal(t, appleFiling().ViewerURL, a.ViewerURL)
		assert.Empty(t, a.LocalPath)
		assert.Empty(t, a.SHA256)
	})

	t.Run("records a storage failure on the artifact", func(t *testing.T) {
		t.Parallel()

		m := &pipeline.Materializer{
			Fetcher: &mock.Fetcher{},
			Blobs: &mock.BlobStore{
				InspectFn: func(_ context.Context, path string) (*dossier.BlobInfo, error) {
					return nil, dossier.Errorf(dossier.EIO, "%s is a directory", path)
				},
			},
		}

		a := m.MaterializeFiling(context.Background(), appleFiling(), layout, nil, full)

		assert.Equal(t, dossier.StatusFailed, a.ParseStatus)
		require.NotNil(t, a.ParseError)
		assert.Contains(t, *a.ParseError, "is a directory")
	})

	t.Run("uses the browser fetcher in browser fallback mode", func(t *testing.T) {
		t.Parallel()

		m := &pipeline.Materializer{
			Fetcher: &mock.Fetcher{},
			Browser: &mock.Fetcher{
				GetFn: func(_ context.Context, _ string) (*dossier.Response, error) {
					return &dossier.Response{StatusCode: 200, ContentType: "text/html", Body: []byte("rendered")}, nil
				},
			},
			Blobs: &mock.BlobStore{
				InspectFn: notFound,
				PutFn: func(_ context.Context, path string, data []byte) (*dossier.BlobInfo, error) {
					return &dossier.BlobInfo{Path: path, Size: int64(len(data)), SHA256: "sha"}, nil
				},
			},
		}
		opts := full
		opts.FetchMode = dossier.FetchBrowserFallback

		a := m.MaterializeFiling(context.Background(), appleFiling(), layout, nil, opts)

		assert.Equal(t, dossier.StatusPending, a.ParseStatus)
		assert.Equal(t, "sha", a.SHA256)
	})
}

func TestMaterializer_MaterializeCompanyFacts(t *testing.T) {
	t.Parallel()

	layout := dossier.NewLayout("/dossiers", "AAPL")
	url := "https://data.sec.gov/api/xbrl/companyfacts/CIK0000320193.json"

	t.Run("links only", func(t *testing.T) {
		t.Parallel()

		m := &pipeline.Materializer{Fetcher: &mock.Fetcher{}, Blobs: &mock.BlobStore{}}

		a := m.MaterializeCompanyFacts(context.Background(), "0000320193", url, layout, nil,
			pipeline.MaterializeOptions{DownloadMode: dossier.DownloadLinksOnly})

		assert.Equal(t, "sec_xbrl_0000320193_companyfacts", a.ID)
		assert.Equal(t, dossier.TypeStructuredData, a.Type)
		assert.Equal(t, dossier.StatusLinksOnly, a.ParseStatus)
		assert.Equal(t, url, a.Metadata["raw_url"])
	})

	t.Run("full stores under structured_data", func(t *testing.T) {
		t.Parallel()

		m := &pipeline.Materializer{
			Fetcher: &mock.Fetcher{
				GetFn: func(_ context.Context, _ string) (*dossier.Response, error) {
					return &dossier.Response{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"facts":{}}`)}, nil
				},
			},
			Blobs: &mock.BlobStore{
				InspectFn: notFound,
				PutFn: func(_ context.Context, path string, data []byte) (*dossier.BlobInfo, error) {
					return &dossier.BlobInfo{Path: path, Size: int64(len(data)), SHA256: "sha"}, nil
				},
			},
		}

		a := m.MaterializeCompanyFacts(context.Background(), "0000320193", url, layout, nil,
			pipeline.MaterializeOptions{DownloadMode: dossier.DownloadFull})

		assert.Equal(t, dossier.StatusPending, a.ParseStatus)
		assert.Equal(t, "raw/sec/structured_data/xbrl/0000320193_companyfacts.json", a.LocalPath)
		assert.Equal(t, "application/json", a.ContentType)
	})
}
