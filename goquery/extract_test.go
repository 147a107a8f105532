package goquery_test

import (
	"testing"

	"github.com/fwojciec/dossier/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const filingURL = "https://www.sec.gov/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm"

func TestCleaner_Clean(t *testing.T) {
	t.Parallel()

	t.Run("removes non-text elements and keeps prose", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>aapl-20240928</title><style>p{color:red}</style></head>
<body>
<script>var x = 1;</script>
<noscript>Enable JavaScript</noscript>
<img src="logo.jpg" alt="Apple logo">
<p>The Company designs smartphones.</p>
</body>
</html>`

		res, err := goquery.NewCleaner().Clean(html, filingURL)

		require.NoError(t, err)
		assert.Equal(t, "aapl-20240928", res.Title)
		assert.Contains(t, res.ContentHTML, "The Company designs smartphones.")
		assert.NotContains(t, res.ContentHTML, "var x")
		assert.NotContains(t, res.ContentHTML, "Enable JavaScript")
		assert.NotContains(t, res.ContentHTML, "logo.jpg")
		assert.NotContains(t, res.ContentHTML, "color:red")
	})

	t.Run("drops inline XBRL header", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div style="display:none"><ix:header><ix:hidden><ix:nonNumeric name="dei:AmendmentFlag">false</ix:nonNumeric></ix:hidden></ix:header></div>
<p>Item 1. Business</p>
</body></html>`

		res, err := goquery.NewCleaner().Clean(html, filingURL)

		require.NoError(t, err)
		assert.NotContains(t, res.ContentHTML, "AmendmentFlag")
		assert.Contains(t, res.ContentHTML, "Item 1. Business")
	})

	t.Run("resolves relative exhibit links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="ex21.htm">Subsidiaries</a></body></html>`

		res, err := goquery.NewCleaner().Clean(html, filingURL)

		require.NoError(t, err)
		assert.Contains(t, res.ContentHTML, `href="https://www.sec.gov/Archives/edgar/data/320193/000032019324000123/ex21.htm"`)
	})

	t.Run("unwraps in-document and non-HTTP anchors", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="#toc">Table of Contents</a>
<a href="mailto:investor@apple.com">Investor Relations</a>
<a name="item1">Item 1</a>
</body></html>`

		res, err := goquery.NewCleaner().Clean(html, filingURL)

		require.NoError(t, err)
		assert.NotContains(t, res.ContentHTML, "<a")
		assert.Contains(t, res.ContentHTML, "Table of Contents")
		assert.Contains(t, res.ContentHTML, "Investor Relations")
		assert.Contains(t, res.ContentHTML, "Item 1")
	})

	t.Run("keeps links as-is without base URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="ex21.htm">Subsidiaries</a></body></html>`

		res, err := goquery.NewCleaner().Clean(html, "")

		require.NoError(t, err)
		assert.Contains(t, res.ContentHTML, `href="ex21.htm"`)
	})

	t.Run("collapses whitespace in title", func(t *testing.T) {
		t.Parallel()

		html := "<html><head><title>\n  Form 10-K\n  Apple Inc. </title></head><body><p>x</p></body></html>"

		res, err := goquery.NewCleaner().Clean(html, filingURL)

		require.NoError(t, err)
		assert.Equal(t, "Form 10-K Apple Inc.", res.Title)
	})
}
