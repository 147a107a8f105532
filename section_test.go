package dossier_test

import (
	"testing"

	"github.com/fwojciec/dossier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("extracts headings with levels", func(t *testing.T) {
		t.Parallel()

		markdown := "# PART I\n\n## Item 1. Business\n\nText.\n\n### Risk Factors"

		sections := dossier.ExtractSections(markdown)

		require.Len(t, sections, 3)
		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, "PART I", sections[0].Title)
		assert.Equal(t, 2, sections[1].Level)
		assert.Equal(t, "item-1-business", sections[1].Anchor)
		assert.Equal(t, 3, sections[2].Level)
	})

	t.Run("handles duplicate headings with numeric suffixes", func(t *testing.T) {
		t.Parallel()

		markdown := "# Notes\n## Notes\n### Notes"

		sections := dossier.ExtractSections(markdown)

		require.Len(t, sections, 3)
		assert.Equal(t, "notes", sections[0].Anchor)
		assert.Equal(t, "notes-1", sections[1].Anchor)
		assert.Equal(t, "notes-2", sections[2].Anchor)
	})

	t.Run("ignores hashes inside code fences", func(t *testing.T) {
		t.Parallel()

		markdown := "# Facts\n\n```json\n# not a heading\n```\n\n## Units"

		sections := dossier.ExtractSections(markdown)

		require.Len(t, sections, 2)
		assert.Equal(t, "Facts", sections[0].Title)
		assert.Equal(t, "Units", sections[1].Title)
	})

	t.Run("strips closing hashes", func(t *testing.T) {
		t.Parallel()

		sections := dossier.ExtractSections("## Signatures ##")

		require.Len(t, sections, 1)
		assert.Equal(t, "Signatures", sections[0].Title)
	})

	t.Run("returns nil for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, dossier.ExtractSections(""))
	})
}
