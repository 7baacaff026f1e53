package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drupalprojects/webform-sub000/pkg/domain"
	"github.com/drupalprojects/webform-sub000/pkg/ports"
)

// FormLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.FormLoader.
// setupData must already be stored in the loader, keyed by form ID.
func FormLoaderContractTest(t *testing.T, loader ports.FormLoader, setupData map[string][]byte) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetForm_Success", func(t *testing.T) {
		for id, expected := range setupData {
			content, err := loader.GetForm(ctx, id)
			require.NoError(t, err, "getting form %s", id)
			assert.Equal(t, string(expected), string(content), "content mismatch for %s", id)
		}
	})

	t.Run("GetForm_NotFound", func(t *testing.T) {
		_, err := loader.GetForm(ctx, "non-existent-form")
		assert.ErrorIs(t, err, domain.ErrFormNotFound)
	})

	t.Run("ListForms", func(t *testing.T) {
		ids, err := loader.ListForms(ctx)
		require.NoError(t, err)

		expected := make([]string, 0, len(setupData))
		for id := range setupData {
			expected = append(expected, id)
		}
		assert.ElementsMatch(t, expected, ids)
	})
}
