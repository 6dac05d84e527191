package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMenuItem_CollectsAndSaves(t *testing.T) {
	input := "Masala Dosa\nCrisp rice crepe\nwith potato filling\n\nSouth Indian\n120\n5\n\n"
	a := adminAppWithInput(t, input)

	require.NoError(t, a.AddMenuItem(context.Background(), nil))

	a.backend.mu.Lock()
	defer a.backend.mu.Unlock()
	saved := a.backend.menu[len(a.backend.menu)-1]
	assert.Equal(t, "Masala Dosa", saved.Name)
	assert.Equal(t, "Crisp rice crepe\nwith potato filling", saved.Description)
	assert.Equal(t, "South Indian", saved.Category)
	assert.InDelta(t, 120.0, saved.Price, 1e-9)
	assert.InDelta(t, 5.0, saved.Discount, 1e-9)
}

func TestAddMenuItem_RejectsBadDiscount(t *testing.T) {
	a := adminAppWithInput(t, "Soup\n\nsoups\n90\n150\n\n")

	require.Error(t, a.AddMenuItem(context.Background(), nil))

	a.backend.mu.Lock()
	defer a.backend.mu.Unlock()
	assert.Len(t, a.backend.menu, 2)
}

func TestDeleteMenuItem_NeedsConfirmation(t *testing.T) {
	a := adminAppWithInput(t, "n\n")

	require.NoError(t, a.DeleteMenuItem(context.Background(), []string{"m1"}))
	assert.NotContains(t, a.output(), "Deleted")
}

func TestUpload_RejectsNonImage(t *testing.T) {
	a := adminAppWithInput(t, "")

	require.Error(t, a.Upload(context.Background(), []string{"helpers_test.go"}))
}
