package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalakehq/lakectl/cli/api"
)

func TestBuildScopeRows(t *testing.T) {
	t.Run("Should mark selected rows and derive columns", func(t *testing.T) {
		scopes := []api.DataScope{
			{
				ID:              "org/a",
				Name:            "a",
				ScopeConfigName: "dora",
				Blueprints:      []api.Blueprint{{ID: 1, Name: "bp", ProjectName: "alpha"}},
			},
			{ID: "org/b", Name: "b"},
		}
		selected := map[string]struct{}{"org/a": {}}
		rows := BuildScopeRows(scopes, selected)
		require.Len(t, rows, 2)
		assert.Equal(t, "✓", rows[0][0])
		assert.Equal(t, "a", rows[0][1])
		assert.Equal(t, "alpha", rows[0][2])
		assert.Equal(t, "dora", rows[0][3])
		assert.Equal(t, " ", rows[1][0])
		assert.Equal(t, "-", rows[1][2])
		assert.Equal(t, "None", rows[1][3])
	})
}

func TestToast(t *testing.T) {
	t.Run("Should show and expire in sequence", func(t *testing.T) {
		var toast Toast
		cmd := toast.Show("saved", ToastSuccess)
		require.NotNil(t, cmd)
		assert.True(t, toast.Visible())
		assert.Equal(t, "saved", toast.Message())

		toast.Expire(ToastExpiredMsg{Seq: 1})
		assert.False(t, toast.Visible())
	})

	t.Run("Should ignore stale expiry from an earlier toast", func(t *testing.T) {
		var toast Toast
		toast.Show("first", ToastInfo)
		toast.Show("second", ToastError)
		toast.Expire(ToastExpiredMsg{Seq: 1})
		assert.True(t, toast.Visible())
		assert.Equal(t, "second", toast.Message())
		toast.Expire(ToastExpiredMsg{Seq: 2})
		assert.False(t, toast.Visible())
	})
}

func TestDialogs(t *testing.T) {
	t.Run("Should render blocking references", func(t *testing.T) {
		out := BlockedDialog("Cannot delete", "still referenced", []string{"P1", "B1"})
		assert.Contains(t, out, "Cannot delete")
		assert.Contains(t, out, "P1")
		assert.Contains(t, out, "B1")
	})

	t.Run("Should render confirm dialog with key hints", func(t *testing.T) {
		out := ConfirmDialog("Delete Data Scope", "You are about to delete org/a", "This cannot be undone")
		assert.Contains(t, out, "org/a")
		assert.Contains(t, out, "y to confirm")
	})

	t.Run("Should highlight the cursor option", func(t *testing.T) {
		out := SelectDialog("Associate Scope Config", []string{"None", "dora"}, 1)
		assert.Contains(t, out, "> ")
		assert.Contains(t, out, "dora")
	})
}
