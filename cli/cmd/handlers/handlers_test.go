package handlers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalakehq/lakectl/cli/api"
)

// fakeScopeService records every call and serves scopes from an in-memory
// map.
type fakeScopeService struct {
	mu sync.Mutex

	scopes    map[string]*api.DataScope
	pages     map[int]api.ScopePage
	total     int
	remote    *api.RemoteScopePage
	getErr    map[string]error
	listErr   error
	removeErr error

	listCalls   []api.ListScopesOptions
	getCalls    []string
	updateCalls []string
	removeCalls []string
	removedData []bool
	added       [][]api.DataScope
}

func newFakeScopeService() *fakeScopeService {
	return &fakeScopeService{
		scopes: make(map[string]*api.DataScope),
		pages:  make(map[int]api.ScopePage),
		getErr: make(map[string]error),
	}
}

func (f *fakeScopeService) addScope(s api.DataScope) {
	f.scopes[s.ID] = &s
}

func (f *fakeScopeService) List(
	_ context.Context,
	_ string,
	_ int64,
	opts api.ListScopesOptions,
) (*api.ScopePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, opts)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if page, ok := f.pages[opts.Page]; ok {
		return &page, nil
	}
	scopes := make([]api.DataScope, 0, len(f.scopes))
	for _, s := range f.scopes {
		scopes = append(scopes, *s)
	}
	total := f.total
	if total == 0 {
		total = len(scopes)
	}
	return &api.ScopePage{Scopes: scopes, Count: total}, nil
}

func (f *fakeScopeService) Get(
	_ context.Context,
	_ string,
	_ int64,
	scopeID string,
) (*api.DataScope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, scopeID)
	if err := f.getErr[scopeID]; err != nil {
		return nil, err
	}
	s, ok := f.scopes[scopeID]
	if !ok {
		return nil, &api.APIError{Status: 404, Message: "scope not found"}
	}
	clone := *s
	return &clone, nil
}

func (f *fakeScopeService) Update(
	_ context.Context,
	_ string,
	_ int64,
	scopeID string,
	scope *api.DataScope,
) (*api.DataScope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, scopeID)
	clone := *scope
	f.scopes[scopeID] = &clone
	return scope, nil
}

func (f *fakeScopeService) Remove(
	_ context.Context,
	_ string,
	_ int64,
	scopeID string,
	onlyData bool,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls = append(f.removeCalls, scopeID)
	f.removedData = append(f.removedData, onlyData)
	return f.removeErr
}

func (f *fakeScopeService) Remote(
	_ context.Context,
	_ string,
	_ int64,
	_, _ string,
) (*api.RemoteScopePage, error) {
	if f.remote == nil {
		return &api.RemoteScopePage{}, nil
	}
	return f.remote, nil
}

func (f *fakeScopeService) Add(_ context.Context, _ string, _ int64, scopes []api.DataScope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, scopes)
	return nil
}

func configID(id int64) *int64 {
	return &id
}

func TestAssociateScopeConfig(t *testing.T) {
	t.Run("Should update every scope with the new config id", func(t *testing.T) {
		fake := newFakeScopeService()
		fake.addScope(api.DataScope{ID: "s1", Name: "repo-a", ScopeConfigID: configID(7)})
		fake.addScope(api.DataScope{ID: "s2", Name: "repo-b"})

		err := associateScopeConfig(context.Background(), fake, "github", 1, []string{"s1", "s2"}, configID(9))
		require.NoError(t, err)

		assert.Len(t, fake.getCalls, 2)
		assert.Len(t, fake.updateCalls, 2)
		for _, id := range []string{"s1", "s2"} {
			require.NotNil(t, fake.scopes[id].ScopeConfigID)
			assert.Equal(t, int64(9), *fake.scopes[id].ScopeConfigID)
		}
	})
	t.Run("Should clear the association when the config id is nil", func(t *testing.T) {
		fake := newFakeScopeService()
		fake.addScope(api.DataScope{ID: "s1", ScopeConfigID: configID(7)})

		err := associateScopeConfig(context.Background(), fake, "github", 1, []string{"s1"}, nil)
		require.NoError(t, err)
		assert.Nil(t, fake.scopes["s1"].ScopeConfigID)
	})
	t.Run("Should fail when any scope read fails", func(t *testing.T) {
		fake := newFakeScopeService()
		fake.addScope(api.DataScope{ID: "s1"})
		fake.getErr["s2"] = fmt.Errorf("boom")

		err := associateScopeConfig(context.Background(), fake, "github", 1, []string{"s1", "s2"}, configID(3))
		require.Error(t, err)
	})
}

func TestParseScopeConfigTarget(t *testing.T) {
	t.Run("Should accept the none sentinel case-insensitively", func(t *testing.T) {
		for _, raw := range []string{"none", "None", "NONE", " none "} {
			id, ok := parseScopeConfigTarget(raw)
			assert.True(t, ok, raw)
			assert.Nil(t, id, raw)
		}
	})
	t.Run("Should accept a positive numeric id", func(t *testing.T) {
		id, ok := parseScopeConfigTarget("12")
		require.True(t, ok)
		require.NotNil(t, id)
		assert.Equal(t, int64(12), *id)
	})
	t.Run("Should reject invalid values", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "0", "-1"} {
			_, ok := parseScopeConfigTarget(raw)
			assert.False(t, ok, raw)
		}
	})
}

func TestConnectionArgs(t *testing.T) {
	t.Run("Should parse plugin and connection id", func(t *testing.T) {
		plugin, id, err := connectionArgs([]string{"github", "42"})
		require.NoError(t, err)
		assert.Equal(t, "github", plugin)
		assert.Equal(t, int64(42), id)
	})
	t.Run("Should reject missing or invalid arguments", func(t *testing.T) {
		_, _, err := connectionArgs([]string{"github"})
		assert.Error(t, err)
		_, _, err = connectionArgs([]string{"", "42"})
		assert.Error(t, err)
		_, _, err = connectionArgs([]string{"github", "zero"})
		assert.Error(t, err)
	})
}

func TestScopeArgs(t *testing.T) {
	t.Run("Should require a scope id", func(t *testing.T) {
		_, _, _, err := scopeArgs([]string{"github", "1"})
		assert.Error(t, err)
	})
	t.Run("Should parse all three arguments", func(t *testing.T) {
		plugin, id, scopeID, err := scopeArgs([]string{"github", "1", "my-org/repo"})
		require.NoError(t, err)
		assert.Equal(t, "github", plugin)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, "my-org/repo", scopeID)
	})
}

func TestConfiguredScopeIDs(t *testing.T) {
	t.Run("Should walk every page", func(t *testing.T) {
		fake := newFakeScopeService()
		page1 := make([]api.DataScope, 100)
		for i := range page1 {
			page1[i] = api.DataScope{ID: fmt.Sprintf("s%d", i)}
		}
		fake.pages[1] = api.ScopePage{Scopes: page1, Count: 101}
		fake.pages[2] = api.ScopePage{Scopes: []api.DataScope{{ID: "s100"}}, Count: 101}

		ids, err := configuredScopeIDs(context.Background(), fake, "github", 1)
		require.NoError(t, err)
		assert.Len(t, ids, 101)
		assert.Contains(t, ids, "s100")
		assert.Len(t, fake.listCalls, 2)
	})
}

func testDetailModel(scopes *fakeScopeService) *detailModel {
	deps := detailDeps{
		connections:  &fakeConnectionService{},
		scopes:       scopes,
		scopeConfigs: &fakeScopeConfigService{},
	}
	return newDetailModel(context.Background(), deps, "github", 1, 10)
}

type fakeConnectionService struct {
	removeErr   error
	removeCalls int
}

func (f *fakeConnectionService) Get(_ context.Context, plugin string, id int64) (*api.Connection, error) {
	return &api.Connection{ID: id, Name: "GitHub Cloud", Plugin: plugin, Status: "online"}, nil
}

func (f *fakeConnectionService) Remove(_ context.Context, _ string, _ int64) error {
	f.removeCalls++
	return f.removeErr
}

type fakeScopeConfigService struct {
	configs []api.ScopeConfig
}

func (f *fakeScopeConfigService) List(_ context.Context, _ string, _ int64) ([]api.ScopeConfig, error) {
	return f.configs, nil
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func update(t *testing.T, m *detailModel, msg tea.Msg) (*detailModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(*detailModel)
	require.True(t, ok)
	return model, cmd
}

func loadedScopes() []api.DataScope {
	return []api.DataScope{
		{ID: "s1", Name: "repo-a", Blueprints: []api.Blueprint{{ID: 1, Name: "bp", ProjectName: "P1"}}},
		{ID: "s2", Name: "repo-b", ScopeConfigID: configID(3), ScopeConfigName: "cfg"},
	}
}

func TestDetailModelLoading(t *testing.T) {
	t.Run("Should become ready once scopes load", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		require.False(t, m.ready)
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		assert.True(t, m.ready)
		assert.False(t, m.loading)
		assert.Equal(t, 2, m.total)
		assert.Len(t, m.table.Rows(), 2)
	})
	t.Run("Should keep the page usable when loading fails", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, cmd := update(t, m, scopesLoadFailedMsg{err: fmt.Errorf("boom")})
		assert.False(t, m.ready)
		assert.False(t, m.loading)
		require.NotNil(t, cmd)
	})
	t.Run("Should prune selected ids missing from the refreshed page", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m.selected["s1"] = struct{}{}
		m.selected["gone"] = struct{}{}
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		assert.Contains(t, m.selected, "s1")
		assert.NotContains(t, m.selected, "gone")
	})
}

func TestDetailModelPagination(t *testing.T) {
	t.Run("Should refetch when moving to the next page", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 25})
		m, cmd := update(t, m, keyMsg("]"))
		assert.Equal(t, 2, m.page)
		assert.True(t, m.loading)
		require.NotNil(t, cmd)
	})
	t.Run("Should stay on the last page", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, cmd := update(t, m, keyMsg("]"))
		assert.Equal(t, 1, m.page)
		assert.Nil(t, cmd)
	})
	t.Run("Should not page below one", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 25})
		m, _ = update(t, m, keyMsg("["))
		assert.Equal(t, 1, m.page)
	})
}

func TestDetailModelSelection(t *testing.T) {
	t.Run("Should toggle the cursor row with space", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, _ = update(t, m, keyMsg(" "))
		assert.Contains(t, m.selected, "s1")
		m, _ = update(t, m, keyMsg(" "))
		assert.NotContains(t, m.selected, "s1")
	})
}

func TestDetailModelDialogs(t *testing.T) {
	t.Run("Should reset auxiliary state on every dialog open", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m.conflict = &api.ConflictError{Message: "stale"}
		m.dialogScopeID = "stale"
		m.dialogScopeIDs = []string{"stale"}
		m.configCursor = 3
		m.openDialog(dialogDeleteConnection)
		assert.Nil(t, m.conflict)
		assert.Empty(t, m.dialogScopeID)
		assert.Nil(t, m.dialogScopeIDs)
		assert.Zero(t, m.configCursor)
	})
	t.Run("Should open the clear dialog on the cursor row", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, _ = update(t, m, keyMsg("c"))
		assert.Equal(t, dialogClearScope, m.dialog)
		assert.Equal(t, "s1", m.dialogScopeID)
	})
	t.Run("Should target the selection when associating", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m.selected["s1"] = struct{}{}
		m.selected["s2"] = struct{}{}
		m, _ = update(t, m, keyMsg("a"))
		assert.Equal(t, dialogAssociateConfig, m.dialog)
		assert.ElementsMatch(t, []string{"s1", "s2"}, m.dialogScopeIDs)
	})
	t.Run("Should fall back to the cursor row when nothing is selected", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, _ = update(t, m, keyMsg("a"))
		assert.Equal(t, []string{"s1"}, m.dialogScopeIDs)
	})
	t.Run("Should close the dialog on escape", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, _ = update(t, m, keyMsg("d"))
		require.Equal(t, dialogDeleteScope, m.dialog)
		m, _ = update(t, m, keyMsg("esc"))
		assert.Equal(t, dialogNone, m.dialog)
	})
}

func TestDetailModelConflicts(t *testing.T) {
	t.Run("Should show the blocked dialog with references on delete conflict", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		conflict := &api.ConflictError{
			Message:    "connection is in use",
			Projects:   []string{"P1"},
			Blueprints: []string{"B1"},
		}
		m, _ = update(t, m, conflictMsg{failed: dialogDeleteConnectionFailed, conflict: conflict})
		assert.Equal(t, dialogDeleteConnectionFailed, m.dialog)
		assert.False(t, m.operating)
		assert.Equal(t, []string{"P1", "B1"}, m.conflictReferences())
		view := m.viewDialog()
		assert.Contains(t, view, "P1")
		assert.Contains(t, view, "B1")
	})
	t.Run("Should dismiss the blocked dialog and keep the page alive", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, _ = update(t, m, conflictMsg{failed: dialogDeleteScopeFailed, conflict: &api.ConflictError{}})
		m, _ = update(t, m, keyMsg("enter"))
		assert.Equal(t, dialogNone, m.dialog)
		assert.False(t, m.quitting)
	})
}

func TestDetailModelMutations(t *testing.T) {
	t.Run("Should refetch and toast after clearing historical data", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, cmd := update(t, m, scopeRemovedMsg{onlyData: true})
		assert.Equal(t, "Historical data cleared.", m.toast.Message())
		assert.True(t, m.loading)
		require.NotNil(t, cmd)
	})
	t.Run("Should use the delete wording when the scope is removed", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, _ = update(t, m, scopeRemovedMsg{onlyData: false})
		assert.Equal(t, "Data scope deleted.", m.toast.Message())
	})
	t.Run("Should clear the selection after associating", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m.selected["s1"] = struct{}{}
		m, cmd := update(t, m, configAssociatedMsg{count: 1})
		assert.Empty(t, m.selected)
		assert.True(t, m.loading)
		assert.Contains(t, m.toast.Message(), "Re-run collection and transformation")
		require.NotNil(t, cmd)
	})
	t.Run("Should quit after the connection is deleted", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, cmd := update(t, m, connectionRemovedMsg{})
		assert.True(t, m.connectionDeleted)
		assert.True(t, m.quitting)
		require.NotNil(t, cmd)
	})
	t.Run("Should surface a generic failure toast and stay open", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, _ = update(t, m, keyMsg("D"))
		require.Equal(t, dialogDeleteConnection, m.dialog)
		m, _ = update(t, m, errMsg{err: fmt.Errorf("boom")})
		assert.Equal(t, dialogNone, m.dialog)
		assert.Equal(t, "Operation failed.", m.toast.Message())
		assert.False(t, m.quitting)
	})
	t.Run("Should run the delete on confirm", func(t *testing.T) {
		fake := newFakeScopeService()
		m := testDetailModel(fake)
		m, _ = update(t, m, scopesLoadedMsg{scopes: loadedScopes(), count: 2})
		m, _ = update(t, m, keyMsg("d"))
		m, cmd := update(t, m, keyMsg("y"))
		assert.True(t, m.operating)
		require.NotNil(t, cmd)
	})
}

func TestDeleteConnectionModel(t *testing.T) {
	t.Run("Should complete after a successful delete", func(t *testing.T) {
		m := newDeleteConnectionModel(context.Background(), &fakeConnectionService{}, "github", 1, false)
		next, cmd := m.Update(connectionRemovedMsg{})
		model := next.(*deleteConnectionModel)
		assert.Equal(t, stateDeleteConnCompleted, model.state)
		require.NotNil(t, cmd)
	})
	t.Run("Should show the blocking references on conflict", func(t *testing.T) {
		m := newDeleteConnectionModel(context.Background(), &fakeConnectionService{}, "github", 1, false)
		conflict := &api.ConflictError{Message: "in use", Projects: []string{"P1"}, Blueprints: []string{"B1"}}
		next, _ := m.Update(conflictMsg{failed: dialogDeleteConnectionFailed, conflict: conflict})
		model := next.(*deleteConnectionModel)
		assert.Equal(t, stateDeleteConnBlocked, model.state)
		view := model.View()
		assert.Contains(t, view, "P1")
		assert.Contains(t, view, "B1")
	})
	t.Run("Should cancel without deleting", func(t *testing.T) {
		fake := &fakeConnectionService{}
		m := newDeleteConnectionModel(context.Background(), fake, "github", 1, false)
		next, _ := m.Update(keyMsg("n"))
		model := next.(*deleteConnectionModel)
		assert.Equal(t, stateDeleteConnCanceled, model.state)
		assert.Zero(t, fake.removeCalls)
	})
	t.Run("Should start deleting immediately with force", func(t *testing.T) {
		m := newDeleteConnectionModel(context.Background(), &fakeConnectionService{}, "github", 1, true)
		assert.Equal(t, stateDeleteConnDeleting, m.state)
		require.NotNil(t, m.Init())
	})
}

func TestRemoveScopeModel(t *testing.T) {
	t.Run("Should pass the only-data flag through", func(t *testing.T) {
		fake := newFakeScopeService()
		m := newRemoveScopeModel(context.Background(), fake, "github", 1, "s1", true, true)
		cmd := m.performRemove()
		msg := cmd()
		removed, ok := msg.(scopeRemovedMsg)
		require.True(t, ok)
		assert.True(t, removed.onlyData)
		require.Len(t, fake.removedData, 1)
		assert.True(t, fake.removedData[0])
	})
	t.Run("Should block on conflict", func(t *testing.T) {
		fake := newFakeScopeService()
		fake.removeErr = &api.ConflictError{Message: "in use", Blueprints: []string{"B1"}}
		m := newRemoveScopeModel(context.Background(), fake, "github", 1, "s1", false, true)
		msg := m.performRemove()()
		conflict, ok := msg.(conflictMsg)
		require.True(t, ok)
		assert.Equal(t, dialogDeleteScopeFailed, conflict.failed)
		assert.Equal(t, []string{"B1"}, conflict.conflict.References())
	})
	t.Run("Should use the clear wording for only-data removal", func(t *testing.T) {
		m := newRemoveScopeModel(context.Background(), newFakeScopeService(), "github", 1, "s1", true, false)
		view := m.View()
		assert.Contains(t, view, "Clear Historical Data")
	})
}

func TestRemoteScopePicker(t *testing.T) {
	t.Run("Should skip groups and already-added scopes", func(t *testing.T) {
		m := testDetailModel(newFakeScopeService())
		m.openDialog(dialogCreateScope)
		m.remoteScopes = []api.RemoteScope{
			{ID: "grp", Name: "My Org", Group: true},
			{ID: "r1", Name: "repo-a"},
			{ID: "r2", Name: "repo-b"},
		}
		m.remoteExisting = map[string]struct{}{"r2": {}}
		m.remoteSelected = map[string]struct{}{}

		m.remoteCursor = 0
		m.toggleRemoteSelection()
		assert.Empty(t, m.remoteSelected)

		m.remoteCursor = 2
		m.toggleRemoteSelection()
		assert.Empty(t, m.remoteSelected)

		m.remoteCursor = 1
		m.toggleRemoteSelection()
		assert.Contains(t, m.remoteSelected, "r1")
		assert.Equal(t, []api.RemoteScope{{ID: "r1", Name: "repo-a"}}, m.pickedRemoteScopes())
	})
}
