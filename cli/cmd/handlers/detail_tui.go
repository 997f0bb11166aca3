package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datalakehq/lakectl/cli/api"
	"github.com/datalakehq/lakectl/cli/cmd"
	"github.com/datalakehq/lakectl/cli/tui/components"
	"github.com/datalakehq/lakectl/pkg/config"
	"github.com/datalakehq/lakectl/pkg/logger"
)

// DetailPageTUI runs the connection detail page: the scope table with
// pagination, row selection, and the dialog-driven mutations.
func DetailPageTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	log := logger.FromContext(ctx)
	plugin, connectionID, err := connectionArgs(args)
	if err != nil {
		return err
	}
	log.Debug("opening connection detail page", "plugin", plugin, "connection_id", connectionID)
	client := executor.GetClient()
	if client == nil {
		return fmt.Errorf("API client not available")
	}
	cfg := config.FromContext(ctx)
	m := newDetailModel(ctx, newDetailDeps(client), plugin, connectionID, cfg.CLI.PageSize)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if model, ok := finalModel.(*detailModel); ok {
		if model.err != nil {
			return model.err
		}
		if model.connectionDeleted {
			fmt.Fprintln(os.Stdout, msgConnectionDeleted)
		}
	}
	return nil
}

// detailDeps are the page's injected capabilities. The page never reaches
// into shared state; everything it needs comes through these interfaces.
type detailDeps struct {
	connections  api.ConnectionService
	scopes       api.ScopeService
	scopeConfigs api.ScopeConfigService
}

func newDetailDeps(client *api.Client) detailDeps {
	return detailDeps{
		connections:  client.Connections(),
		scopes:       client.Scopes(),
		scopeConfigs: client.ScopeConfigs(),
	}
}

// dialogKind selects which dialog, if any, is visible. Exactly one dialog
// is active at a time.
type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogDeleteConnection
	dialogCreateScope
	dialogClearScope
	dialogDeleteScope
	dialogAssociateConfig
	dialogDeleteConnectionFailed
	dialogDeleteScopeFailed
)

// Page-local messages.
type (
	connectionLoadedMsg struct {
		connection *api.Connection
	}
	scopesLoadedMsg struct {
		scopes []api.DataScope
		count  int
	}
	scopesLoadFailedMsg struct {
		err error
	}
	connectionRemovedMsg struct{}
	scopeRemovedMsg      struct {
		onlyData bool
	}
	configAssociatedMsg struct {
		count   int
		cleared bool
	}
	scopesAddedMsg struct {
		count int
	}
	scopeConfigsLoadedMsg struct {
		configs []api.ScopeConfig
	}
	remoteScopesLoadedMsg struct {
		remote   []api.RemoteScope
		existing map[string]struct{}
	}
	conflictMsg struct {
		failed   dialogKind
		conflict *api.ConflictError
	}
)

// detailModel is the TUI model for the connection detail page.
type detailModel struct {
	ctx  context.Context
	deps detailDeps

	plugin       string
	connectionID int64

	connection *api.Connection
	scopes     []api.DataScope
	total      int
	page       int
	pageSize   int

	ready             bool
	loading           bool
	operating         bool
	quitting          bool
	connectionDeleted bool
	err               error

	table    table.Model
	selected map[string]struct{}
	spinner  spinner.Model
	toast    components.Toast

	dialog         dialogKind
	dialogScopeID  string
	dialogScopeIDs []string
	conflict       *api.ConflictError

	scopeConfigs []api.ScopeConfig
	configCursor int

	remoteScopes   []api.RemoteScope
	remoteExisting map[string]struct{}
	remoteSelected map[string]struct{}
	remoteCursor   int

	width  int
	height int
}

func newDetailModel(
	ctx context.Context,
	deps detailDeps,
	plugin string,
	connectionID int64,
	pageSize int,
) *detailModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	if pageSize <= 0 {
		pageSize = 10
	}
	return &detailModel{
		ctx:          ctx,
		deps:         deps,
		plugin:       plugin,
		connectionID: connectionID,
		page:         1,
		pageSize:     pageSize,
		loading:      true,
		table:        components.NewScopeTable(pageSize + 1),
		selected:     make(map[string]struct{}),
		spinner:      s,
	}
}

// Init initializes the model
func (m *detailModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadConnection(), m.loadScopes())
}

// loadConnection fetches the connection header data.
func (m *detailModel) loadConnection() tea.Cmd {
	ctx, deps, plugin, id := m.ctx, m.deps, m.plugin, m.connectionID
	return func() tea.Msg {
		conn, err := deps.connections.Get(ctx, plugin, id)
		if err != nil {
			// The page is still usable without the header; scopes carry it.
			return connectionLoadedMsg{connection: nil}
		}
		return connectionLoadedMsg{connection: conn}
	}
}

// loadScopes is the data loader: one page of scopes with blueprints. Every
// mutation that changes the scope set returns this command to refetch.
func (m *detailModel) loadScopes() tea.Cmd {
	ctx, deps, plugin, id := m.ctx, m.deps, m.plugin, m.connectionID
	opts := api.ListScopesOptions{Page: m.page, PageSize: m.pageSize, Blueprints: true}
	return func() tea.Msg {
		page, err := deps.scopes.List(ctx, plugin, id, opts)
		if err != nil {
			return scopesLoadFailedMsg{err: err}
		}
		return scopesLoadedMsg{scopes: page.Scopes, count: page.Count}
	}
}

func (m *detailModel) loadScopeConfigs() tea.Cmd {
	ctx, deps, plugin, id := m.ctx, m.deps, m.plugin, m.connectionID
	return func() tea.Msg {
		configs, err := deps.scopeConfigs.List(ctx, plugin, id)
		if err != nil {
			return errMsg{err}
		}
		return scopeConfigsLoadedMsg{configs: configs}
	}
}

// loadRemoteScopes fetches scope candidates from the plugin upstream along
// with the full set of already-configured scope ids, which the picker
// disables to prevent duplicate selection.
func (m *detailModel) loadRemoteScopes() tea.Cmd {
	ctx, deps, plugin, id := m.ctx, m.deps, m.plugin, m.connectionID
	return func() tea.Msg {
		remote, err := deps.scopes.Remote(ctx, plugin, id, "", "")
		if err != nil {
			return errMsg{err}
		}
		existing, err := configuredScopeIDs(ctx, deps.scopes, plugin, id)
		if err != nil {
			return errMsg{err}
		}
		return remoteScopesLoadedMsg{remote: remote.Children, existing: existing}
	}
}

func (m *detailModel) removeConnection() tea.Cmd {
	ctx, deps, plugin, id := m.ctx, m.deps, m.plugin, m.connectionID
	return func() tea.Msg {
		if err := deps.connections.Remove(ctx, plugin, id); err != nil {
			if conflict, ok := api.AsConflict(err); ok {
				return conflictMsg{failed: dialogDeleteConnectionFailed, conflict: conflict}
			}
			return errMsg{err}
		}
		return connectionRemovedMsg{}
	}
}

func (m *detailModel) removeScope(scopeID string, onlyData bool) tea.Cmd {
	ctx, deps, plugin, id := m.ctx, m.deps, m.plugin, m.connectionID
	return func() tea.Msg {
		if err := deps.scopes.Remove(ctx, plugin, id, scopeID, onlyData); err != nil {
			if conflict, ok := api.AsConflict(err); ok {
				return conflictMsg{failed: dialogDeleteScopeFailed, conflict: conflict}
			}
			return errMsg{err}
		}
		return scopeRemovedMsg{onlyData: onlyData}
	}
}

func (m *detailModel) associateConfig(scopeIDs []string, configID *int64) tea.Cmd {
	ctx, deps, plugin, id := m.ctx, m.deps, m.plugin, m.connectionID
	return func() tea.Msg {
		if err := associateScopeConfig(ctx, deps.scopes, plugin, id, scopeIDs, configID); err != nil {
			return errMsg{err}
		}
		return configAssociatedMsg{count: len(scopeIDs), cleared: configID == nil}
	}
}

func (m *detailModel) addScopes(remote []api.RemoteScope) tea.Cmd {
	ctx, deps, plugin, id := m.ctx, m.deps, m.plugin, m.connectionID
	return func() tea.Msg {
		scopes := make([]api.DataScope, 0, len(remote))
		for _, r := range remote {
			scopes = append(scopes, api.DataScope{
				ID:           r.ID,
				Name:         r.Name,
				FullName:     r.FullName,
				ConnectionID: id,
			})
		}
		if err := deps.scopes.Add(ctx, plugin, id, scopes); err != nil {
			return errMsg{err}
		}
		return scopesAddedMsg{count: len(scopes)}
	}
}

// openDialog switches the visible dialog and clears all auxiliary dialog
// state, so nothing from a previous dialog can leak into the next one.
func (m *detailModel) openDialog(kind dialogKind) {
	m.dialog = kind
	m.dialogScopeID = ""
	m.dialogScopeIDs = nil
	m.conflict = nil
	m.configCursor = 0
	m.remoteCursor = 0
	m.remoteScopes = nil
	m.remoteExisting = nil
	m.remoteSelected = nil
}

func (m *detailModel) closeDialog() {
	m.openDialog(dialogNone)
}

// refetch invalidates the current scope page and reloads it.
func (m *detailModel) refetch() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadScopes())
}

// Update handles messages
func (m *detailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case connectionLoadedMsg:
		m.connection = msg.connection

	case scopesLoadedMsg:
		m.loading = false
		m.ready = true
		m.scopes = msg.scopes
		m.total = msg.count
		m.pruneSelection()
		m.updateTable()

	case scopesLoadFailedMsg:
		m.loading = false
		logger.FromContext(m.ctx).Error("failed to load data scopes", "error", msg.err)
		return m, m.toast.Show("Failed to load data scopes.", components.ToastError)

	case connectionRemovedMsg:
		m.operating = false
		m.connectionDeleted = true
		m.quitting = true
		return m, tea.Quit

	case scopeRemovedMsg:
		m.operating = false
		m.closeDialog()
		text := msgScopeDeleted
		if msg.onlyData {
			text = msgScopeDataCleared
		}
		return m, tea.Batch(m.toast.Show(text, components.ToastSuccess), m.refetch())

	case configAssociatedMsg:
		m.operating = false
		m.closeDialog()
		m.selected = make(map[string]struct{})
		return m, tea.Batch(m.toast.Show(msgConfigAssociated, components.ToastInfo), m.refetch())

	case scopesAddedMsg:
		m.operating = false
		m.closeDialog()
		return m, tea.Batch(m.toast.Show(msgScopesAdded, components.ToastSuccess), m.refetch())

	case scopeConfigsLoadedMsg:
		if m.dialog == dialogAssociateConfig {
			m.scopeConfigs = msg.configs
		}

	case remoteScopesLoadedMsg:
		if m.dialog == dialogCreateScope {
			m.remoteScopes = msg.remote
			m.remoteExisting = msg.existing
			m.remoteSelected = make(map[string]struct{})
		}

	case conflictMsg:
		m.operating = false
		m.dialog = msg.failed
		m.conflict = msg.conflict

	case errMsg:
		m.operating = false
		m.closeDialog()
		logger.FromContext(m.ctx).Error("operation failed", "error", msg.err)
		return m, m.toast.Show(msgOperationFailed, components.ToastError)

	case components.ToastExpiredMsg:
		m.toast.Expire(msg)

	case spinner.TickMsg:
		if m.loading || m.operating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// handleKeyMsg routes keys to the active dialog, or to the table view.
func (m *detailModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	if m.operating {
		return m, nil
	}
	switch m.dialog {
	case dialogNone:
		return m.handleTableKeys(msg)
	case dialogDeleteConnection:
		return m.handleConfirmKeys(msg, m.removeConnection())
	case dialogClearScope:
		return m.handleConfirmKeys(msg, m.removeScope(m.dialogScopeID, true))
	case dialogDeleteScope:
		return m.handleConfirmKeys(msg, m.removeScope(m.dialogScopeID, false))
	case dialogAssociateConfig:
		return m.handleAssociateKeys(msg)
	case dialogCreateScope:
		return m.handleCreateScopeKeys(msg)
	case dialogDeleteConnectionFailed, dialogDeleteScopeFailed:
		switch msg.String() {
		case keyEsc, keyEnter, "q":
			m.closeDialog()
		}
		return m, nil
	}
	return m, nil
}

func (m *detailModel) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "r":
		if !m.loading {
			return m, m.refetch()
		}
		return m, nil
	}
	if m.loading || !m.ready {
		return m, nil
	}
	switch msg.String() {
	case keySpace:
		m.toggleSelection()
	case "]", "right":
		if m.page < m.pageCount() {
			m.page++
			return m, m.refetch()
		}
	case "[", "left":
		if m.page > 1 {
			m.page--
			return m, m.refetch()
		}
	case "n":
		m.openDialog(dialogCreateScope)
		return m, m.loadRemoteScopes()
	case "a":
		targets := m.associationTargets()
		if len(targets) == 0 {
			return m, nil
		}
		m.openDialog(dialogAssociateConfig)
		m.dialogScopeIDs = targets
		return m, m.loadScopeConfigs()
	case "c":
		if scopeID, ok := m.cursorScopeID(); ok {
			m.openDialog(dialogClearScope)
			m.dialogScopeID = scopeID
		}
	case "d":
		if scopeID, ok := m.cursorScopeID(); ok {
			m.openDialog(dialogDeleteScope)
			m.dialogScopeID = scopeID
		}
	case "D":
		m.openDialog(dialogDeleteConnection)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleConfirmKeys drives a yes/no dialog; confirm starts the operation.
func (m *detailModel) handleConfirmKeys(msg tea.KeyMsg, op tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.operating = true
		return m, tea.Batch(m.spinner.Tick, op)
	case "n", "N", keyEsc:
		m.closeDialog()
	}
	return m, nil
}

func (m *detailModel) handleAssociateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Option 0 is the None sentinel; configs follow.
	switch msg.String() {
	case "up", "k":
		if m.configCursor > 0 {
			m.configCursor--
		}
	case "down", "j":
		if m.configCursor < len(m.scopeConfigs) {
			m.configCursor++
		}
	case keyEnter:
		var configID *int64
		if m.configCursor > 0 {
			id := m.scopeConfigs[m.configCursor-1].ID
			configID = &id
		}
		m.operating = true
		return m, tea.Batch(m.spinner.Tick, m.associateConfig(m.dialogScopeIDs, configID))
	case keyEsc:
		m.closeDialog()
	}
	return m, nil
}

func (m *detailModel) handleCreateScopeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.remoteCursor > 0 {
			m.remoteCursor--
		}
	case "down", "j":
		if m.remoteCursor < len(m.remoteScopes)-1 {
			m.remoteCursor++
		}
	case keySpace:
		m.toggleRemoteSelection()
	case keyEnter:
		picked := m.pickedRemoteScopes()
		if len(picked) == 0 {
			return m, nil
		}
		m.operating = true
		return m, tea.Batch(m.spinner.Tick, m.addScopes(picked))
	case keyEsc:
		m.closeDialog()
	}
	return m, nil
}

func (m *detailModel) toggleSelection() {
	scopeID, ok := m.cursorScopeID()
	if !ok {
		return
	}
	if _, selected := m.selected[scopeID]; selected {
		delete(m.selected, scopeID)
	} else {
		m.selected[scopeID] = struct{}{}
	}
	m.updateTable()
}

func (m *detailModel) toggleRemoteSelection() {
	if m.remoteCursor >= len(m.remoteScopes) {
		return
	}
	r := m.remoteScopes[m.remoteCursor]
	if r.Group {
		return
	}
	if _, exists := m.remoteExisting[r.ID]; exists {
		return
	}
	if _, selected := m.remoteSelected[r.ID]; selected {
		delete(m.remoteSelected, r.ID)
	} else {
		m.remoteSelected[r.ID] = struct{}{}
	}
}

func (m *detailModel) pickedRemoteScopes() []api.RemoteScope {
	picked := make([]api.RemoteScope, 0, len(m.remoteSelected))
	for _, r := range m.remoteScopes {
		if _, ok := m.remoteSelected[r.ID]; ok {
			picked = append(picked, r)
		}
	}
	return picked
}

// associationTargets returns the selected scope ids, falling back to the
// cursor row when nothing is selected.
func (m *detailModel) associationTargets() []string {
	if len(m.selected) > 0 {
		targets := make([]string, 0, len(m.selected))
		for i := range m.scopes {
			if _, ok := m.selected[m.scopes[i].ID]; ok {
				targets = append(targets, m.scopes[i].ID)
			}
		}
		return targets
	}
	if scopeID, ok := m.cursorScopeID(); ok {
		return []string{scopeID}
	}
	return nil
}

func (m *detailModel) cursorScopeID() (string, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.scopes) {
		return "", false
	}
	return m.scopes[idx].ID, true
}

// pruneSelection drops selected ids that are no longer on the current page.
func (m *detailModel) pruneSelection() {
	visible := make(map[string]struct{}, len(m.scopes))
	for i := range m.scopes {
		visible[m.scopes[i].ID] = struct{}{}
	}
	for id := range m.selected {
		if _, ok := visible[id]; !ok {
			delete(m.selected, id)
		}
	}
}

func (m *detailModel) updateTable() {
	m.table.SetRows(components.BuildScopeRows(m.scopes, m.selected))
}

func (m *detailModel) pageCount() int {
	if m.total <= 0 {
		return 1
	}
	return (m.total + m.pageSize - 1) / m.pageSize
}

var (
	detailTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	detailStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	detailHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the UI
func (m *detailModel) View() string {
	if m.quitting {
		return ""
	}
	header := m.viewHeader()
	if dialog := m.viewDialog(); dialog != "" {
		return header + "\n\n" + dialog + "\n"
	}
	if m.loading && !m.ready {
		return fmt.Sprintf("%s\n\n   %s Loading data scopes...\n", header, m.spinner.View())
	}
	if !m.ready {
		return fmt.Sprintf("%s\n\n   Unable to load data scopes.\n\n%s\n", header, m.toast.View())
	}
	body := fmt.Sprintf(
		"%s\n\n%s\n\nPage %d/%d • %d scopes • %d selected\n",
		header, m.table.View(), m.page, m.pageCount(), m.total, len(m.selected),
	)
	if m.operating || m.loading {
		body += fmt.Sprintf("\n%s Working...\n", m.spinner.View())
	}
	if m.toast.Visible() {
		body += "\n" + m.toast.View() + "\n"
	}
	body += "\n" + detailHelpStyle.Render(
		"space select • a associate config • n add scopes • c clear data • d delete scope • D delete connection • [/] page • r refresh • q quit",
	)
	return body
}

func (m *detailModel) viewHeader() string {
	name := fmt.Sprintf("%s connection #%d", m.plugin, m.connectionID)
	status := ""
	if m.connection != nil {
		name = m.connection.Name
		status = m.connection.Status
	}
	header := detailTitleStyle.Render(name) +
		detailHelpStyle.Render(fmt.Sprintf("  (%s/#%d)", m.plugin, m.connectionID))
	if status != "" {
		header += "  " + detailStatusStyle.Render(status)
	}
	return header
}

func (m *detailModel) viewDialog() string {
	switch m.dialog {
	case dialogDeleteConnection:
		return components.ConfirmDialog(
			"Delete Connection",
			fmt.Sprintf("You are about to delete connection %s #%d.", m.plugin, m.connectionID),
			"This permanently removes the connection and all data collected under it!",
		)
	case dialogClearScope:
		return components.ConfirmDialog(
			"Clear Historical Data",
			fmt.Sprintf("You are about to clear all historical data of scope %s.", m.dialogScopeID),
			"",
		)
	case dialogDeleteScope:
		return components.ConfirmDialog(
			"Delete Data Scope",
			fmt.Sprintf("You are about to delete scope %s and its data.", m.dialogScopeID),
			"This action cannot be undone!",
		)
	case dialogAssociateConfig:
		options := make([]string, 0, len(m.scopeConfigs)+1)
		options = append(options, "None")
		for _, c := range m.scopeConfigs {
			options = append(options, c.Name)
		}
		title := fmt.Sprintf("Associate Scope Config (%d scopes)", len(m.dialogScopeIDs))
		return components.SelectDialog(title, options, m.configCursor)
	case dialogCreateScope:
		return m.viewCreateScope()
	case dialogDeleteConnectionFailed:
		return components.BlockedDialog(
			"This connection can not be deleted",
			m.conflictMessage(),
			m.conflictReferences(),
		)
	case dialogDeleteScopeFailed:
		return components.BlockedDialog(
			"This data scope can not be deleted",
			m.conflictMessage(),
			m.conflictReferences(),
		)
	}
	return ""
}

func (m *detailModel) viewCreateScope() string {
	if m.remoteScopes == nil {
		return fmt.Sprintf("   %s Loading available scopes...", m.spinner.View())
	}
	content := detailTitleStyle.Render("Add Data Scopes") + "\n\n"
	for i, r := range m.remoteScopes {
		prefix := "  "
		if i == m.remoteCursor {
			prefix = "> "
		}
		_, exists := m.remoteExisting[r.ID]
		_, picked := m.remoteSelected[r.ID]
		marker := "[ ]"
		switch {
		case r.Group:
			marker = "   "
		case exists:
			marker = "[=]"
		case picked:
			marker = "[✓]"
		}
		content += fmt.Sprintf("%s%s %s\n", prefix, marker, r.Name)
	}
	content += "\n" + detailHelpStyle.Render("space select • enter add • esc cancel • [=] already added")
	return content
}

func (m *detailModel) conflictMessage() string {
	if m.conflict == nil {
		return ""
	}
	return m.conflict.Message
}

func (m *detailModel) conflictReferences() []string {
	if m.conflict == nil {
		return nil
	}
	return m.conflict.References()
}
