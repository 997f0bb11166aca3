package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/datalakehq/lakectl/cli/api"
)

const noScopeConfigLabel = "None"

// NewScopeTable creates the data-scope table used by the connection detail
// page. The first column marks row selection for bulk association.
func NewScopeTable(height int) table.Model {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Data Scope", Width: 32},
		{Title: "Projects", Width: 28},
		{Title: "Scope Config", Width: 20},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// BuildScopeRows converts scopes into table rows, marking selected ids.
func BuildScopeRows(scopes []api.DataScope, selected map[string]struct{}) []table.Row {
	rows := make([]table.Row, len(scopes))
	for i := range scopes {
		scope := &scopes[i]
		marker := " "
		if _, ok := selected[scope.ID]; ok {
			marker = "✓"
		}
		configName := scope.ScopeConfigName
		if configName == "" {
			configName = noScopeConfigLabel
		}
		projects := strings.Join(scope.ProjectNames(), ", ")
		if projects == "" {
			projects = "-"
		}
		rows[i] = table.Row{marker, scope.Name, projects, configName}
	}
	return rows
}
