package api

// Connection is a plugin-backed data connection. It is owned by the server's
// connection store; the CLI only reads it and requests deletion.
type Connection struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Plugin string `json:"plugin,omitempty"`
	Status string `json:"status,omitempty"`
}

// Blueprint links a data scope to a project's collection plan.
type Blueprint struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProjectName string `json:"projectName,omitempty"`
}

// DataScope is one unit of data collected under a connection, identified by
// a plugin-specific scope id. ScopeConfigID is nullable; nil means no scope
// config is associated.
type DataScope struct {
	ID              string      `json:"scopeId"`
	Name            string      `json:"scopeName"`
	FullName        string      `json:"fullName,omitempty"`
	ConnectionID    int64       `json:"connectionId"`
	ScopeConfigID   *int64      `json:"scopeConfigId"`
	ScopeConfigName string      `json:"scopeConfigName,omitempty"`
	Blueprints      []Blueprint `json:"blueprints,omitempty"`
}

// ProjectNames returns the unique project names of the blueprints linked to
// the scope, in first-seen order.
func (s *DataScope) ProjectNames() []string {
	seen := make(map[string]struct{}, len(s.Blueprints))
	names := make([]string, 0, len(s.Blueprints))
	for i := range s.Blueprints {
		name := s.Blueprints[i].ProjectName
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ScopePage is one page of scopes; Count is the server-side total.
type ScopePage struct {
	Scopes []DataScope `json:"scopes"`
	Count  int         `json:"count"`
}

// ScopeConfig is a transformation profile that scopes may reference.
type ScopeConfig struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ConnectionID int64  `json:"connectionId,omitempty"`
}

// RemoteScope is a scope candidate reported by the plugin's upstream, used
// by the create-scope flow. Group entries are containers, not selectable.
type RemoteScope struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName,omitempty"`
	ParentID string `json:"parentId,omitempty"`
	Group    bool   `json:"group,omitempty"`
}

// RemoteScopePage is one page of remote scopes.
type RemoteScopePage struct {
	Children      []RemoteScope `json:"children"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// ListScopesOptions controls scope listing.
type ListScopesOptions struct {
	Page       int
	PageSize   int
	Blueprints bool
}
