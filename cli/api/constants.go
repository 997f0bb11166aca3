package api

// ScopeConfigNone is the sentinel accepted wherever a scope-config id is
// expected; it clears the association (writes a null scopeConfigId).
const ScopeConfigNone = "none"
