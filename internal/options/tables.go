package options

// DefaultServerTable returns the schema for server-scope options (spec
// §4.7; names chosen to match the option categories the rest of
// SPEC_FULL.md's components read: escape-time for the parser, a couple
// of global toggles referenced by the client dispatch loop).
func DefaultServerTable() Table {
	return Table{
		"escape-time":        &Entry{Name: "escape-time", Type: TypeNumber, Default: 500, Min: 0, Max: 10000},
		"exit-empty":         &Entry{Name: "exit-empty", Type: TypeFlag, Default: true},
		"focus-events":       &Entry{Name: "focus-events", Type: TypeFlag, Default: false},
		"set-clipboard":      &Entry{Name: "set-clipboard", Type: TypeChoice, Default: "external", Choices: []string{"off", "external", "on"}},
		"buffer-limit":       &Entry{Name: "buffer-limit", Type: TypeNumber, Default: 50, Min: 1},
		"terminal-overrides": &Entry{Name: "terminal-overrides", Type: TypeString, Array: true},
	}
}

// DefaultSessionTable returns the schema for session-scope options.
func DefaultSessionTable() Table {
	return Table{
		"base-index":           &Entry{Name: "base-index", Type: TypeNumber, Default: 0, Min: 0},
		"destroy-unattached":   &Entry{Name: "destroy-unattached", Type: TypeFlag, Default: false},
		"history-limit":        &Entry{Name: "history-limit", Type: TypeNumber, Default: 2000, Min: 0, Max: 1000000},
		"status":               &Entry{Name: "status", Type: TypeChoice, Default: "on", Choices: []string{"off", "on", "2", "3", "4", "5"}},
		"status-interval":      &Entry{Name: "status-interval", Type: TypeNumber, Default: 15, Min: 0},
		"status-style":         &Entry{Name: "status-style", Type: TypeStyle, Default: Style{}},
		"prefix":               &Entry{Name: "prefix", Type: TypeKey, Default: "C-b"},
		"renumber-windows":     &Entry{Name: "renumber-windows", Type: TypeFlag, Default: false},
		"default-terminal":     &Entry{Name: "default-terminal", Type: TypeString, Default: "xterm-256color"},
	}
}

// DefaultWindowTable returns the schema for window-scope options.
func DefaultWindowTable() Table {
	return Table{
		"aggressive-resize":  &Entry{Name: "aggressive-resize", Type: TypeFlag, Default: false},
		"automatic-rename":   &Entry{Name: "automatic-rename", Type: TypeFlag, Default: true},
		"main-pane-width":    &Entry{Name: "main-pane-width", Type: TypeNumber, Default: 80, Min: 1},
		"main-pane-height":   &Entry{Name: "main-pane-height", Type: TypeNumber, Default: 24, Min: 1},
		"window-style":       &Entry{Name: "window-style", Type: TypeStyle, Default: Style{}},
		"monitor-activity":   &Entry{Name: "monitor-activity", Type: TypeFlag, Default: false},
		"monitor-bell":       &Entry{Name: "monitor-bell", Type: TypeFlag, Default: true},
		"monitor-silence":    &Entry{Name: "monitor-silence", Type: TypeNumber, Default: 0, Min: 0},
		"other-pane-height":  &Entry{Name: "other-pane-height", Type: TypeNumber, Default: 0, Min: 0},
		"pane-border-status": &Entry{Name: "pane-border-status", Type: TypeChoice, Default: "off", Choices: []string{"off", "top", "bottom"}},
		"pane-border-style":  &Entry{Name: "pane-border-style", Type: TypeStyle, Default: Style{}},
		"synchronize-panes":  &Entry{Name: "synchronize-panes", Type: TypeFlag, Default: false},
	}
}

// DefaultPaneTable returns the schema for pane-scope options.
func DefaultPaneTable() Table {
	return Table{
		"allow-rename":       &Entry{Name: "allow-rename", Type: TypeFlag, Default: false},
		"remain-on-exit":     &Entry{Name: "remain-on-exit", Type: TypeChoice, Default: "off", Choices: []string{"off", "on", "failed"}},
		"synchronize-input":  &Entry{Name: "synchronize-input", Type: TypeFlag, Default: false},
		"word-separators":    &Entry{Name: "word-separators", Type: TypeString, Default: " -_@"},
		"cursor-colour":      &Entry{Name: "cursor-colour", Type: TypeColour, Default: Colour{}},
	}
}
