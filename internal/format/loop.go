package format

import "strings"

// tryLoop implements spec §4.8's "S / W / P / L / N | loop over sessions /
// windows / panes / clients; name-exists check". "X:template" loops over
// every live object of that kind, rebinding the tree to each one in turn
// and joining the expanded template bodies with "\n"; W and P loop scoped
// to the tree's current session/window respectively, since that is the
// only sensible scope for "the windows of this session" / "the panes of
// this window" listings the format table's own keys (window_index,
// pane_index, ...) are meant to be read against. "N/<name>" is the
// name-exists check, resolved against live sessions (the one scope spec.md
// names a session by in its own worked examples).
func tryLoop(body string, tree *Tree, depth int) (string, bool, error) {
	if len(body) < 2 {
		return "", false, nil
	}
	kind := body[0]
	switch kind {
	case 'S', 'W', 'P', 'L':
		if body[1] != ':' {
			return "", false, nil
		}
		tmpl := body[2:]
		return loopOver(kind, tmpl, tree, depth)
	case 'N':
		if body[1] != '/' {
			return "", false, nil
		}
		name := body[2:]
		if tree.Graph == nil {
			return "0", true, nil
		}
		for _, s := range tree.Graph.Sessions() {
			if s.Name == name {
				return "1", true, nil
			}
		}
		return "0", true, nil
	}
	return "", false, nil
}

func loopOver(kind byte, tmpl string, tree *Tree, depth int) (string, bool, error) {
	var pieces []string
	switch kind {
	case 'S':
		if tree.Graph == nil {
			return "", true, nil
		}
		for _, s := range tree.Graph.Sessions() {
			out, _, err := expand(tmpl, tree.withSession(s), depth)
			if err != nil {
				return "", true, err
			}
			pieces = append(pieces, out)
		}
	case 'W':
		if tree.Session == nil {
			return "", true, nil
		}
		for _, wl := range tree.Session.Winlinks() {
			out, _, err := expand(tmpl, tree.withWindow(wl.Window), depth)
			if err != nil {
				return "", true, err
			}
			pieces = append(pieces, out)
		}
	case 'P':
		if tree.Window == nil {
			return "", true, nil
		}
		for _, p := range tree.Window.Panes() {
			out, _, err := expand(tmpl, tree.withPane(p), depth)
			if err != nil {
				return "", true, err
			}
			pieces = append(pieces, out)
		}
	case 'L':
		if tree.Graph == nil {
			return "", true, nil
		}
		for _, c := range tree.Graph.Clients() {
			out, _, err := expand(tmpl, tree.withClient(c), depth)
			if err != nil {
				return "", true, err
			}
			pieces = append(pieces, out)
		}
	}
	return strings.Join(pieces, "\n"), true, nil
}
