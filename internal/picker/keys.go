package picker

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds key names to the picker's logical actions.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	ToggleMode key.Binding
	Accept     key.Binding
	Execute    key.Binding
	Cancel     key.Binding
	Delete     key.Binding
	Clear      key.Binding
}

var defaultKeys = map[string][]string{
	"down":        {"down", "ctrl+n", "ctrl+j"},
	"up":          {"up", "ctrl+p", "ctrl+k"},
	"toggle_mode": {"tab"},
	"accept":      {"enter"},
	"execute":     {"ctrl+e"},
	"cancel":      {"esc", "ctrl+c", "ctrl+g"},
	"delete":      {"backspace", "ctrl+h"},
	"clear":       {"ctrl+u"},
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(nil)
}

// NewKeyMap returns the default bindings with any action in overrides
// rebound to the given keys. Unknown actions and empty key lists are ignored.
func NewKeyMap(overrides map[string][]string) KeyMap {
	keys := func(action string) []string {
		if ks := overrides[action]; len(ks) > 0 {
			return ks
		}
		return defaultKeys[action]
	}
	bind := func(action, desc string) key.Binding {
		ks := keys(action)
		return key.NewBinding(key.WithKeys(ks...), key.WithHelp(ks[0], desc))
	}

	return KeyMap{
		Up:         bind("up", "up"),
		Down:       bind("down", "down"),
		ToggleMode: bind("toggle_mode", "edit/exec"),
		Accept:     bind("accept", "accept"),
		Execute:    bind("execute", "run"),
		Cancel:     bind("cancel", "cancel"),
		Delete:     bind("delete", "delete"),
		Clear:      bind("clear", "clear"),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Execute, k.ToggleMode, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Accept, k.Execute, k.ToggleMode},
		{k.Delete, k.Clear, k.Cancel},
	}
}
