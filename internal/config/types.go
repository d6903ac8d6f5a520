package config

// Config is the root configuration structure
type Config struct {
	Settings Settings   `yaml:"settings" json:"settings"`
	Spaces   []SpaceDef `yaml:"spaces" json:"spaces"`
}

// Settings contains global application settings
type Settings struct {
	YabaiPath      string `yaml:"yabaiPath,omitempty" json:"yabaiPath,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty" json:"timeoutSeconds,omitempty"`
	Notifications  bool   `yaml:"notifications" json:"notifications"`
}

// SpaceDef declares one desired space. The order of entries defines the
// desired global label ordering. Display is the preferred display's
// arrangement index (1-based); when fewer displays are connected the engine
// clamps it to the last connected display.
type SpaceDef struct {
	Label   string `yaml:"label" json:"label"`
	Icon    string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Display int    `yaml:"display" json:"display"`
}

// Labels returns the declared labels in order.
func Labels(defs []SpaceDef) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Label
	}
	return out
}

// DefByLabel returns the definition carrying the given label, or nil.
func DefByLabel(defs []SpaceDef, label string) *SpaceDef {
	for i := range defs {
		if defs[i].Label == label {
			return &defs[i]
		}
	}
	return nil
}
