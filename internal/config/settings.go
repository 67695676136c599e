package config

// Recognised settings keys.
const (
	KeyShowTone         = "showTone"
	KeyShowIntensity    = "showIntensity"
	KeyShowNPCTooltips  = "showNPCTooltips"
	KeyShowProtestSigns = "showProtestSigns"
	KeySoundEnabled     = "soundEnabled"
)

// Settings are the player-facing toggles. They gate what collaborators are
// shown or asked to do and never change simulation arithmetic.
type Settings struct {
	ShowTone         bool `yaml:"show_tone" json:"showTone"`                 // Tone label on posts
	ShowIntensity    bool `yaml:"show_intensity" json:"showIntensity"`       // Intensity label on posts
	ShowNPCTooltips  bool `yaml:"show_npc_tooltips" json:"showNPCTooltips"`  // Personality detail on citizens
	ShowProtestSigns bool `yaml:"show_protest_signs" json:"showProtestSigns"` // Sign over protesting citizens
	SoundEnabled     bool `yaml:"sound_enabled" json:"soundEnabled"`         // Audio cues
}

// DefaultSettings has every toggle on.
func DefaultSettings() Settings {
	return Settings{
		ShowTone:         true,
		ShowIntensity:    true,
		ShowNPCTooltips:  true,
		ShowProtestSigns: true,
		SoundEnabled:     true,
	}
}

// Merge applies recognised keys from a saved record over s. Unknown keys
// are ignored and absent keys keep their current value.
func (s Settings) Merge(saved map[string]bool) Settings {
	for key, v := range saved {
		switch key {
		case KeyShowTone:
			s.ShowTone = v
		case KeyShowIntensity:
			s.ShowIntensity = v
		case KeyShowNPCTooltips:
			s.ShowNPCTooltips = v
		case KeyShowProtestSigns:
			s.ShowProtestSigns = v
		case KeySoundEnabled:
			s.SoundEnabled = v
		}
	}
	return s
}

// Map returns the settings as a saved record.
func (s Settings) Map() map[string]bool {
	return map[string]bool{
		KeyShowTone:         s.ShowTone,
		KeyShowIntensity:    s.ShowIntensity,
		KeyShowNPCTooltips:  s.ShowNPCTooltips,
		KeyShowProtestSigns: s.ShowProtestSigns,
		KeySoundEnabled:     s.SoundEnabled,
	}
}
