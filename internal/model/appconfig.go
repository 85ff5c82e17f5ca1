package model

// MaxRecentProjects bounds AppConfig.RecentProjects.
const MaxRecentProjects = 10

// AppConfig holds application-wide preferences.
type AppConfig struct {
	AutoSaveSeconds int      `json:"auto_save_seconds" toml:"auto_save_seconds"` // 0 = disabled
	AutoSavePath    string   `json:"auto_save_path" toml:"auto_save_path"`       // empty = config dir
	RecentProjects  []string `json:"recent_projects" toml:"recent_projects"`
	Theme           string   `json:"theme" toml:"theme"` // "light", "dark", "system"
	LogLevel        string   `json:"log_level" toml:"log_level"`
	RackNamePrefix  string   `json:"rack_name_prefix" toml:"rack_name_prefix"`

	// CanvasWidth wraps auto-placed racks onto a new row. 0 disables wrapping.
	CanvasWidth float64 `json:"canvas_width" toml:"canvas_width"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		AutoSaveSeconds: 10,
		RecentProjects:  []string{},
		Theme:           "system",
		LogLevel:        "info",
		RackNamePrefix:  "Rack",
	}
}

// AddRecentProject moves path to the front of the recent list.
func (c *AppConfig) AddRecentProject(path string) {
	list := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			list = append(list, p)
		}
	}
	if len(list) > MaxRecentProjects {
		list = list[:MaxRecentProjects]
	}
	c.RecentProjects = list
}
