package config

// DefaultOutputFile is the file written next to the executable when no output path is given.
const DefaultOutputFile = "ReleaseNotes.html"

// DefaultDateFormat is the Go time layout used for commit dates.
const DefaultDateFormat = "2006-01-02 15:04"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# releasenotes configuration
# Place in .releasenotes.yml at the repository root or ~/.config/releasenotes/config.yml

# Selection
exclude_merges: true                  # Drop merge commits from the list
legacy_tag_fallback: false            # Use the third tag (descending) as end boundary when no end commit is given
fail_on_empty: false                  # Exit with code 4 when the range is empty
checkout: true                        # Check the branch out while reading history

# Rendering
output_file: ReleaseNotes.html        # File name written next to the executable
template: ""                          # Custom html/template path (empty = built-in)
markdown: false                       # Render commit bodies as Markdown
date_format: "2006-01-02 15:04"       # Go time layout for commit dates

# Output
log_level: info                       # debug | info | warn | error
log_format: text                      # text | json
no_color: false                       # Disable ANSI colors
show_logo: true                       # Print the banner on terminals
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"exclude_merges": true,
		"output_file":    DefaultOutputFile,
		"template":       "",
		"markdown":       false,
		"date_format":    DefaultDateFormat,
		// checkout: the branch is checked out and the previous HEAD restored afterwards.
		// false reads history straight from the object store.
		"checkout": true,
		// legacy_tag_fallback: positional end boundary kept for old pipelines.
		// Off by default because it depends on tag naming.
		"legacy_tag_fallback": false,
		"fail_on_empty":       false,
		"log_level":           "info",
		"log_format":          "text",
		"no_color":            false,
		"show_logo":           true,
	}
}
