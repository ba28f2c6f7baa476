package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Render errors (E101-E119)

	"E101": {
		Category: CategoryRender,
		Message:  "Unrecognized virtual node",
	},
	"E102": {
		Category: CategoryRender,
		Message:  "Unresolved component in static output",
	},
	"E103": {
		Category: CategoryRender,
		Message:  "Component render failed",
	},
	"E104": {
		Category: CategoryRender,
		Message:  "Render pass aborted",
	},
	"E105": {
		Category: CategoryIdentity,
		Message:  "Component identity could not be recovered",
	},
	"E106": {
		Category: CategoryRender,
		Message:  "Instance is not mounted",
	},

	// Config errors (E120-E149)

	"E120": {
		Category: CategoryConfig,
		Message:  "Failed to read configuration",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Failed to parse configuration",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},

	// Tree file errors (E150-E159)

	"E150": {
		Category: CategoryTree,
		Message:  "Failed to parse tree file",
	},
	"E151": {
		Category: CategoryTree,
		Message:  "Unknown component in tree file",
	},
	"E152": {
		Category: CategoryTree,
		Message:  "Invalid tree node",
	},

	// Export errors (E160-E169)

	"E160": {
		Category: CategoryExport,
		Message:  "Static export failed",
	},

	// CLI errors (E170-E179)

	"E170": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
