package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://routetable.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "routetable.json could not be read or is not valid JSON.",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No routetable.json was found. Defaults and environment variables are used instead.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field is out of range or has an unsupported value.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A ROUTETABLE_* environment variable could not be parsed into its field.",
		DocURL:   docBase + "E103",
	},

	// ============================================
	// Route Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryRoutes,
		Message:  "Invalid route manifest",
		Detail:   "The route manifest is not valid YAML or does not match the expected shape.",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryRoutes,
		Message:  "Unknown layout",
		Detail:   "A section names a layout that is not registered.",
		DocURL:   docBase + "E121",
	},
	"E122": {
		Category: CategoryRoutes,
		Message:  "Invalid route configuration",
		Detail:   "The route table breaks one or more structural rules: unique names, unique sibling paths, loaders on leaves only, no cycles.",
		DocURL:   docBase + "E122",
	},
	"E123": {
		Category: CategoryRoutes,
		Message:  "Route manifest not found",
		Detail:   "The configured route manifest file does not exist.",
		DocURL:   docBase + "E123",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "No route matches path",
		Detail:   "The path did not resolve to any leaf route.",
		DocURL:   docBase + "E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Unknown route name",
		Detail:   "No route with this name is registered.",
		DocURL:   docBase + "E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Invalid route parameter",
		Detail:   "Parameters must be given as name=value.",
		DocURL:   docBase + "E142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		Detail:   "routetable init was given a template name that does not exist.",
		DocURL:   docBase + "E143",
	},
	"E144": {
		Category: CategoryCLI,
		Message:  "File already exists",
		Detail:   "routetable init does not overwrite existing files.",
		DocURL:   docBase + "E144",
	},

	// ============================================
	// Runtime Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryRuntime,
		Message:  "Server failed",
		Detail:   "The HTTP server could not start or stopped unexpectedly.",
		DocURL:   docBase + "E160",
	},
	"E161": {
		Category: CategoryRuntime,
		Message:  "View load failed",
		Detail:   "The route's view loader returned an error.",
		DocURL:   docBase + "E161",
	},
	"E162": {
		Category: CategoryRuntime,
		Message:  "Chunk source unavailable",
		Detail:   "View chunks could not be read from the configured directory or bucket.",
		DocURL:   docBase + "E162",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
