package config

// Mode is the server mode, resolved once at startup and immutable for
// the process lifetime. All content-delivery decisions read this value
// but never recompute it.
type Mode string

const (
	// Development selects the live transform pipeline for content
	// delivery (subject to DevPipelineWanted).
	Development Mode = "development"

	// Production selects static asset serving, security headers,
	// compression, and rate limiting.
	Production Mode = "production"
)

// Environment variables read by the mode selector.
const (
	// EnvAppEnv is the production flag and development marker:
	// "production" forces production mode, "development" is the
	// secondary marker required to activate the dev pipeline.
	EnvAppEnv = "PERCH_ENV"

	// EnvDevHost identifies a development host. Its absence resolves
	// mode to Production regardless of other signals.
	EnvDevHost = "PERCH_DEV_HOST"

	// EnvPort is the standard bind port override.
	EnvPort = "PORT"
)

// ProductionPort is the well-known production port. Binding it forces
// production mode even on a development host.
const ProductionPort = 80

// GetenvFunc looks up an environment variable, returning "" when the
// variable is unset. os.Getenv satisfies it.
type GetenvFunc func(key string) string

// DetectMode resolves the server mode from environment signals and the
// bound port. It is a pure function: identical inputs always yield the
// same mode, and the absence of all signals resolves to Production.
//
// Production wins when any of the following hold:
//   - the explicit production flag is set (PERCH_ENV=production)
//   - the bound port is the well-known production port
//   - no development host identity is present (PERCH_DEV_HOST unset)
func DetectMode(getenv GetenvFunc, port int) Mode {
	if getenv(EnvAppEnv) == string(Production) {
		return Production
	}
	if port == ProductionPort {
		return Production
	}
	if getenv(EnvDevHost) == "" {
		return Production
	}
	return Development
}

// DevPipelineWanted reports whether the development transform pipeline
// should be activated. Running on a development host and wanting a
// development run are independent facts: the pipeline requires both
// Development mode and the explicit development marker.
func DevPipelineWanted(mode Mode, getenv GetenvFunc) bool {
	return mode == Development && getenv(EnvAppEnv) == string(Development)
}
