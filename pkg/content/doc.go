// Package content provides the content delivery adapter: the single
// capability of resolving content for request paths not claimed by a
// registered route.
//
// Two mutually exclusive implementations sit behind the Adapter
// interface. Static serves prebuilt assets with a catch-all fallback
// to the application shell; Dev renders the shell through the live
// transform pipeline with cache busting and SSE-driven reloads. The
// New factory picks one implementation at startup; if the dev
// pipeline cannot initialize, it logs the failure and falls back to
// Static rather than crashing the process.
package content
