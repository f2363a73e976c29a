// Package internal contains the core implementation packages for bifrostdocs.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: Configuration loading, defaults, validation and JSON schema
//   - errors: Structured errors, HTTP status mapping and the error overlay
//   - logging: Structured logging on slog with colored terminal output
//   - view: Parsed rendered markup and its code blocks
//   - lifecycle: Mount state and the highlight-once behavior every page shares
//   - highlight: Syntax highlighting of code blocks
//   - nav: Active documentation section store with change events
//   - pages: The documentation page components and their code samples
//   - renderer: Mounting pages and firing the stable-render hook
//   - routing: Route tables, child routing modules and chi mounting
//   - registry: Catalog of routed pages with change events
//   - di: Service container backing the application providers
//   - shell: The application module, layout, navigation and bootstrap
//   - server: HTTP server, htmx navigation, WebSocket live updates
//   - watcher: Debounced sample file watching for development mode
//   - version: Build information
//
// # Inter-Package Communication
//
//   - shell bootstraps the providers and registers every route in the registry
//   - server mounts a fresh page per request through the renderer
//   - pages mark their section active in the nav store on initialization
//   - server forwards nav changes and sample reloads to WebSocket clients
//   - watcher reports edited samples, which the registry maps back to pages
package internal
