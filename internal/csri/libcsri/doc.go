// Package libcsri registers the renderers of the C libcsri runtime.
//
// Needs cgo, pkg-config csri and building with -tags csri. Without the
// tag the package is empty and importing it does nothing.
package libcsri
