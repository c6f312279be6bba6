// Package template defines the template engine seam used by text-producing
// renderers. The pongo subpackage provides the implementation.
package template
