// Package template defines the template rendering seam used by the admin
// service. Engines live in subpackages.
package template
