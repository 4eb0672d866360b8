// Package samples registers the built-in datasets with the core registry.
// Import this package to ensure all samples are registered.
package samples

// Each sample file uses init() to register its dataset.
