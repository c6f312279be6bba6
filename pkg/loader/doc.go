// Package loader exposes the public contracts for reading Aspect Models.
// Sources identify where a model lives (URN, file, stream or URL); the
// implementation lives under internal/loader and is constructed through the
// root aspectmodel package.
package loader
