// Package commands wires the aspectgen command line: loading Aspect Models
// by URN, file, URL or stdin and turning them into payloads, documentation,
// OpenAPI documents, Go code and mock servers.
package commands
