// Package partasplanned holds the Go binding of the PartAsPlanned aspect,
// generated from the fixture model with mock helpers enabled.
package partasplanned

//go:generate go run ../../../scripts/generate-static-meta -models ../../../pkg/testsupport/testdata/models -urn urn:samm:io.catenax.part_as_planned:2.0.0#PartAsPlanned -mock -out part_as_planned.go
