// Package openapi derives wizard definitions from OpenAPI component schemas,
// so a form described once in an API contract can be filled step by step.
package openapi
