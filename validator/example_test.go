package validator_test

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/apivet/apivet/validator"
)

// ExampleValidator_Validate demonstrates basic validation of an OpenAPI document
func ExampleValidator_Validate() {
	v := validator.New()
	testFile := filepath.Join("testdata", "petstore-3.1.yaml")
	result, err := v.Validate(testFile)
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}
	fmt.Printf("Valid: %v\n", result.Valid)
	fmt.Printf("Version: %s\n", result.Version)
	fmt.Printf("Errors: %d\n", result.ErrorCount)
	fmt.Printf("Warnings: %d\n", result.WarningCount)
}

// ExampleValidator_Validate_strictMode demonstrates validation with strict mode enabled
func ExampleValidator_Validate_strictMode() {
	v := validator.New()
	v.StrictMode = true
	testFile := filepath.Join("testdata", "petstore-3.1.yaml")
	result, err := v.Validate(testFile)
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}
	fmt.Printf("Valid: %v\n", result.Valid)
	fmt.Printf("Errors: %d\n", result.ErrorCount)
	fmt.Printf("Warnings: %d\n", result.WarningCount)
}

// ExampleValidateWithOptions demonstrates validating in-memory content with
// the functional options API
func ExampleValidateWithOptions() {
	doc := []byte(`openapi: 3.1.0
info:
  title: Minimal API
  version: 1.0.0
paths: {}
`)
	result, err := validator.ValidateWithOptions(
		validator.WithContent(doc),
		validator.WithIncludeWarnings(false),
	)
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}
	fmt.Printf("Valid: %v\n", result.Valid)
	for _, d := range result.Diagnostics {
		fmt.Printf("%s %s: %s\n", d.Severity, d.Pointer, d.Message)
	}
}
