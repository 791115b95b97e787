// Package datagen produces randomized request payloads for behavioral
// tests.
//
// Generation is declarative: a Registry maps generator names to functions,
// and Fill builds a payload from an explicit field-to-generator mapping. There
// is no reflection over target types; a field gets random data only because
// the test said so.
//
//	reg := datagen.NewRegistry(42)
//	payload, err := reg.Fill(map[string]string{
//	    "email":    "email",
//	    "fullName": "name",
//	    "quantity": "int",
//	})
package datagen
