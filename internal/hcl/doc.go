// Package hcl provides the concrete HCL implementation of the workspace
// Loader and Writer interfaces defined in the `config` package.
//
// A workspace file looks like this:
//
//	workspace {
//	  board = "uno"
//	}
//
//	stack {
//	  block "ultrasonic_config" "c1" {
//	    NAME = "sensor1"
//	    PIN  = "7"
//	  }
//	}
//
// Every `stack` is one top-level chain. Attributes of a `block` are its field
// values in declaration order; `input "NAME"` blocks hold the blocks plugged
// into that input.
package hcl
