// Package config defines the format-agnostic model of a saved workspace, along
// with the Loader and Writer interfaces format packages implement.
//
// A Model is what a session is loaded from and saved to. Concrete formats,
// such as HCL, are provided in separate packages.
package config
