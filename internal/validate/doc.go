// Package validate keeps instance names honest: every block that refers to a
// named hardware instance is checked against the instance directory, and a
// warning is derived when the instance is not declared. Names declared by
// more than one configuration block, and distinct names that become the same
// sketch identifier, are flagged on the usage and the configuration blocks
// alike. Nothing is fixed silently.
//
// Warnings are owned here. Blocks carry no warning state of their own; the
// rendering layer asks the Engine through WarningText.
package validate
