// Package codegen compiles a workspace into Arduino sketch text.
//
// A Generator walks every top-level block, asks each block's descriptor for
// its code and collects the fragments descriptors add into fixed, ordered
// buckets. Rendering concatenates the buckets: includes, globals, objects, a
// synthesized setup(), a synthesized loop() and free functions.
//
// Generation never fails as a whole. A descriptor that errors or panics is
// replaced by a placeholder comment and recorded as a Fault; type mismatches
// and unresolved instance references are reported but do not stop the pass.
package codegen
