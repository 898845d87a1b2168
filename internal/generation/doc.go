// Package generation defines the boundary between the application core and
// the external text-generation service. It owns the Completer interface that
// platform packages implement, the prompt templates sent upstream, and the
// normalizer that converts the service's untrusted free-form replies into
// validated task drafts and assistance reports.
package generation
