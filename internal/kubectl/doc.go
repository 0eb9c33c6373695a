// Package kubectl implements the cluster command executor: it turns a
// caller-supplied cluster credential and a resource descriptor into a
// single kubectl invocation and a structured result.
//
// The executor holds no state between calls. Each Execute call validates
// its inputs, materializes the credential into an ephemeral kubeconfig
// file, optionally runs a connectivity probe, runs the primary action,
// classifies the outcome, and removes the kubeconfig on every exit path.
// The bearer token never reaches the process log output; callers that
// need an audit reference use Credential.Redacted.
package kubectl
