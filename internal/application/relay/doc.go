// Package relay implements the trigger flow of the webhook server.
//
// A trigger is handled in a fixed sequence:
//   - Authenticate the caller's bearer token against the shared secret
//   - Decode the request body, applying defaults
//   - Fetch the outbound credential (soft failure)
//   - Resolve the pipeline id and derive the run name
//   - Create the run on Kubeflow Pipelines and map the result
//
// The package holds no state between requests.
package relay
