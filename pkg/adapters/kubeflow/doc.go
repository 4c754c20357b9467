// Package kubeflow provides a minimal client for the Kubeflow Pipelines
// v2beta1 REST API.
//
// Only run creation is implemented:
//
//	POST <endpoint>/apis/v2beta1/runs
package kubeflow
