// Package service implements the application's business operations,
// orchestrating the stores and the generation boundary on behalf of the
// HTTP handlers.
package service
