// Package handler assembles typed HTTP handlers from a Pipeline of reusable
// steps: bearer token authentication, JSON deserialization, request
// validation, the endpoint function itself, response processing and JSON
// serialization. Endpoints only implement the logic that is unique to them,
// and return a typed response or an error.
//
// Errors are rendered as {"error": {"message": "..."}}, after being sanitized
// according to the pipeline's ErrorLevel.
package handler
