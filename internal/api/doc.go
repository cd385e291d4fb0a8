// Package api exposes the calendar operations as a JSON REST surface. The
// authenticated user arrives in the X-Daybook-User header; the provider is
// the first path segment, so the same routes serve every linked provider.
package api
