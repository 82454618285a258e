// Package identity resolves who is making a request.
//
// Porch accounts are GitHub users. The Importer exchanges a GitHub access
// token for the user's profile and creates or refreshes the matching
// Account. Authenticated requests carry an Identity in their context.
package identity
