// Package social implements the sharesocial REST backend: user registration
// and login with stateless JWT bearer credentials, profile documents with
// embedded experience/education/subscriber collections, and posts with
// embedded likes.
//
// Authentication:
//   - TokenService signs and validates HS256 JWTs carrying the user id. Tokens
//     are verified by signature and expiry on every request; nothing is kept
//     server side.
//   - The jwtware middleware gates private routes and stashes the validated
//     claims in the router context for handlers to consume.
//
// Ownership:
//   - Update/delete-by-id routes load the target document and compare its
//     owning user id against the authenticated identity before mutating.
//     Subresource routes (experience, education, likes, subscriptions) operate
//     on the caller's own document, so ownership there is implicit.
//
// Every response uses the `{success, msg?, data?}` envelope the original API
// clients expect.
package social
