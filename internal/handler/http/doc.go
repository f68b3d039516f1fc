// Package http implements the REST transport of the verification server.
//
// It wires chi routes for the public key, wallet login, request lifecycle,
// metadata decryption and admin review endpoints. Tracing, access logging,
// compression, CORS, timeouts and bearer authentication are applied here
// before requests reach the service layer.
package http
