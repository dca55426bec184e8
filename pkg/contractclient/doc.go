/*
Package contractclient is an HTTP client for the contract mock: the
external collaborator (simulating an on-chain registry) that assigns a
numeric cluster index and owner identity to a commitment, and later
answers lookups against that record.

Modeled on the HTTP-checker idiom in pkg/health (a plain *http.Client
wrapper with a fixed timeout), reused here for a JSON request/response
client instead of a health probe.
*/
package contractclient
