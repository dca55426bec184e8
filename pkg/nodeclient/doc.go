/*
Package nodeclient is an HTTP client for the storage/validator node API
(pkg/api): GET /info, GET /clusters/{cluster_id}, and the multipart POST
that delivers an UploadMessage. Used by the upload/download CLIs for the
client-facing path and by the validator's own upload handler to relay
shards to storage nodes.
*/
package nodeclient
