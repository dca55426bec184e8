/*
Package contractmock implements the external collaborator spec §6 calls
the contract mock: an in-memory registry, simulating an on-chain
contract, that assigns a numeric cluster index to a (owner_pk, commit)
pair and answers lookups against it afterward. It is not part of the
core data-availability engine — a real deployment would replace it with
an actual smart contract — but is carried here as the integration-testable
stand-in spec documents.

State is persisted to data/contract_mock_state.bin as a gob dump,
reloaded on startup so a restarted contract mock doesn't forget
previously assigned cluster ids.
*/
package contractmock
