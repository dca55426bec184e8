/*
Package config loads the parameters shared by the storage node, validator,
and client binaries: the erasure-coding/commitment matrix
shape (StorageConfig) and each binary's network/identity surface
(NodeConfig). Values come from an optional YAML file (gopkg.in/yaml.v3),
are overridden by a same-named
upper-snake-case environment variable, and are overridden again by any
CLI flag the caller explicitly set — flags have the final word.

# Layering

	file defaults  →  environment variables  →  CLI flags

Load doesn't open a file unless --config (or SHARDMESH_CONFIG) names one;
every field always has a workable zero-config default.
*/
package config
