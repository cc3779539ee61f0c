// Package aura provides a wrapper around the Neo4j Aura API.
package aura
